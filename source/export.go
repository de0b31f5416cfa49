package source

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Trashbot7274/lunascope/annot"
)

var exportHeader = []string{"class", "label", "start", "stop", "duration"}

// ExportEvents writes events to path as XLSX when the extension is .xlsx and
// as CSV otherwise. NaN fields are written as empty cells.
func ExportEvents(path string, events []annot.Event) error {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return exportXLSX(path, events)
	}
	return exportCSV(path, events)
}

func exportCSV(path string, events []annot.Event) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(exportHeader); err != nil {
		f.Close()
		return err
	}
	for _, e := range events {
		if err := w.Write([]string{e.Class, e.Label, seconds(e.Start), seconds(e.Stop()), seconds(e.Duration)}); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write export: %w", err)
	}
	return f.Close()
}

func exportXLSX(path string, events []annot.Event) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := make([]interface{}, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, e := range events {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{e.Class, e.Label, number(e.Start), number(e.Stop()), number(e.Duration)}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save export: %w", err)
	}
	return nil
}

func seconds(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// number leaves NaN cells blank in the sheet.
func number(v float64) interface{} {
	if math.IsNaN(v) {
		return nil
	}
	return v
}
