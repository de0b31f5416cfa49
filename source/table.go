package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"github.com/xuri/excelize/v2"

	"github.com/Trashbot7274/lunascope/logging"
	"github.com/Trashbot7274/lunascope/selection"
)

// Options controls table parsing.
type Options struct {
	// JSONPath selects the array of row objects inside a JSON document.
	// Empty means the document itself is the array.
	JSONPath string
	// Sheet names the XLSX sheet; empty means the first one.
	Sheet string
}

// LoadTable reads a table from a CSV, TSV, XLSX or JSON file, optionally xz
// or gzip compressed. The first row (or the object keys, for JSON) names the
// columns.
func LoadTable(path string, opts Options) (*selection.StaticTable, error) {
	r, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open table: %w", err)
	}
	defer r.Close()

	var (
		header []string
		rows   [][]string
	)
	switch format := formatOf(path); format {
	case "csv":
		header, rows, err = readDelimited(r, ',')
	case "tsv", "txt":
		header, rows, err = readDelimited(r, '\t')
	case "xlsx":
		header, rows, err = readXLSX(r, opts.Sheet)
	case "json":
		header, rows, err = readJSON(r, opts.JSONPath)
	default:
		return nil, fmt.Errorf("unsupported table format %q for %s", format, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read table %s: %w", path, err)
	}
	logging.Debugf("loaded %s: %d columns, %d rows", path, len(header), len(rows))
	return selection.NewStaticTable(header, rows), nil
}

func readDelimited(r io.Reader, comma rune) ([]string, [][]string, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("no header row")
	}
	return normalizeHeader(records[0]), records[1:], nil
}

func readXLSX(r io.Reader, sheet string) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil, fmt.Errorf("no sheets found in XLSX file")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("no rows found in sheet %q", sheet)
	}
	return normalizeHeader(rows[0]), rows[1:], nil
}

func readJSON(r io.Reader, path string) ([]string, [][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}
	doc, err := oj.Parse(data)
	if err != nil {
		return nil, nil, err
	}
	if path != "" {
		x, err := jp.ParseString(path)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid JSONPath expression %q: %w", path, err)
		}
		results := x.Get(doc)
		if len(results) == 0 {
			return nil, nil, fmt.Errorf("JSONPath expression %q returned no results", path)
		}
		doc = results[0]
	}
	arr, ok := doc.([]any)
	if !ok {
		return nil, nil, fmt.Errorf("expected an array of objects, got %T", doc)
	}

	var header []string
	seen := map[string]int{}
	objects := make([]map[string]any, 0, len(arr))
	for i, item := range arr {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, nil, fmt.Errorf("element %d is %T, not an object", i, item)
		}
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if _, ok := seen[k]; !ok {
				seen[k] = len(header)
				header = append(header, k)
			}
		}
		objects = append(objects, obj)
	}

	rows := make([][]string, len(objects))
	for i, obj := range objects {
		row := make([]string, len(header))
		for k, v := range obj {
			row[seen[k]] = jsonCell(v)
		}
		rows[i] = row
	}
	return header, rows, nil
}

func jsonCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	}
	return oj.JSON(v)
}

// normalizeHeader trims names and fills blanks with col_N.
func normalizeHeader(h []string) []string {
	out := make([]string, len(h))
	for i, name := range h {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if name == "" {
			name = fmt.Sprintf("col_%d", i+1)
		}
		out[i] = name
	}
	return out
}
