package source

import (
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ulikunitz/xz"

	"github.com/Trashbot7274/lunascope/annot"
	"github.com/Trashbot7274/lunascope/record"
	"github.com/Trashbot7274/lunascope/selection"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func writeXZ(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w, err := xz.NewWriter(f)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}

func cells(tbl selection.Table) [][]string {
	var out [][]string
	for r := 0; r < tbl.RowCount(); r++ {
		var row []string
		for c := range tbl.ColumnNames() {
			row = append(row, tbl.ValueAt(r, c))
		}
		out = append(out, row)
	}
	return out
}

func TestLoadDelimited(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "a.csv")
	writeFile(t, csvPath, "CH,SR\nC3,256\nC4,128\n")
	tsvPath := filepath.Join(dir, "a.tsv")
	writeFile(t, tsvPath, "CH\tSR\nC3\t256\n")

	tbl, err := LoadTable(csvPath, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got := tbl.ColumnNames(); !reflect.DeepEqual(got, []string{"CH", "SR"}) {
		t.Fatalf("columns = %v", got)
	}
	if got := cells(tbl); !reflect.DeepEqual(got, [][]string{{"C3", "256"}, {"C4", "128"}}) {
		t.Fatalf("rows = %v", got)
	}

	tbl, err = LoadTable(tsvPath, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if tbl.ValueAt(0, 1) != "256" {
		t.Fatalf("tsv cell = %q", tbl.ValueAt(0, 1))
	}
}

func TestLoadCompressedByMagic(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "night.signals.csv.xz")
	writeXZ(t, p, "CH,SR\nEEG,100\n")
	tbl, err := LoadTable(p, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if tbl.RowCount() != 1 || tbl.ValueAt(0, 0) != "EEG" {
		t.Fatalf("rows = %v", cells(tbl))
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "h.json")
	writeFile(t, p, `{"header":{"channels":[{"CH":"C3","SR":256,"ON":true},{"CH":"C4","SR":128.5,"X":null}]}}`)

	if _, err := LoadTable(p, Options{}); err == nil {
		t.Fatalf("object root without a path should fail")
	}
	tbl, err := LoadTable(p, Options{JSONPath: "$.header.channels"})
	if err != nil {
		t.Fatal(err)
	}
	if got := tbl.ColumnNames(); !reflect.DeepEqual(got, []string{"CH", "ON", "SR", "X"}) {
		t.Fatalf("columns = %v", got)
	}
	want := [][]string{{"C3", "true", "256", ""}, {"C4", "", "128.5", ""}}
	if got := cells(tbl); !reflect.DeepEqual(got, want) {
		t.Fatalf("rows = %v", got)
	}
}

func TestUnsupportedFormat(t *testing.T) {
	p := filepath.Join(t.TempDir(), "a.edf")
	writeFile(t, p, "x")
	if _, err := LoadTable(p, Options{}); err == nil {
		t.Fatalf("expected an error for .edf")
	}
}

func TestLineFeed(t *testing.T) {
	p := filepath.Join(t.TempDir(), "n.instances.txt")
	writeFile(t, p, "# exported\nArousal | 10-15\n\nSpindle | 2-4\nArousal | 1-3\n")
	f, err := LoadLineFeed(p)
	if err != nil {
		t.Fatal(err)
	}
	if f.Len() != 3 {
		t.Fatalf("Len = %d", f.Len())
	}
	got, _ := f.Instances([]string{"Arousal"})
	if !reflect.DeepEqual(got, []string{"Arousal | 10-15", "Arousal | 1-3"}) {
		t.Fatalf("Instances = %v", got)
	}
	order, counts := f.Classes()
	if !reflect.DeepEqual(order, []string{"Arousal", "Spindle"}) || counts["Arousal"] != 2 {
		t.Fatalf("Classes = %v %v", order, counts)
	}
}

func TestBuildWriteReadLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a", "n1.signals.csv"), "CH,SR\nC3,256\nC4,256\n")
	writeFile(t, filepath.Join(dir, "a", "n1.annots.csv"), "ANNOT,N\nArousal,1\n")
	writeFile(t, filepath.Join(dir, "a", "n1.instances.txt"), "Arousal | 1-3\n")
	writeFile(t, filepath.Join(dir, "b", "n2.signals.tsv"), "CH\nEMG\n")
	writeFile(t, filepath.Join(dir, "b", "n2.instances.txt"), "N2 | 0-30\nN2 | 30-60\nWake | 60-90\n")

	sl, err := BuildSList(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got := sl.IDs(); !reflect.DeepEqual(got, []string{"n1", "n2"}) {
		t.Fatalf("ids = %v", got)
	}
	if e, _ := sl.Find("n1"); e.Annots != "a/n1.annots.csv" || e.Instances != "a/n1.instances.txt" {
		t.Fatalf("n1 entry = %+v", e)
	}

	listPath := filepath.Join(dir, "s.lst.yaml")
	if err := WriteSList(listPath, sl); err != nil {
		t.Fatal(err)
	}
	back, err := ReadSList(listPath)
	if err != nil {
		t.Fatal(err)
	}
	e, ok := back.Find("n2")
	if !ok {
		t.Fatalf("n2 missing after round trip")
	}
	rec, err := Load(back.Resolve(e))
	if err != nil {
		t.Fatal(err)
	}
	if rec.Feed == nil || rec.Annots == nil {
		t.Fatalf("record missing feed or annotations: %+v", rec)
	}
	if got := cells(rec.Annots); !reflect.DeepEqual(got, [][]string{{"N2", "2"}, {"Wake", "1"}}) {
		t.Fatalf("derived annotations = %v", got)
	}
}

func TestReadSListRejectsDuplicates(t *testing.T) {
	p := filepath.Join(t.TempDir(), "s.yaml")
	writeFile(t, p, "records:\n  - id: a\n    signals: a.csv\n  - id: a\n    signals: b.csv\n")
	if _, err := ReadSList(p); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestExportEvents(t *testing.T) {
	dir := t.TempDir()
	events := []annot.Event{
		{Class: "Spindle", Start: 2, Duration: 2},
		{Class: "Arousal", Label: "00:00:10", Start: 10, Duration: 5},
		{Class: "Bad", Start: math.NaN(), Duration: math.NaN()},
	}

	csvPath := filepath.Join(dir, "out.csv")
	if err := ExportEvents(csvPath, events); err != nil {
		t.Fatal(err)
	}
	tbl, err := LoadTable(csvPath, Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{
		{"Spindle", "", "2", "4", "2"},
		{"Arousal", "00:00:10", "10", "15", "5"},
		{"Bad", "", "", "", ""},
	}
	if got := cells(tbl); !reflect.DeepEqual(got, want) {
		t.Fatalf("csv rows = %v", got)
	}

	xlsxPath := filepath.Join(dir, "out.xlsx")
	if err := ExportEvents(xlsxPath, events[:2]); err != nil {
		t.Fatal(err)
	}
	tbl, err = LoadTable(xlsxPath, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got := tbl.ColumnNames(); !reflect.DeepEqual(got, exportHeader) {
		t.Fatalf("xlsx header = %v", got)
	}
	if tbl.RowCount() != 2 || tbl.ValueAt(1, 0) != "Arousal" || tbl.ValueAt(1, 3) != "15" {
		t.Fatalf("xlsx rows = %v", cells(tbl))
	}
}

func TestSListRelativeTo(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "data", "n1.signals.csv"), "CH\nC3\n")
	writeFile(t, filepath.Join(dir, "data", "n1.instances.txt"), "N2 | 0-30\n")

	sl, err := BuildSList(filepath.Join(dir, "data"))
	if err != nil {
		t.Fatal(err)
	}
	moved, err := sl.RelativeTo(filepath.Join(dir, "lists"))
	if err != nil {
		t.Fatal(err)
	}
	e, _ := moved.Find("n1")
	if e.Signals != "../data/n1.signals.csv" || e.Instances != "../data/n1.instances.txt" || e.Annots != "" {
		t.Fatalf("relative entry = %+v", e)
	}

	listPath := filepath.Join(dir, "lists", "s.yaml")
	writeFile(t, listPath, "")
	if err := WriteSList(listPath, moved); err != nil {
		t.Fatal(err)
	}
	back, err := ReadSList(listPath)
	if err != nil {
		t.Fatal(err)
	}
	e, _ = back.Find("n1")
	if _, err := Load(back.Resolve(e)); err != nil {
		t.Fatalf("load after move: %v", err)
	}
}

type nopSink struct{}

func (nopSink) RedrawTraces([]string, map[string]string) {}
func (nopSink) RedrawAnnotations([]string, []annot.Event) {}
func (nopSink) ShowWindow(annot.Window) {}

func TestLoadKeepsUnclassedInstances(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "n1.signals.csv"), "CH\nC3\n")
	writeFile(t, filepath.Join(dir, "n1.instances.txt"), "Arousal | 10-15\n| 20-25\nSpindle | 2-4\n")

	rec, err := Load(Entry{
		ID:        "n1",
		Signals:   filepath.Join(dir, "n1.signals.csv"),
		Instances: filepath.Join(dir, "n1.instances.txt"),
	})
	if err != nil {
		t.Fatal(err)
	}
	s, err := record.NewSession(rec, nopSink{}, annot.DefaultExpander(), 1)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if got := s.Annots.Store().RowCount(); got != 3 {
		t.Fatalf("classes = %d, want 3", got)
	}

	s.Annots.SetChecked([]string{Unclassed})
	events := s.Events()
	if len(events) != 1 || events[0].Start != 20 || events[0].Stop() != 25 {
		t.Fatalf("unclassed events = %+v", events)
	}
}
