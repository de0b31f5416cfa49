package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/Trashbot7274/lunascope/logging"
	"github.com/Trashbot7274/lunascope/record"
	"github.com/Trashbot7274/lunascope/selection"
)

const signalsPattern = "**/*.signals.{csv,tsv,xlsx,json,csv.xz,tsv.xz,json.xz,csv.gz,tsv.gz,json.gz}"

var tableExts = []string{"csv", "tsv", "xlsx", "json", "csv.xz", "tsv.xz", "json.xz", "csv.gz", "tsv.gz", "json.gz"}

// Entry is one record in an S-list. Paths are relative to the S-list file
// unless absolute.
type Entry struct {
	ID        string  `yaml:"id"`
	Signals   string  `yaml:"signals"`
	Annots    string  `yaml:"annots,omitempty"`
	Instances string  `yaml:"instances,omitempty"`
	Duration  float64 `yaml:"duration,omitempty"`
	JSONPath  string  `yaml:"jsonpath,omitempty"`
}

// SList is the sample list of records the viewer can open.
type SList struct {
	Records []Entry `yaml:"records"`

	dir string
}

func ReadSList(path string) (*SList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read S-list: %w", err)
	}
	var sl SList
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, fmt.Errorf("failed to parse S-list %s: %w", path, err)
	}
	seen := map[string]bool{}
	for i, e := range sl.Records {
		if strings.TrimSpace(e.ID) == "" || e.Signals == "" {
			return nil, fmt.Errorf("S-list %s: record %d needs an id and a signals path", path, i)
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("S-list %s: duplicate record id %q", path, e.ID)
		}
		seen[e.ID] = true
	}
	sl.dir = filepath.Dir(path)
	return &sl, nil
}

func WriteSList(path string, sl *SList) error {
	data, err := yaml.Marshal(sl)
	if err != nil {
		return fmt.Errorf("failed to encode S-list: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write S-list: %w", err)
	}
	return nil
}

// Find returns the entry with id.
func (sl *SList) Find(id string) (Entry, bool) {
	for _, e := range sl.Records {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// IDs lists record ids in S-list order.
func (sl *SList) IDs() []string {
	ids := make([]string, len(sl.Records))
	for i, e := range sl.Records {
		ids[i] = e.ID
	}
	return ids
}

// Resolve returns e with its paths made absolute against the S-list
// location.
func (sl *SList) Resolve(e Entry) Entry {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) || sl.dir == "" {
			return p
		}
		return filepath.Join(sl.dir, p)
	}
	e.Signals = abs(e.Signals)
	e.Annots = abs(e.Annots)
	e.Instances = abs(e.Instances)
	return e
}

// RelativeTo returns a copy of sl whose paths are relative to dir, for
// writing the S-list into dir.
func (sl *SList) RelativeTo(dir string) (*SList, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}
	relTo := func(p string) string {
		if p == "" {
			return p
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return p
		}
		return rel(root, abs)
	}
	out := &SList{dir: root}
	for _, e := range sl.Records {
		e = sl.Resolve(e)
		e.Signals = relTo(e.Signals)
		e.Annots = relTo(e.Annots)
		e.Instances = relTo(e.Instances)
		out.Records = append(out.Records, e)
	}
	return out, nil
}

// BuildSList discovers records under dir. A record is a <id>.signals.* table
// with optional <id>.annots.* and <id>.instances.txt siblings. Paths are
// stored relative to dir.
func BuildSList(dir string) (*SList, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}
	matches, err := doublestar.FilepathGlob(filepath.Join(root, signalsPattern))
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	sort.Strings(matches)

	sl := &SList{dir: root}
	used := map[string]int{}
	for _, m := range matches {
		base := filepath.Base(m)
		id := base[:strings.Index(base, ".signals.")]
		if n := used[id]; n > 0 {
			logging.Warnf("duplicate record id %q at %s", id, m)
			used[id] = n + 1
			id = id + "-" + strconv.Itoa(n+1)
		} else {
			used[id] = 1
		}
		stem := filepath.Join(filepath.Dir(m), base[:strings.Index(base, ".signals.")])
		e := Entry{ID: id, Signals: rel(root, m)}
		if p := firstExisting(stem+".annots.", tableExts); p != "" {
			e.Annots = rel(root, p)
		}
		if p := firstExisting(stem+".instances.", []string{"txt", "txt.xz", "txt.gz"}); p != "" {
			e.Instances = rel(root, p)
		}
		sl.Records = append(sl.Records, e)
	}
	logging.Infof("S-list build: %d records under %s", len(sl.Records), root)
	return sl, nil
}

func firstExisting(prefix string, exts []string) string {
	for _, ext := range exts {
		p := prefix + ext
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p
		}
	}
	return ""
}

func rel(root, p string) string {
	if r, err := filepath.Rel(root, p); err == nil {
		return filepath.ToSlash(r)
	}
	return p
}

// Load reads the files of a resolved entry into a record. A missing
// annotations table is derived from the instance feed's classes.
func Load(e Entry) (*record.Record, error) {
	opts := Options{JSONPath: e.JSONPath}
	sig, err := LoadTable(e.Signals, opts)
	if err != nil {
		return nil, err
	}
	rec := &record.Record{ID: e.ID, Signals: sig, Duration: e.Duration}

	var feed *LineFeed
	if e.Instances != "" {
		if feed, err = LoadLineFeed(e.Instances); err != nil {
			return nil, err
		}
		rec.Feed = feed
	}

	switch {
	case e.Annots != "":
		ann, err := LoadTable(e.Annots, opts)
		if err != nil {
			return nil, err
		}
		rec.Annots = ann
	case feed != nil:
		order, counts := feed.Classes()
		rows := make([][]string, len(order))
		for i, c := range order {
			rows[i] = []string{c, strconv.Itoa(counts[c])}
		}
		rec.Annots = selection.NewStaticTable([]string{"ANNOT", "N"}, rows)
	}
	return rec, nil
}
