package source

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/Trashbot7274/lunascope/annot"
	"github.com/Trashbot7274/lunascope/record"
)

var _ record.Feed = (*LineFeed)(nil)

// Unclassed labels instance lines with nothing before the '|'.
const Unclassed = "(none)"

func classLabel(line string) string {
	if c := annot.ClassOf(line); c != "" {
		return c
	}
	return Unclassed
}

// LineFeed serves raw instance encodings held in memory, one per line.
type LineFeed struct {
	lines []string
}

func NewLineFeed(lines []string) *LineFeed {
	return &LineFeed{lines: append([]string(nil), lines...)}
}

// LoadLineFeed reads an instances file. Blank lines and lines starting with
// '#' are skipped.
func LoadLineFeed(path string) (*LineFeed, error) {
	r, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open instances: %w", err)
	}
	defer r.Close()

	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read instances %s: %w", path, err)
	}
	return &LineFeed{lines: lines}, nil
}

// Instances returns the lines whose class is in classes, in file order.
// Lines without a class match Unclassed.
func (f *LineFeed) Instances(classes []string) ([]string, error) {
	want := make(map[string]struct{}, len(classes))
	for _, c := range classes {
		want[c] = struct{}{}
	}
	var out []string
	for _, l := range f.lines {
		if _, ok := want[classLabel(l)]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *LineFeed) Len() int { return len(f.lines) }

// Classes returns each class in order of first appearance with its count.
func (f *LineFeed) Classes() ([]string, map[string]int) {
	var order []string
	counts := map[string]int{}
	for _, l := range f.lines {
		c := classLabel(l)
		if counts[c] == 0 {
			order = append(order, c)
		}
		counts[c]++
	}
	return order, counts
}
