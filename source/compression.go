// Package source loads the files behind a record: channel and annotation
// tables, the raw instance feed and the S-list that indexes records.
package source

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
)

// Magic byte signatures for compression detection
var (
	// Gzip magic bytes: 1f 8b
	gzipMagic = []byte{0x1f, 0x8b}
	// XZ magic bytes: fd 37 7a 58 5a 00
	xzMagic = []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}
)

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (r *readCloser) Close() error {
	var first error
	for _, c := range r.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Open opens path and transparently decompresses xz or gzip content, detected
// by magic bytes rather than extension.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	br := bufio.NewReader(f)
	header, err := br.Peek(len(xzMagic))
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		f.Close()
		return nil, err
	}

	switch {
	case bytes.HasPrefix(header, xzMagic):
		xr, err := xz.NewReader(br)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		return &readCloser{Reader: xr, closers: []io.Closer{f}}, nil
	case bytes.HasPrefix(header, gzipMagic):
		gr, err := gzip.NewReader(br)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return &readCloser{Reader: gr, closers: []io.Closer{gr, f}}, nil
	}
	return &readCloser{Reader: br, closers: []io.Closer{f}}, nil
}

// formatOf returns the lower-case data extension of path with any
// compression suffix removed, e.g. "csv" for "night1.signals.csv.xz".
func formatOf(path string) string {
	base := strings.ToLower(filepath.Base(path))
	for _, suffix := range []string{".xz", ".gz"} {
		base = strings.TrimSuffix(base, suffix)
	}
	return strings.TrimPrefix(filepath.Ext(base), ".")
}
