package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrSheetNotFound is returned by Source.Rows for an unknown section name.
var ErrSheetNotFound = errors.New("sheet not found")

// Source is a tabular input made of named sections ("sheets") of rows. Row
// order is significant; rows may be ragged.
type Source interface {
	Sheets() []string
	Rows(sheet string) ([][]string, error)
	Close() error
}

// OpenSource opens a workbook (.xlsx), a single CSV file, or a directory of
// CSV files where each file name without extension names a sheet.
func OpenSource(path string) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("opening source: %w", err)
	}
	if info.IsDir() {
		return openCSVDir(path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return openWorkbook(path)
	case ".csv":
		return &csvSource{files: map[string]string{sheetName(path): path}}, nil
	default:
		return nil, fmt.Errorf("opening source %s: unsupported file type", path)
	}
}

type workbookSource struct {
	file *excelize.File
}

func openWorkbook(path string) (*workbookSource, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", path, err)
	}
	return &workbookSource{file: f}, nil
}

func (w *workbookSource) Sheets() []string {
	return w.file.GetSheetList()
}

func (w *workbookSource) Rows(sheet string) ([][]string, error) {
	if idx, err := w.file.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}
	rows, err := w.file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
	}
	return rows, nil
}

func (w *workbookSource) Close() error {
	return w.file.Close()
}

type csvSource struct {
	files map[string]string
}

func openCSVDir(dir string) (*csvSource, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("listing csv files: %w", err)
	}
	src := &csvSource{files: make(map[string]string, len(matches))}
	for _, m := range matches {
		src.files[sheetName(m)] = m
	}
	return src, nil
}

func sheetName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

func (c *csvSource) Sheets() []string {
	names := make([]string, 0, len(c.files))
	for n := range c.files {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (c *csvSource) Rows(sheet string) ([][]string, error) {
	path, ok := c.files[sheet]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	var rows [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func (c *csvSource) Close() error { return nil }
