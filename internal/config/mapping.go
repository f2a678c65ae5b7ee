package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Columns holds 0-based column positions within a track sheet. A negative
// position disables the column.
type Columns struct {
	Main          int `yaml:"main"`
	Description   int `yaml:"description"`
	KPI           int `yaml:"kpi"`
	Deliverable   int `yaml:"deliverable"`
	Outputs       int `yaml:"outputs"`
	Indicators    int `yaml:"indicators"`
	Penalty       int `yaml:"penalty"`
	Scope         int `yaml:"scope"`
	ExtendedScope int `yaml:"extended_scope"`
}

// DefaultColumns matches the standard track workbook layout.
var DefaultColumns = Columns{
	Main:          1,
	Description:   7,
	KPI:           8,
	Deliverable:   9,
	Outputs:       10,
	Indicators:    11,
	Penalty:       12,
	Scope:         13,
	ExtendedScope: 14,
}

// DefaultHeaderRows is the number of leading rows skipped in every sheet.
const DefaultHeaderRows = 2

// SheetMapping binds one source section to the track that owns it.
type SheetMapping struct {
	Sheet string `yaml:"sheet"`
	Track string `yaml:"track"`
}

// Mapping is the bulk-rebuild import mapping. Columns missing from the
// document keep their DefaultColumns position.
type Mapping struct {
	HeaderRows int            `yaml:"header_rows"`
	Columns    Columns        `yaml:"columns"`
	Sheets     []SheetMapping `yaml:"sheets"`
}

// LoadMapping reads, normalizes and validates a YAML mapping file.
func LoadMapping(path string) (*Mapping, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("mapping: path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mapping: read %s: %w", path, err)
	}
	m, err := ParseMapping(data)
	if err != nil {
		return nil, fmt.Errorf("mapping: %s: %w", path, err)
	}
	return m, nil
}

// ParseMapping decodes a mapping document.
func ParseMapping(data []byte) (*Mapping, error) {
	m := Mapping{HeaderRows: DefaultHeaderRows, Columns: DefaultColumns}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	m.applyDefaults()
	m.normalize()
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Mapping) applyDefaults() {
	if m.HeaderRows < 0 {
		m.HeaderRows = 0
	}
}

func (m *Mapping) normalize() {
	for i := range m.Sheets {
		m.Sheets[i].Sheet = strings.TrimSpace(m.Sheets[i].Sheet)
		m.Sheets[i].Track = strings.TrimSpace(m.Sheets[i].Track)
	}
}

// Validate rejects mappings that cannot drive a rebuild.
func (m *Mapping) Validate() error {
	if len(m.Sheets) == 0 {
		return errors.New("at least one sheet is required")
	}
	if m.Columns.Scope < 0 {
		return errors.New("columns.scope is required")
	}
	seen := make(map[string]bool, len(m.Sheets))
	tracks := make(map[string]string, len(m.Sheets))
	for i, s := range m.Sheets {
		if s.Sheet == "" {
			return fmt.Errorf("sheets[%d]: sheet is required", i)
		}
		if s.Track == "" {
			return fmt.Errorf("sheets[%d] %q: track is required", i, s.Sheet)
		}
		if seen[s.Sheet] {
			return fmt.Errorf("sheets[%d]: duplicate sheet %q", i, s.Sheet)
		}
		if prev, ok := tracks[s.Track]; ok {
			return fmt.Errorf("sheets[%d]: track %q already mapped from sheet %q", i, s.Track, prev)
		}
		seen[s.Sheet] = true
		tracks[s.Track] = s.Sheet
	}
	return nil
}
