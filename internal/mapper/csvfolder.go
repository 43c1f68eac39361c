// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mapper

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/odm-import/internal/catalog"
	"github.com/pdiddy/odm-import/internal/odm"
)

// CSVFolderMapper reads a folder of exported ODM CSV files
// (<OdmName>.csv) back into tables.
type CSVFolderMapper struct {
	cat    *catalog.Catalog
	tables map[string]*odm.Table
}

// NewCSVFolderMapper creates a CSV folder mapper casting through cat.
func NewCSVFolderMapper(cat *catalog.Catalog) *CSVFolderMapper {
	return &CSVFolderMapper{cat: cat, tables: make(map[string]*odm.Table)}
}

// Read parses every recognized ODM CSV file in dir. Files that do not match
// an ODM table name are ignored, as are spreadsheet lock files ("$").
func (m *CSVFolderMapper) Read(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading dataset folder %s: %w", dir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".csv") || strings.Contains(name, "$") {
			continue
		}
		info, ok := odm.InfoFor(strings.TrimSuffix(name, ".csv"))
		if !ok {
			continue
		}

		records, err := readCSV(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("reading %s: %w", name, err)
		}
		if len(records) < 2 {
			continue
		}
		m.tables[info.Key] = castGrid(m.cat, info, records[0], records[1:])
	}
	return nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

// Tables returns the parsed tables keyed by attribute key.
func (m *CSVFolderMapper) Tables() map[string]*odm.Table {
	return m.tables
}

// Validate checks that the folder held at least one ODM file and that every
// parsed table carries its identifier column.
func (m *CSVFolderMapper) Validate() error {
	if len(m.tables) == 0 {
		return fmt.Errorf("folder contained no ODM CSV files")
	}
	for key, t := range m.tables {
		info, _ := odm.InfoFor(key)
		if err := checkIDColumn(t, info); err != nil {
			return err
		}
	}
	return nil
}
