// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mapper

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/odm-import/internal/catalog"
	"github.com/pdiddy/odm-import/internal/odm"
)

// ExcelMapper reads an ODM-format workbook: one sheet per ODM table, sheet
// and column names as published by the data model.
type ExcelMapper struct {
	cat    *catalog.Catalog
	tables map[string]*odm.Table
}

// NewExcelMapper creates a workbook mapper casting through cat.
func NewExcelMapper(cat *catalog.Catalog) *ExcelMapper {
	return &ExcelMapper{cat: cat, tables: make(map[string]*odm.Table)}
}

// Read parses the workbook at path. When sheets is non-empty only those
// sheet names are considered; otherwise every recognized ODM sheet present
// in the workbook is read. Sheets absent from the workbook are skipped.
func (m *ExcelMapper) Read(path string, sheets ...string) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("opening workbook %s: %w", path, err)
	}
	defer f.Close()

	present := make(map[string]bool)
	for _, name := range f.GetSheetList() {
		present[name] = true
	}

	wanted := make(map[string]bool, len(sheets))
	for _, s := range sheets {
		wanted[s] = true
	}

	for _, info := range odm.TableCatalog {
		if len(sheets) > 0 && !wanted[info.Sheet] {
			continue
		}
		if !present[info.Sheet] {
			continue
		}
		rows, err := f.GetRows(info.Sheet)
		if err != nil {
			return fmt.Errorf("reading sheet %s: %w", info.Sheet, err)
		}
		if len(rows) < 2 {
			continue
		}

		headers := rows[0]
		// The data model renamed the assay reference on WWMeasure; map the
		// legacy header onto the current name.
		if info.Key == "ww_measure" {
			for i, h := range headers {
				if h == "assayMethodID" {
					headers[i] = "assayID"
				}
			}
		}

		m.tables[info.Key] = castGrid(m.cat, info, headers, rows[1:])
	}
	return nil
}

// Tables returns the parsed tables keyed by attribute key.
func (m *ExcelMapper) Tables() map[string]*odm.Table {
	return m.tables
}

// Validate checks that every parsed table carries its identifier column.
func (m *ExcelMapper) Validate() error {
	if len(m.tables) == 0 {
		return fmt.Errorf("workbook contained no recognized ODM sheets")
	}
	for key, t := range m.tables {
		info, _ := odm.InfoFor(key)
		if err := checkIDColumn(t, info); err != nil {
			return err
		}
	}
	return nil
}
