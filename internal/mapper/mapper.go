// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mapper parses the supported input formats into ODM tables:
// ODM-format workbooks, the static workbook, wide lab-results worksheets,
// and folders of previously exported CSV files. Every mapper satisfies
// odm.TableSource so a Dataset can ingest it directly.
package mapper

import (
	"fmt"
	"strings"

	"github.com/pdiddy/odm-import/internal/catalog"
	"github.com/pdiddy/odm-import/internal/odm"
)

// castGrid turns a header row plus raw string records into a typed table,
// casting every cell through the variable catalog. Rows whose cells are all
// missing-value tokens are dropped.
func castGrid(cat *catalog.Catalog, info odm.TableInfo, headers []string, records [][]string) *odm.Table {
	cleaned := make([]string, 0, len(headers))
	for _, h := range headers {
		h = strings.TrimSpace(h)
		if h != "" {
			cleaned = append(cleaned, h)
		}
	}

	t := odm.NewTable(info.OdmName, cleaned...)
	for _, record := range records {
		row := make(odm.Row, len(cleaned))
		empty := true
		for i, h := range cleaned {
			raw := ""
			if i < len(record) {
				raw = record[i]
			}
			if !catalog.IsUnknown(raw) {
				empty = false
			}
			row[h] = cat.CastCell(info.OdmName, h, raw)
		}
		if empty {
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// checkIDColumn verifies that a parsed table declares its identifier column
// and that no row leaves it blank.
func checkIDColumn(t *odm.Table, info odm.TableInfo) error {
	if t.Len() == 0 {
		return nil
	}
	if !t.HasColumn(info.IDColumn) {
		return fmt.Errorf("%s: missing %s column", info.OdmName, info.IDColumn)
	}
	for i, row := range t.Rows {
		if odm.CellText(row[info.IDColumn]) == "" {
			return fmt.Errorf("%s row %d: blank %s", info.OdmName, i+1, info.IDColumn)
		}
	}
	return nil
}
