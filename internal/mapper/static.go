// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mapper

import (
	"fmt"

	"github.com/pdiddy/odm-import/internal/catalog"
	"github.com/pdiddy/odm-import/internal/odm"
)

// StaticMapper reads the static workbook: the slow-changing reference
// tables (Site, Polygon, Reporter, Lab, AssayMethod, Instrument) that frame
// the lab submissions.
type StaticMapper struct {
	*ExcelMapper
}

// NewStaticMapper creates a static workbook mapper casting through cat.
func NewStaticMapper(cat *catalog.Catalog) *StaticMapper {
	return &StaticMapper{ExcelMapper: NewExcelMapper(cat)}
}

// Read parses the static sheets of the workbook at path.
func (m *StaticMapper) Read(path string) error {
	var sheets []string
	for _, info := range odm.TableCatalog {
		if info.Static {
			sheets = append(sheets, info.Sheet)
		}
	}
	return m.ExcelMapper.Read(path, sheets...)
}

// Validate additionally requires the Site sheet: without sites the lab
// submissions have nothing to attach to.
func (m *StaticMapper) Validate() error {
	if err := m.ExcelMapper.Validate(); err != nil {
		return err
	}
	if m.Tables()["site"].Len() == 0 {
		return fmt.Errorf("static workbook has no Site rows")
	}
	return nil
}
