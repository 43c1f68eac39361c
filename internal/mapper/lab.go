// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mapper

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/odm-import/internal/catalog"
	"github.com/pdiddy/odm-import/internal/odm"
)

// LabMapper reads a wide lab-results worksheet and emits Sample and
// WWMeasure rows. The sheet carries one row per sample: a handful of sample
// columns (siteID, the collection timestamps, collection method, notes)
// followed by measure columns whose headers encode the measurand as
// "type.unit.fractionAnalyzed", e.g. "covN1.gcML.liquid".
type LabMapper struct {
	cat   *catalog.Catalog
	labID string

	sample    *odm.Table
	wwMeasure *odm.Table
	skipped   int
}

// sampleColumns are the worksheet headers copied onto the Sample row.
var sampleColumns = map[string]bool{
	"siteID":        true,
	"dateTime":      true,
	"dateTimeStart": true,
	"dateTimeEnd":   true,
	"type":          true,
	"collection":    true,
	"notes":         true,
}

// measureColumns are worksheet headers stamped onto every WWMeasure row of
// the sample rather than onto the sample itself.
var measureColumns = map[string]bool{
	"analysisDate": true,
	"reportDate":   true,
	"assayID":      true,
}

// NewLabMapper creates a lab worksheet mapper. Every measure row is stamped
// with labID.
func NewLabMapper(cat *catalog.Catalog, labID string) *LabMapper {
	return &LabMapper{cat: cat, labID: labID}
}

// Skipped returns the number of worksheet rows dropped for lacking a site
// or a collection date.
func (m *LabMapper) Skipped() int {
	return m.skipped
}

// Read parses the named worksheet of the workbook at path.
func (m *LabMapper) Read(path, sheet string) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("opening lab workbook %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("reading lab sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return fmt.Errorf("lab sheet %q has no data rows", sheet)
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	var sampleGrid, measureGrid [][]string
	for _, record := range rows[1:] {
		cell := func(name string) string {
			for i, h := range headers {
				if h == name && i < len(record) {
					return strings.TrimSpace(record[i])
				}
			}
			return ""
		}

		siteID := cell("siteID")
		date := m.collectionDate(cell)
		if siteID == "" || date == "" {
			m.skipped++
			continue
		}
		sampleID := strings.ToLower(strings.Join([]string{siteID, date, m.labID}, "_"))

		sampleRow := []string{sampleID}
		for _, h := range sampleHeaders() {
			sampleRow = append(sampleRow, cell(h))
		}
		sampleGrid = append(sampleGrid, sampleRow)

		seq := 0
		for i, h := range headers {
			mtype, unit, fraction, ok := splitMeasureHeader(h)
			if !ok {
				continue
			}
			raw := ""
			if i < len(record) {
				raw = strings.TrimSpace(record[i])
			}
			if catalog.IsUnknown(raw) {
				continue
			}
			seq++
			measureGrid = append(measureGrid, []string{
				fmt.Sprintf("%s_%s_%d", sampleID, strings.ToLower(mtype), seq),
				sampleID,
				m.labID,
				mtype,
				unit,
				fraction,
				raw,
				cell("analysisDate"),
				cell("reportDate"),
				cell("assayID"),
			})
		}
	}

	sampleInfo, _ := odm.InfoFor("sample")
	m.sample = castGrid(m.cat, sampleInfo,
		append([]string{"sampleID"}, sampleHeaders()...), sampleGrid)

	wwInfo, _ := odm.InfoFor("ww_measure")
	m.wwMeasure = castGrid(m.cat, wwInfo,
		[]string{"wwMeasureID", "sampleID", "labID", "type", "unit",
			"fractionAnalyzed", "value", "analysisDate", "reportDate", "assayID"},
		measureGrid)

	return nil
}

// collectionDate picks the date that identifies the sample: the end of the
// composite window when present, the grab timestamp otherwise.
func (m *LabMapper) collectionDate(cell func(string) string) string {
	for _, col := range []string{"dateTimeEnd", "dateTime", "dateTimeStart"} {
		raw := cell(col)
		if catalog.IsUnknown(raw) {
			continue
		}
		if ts, ok := m.cat.CastCell("Sample", col, raw).(time.Time); ok {
			return ts.Format("2006-01-02")
		}
	}
	return ""
}

// sampleHeaders returns the sample-level worksheet headers in fixed order.
func sampleHeaders() []string {
	return []string{"siteID", "dateTime", "dateTimeStart", "dateTimeEnd",
		"type", "collection", "notes"}
}

// splitMeasureHeader decodes a "type.unit.fractionAnalyzed" measure header.
// Headers with fewer than three parts, or naming a sample or measure-level
// column, are not measures.
func splitMeasureHeader(h string) (mtype, unit, fraction string, ok bool) {
	if sampleColumns[h] || measureColumns[h] {
		return "", "", "", false
	}
	parts := strings.Split(h, ".")
	if len(parts) != 3 {
		return "", "", "", false
	}
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return "", "", "", false
		}
	}
	return parts[0], parts[1], parts[2], true
}

// Tables returns the Sample and WWMeasure tables built from the worksheet.
func (m *LabMapper) Tables() map[string]*odm.Table {
	return map[string]*odm.Table{
		"sample":     m.sample,
		"ww_measure": m.wwMeasure,
	}
}

// Validate checks that the worksheet produced at least one sample and that
// every measure references a sample from the same read.
func (m *LabMapper) Validate() error {
	if m.labID == "" {
		return fmt.Errorf("lab ID is required")
	}
	if m.sample.Len() == 0 {
		return fmt.Errorf("lab sheet produced no samples")
	}

	ids := make(map[string]bool, m.sample.Len())
	for _, row := range m.sample.Rows {
		ids[odm.CellText(row["sampleID"])] = true
	}
	for i, row := range m.wwMeasure.Rows {
		if !ids[odm.CellText(row["sampleID"])] {
			return fmt.Errorf("measure row %d references unknown sample %q",
				i+1, odm.CellText(row["sampleID"]))
		}
	}
	return nil
}
