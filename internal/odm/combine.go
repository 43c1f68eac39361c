// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package odm

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// CombinePerSample flattens the dataset into a single wide table with one
// row per sample. Categorical measure columns are spread out into distinct
// columns named by their qualifiers, then the Sample, WWMeasure, Site,
// SiteMeasure and CPHD tables are joined around the sample.
//
// When site measures are present the rows pass through the scratch database
// in joinSiteMeasures, so cells of the combined table are text (CellText
// form), not the typed values the source tables carry. The table is meant
// for WriteCombinedCSV, which renders through CellText either way.
func (d *Dataset) CombinePerSample() (*Table, error) {
	ww := parseWWMeasure(d.Table("ww_measure"))
	ww = groupBy(ww, "WWMeasure.sampleID")

	sample := parseSample(d.Table("sample"))
	if sample.Len() == 0 {
		return nil, fmt.Errorf("combining per sample: no sample rows")
	}
	merged := leftJoin(sample, ww, "Sample.sampleID", "WWMeasure.sampleID")

	siteMeasure := parseSiteMeasure(d.Table("site_measure"))
	merged, err := joinSiteMeasures(merged, siteMeasure)
	if err != nil {
		return nil, fmt.Errorf("joining site measures: %w", err)
	}

	site := parseSite(d.Table("site"))
	merged = leftJoin(merged, site, "Sample.siteID", "Site.siteID")

	// The public health rows attach through the sewershed polygon shared
	// between the Site and CPHD tables.
	cphd := parseCPHD(d.Table("cphd"))
	merged = leftJoin(merged, cphd, "Site.polygonID", "CPHD.polygonID")

	merged.Name = "combined"
	moveColumnFirst(merged, "Sample.sampleID")
	return merged, nil
}

// widen spreads feature columns over new columns named after the values of
// the qualifier columns, e.g. value -> "liquid.covN1.gcML.single.value".
// The original feature and qualifier columns are dropped afterwards.
func widen(t *Table, features, qualifiers []string) *Table {
	out := t.Copy()
	for _, row := range out.Rows {
		quals := make([]string, 0, len(qualifiers))
		for _, q := range qualifiers {
			quals = append(quals, qualifierText(q, row[q]))
		}
		prefix := strings.Join(quals, ".")
		for _, f := range features {
			name := prefix + "." + f
			out.AddColumn(name)
			row[name] = row[f]
		}
	}
	out.DropColumns(append(append([]string{}, features...), qualifiers...)...)
	return out
}

// qualifierText renders a qualifier cell for use inside a column name.
// Slashes are not valid in column names and qualityFlag reads badly as a
// bare true/false, so both get rewritten.
func qualifierText(column string, v any) string {
	if column == "qualityFlag" {
		if b, ok := v.(bool); ok && b {
			return "quality_issue"
		}
		return "no_issue"
	}
	return strings.ReplaceAll(CellText(v), "/", "-")
}

// removeAccess drops the access-rights columns before publishing.
func removeAccess(t *Table) *Table {
	var drop []string
	for _, c := range t.Columns {
		if strings.Contains(strings.ToLower(c), "access") {
			drop = append(drop, c)
		}
	}
	out := t.Copy()
	out.DropColumns(drop...)
	return out
}

func parseWWMeasure(t *Table) *Table {
	if t.Len() == 0 {
		return NewTable("WWMeasure")
	}
	// The data model renamed assayMethodID to assayID; accept both.
	assayCol := "assayID"
	if !t.HasColumn(assayCol) && t.HasColumn("assayMethodID") {
		assayCol = "assayMethodID"
	}
	out := removeAccess(t)
	out = widen(out,
		[]string{"value", "analysisDate", "reportDate", "notes", "qualityFlag", assayCol},
		[]string{"fractionAnalyzed", "type", "unit", "aggregation"},
	)
	out.AddPrefix("WWMeasure.")
	return out
}

func parseSiteMeasure(t *Table) *Table {
	if t.Len() == 0 {
		return NewTable("SiteMeasure")
	}
	out := removeAccess(t)
	out = widen(out,
		[]string{"value", "notes"},
		[]string{"type", "unit", "aggregation"},
	)
	// Site measures join to samples by timestamp, so collapse to one row
	// per dateTime before the range join.
	out = groupBy(out, "dateTime")
	out.AddPrefix("SiteMeasure.")
	return out
}

func parseSample(t *Table) *Table {
	if t.Len() == 0 {
		return NewTable("Sample")
	}
	out := t.Copy()

	// A sample can list several sites ("siteA; siteB"); give each site its
	// own row so the sample shows up wherever it is relevant.
	var exploded []Row
	for _, row := range out.Rows {
		sites, _ := row["siteID"].(string)
		if !strings.Contains(sites, ";") {
			exploded = append(exploded, row)
			continue
		}
		for _, id := range strings.Split(sites, ";") {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			dup := make(Row, len(row))
			for k, v := range row {
				dup[k] = v
			}
			dup["siteID"] = id
			exploded = append(exploded, dup)
		}
	}
	out.Rows = exploded

	// Grab samples carry a single dateTime; copy it into the start/end
	// bounds so they participate in the timestamp range join.
	out.AddColumn("dateTimeStart")
	out.AddColumn("dateTimeEnd")
	for _, row := range out.Rows {
		if row["dateTimeStart"] == nil {
			row["dateTimeStart"] = row["dateTime"]
		}
		if row["dateTimeEnd"] == nil {
			row["dateTimeEnd"] = row["dateTime"]
		}
	}
	out.DropColumns("dateTime")

	out.AddPrefix("Sample.")
	return out
}

func parseSite(t *Table) *Table {
	if t.Len() == 0 {
		return NewTable("Site")
	}
	out := t.Copy()
	out.AddPrefix("Site.")
	return out
}

func parseCPHD(t *Table) *Table {
	if t.Len() == 0 {
		return NewTable("CPHD")
	}
	out := removeAccess(t)
	out = widen(out,
		[]string{"value", "date", "notes"},
		[]string{"type", "dateType"},
	)
	out = groupBy(out, "cphdID")
	out.AddPrefix("CPHD.")
	return out
}

// groupBy collapses rows sharing a key into one row, keeping the last
// non-empty cell per column. Group order follows first appearance.
func groupBy(t *Table, key string) *Table {
	if t.Len() == 0 {
		return t
	}
	out := NewTable(t.Name, t.Columns...)
	index := make(map[string]Row)
	for _, row := range t.Rows {
		k := CellText(row[key])
		agg, ok := index[k]
		if !ok {
			agg = make(Row, len(row))
			index[k] = agg
			out.Rows = append(out.Rows, agg)
		}
		for _, c := range t.Columns {
			if v, present := row[c]; present && CellText(v) != "" {
				agg[c] = v
			}
		}
	}
	return out
}

// leftJoin merges right rows into left rows where left[lkey] == right[rkey].
// A left row matching several right rows is expanded into several rows.
func leftJoin(left, right *Table, lkey, rkey string) *Table {
	out := NewTable(left.Name, left.Columns...)
	for _, c := range right.Columns {
		out.AddColumn(c)
	}

	index := make(map[string][]Row)
	for _, row := range right.Rows {
		k := CellText(row[rkey])
		if k == "" {
			continue
		}
		index[k] = append(index[k], row)
	}

	for _, lrow := range left.Rows {
		matches := index[CellText(lrow[lkey])]
		if len(matches) == 0 {
			out.Rows = append(out.Rows, lrow)
			continue
		}
		for _, rrow := range matches {
			merged := make(Row, len(lrow)+len(rrow))
			for k, v := range lrow {
				merged[k] = v
			}
			for k, v := range rrow {
				merged[k] = v
			}
			out.Rows = append(out.Rows, merged)
		}
	}
	return out
}

// joinSiteMeasures attaches site measures whose timestamp falls inside the
// sample collection window. Range joins are awkward to express with a hash
// join, so the rows go through an in-memory SQLite database and come back
// merged, mirroring how the exported tables behave in SQL. The scratch
// tables are all TEXT, so every cell returns as its CellText string.
func joinSiteMeasures(sample, siteMeasure *Table) (*Table, error) {
	if siteMeasure.Len() == 0 {
		return sample, nil
	}

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}
	defer db.Close()

	if err := loadTempTable(db, "sample", sample); err != nil {
		return nil, err
	}
	if err := loadTempTable(db, "site_measure", siteMeasure); err != nil {
		return nil, err
	}

	rows, err := db.Query(`SELECT * FROM sample LEFT JOIN site_measure
		ON "SiteMeasure.dateTime" BETWEEN "Sample.dateTimeStart" AND "Sample.dateTimeEnd"`)
	if err != nil {
		return nil, fmt.Errorf("range join: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	out := NewTable(sample.Name, cols...)
	for rows.Next() {
		cells := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(Row, len(cols))
		for i, c := range cols {
			switch v := cells[i].(type) {
			case nil:
				row[c] = nil
			case []byte:
				row[c] = string(v)
			default:
				row[c] = v
			}
		}
		out.Rows = append(out.Rows, row)
	}
	return out, rows.Err()
}

// loadTempTable materializes a table in the scratch database. Every column
// is TEXT; timestamps serialize as RFC 3339 so BETWEEN compares correctly.
func loadTempTable(db *sql.DB, name string, t *Table) error {
	quoted := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		quoted[i] = `"` + c + `"`
	}
	ddl := fmt.Sprintf("CREATE TABLE %s (%s)", name, strings.Join(quoted, " TEXT, ")+" TEXT")
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("creating scratch table %s: %w", name, err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(t.Columns)), ", ")
	stmt, err := db.Prepare(fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)", name, strings.Join(quoted, ", "), placeholders))
	if err != nil {
		return fmt.Errorf("preparing insert for %s: %w", name, err)
	}
	defer stmt.Close()

	for _, row := range t.Rows {
		args := make([]any, len(t.Columns))
		for i, c := range t.Columns {
			if row[c] == nil {
				args[i] = nil
				continue
			}
			args[i] = CellText(row[c])
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("loading scratch table %s: %w", name, err)
		}
	}
	return nil
}

func moveColumnFirst(t *Table, name string) {
	for i, c := range t.Columns {
		if c == name {
			t.Columns = append([]string{name}, append(append([]string{}, t.Columns[:i]...), t.Columns[i+1:]...)...)
			return
		}
	}
}
