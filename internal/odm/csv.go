// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package odm

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteSummary holds counts from a CSV folder export.
type WriteSummary struct {
	Tables  int
	Rows    int
	Skipped int
}

// Total returns the number of tables considered.
func (s WriteSummary) Total() int {
	return s.Tables + s.Skipped
}

// WriteCSVDir writes one <OdmName>.csv file per populated table into dir,
// printing a progress line per table to w. Empty tables are skipped.
func (d *Dataset) WriteCSVDir(dir string, w io.Writer) (WriteSummary, error) {
	var summary WriteSummary
	for _, info := range TableCatalog {
		t := d.Table(info.Key)
		if t.Len() == 0 {
			summary.Skipped++
			continue
		}
		path := filepath.Join(dir, info.OdmName+".csv")
		if err := writeTableCSV(t, path); err != nil {
			return summary, fmt.Errorf("writing %s: %w", info.OdmName, err)
		}
		fmt.Fprintf(w, "wrote %s (%d rows)\n", info.OdmName+".csv", t.Len())
		summary.Tables++
		summary.Rows += t.Len()
	}
	return summary, nil
}

// WriteCombinedCSV writes a single wide table (the per-sample view) to path.
func WriteCombinedCSV(t *Table, path string) error {
	return writeTableCSV(t, path)
}

func writeTableCSV(t *Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, c := range t.Columns {
			record[i] = CellText(row[c])
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
