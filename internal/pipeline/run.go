// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline drives the conversion run: input workbooks in, ODM CSV
// folder out.
package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/odm-import/internal/catalog"
	"github.com/pdiddy/odm-import/internal/mapper"
	"github.com/pdiddy/odm-import/internal/odm"
	"github.com/pdiddy/odm-import/pkg/types"
)

// RunSummary holds the outcome of a conversion run.
type RunSummary struct {
	TablesWritten int
	RowsWritten   int
	EmptySkipped  int
	RowsSkipped   int
}

// Total returns the number of ODM tables considered for output.
func (s RunSummary) Total() int {
	return s.TablesWritten + s.EmptySkipped
}

// Run executes the conversion: read the static workbook and the lab
// worksheet from the input folder, merge them into one dataset, clear the
// output folder of the previous dataset, and write one CSV per table.
// Progress goes to w.
func Run(cfg types.PipelineConfig, cat *catalog.Catalog, w io.Writer) (RunSummary, error) {
	var summary RunSummary

	staticPath := filepath.Join(cfg.Import.InputDir, cfg.Import.StaticFile)
	labPath := filepath.Join(cfg.Import.InputDir, cfg.Import.LabFile)
	for _, path := range []string{staticPath, labPath} {
		if _, err := os.Stat(path); err != nil {
			return summary, fmt.Errorf("input file %s: %w", path, err)
		}
	}

	store := odm.NewDataset()

	fmt.Fprintf(w, "importing static data from %s\n", cfg.Import.StaticFile)
	static := mapper.NewStaticMapper(cat)
	if err := static.Read(staticPath); err != nil {
		return summary, fmt.Errorf("reading static workbook: %w", err)
	}
	if err := store.AppendFrom(static); err != nil {
		return summary, fmt.Errorf("importing static data: %w", err)
	}

	fmt.Fprintf(w, "importing lab data from %s (sheet %q, lab %s)\n",
		cfg.Import.LabFile, cfg.Import.LabSheet, cfg.Import.LabID)
	lab := mapper.NewLabMapper(cat, cfg.Import.LabID)
	if err := lab.Read(labPath, cfg.Import.LabSheet); err != nil {
		return summary, fmt.Errorf("reading lab workbook: %w", err)
	}
	if err := store.AppendFrom(lab); err != nil {
		return summary, fmt.Errorf("importing lab data: %w", err)
	}
	summary.RowsSkipped = lab.Skipped()
	if summary.RowsSkipped > 0 {
		fmt.Fprintf(w, "skipped %d lab rows without site or date\n", summary.RowsSkipped)
	}

	fmt.Fprintln(w, "removing older dataset")
	if err := clearDir(cfg.Export.OutputDir); err != nil {
		return summary, fmt.Errorf("clearing output folder: %w", err)
	}

	fmt.Fprintln(w, "saving dataset")
	ws, err := store.WriteCSVDir(cfg.Export.OutputDir, w)
	if err != nil {
		return summary, err
	}
	summary.TablesWritten = ws.Tables
	summary.RowsWritten = ws.Rows
	summary.EmptySkipped = ws.Skipped

	fmt.Fprintf(w, "\nsaved to folder %s: %d tables, %d rows (%d of %d tables empty)\n",
		cfg.Export.OutputDir, summary.TablesWritten, summary.RowsWritten,
		summary.EmptySkipped, summary.Total())
	return summary, nil
}

// clearDir empties dir, creating it when absent. The previous dataset is
// removed wholesale so stale tables never outlive a run that no longer
// produces them.
func clearDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}
