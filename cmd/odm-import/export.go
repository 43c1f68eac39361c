// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/odm-import/internal/database"
	"github.com/pdiddy/odm-import/internal/mapper"
	"github.com/pdiddy/odm-import/internal/odm"
	"github.com/pdiddy/odm-import/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a converted dataset to CSV, SQLite or GeoJSON",
	Long: `Export reads the ODM CSV folder produced by a conversion run and writes
it out in another representation: a SQLite database with the published ODM
schema, a GeoJSON FeatureCollection of the sewershed polygons, or a
re-cast CSV folder.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)
	cfg.Export.Format = types.ExportFormat(
		stringSetting(cmd, "format", "export.format", string(types.FormatSQLite)))

	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	folder := mapper.NewCSVFolderMapper(cat)
	if err := folder.Read(cfg.Export.OutputDir); err != nil {
		return err
	}
	store := odm.NewDataset()
	if err := store.AppendFrom(folder); err != nil {
		return fmt.Errorf("loading dataset from %s: %w", cfg.Export.OutputDir, err)
	}

	switch cfg.Export.Format {
	case types.FormatCSV:
		dir, _ := cmd.Flags().GetString("csv-dir")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		summary, err := store.WriteCSVDir(dir, os.Stdout)
		if err != nil {
			return err
		}
		fmt.Printf("Exported %d tables (%d rows) to %s\n", summary.Tables, summary.Rows, dir)
		return nil

	case types.FormatSQLite:
		db, err := database.Open(cfg.Database.Path, cfg.Catalog.CacheDir, cat)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.SaveDataset(context.Background(), store); err != nil {
			return err
		}
		fmt.Printf("Exported to %s\n", cfg.Database.Path)
		return nil

	case types.FormatGeoJSON:
		out, _ := cmd.Flags().GetString("geojson-file")
		fc, err := store.GeoJSON()
		if err != nil {
			return err
		}
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		if err := enc.Encode(fc); err != nil {
			return err
		}
		fmt.Printf("Exported %d polygons to %s\n", len(fc.Features), out)
		return nil

	default:
		return fmt.Errorf("unknown export format %q: use csv, sqlite or geojson", cfg.Export.Format)
	}
}

func init() {
	exportCmd.Flags().String("format", "sqlite", "export format: csv, sqlite or geojson")
	exportCmd.Flags().String("output-dir", "Output", "folder holding the converted dataset")
	exportCmd.Flags().String("db-path", "Output/wbe.db", "SQLite database path for --format sqlite")
	exportCmd.Flags().String("geojson-file", "Output/polygons.geojson", "output path for --format geojson")
	exportCmd.Flags().String("csv-dir", "Output/csv", "target folder for --format csv")

	rootCmd.AddCommand(exportCmd)
}
