// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/odm-import/internal/database"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the ODM SQLite database",
	Long: `Db manages a SQLite database carrying the published ODM schema. Use
subcommands to create an empty database or to convert its contents back
into an ODM CSV folder.`,
}

var dbInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an empty ODM database",
	RunE:  runDBInit,
}

func runDBInit(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)

	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.Database.Path, cfg.Catalog.CacheDir, cat)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Printf("Created ODM database at %s\n", cfg.Database.Path)
	return nil
}

var dbDumpCmd = &cobra.Command{
	Use:   "dump [tables...]",
	Short: "Convert database contents into an ODM CSV folder",
	Long: `Dump reads ODM tables from the database (all of them by default, or
the named subset) and writes one CSV file per populated table into the
output folder.`,
	RunE: runDBDump,
}

func runDBDump(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)

	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.Database.Path, cfg.Catalog.CacheDir, cat)
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := db.LoadTables(context.Background(), args...)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.Export.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output folder: %w", err)
	}

	summary, err := store.WriteCSVDir(cfg.Export.OutputDir, os.Stdout)
	if err != nil {
		return err
	}
	fmt.Printf("\nDumped %d of %d tables (%d rows) to %s\n",
		summary.Tables, summary.Total(), summary.Rows, cfg.Export.OutputDir)
	return nil
}

func init() {
	dbCmd.PersistentFlags().String("db-path", "Output/wbe.db", "SQLite database path")
	dbDumpCmd.Flags().String("output-dir", "Output", "folder receiving the ODM CSV files")

	dbCmd.AddCommand(dbInitCmd)
	dbCmd.AddCommand(dbDumpCmd)
	rootCmd.AddCommand(dbCmd)
}
