// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/odm-import/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the ODM variable catalog",
	Long: `Catalog manages the variable catalog that drives column type casting.
A snapshot ships inside the binary; refresh downloads the current catalog
and schema DDL from the upstream data-model repository.`,
}

var catalogRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Download the current catalog and schema from upstream",
	RunE:  runCatalogRefresh,
}

func runCatalogRefresh(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)
	return catalog.Refresh(context.Background(), cfg.Catalog, os.Stdout)
}

var catalogShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List the catalogued tables and their variable counts",
	RunE:  runCatalogShow,
}

func runCatalogShow(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	for _, table := range cat.Tables() {
		fmt.Printf("%-24s %d variables\n", table, cat.VariableCount(table))
	}

	meta, err := catalog.LoadMetadata(cacheDir())
	if err != nil {
		return err
	}
	if meta.RefreshedAt.IsZero() {
		fmt.Println("\nUsing embedded catalog snapshot.")
	} else {
		fmt.Printf("\nRefreshed %s from %s\n",
			meta.RefreshedAt.Format("2006-01-02 15:04"), meta.VariablesURL)
	}
	return nil
}

func init() {
	catalogCmd.AddCommand(catalogRefreshCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	rootCmd.AddCommand(catalogCmd)
}
