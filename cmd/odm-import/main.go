// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the odm-import CLI, the converter
// that turns lab submissions into ODM-compatible datasets.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/odm-import/internal/catalog"
	"github.com/pdiddy/odm-import/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the odm-import CLI.
var rootCmd = &cobra.Command{
	Use:   "odm-import",
	Short: "Convert wastewater lab submissions into ODM datasets",
	Long: `odm-import converts wastewater surveillance data into the ODM data model.
A conversion run reads the static workbook and the lab results workbook from
the input folder and writes one CSV file per ODM table into the output
folder. Further subcommands export a dataset to SQLite or GeoJSON, build the
per-sample wide table, and manage the variable catalog.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./odm-import.yaml or ~/.config/odm-import/config.yaml)")
	rootCmd.PersistentFlags().String("cache-dir", catalog.DefaultCacheDir, "directory holding refreshed catalog files")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("odm-import")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "odm-import"))
		}
	}

	viper.SetEnvPrefix("ODM_IMPORT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// stringSetting resolves a setting with flag > config file > fallback
// precedence. The flag wins only when explicitly set, so config values are
// not shadowed by flag defaults.
func stringSetting(cmd *cobra.Command, flag, key, fallback string) string {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetString(flag)
		return v
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return fallback
}

// pipelineConfig assembles the stage configuration for a command.
func pipelineConfig(cmd *cobra.Command) types.PipelineConfig {
	return types.PipelineConfig{
		Import: types.ImportConfig{
			InputDir:   stringSetting(cmd, "input-dir", "import.input_dir", "Input"),
			StaticFile: stringSetting(cmd, "static-file", "import.static_file", "StaticData.xlsx"),
			LabFile:    stringSetting(cmd, "lab-file", "import.lab_file", "LabData.xlsx"),
			LabSheet:   stringSetting(cmd, "lab-sheet", "import.lab_sheet", "Results"),
			LabID:      stringSetting(cmd, "lab-id", "import.lab_id", ""),
		},
		Export: types.ExportConfig{
			OutputDir: stringSetting(cmd, "output-dir", "export.output_dir", "Output"),
		},
		Database: types.DatabaseConfig{
			Path: stringSetting(cmd, "db-path", "database.path", filepath.Join("Output", "wbe.db")),
		},
		Catalog: types.CatalogConfig{
			VariablesURL: viper.GetString("catalog.variables_url"),
			SchemaURL:    viper.GetString("catalog.schema_url"),
			CacheDir:     cacheDir(),
		},
	}
}

func cacheDir() string {
	if rootCmd.PersistentFlags().Changed("cache-dir") {
		v, _ := rootCmd.PersistentFlags().GetString("cache-dir")
		return v
	}
	if viper.IsSet("catalog.cache_dir") {
		return viper.GetString("catalog.cache_dir")
	}
	return catalog.DefaultCacheDir
}

// loadCatalog loads the variable catalog, preferring a refreshed copy.
func loadCatalog() (*catalog.Catalog, error) {
	cat, err := catalog.Load(cacheDir())
	if err != nil {
		return nil, fmt.Errorf("loading variable catalog: %w", err)
	}
	return cat, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
