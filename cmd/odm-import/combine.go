package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/odm-import/internal/mapper"
	"github.com/pdiddy/odm-import/internal/odm"
)

var combineCmd = &cobra.Command{
	Use:   "combine",
	Short: "Build the per-sample wide table from a converted dataset",
	Long: `Combine reads the ODM CSV folder produced by a conversion run and
flattens it into a single wide CSV with one row per sample: measures spread
into qualified columns and the site, site-measure and public-health tables
joined around each sample.`,
	RunE: runCombine,
}

func runCombine(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)
	out, _ := cmd.Flags().GetString("combined-file")

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

	combined, err := store.CombinePerSample()
	if err != nil {
		return err
	}
	if err := odm.WriteCombinedCSV(combined, out); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}

	fmt.Printf("Wrote %s (%d samples, %d columns)\n", out, combined.Len(), len(combined.Columns))
	return nil
}

func init() {
	combineCmd.Flags().String("output-dir", "Output", "folder holding the converted dataset")
	combineCmd.Flags().String("combined-file", "Output/combined.csv", "output path for the wide table")

	rootCmd.AddCommand(combineCmd)
}
