package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/odm-import/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the conversion: input workbooks to ODM CSV folder",
	Long: `Run reads the static workbook and the lab results workbook from the
input folder, merges them into one ODM dataset, clears the output folder of
the previous dataset, and writes one CSV file per populated ODM table.`,
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)
	if cfg.Import.LabID == "" {
		return fmt.Errorf("lab ID required: set --lab-id or import.lab_id in the config file")
	}

	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	_, err = pipeline.Run(cfg, cat, os.Stdout)
	return err
}

func init() {
	runCmd.Flags().String("input-dir", "Input", "folder holding the input workbooks")
	runCmd.Flags().String("static-file", "StaticData.xlsx", "static workbook filename inside the input folder")
	runCmd.Flags().String("lab-file", "LabData.xlsx", "lab results workbook filename inside the input folder")
	runCmd.Flags().String("lab-sheet", "Results", "worksheet name holding the lab results")
	runCmd.Flags().String("lab-id", "", "identifier of the reporting lab")
	runCmd.Flags().String("output-dir", "Output", "folder receiving the ODM CSV files")

	rootCmd.AddCommand(runCmd)
}
