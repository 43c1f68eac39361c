package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "odm-import/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ImportConfig holds settings for the conversion run: where the input
// workbooks live and how the lab workbook should be read.
type ImportConfig struct {
	// InputDir is the directory holding the static and lab workbooks.
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// StaticFile is the filename of the static workbook inside InputDir.
	// The static workbook carries the Site, Polygon, Reporter, Lab,
	// AssayMethod and Instrument sheets.
	StaticFile string `json:"static_file" yaml:"static_file"`

	// LabFile is the filename of the lab results workbook inside InputDir.
	LabFile string `json:"lab_file" yaml:"lab_file"`

	// LabSheet is the worksheet name holding the lab results.
	LabSheet string `json:"lab_sheet" yaml:"lab_sheet"`

	// LabID identifies the reporting lab; stamped on every measure row.
	LabID string `json:"lab_id" yaml:"lab_id"`
}

// ExportFormat selects the output representation of a dataset.
type ExportFormat string

const (
	FormatCSV     ExportFormat = "csv"
	FormatSQLite  ExportFormat = "sqlite"
	FormatGeoJSON ExportFormat = "geojson"
)

// ExportConfig holds settings for dataset export.
type ExportConfig struct {
	// OutputDir is the directory that receives the converted files.
	// The conversion run clears it before writing.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Format selects the export representation: csv, sqlite, or geojson.
	Format ExportFormat `json:"format" yaml:"format"`
}

// DatabaseConfig holds settings for the SQLite-backed dataset store.
type DatabaseConfig struct {
	// Path is the SQLite database file path (e.g. "Output/wbe.db").
	Path string `json:"path" yaml:"path"`
}

// CatalogConfig holds settings for the variable catalog refresh.
type CatalogConfig struct {
	HTTPConfig `yaml:",inline"`

	// VariablesURL overrides the upstream Variables.csv location.
	VariablesURL string `json:"variables_url,omitempty" yaml:"variables_url,omitempty"`

	// SchemaURL overrides the upstream SQLite DDL location.
	SchemaURL string `json:"schema_url,omitempty" yaml:"schema_url,omitempty"`

	// CacheDir is where refreshed catalog files are written
	// (default ".odm-import").
	CacheDir string `json:"cache_dir" yaml:"cache_dir"`
}

// PipelineConfig groups all stage configurations for the converter.
type PipelineConfig struct {
	Import   ImportConfig   `json:"import" yaml:"import"`
	Export   ExportConfig   `json:"export" yaml:"export"`
	Database DatabaseConfig `json:"database" yaml:"database"`
	Catalog  CatalogConfig  `json:"catalog" yaml:"catalog"`
}
