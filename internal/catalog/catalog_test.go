// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name: "valid catalog",
			input: "tableName,variableName,variableType\n" +
				"Sample,sampleID,string\n" +
				"Sample,dateTime,datetime\n" +
				"WWMeasure,value,float\n",
		},
		{
			name: "extra columns ignored",
			input: "tableName,variableDesc,variableName,variableType\n" +
				"Sample,the id,sampleID,string\n",
		},
		{
			name:    "missing type column",
			input:   "tableName,variableName\nSample,sampleID\n",
			wantErr: "variableType",
		},
		{
			name:    "no variables",
			input:   "tableName,variableName,variableType\n",
			wantErr: "no variables",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if c == nil {
				t.Fatal("Parse returned nil catalog")
			}
		})
	}
}

func TestKindLookup(t *testing.T) {
	c, err := Parse(strings.NewReader(
		"tableName,variableName,variableType\n" +
			"Sample,dateTime,datetime\n" +
			"Sample,reportDate,date\n" +
			"Sample,qualityFlag,boolean\n" +
			"WWMeasure,value,float\n" +
			"WWMeasure,index,integer\n" +
			"Polygon,type,category\n" +
			"Polygon,file,blob\n"))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		table, variable string
		want            Kind
	}{
		{"Sample", "dateTime", KindDatetime},
		{"Sample", "reportDate", KindDatetime},
		{"Sample", "qualityFlag", KindBool},
		{"WWMeasure", "value", KindFloat},
		{"WWMeasure", "index", KindInteger},
		{"Polygon", "type", KindCategory},
		{"Polygon", "file", KindBlob},
		// Case-insensitive variable lookup.
		{"Sample", "DATETIME", KindDatetime},
		// Unknown variables and tables default to string.
		{"Sample", "mystery", KindString},
		{"NoSuchTable", "value", KindString},
	}

	for _, tt := range tests {
		if got := c.Kind(tt.table, tt.variable); got != tt.want {
			t.Errorf("Kind(%s, %s) = %q, want %q", tt.table, tt.variable, got, tt.want)
		}
	}
}

func TestLoadEmbeddedSnapshot(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// The snapshot must cover every ODM table the converter handles.
	for _, table := range []string{
		"Sample", "WWMeasure", "Site", "SiteMeasure", "Reporter",
		"Lab", "AssayMethod", "Instrument", "Polygon", "CovidPublicHealthData",
	} {
		if c.VariableCount(table) == 0 {
			t.Errorf("embedded snapshot has no variables for %s", table)
		}
	}

	if got := c.Kind("WWMeasure", "value"); got != KindFloat {
		t.Errorf("WWMeasure.value kind = %q, want float", got)
	}
	if got := c.Kind("Sample", "qualityFlag"); got != KindBool {
		t.Errorf("Sample.qualityFlag kind = %q, want bool", got)
	}
}

func TestLoadPrefersCache(t *testing.T) {
	dir := t.TempDir()
	cached := "tableName,variableName,variableType\nSample,sampleID,string\n"
	if err := os.WriteFile(filepath.Join(dir, CachedVariablesFile), []byte(cached), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := len(c.Tables()); got != 1 {
		t.Errorf("cached catalog has %d tables, want 1", got)
	}
}

func TestSchema(t *testing.T) {
	if !strings.Contains(Schema(""), "CREATE TABLE") {
		t.Error("embedded schema has no CREATE TABLE statements")
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, CachedSchemaFile), []byte("-- cached"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := Schema(dir); got != "-- cached" {
		t.Errorf("Schema did not prefer the cached copy: %q", got)
	}
}
