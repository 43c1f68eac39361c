// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog provides the ODM variable catalog: the table/variable/type
// triples that drive column type casting, plus the SQLite DDL for the ODM
// schema. A snapshot of both ships embedded in the binary; Refresh updates
// them from the upstream data-model repository.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

//go:embed variables.csv
var embeddedVariables []byte

//go:embed schema.sql
var embeddedSchema string

// Kind is the normalized value type of an ODM variable.
type Kind string

const (
	KindString   Kind = "string"
	KindCategory Kind = "category"
	KindBool     Kind = "bool"
	KindFloat    Kind = "float"
	KindInteger  Kind = "integer"
	KindDatetime Kind = "datetime"
	KindBlob     Kind = "blob"
)

// CachedVariablesFile and CachedSchemaFile are the filenames Refresh writes
// under the cache directory and Load/Schema prefer over the embedded copies.
const (
	CachedVariablesFile = "variables.csv"
	CachedSchemaFile    = "schema.sql"
)

// Catalog resolves the value type of every known table column. Lookups fall
// back to string for variables absent from the catalog.
type Catalog struct {
	// kinds is keyed by ODM table name, then lowercased variable name.
	kinds map[string]map[string]Kind
}

// Load reads the variable catalog, preferring a refreshed copy under
// cacheDir over the embedded snapshot. An empty cacheDir or a missing cache
// file loads the snapshot.
func Load(cacheDir string) (*Catalog, error) {
	if cacheDir != "" {
		data, err := os.ReadFile(filepath.Join(cacheDir, CachedVariablesFile))
		if err == nil {
			return Parse(bytes.NewReader(data))
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading cached catalog: %w", err)
		}
	}
	return Parse(bytes.NewReader(embeddedVariables))
}

var datetimeType = regexp.MustCompile(`^date(time)?$`)

// Parse reads a Variables.csv document. Columns are located by header name;
// extra columns are ignored.
func Parse(r io.Reader) (*Catalog, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading catalog header: %w", err)
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	for _, required := range []string{"tableName", "variableName", "variableType"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("catalog missing %q column", required)
		}
	}

	c := &Catalog{kinds: make(map[string]map[string]Kind)}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading catalog: %w", err)
		}
		table := strings.TrimSpace(record[col["tableName"]])
		variable := strings.ToLower(strings.TrimSpace(record[col["variableName"]]))
		if table == "" || variable == "" {
			continue
		}
		if c.kinds[table] == nil {
			c.kinds[table] = make(map[string]Kind)
		}
		c.kinds[table][variable] = normalizeKind(record[col["variableType"]])
	}
	if len(c.kinds) == 0 {
		return nil, fmt.Errorf("catalog has no variables")
	}
	return c, nil
}

func normalizeKind(raw string) Kind {
	switch t := strings.ToLower(strings.TrimSpace(raw)); {
	case datetimeType.MatchString(t):
		return KindDatetime
	case t == "boolean" || t == "bool":
		return KindBool
	case t == "float":
		return KindFloat
	case t == "integer":
		return KindInteger
	case t == "category":
		return KindCategory
	case t == "blob":
		return KindBlob
	default:
		return KindString
	}
}

// Kind returns the value type of a table column, or KindString when the
// column is not in the catalog.
func (c *Catalog) Kind(table, variable string) Kind {
	if vars, ok := c.kinds[table]; ok {
		if k, ok := vars[strings.ToLower(variable)]; ok {
			return k
		}
	}
	return KindString
}

// Tables returns the catalogued table names, sorted.
func (c *Catalog) Tables() []string {
	tables := make([]string, 0, len(c.kinds))
	for t := range c.kinds {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	return tables
}

// VariableCount returns the number of catalogued variables for a table.
func (c *Catalog) VariableCount(table string) int {
	return len(c.kinds[table])
}

// Schema returns the ODM SQLite DDL, preferring a refreshed copy under
// cacheDir over the embedded snapshot.
func Schema(cacheDir string) string {
	if cacheDir != "" {
		data, err := os.ReadFile(filepath.Join(cacheDir, CachedSchemaFile))
		if err == nil {
			return string(data)
		}
	}
	return embeddedSchema
}
