// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package odm models an ODM dataset: the typed tables of the wastewater
// surveillance data model, their merge semantics, and the derived outputs
// (CSV folder, per-sample wide table, GeoJSON polygons).
package odm

import "fmt"

// TableSource yields ODM tables keyed by attribute key. Mappers for the
// different input formats (workbooks, CSV folders) implement it.
type TableSource interface {
	// Tables returns the parsed tables, keyed by attribute key.
	Tables() map[string]*Table
	// Validate reports whether the parsed tables are usable.
	Validate() error
}

// Dataset holds one table per ODM table. Tables are nil until populated.
type Dataset struct {
	tables map[string]*Table
}

// NewDataset creates an empty dataset.
func NewDataset() *Dataset {
	return &Dataset{tables: make(map[string]*Table)}
}

// Table returns the table stored under the attribute key, or nil.
func (d *Dataset) Table(key string) *Table {
	return d.tables[key]
}

// Append concatenates rows into the table stored under the attribute key,
// dropping rows that duplicate ones already present.
func (d *Dataset) Append(key string, t *Table) error {
	info, ok := InfoFor(key)
	if !ok {
		return fmt.Errorf("unknown ODM table %q", key)
	}
	if t.Len() == 0 {
		return nil
	}

	current := d.tables[info.Key]
	if current == nil {
		d.tables[info.Key] = t.Copy()
		return nil
	}

	for _, c := range t.Columns {
		current.AddColumn(c)
	}
	seen := make(map[string]bool, len(current.Rows))
	for _, row := range current.Rows {
		seen[current.fingerprint(row)] = true
	}
	for _, row := range t.Rows {
		fp := current.fingerprint(row)
		if seen[fp] {
			continue
		}
		seen[fp] = true
		current.Rows = append(current.Rows, row)
	}
	return nil
}

// AppendFrom validates a source and appends every table it yields.
func (d *Dataset) AppendFrom(src TableSource) error {
	if err := src.Validate(); err != nil {
		return fmt.Errorf("validating source: %w", err)
	}
	for key, t := range src.Tables() {
		if t == nil {
			continue
		}
		if err := d.Append(key, t); err != nil {
			return err
		}
	}
	return nil
}

// Merge appends every populated table of another dataset into this one.
func (d *Dataset) Merge(other *Dataset) error {
	for _, key := range Keys() {
		t := other.Table(key)
		if t == nil {
			continue
		}
		if err := d.Append(key, t); err != nil {
			return err
		}
	}
	return nil
}

// Populated returns the attribute keys of non-empty tables in canonical order.
func (d *Dataset) Populated() []string {
	var keys []string
	for _, key := range Keys() {
		if d.tables[key].Len() > 0 {
			keys = append(keys, key)
		}
	}
	return keys
}
