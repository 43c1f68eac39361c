// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package odm

import (
	"reflect"
	"testing"
	"time"
)

func TestTableColumns(t *testing.T) {
	tab := NewTable("Sample", "sampleID", "siteID")

	tab.AddColumn("notes")
	tab.AddColumn("siteID") // duplicate is a no-op
	want := []string{"sampleID", "siteID", "notes"}
	if !reflect.DeepEqual(tab.Columns, want) {
		t.Errorf("Columns = %v, want %v", tab.Columns, want)
	}

	tab.Rows = append(tab.Rows, Row{"sampleID": "s1", "siteID": "st1", "notes": "x"})
	tab.DropColumns("notes")
	if tab.HasColumn("notes") {
		t.Error("DropColumns left the column declared")
	}
	if _, ok := tab.Rows[0]["notes"]; ok {
		t.Error("DropColumns left the cell in place")
	}

	tab.RenameColumn("siteID", "site")
	if !tab.HasColumn("site") || tab.HasColumn("siteID") {
		t.Errorf("RenameColumn: columns = %v", tab.Columns)
	}
	if tab.Rows[0]["site"] != "st1" {
		t.Errorf("RenameColumn did not move the cell: %v", tab.Rows[0])
	}
}

func TestAddPrefix(t *testing.T) {
	tab := NewTable("Site", "siteID", "name")
	tab.Rows = append(tab.Rows, Row{"siteID": "st1", "name": "plant a"})

	tab.AddPrefix("Site.")

	want := []string{"Site.siteID", "Site.name"}
	if !reflect.DeepEqual(tab.Columns, want) {
		t.Errorf("Columns = %v, want %v", tab.Columns, want)
	}
	if tab.Rows[0]["Site.siteID"] != "st1" {
		t.Errorf("prefixed cell missing: %v", tab.Rows[0])
	}
}

func TestCopyIsDeep(t *testing.T) {
	tab := NewTable("Site", "siteID")
	tab.Rows = append(tab.Rows, Row{"siteID": "st1"})

	dup := tab.Copy()
	dup.Rows[0]["siteID"] = "changed"
	dup.AddColumn("extra")

	if tab.Rows[0]["siteID"] != "st1" {
		t.Error("Copy shares row storage with the original")
	}
	if tab.HasColumn("extra") {
		t.Error("Copy shares the column slice with the original")
	}
}

func TestCellText(t *testing.T) {
	ts := time.Date(2021, 2, 1, 13, 30, 0, 0, time.UTC)
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"abc", "abc"},
		{true, "true"},
		{false, "false"},
		{12.5, "12.5"},
		{7.0, "7"},
		{ts, "2021-02-01T13:30:00Z"},
	}
	for _, tt := range tests {
		if got := CellText(tt.in); got != tt.want {
			t.Errorf("CellText(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNilTableLen(t *testing.T) {
	var tab *Table
	if tab.Len() != 0 {
		t.Error("nil table should have zero length")
	}
}
