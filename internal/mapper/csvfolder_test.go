// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mapper

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCSVFolderMapperRead(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Sample.csv",
		"sampleID,siteID,dateTime\ns1,st1,2021-02-01T13:30:00Z\n")
	writeFile(t, dir, "Site.csv",
		"siteID,name\nst1,plant a\n")
	// Ignored: not an ODM table, a lock file, not a CSV.
	writeFile(t, dir, "NotATable.csv", "a,b\n1,2\n")
	writeFile(t, dir, "$Sample.csv", "junk")
	writeFile(t, dir, "readme.txt", "notes")
	// Header-only files contribute nothing.
	writeFile(t, dir, "Lab.csv", "labID,name\n")

	m := NewCSVFolderMapper(embeddedCatalog(t))
	if err := m.Read(dir); err != nil {
		t.Fatal(err)
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}

	if len(m.Tables()) != 2 {
		t.Fatalf("tables = %d, want sample and site only", len(m.Tables()))
	}
	sample := m.Tables()["sample"]
	ts, ok := sample.Rows[0]["dateTime"].(time.Time)
	if !ok {
		t.Fatalf("dateTime = %T, want time.Time", sample.Rows[0]["dateTime"])
	}
	want := time.Date(2021, 2, 1, 13, 30, 0, 0, time.UTC)
	if !ts.Equal(want) {
		t.Errorf("dateTime = %v, want %v", ts, want)
	}
}

func TestCSVFolderMapperValidate(t *testing.T) {
	m := NewCSVFolderMapper(embeddedCatalog(t))
	if err := m.Read(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	if err := m.Validate(); err == nil {
		t.Error("expected error for empty folder")
	}

	dir := t.TempDir()
	writeFile(t, dir, "Site.csv", "siteID,name\n,plant a\n")
	if err := m.Read(dir); err != nil {
		t.Fatal(err)
	}
	if err := m.Validate(); err == nil {
		t.Error("expected error for blank siteID")
	}
}

func TestCSVFolderMapperRead_MissingDir(t *testing.T) {
	m := NewCSVFolderMapper(embeddedCatalog(t))
	if err := m.Read(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("expected error for missing folder")
	}
}
