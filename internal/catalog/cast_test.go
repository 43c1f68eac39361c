// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"strings"
	"testing"
	"time"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Parse(strings.NewReader(
		"tableName,variableName,variableType\n" +
			"Sample,qualityFlag,boolean\n" +
			"Sample,pooled,boolean\n" +
			"Sample,dateTime,datetime\n" +
			"Sample,type,category\n" +
			"Sample,notes,string\n" +
			"WWMeasure,value,float\n" +
			"WWMeasure,index,integer\n" +
			"Polygon,wkt,string\n" +
			"Polygon,file,blob\n"))
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestIsUnknown(t *testing.T) {
	unknown := []string{"", "  ", "na", "NaN", "nd", "n.d.", "n/a", "N/D", "none", "unknown", "unk?", "-"}
	for _, s := range unknown {
		if !IsUnknown(s) {
			t.Errorf("IsUnknown(%q) = false, want true", s)
		}
	}
	known := []string{"12.5", "covN1", "true", "2021-02-01", "no data today"}
	for _, s := range known {
		if IsUnknown(s) {
			t.Errorf("IsUnknown(%q) = true, want false", s)
		}
	}
}

func TestCastCell_Bool(t *testing.T) {
	c := testCatalog(t)

	tests := []struct {
		column, raw string
		want        bool
	}{
		{"pooled", "true", true},
		{"pooled", "TRUE", true},
		{"pooled", "yes", true},
		{"pooled", "oui", true},
		{"pooled", "1", true},
		{"pooled", "false", false},
		{"pooled", "non", false},
		// Unknown tokens fall back to the column default: true for most
		// booleans, false for qualityFlag.
		{"pooled", "", true},
		{"pooled", "n/a", true},
		{"qualityFlag", "", false},
		{"qualityFlag", "nd", false},
		{"qualityFlag", "true", true},
	}

	for _, tt := range tests {
		got := c.CastCell("Sample", tt.column, tt.raw)
		if got != tt.want {
			t.Errorf("CastCell(Sample, %s, %q) = %v, want %v", tt.column, tt.raw, got, tt.want)
		}
	}
}

func TestCastCell_Numbers(t *testing.T) {
	c := testCatalog(t)

	if got := c.CastCell("WWMeasure", "value", "12.5"); got != 12.5 {
		t.Errorf("float cast = %v, want 12.5", got)
	}
	if got := c.CastCell("WWMeasure", "index", "3"); got != 3.0 {
		t.Errorf("integer cast = %v, want 3", got)
	}
	for _, raw := range []string{"", "nd", "not-a-number"} {
		if got := c.CastCell("WWMeasure", "value", raw); got != nil {
			t.Errorf("CastCell(value, %q) = %v, want nil", raw, got)
		}
	}
}

func TestCastCell_Text(t *testing.T) {
	c := testCatalog(t)

	// Categories normalize to lowercase.
	if got := c.CastCell("Sample", "type", "RawWW"); got != "rawww" {
		t.Errorf("category cast = %q, want lowercased", got)
	}
	// Unknown tokens scrub to empty.
	if got := c.CastCell("Sample", "notes", "n/a"); got != "" {
		t.Errorf("unknown text = %q, want empty", got)
	}
	// WKT keeps its case: geometry text is case-sensitive.
	wkt := "POLYGON ((0 0, 1 0, 1 1, 0 0))"
	if got := c.CastCell("Polygon", "wkt", wkt); got != wkt {
		t.Errorf("wkt cast = %q, want unchanged", got)
	}
}

func TestCastCell_Blob(t *testing.T) {
	c := testCatalog(t)

	// File contents must come through byte for byte: no lowercasing, no
	// trimming, no unknown-token scrubbing.
	blobs := []string{
		"GeoJSON File Contents",
		"  padded  ",
		"nd",
		"",
	}
	for _, raw := range blobs {
		if got := c.CastCell("Polygon", "file", raw); got != raw {
			t.Errorf("CastCell(Polygon, file, %q) = %q, want unchanged", raw, got)
		}
	}
}

func TestCastCell_Datetime(t *testing.T) {
	c := testCatalog(t)

	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2021-02-01", time.Date(2021, 2, 1, 0, 0, 0, 0, time.UTC)},
		{"2021-02-01 13:30:00", time.Date(2021, 2, 1, 13, 30, 0, 0, time.UTC)},
		{"2021-02-01T13:30:00Z", time.Date(2021, 2, 1, 13, 30, 0, 0, time.UTC)},
		// Spreadsheet serial date: 44228 is 2021-02-01.
		{"44228", time.Date(2021, 2, 1, 0, 0, 0, 0, time.UTC)},
		{"44228.5", time.Date(2021, 2, 1, 12, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got := c.CastCell("Sample", "dateTime", tt.raw)
		ts, ok := got.(time.Time)
		if !ok {
			t.Errorf("CastCell(dateTime, %q) = %v, want time.Time", tt.raw, got)
			continue
		}
		if !ts.Equal(tt.want) {
			t.Errorf("CastCell(dateTime, %q) = %v, want %v", tt.raw, ts, tt.want)
		}
	}

	for _, raw := range []string{"", "nd", "yesterday"} {
		if got := c.CastCell("Sample", "dateTime", raw); got != nil {
			t.Errorf("CastCell(dateTime, %q) = %v, want nil", raw, got)
		}
	}
}
