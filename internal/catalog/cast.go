// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// unknownToken matches the placeholder spellings labs use for missing
// values: na, n.d., n/a, none, unknown, a lone dash, or an empty cell.
var unknownToken = regexp.MustCompile(`^(nan|na|nd|n\.?[ad]\.?|n/[ad]|none|unk.*|-)?$`)

// IsUnknown reports whether a raw cell is one of the missing-value tokens.
func IsUnknown(raw string) bool {
	return unknownToken.MatchString(strings.ToLower(strings.TrimSpace(raw)))
}

// CastCell converts a raw cell string into the typed value the catalog
// prescribes for the column. Unknown tokens become the type's missing value:
// nil for numbers and timestamps, "" for text, and the column default for
// booleans (false for qualityFlag, true otherwise). Blob cells pass through
// untouched.
func (c *Catalog) CastCell(table, column, raw string) any {
	kind := c.Kind(table, column)
	if kind == KindBlob {
		return raw
	}
	raw = strings.TrimSpace(raw)

	switch kind {
	case KindBool:
		return castBool(column, raw)
	case KindFloat, KindInteger:
		if IsUnknown(raw) {
			return nil
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil
		}
		return f
	case KindDatetime:
		if IsUnknown(raw) {
			return nil
		}
		return castTime(raw)
	default:
		if IsUnknown(raw) {
			return ""
		}
		// WKT geometry is case-sensitive; everything else normalizes to
		// lowercase so categories compare reliably across submitters.
		if strings.EqualFold(column, "wkt") {
			return raw
		}
		return strings.ToLower(raw)
	}
}

func castBool(column, raw string) bool {
	v := strings.ToLower(strings.TrimSpace(raw))
	if IsUnknown(v) {
		// qualityFlag left blank means no known issue; other booleans
		// (access rights, pooled) default open.
		return !strings.Contains(strings.ToLower(column), "qualityflag")
	}
	switch {
	case strings.HasPrefix(v, "true"), v == "oui", v == "yes", v == "1":
		return true
	default:
		return false
	}
}

// timeLayouts lists the timestamp spellings that occur in lab submissions.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006",
	"2006/01/02",
}

// excelEpoch is day zero of the 1900 date system used by spreadsheet cells.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// castTime parses a timestamp cell, returning nil when no layout matches.
// Bare numbers are treated as spreadsheet serial dates.
func castTime(raw string) any {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC()
		}
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil && serial > 59 {
		days := int(serial)
		frac := serial - float64(days)
		return excelEpoch.AddDate(0, 0, days).
			Add(time.Duration(frac * 24 * float64(time.Hour))).UTC()
	}
	return nil
}
