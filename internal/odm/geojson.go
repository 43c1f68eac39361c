// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package odm

import (
	"fmt"
	"strconv"
	"strings"
)

// Geometry is a GeoJSON geometry. Coordinates nest per the geometry type:
// [][][]float64 for Polygon, [][][][]float64 for MultiPolygon.
type Geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

// Feature is a GeoJSON feature carrying one sewershed or health-region
// polygon and its table properties.
type Feature struct {
	Type       string         `json:"type"`
	Geometry   *Geometry      `json:"geometry"`
	Properties map[string]any `json:"properties"`
	ID         int            `json:"id"`
}

// FeatureCollection is the GeoJSON document for the Polygon table.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// GeoJSON converts the Polygon table into a FeatureCollection. Each row
// becomes a feature: the wkt column supplies the geometry and every other
// column becomes a property.
func (d *Dataset) GeoJSON() (*FeatureCollection, error) {
	fc := &FeatureCollection{Type: "FeatureCollection", Features: []Feature{}}
	polygons := d.Table("polygon")
	if polygons.Len() == 0 {
		return fc, nil
	}

	for i, row := range polygons.Rows {
		wkt, _ := row["wkt"].(string)
		geom, err := ParseWKT(wkt)
		if err != nil {
			return nil, fmt.Errorf("polygon row %d: %w", i, err)
		}
		props := make(map[string]any, len(polygons.Columns))
		for _, c := range polygons.Columns {
			if strings.Contains(c, "wkt") {
				continue
			}
			props[c] = row[c]
		}
		fc.Features = append(fc.Features, Feature{
			Type:       "Feature",
			Geometry:   geom,
			Properties: props,
			ID:         i,
		})
	}
	return fc, nil
}

// ParseWKT parses a POLYGON or MULTIPOLYGON well-known-text string into a
// GeoJSON geometry. Other WKT geometry types do not occur in ODM data.
func ParseWKT(wkt string) (*Geometry, error) {
	s := strings.TrimSpace(wkt)
	upper := strings.ToUpper(s)
	switch {
	case strings.HasPrefix(upper, "POLYGON"):
		body, err := parenBody(s[len("POLYGON"):])
		if err != nil {
			return nil, err
		}
		rings, err := parseRings(body)
		if err != nil {
			return nil, err
		}
		return &Geometry{Type: "Polygon", Coordinates: rings}, nil
	case strings.HasPrefix(upper, "MULTIPOLYGON"):
		body, err := parenBody(s[len("MULTIPOLYGON"):])
		if err != nil {
			return nil, err
		}
		var polys [][][][]float64
		for _, part := range splitTopLevel(body) {
			inner, err := parenBody(part)
			if err != nil {
				return nil, err
			}
			rings, err := parseRings(inner)
			if err != nil {
				return nil, err
			}
			polys = append(polys, rings)
		}
		return &Geometry{Type: "MultiPolygon", Coordinates: polys}, nil
	case s == "":
		return nil, fmt.Errorf("empty wkt")
	default:
		return nil, fmt.Errorf("unsupported wkt geometry %q", strings.SplitN(upper, " ", 2)[0])
	}
}

// parenBody strips one level of enclosing parentheses.
func parenBody(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "(") || !strings.HasSuffix(s, ")") {
		return "", fmt.Errorf("malformed wkt: expected parenthesized body in %q", s)
	}
	return s[1 : len(s)-1], nil
}

// splitTopLevel splits on commas that sit outside any parentheses.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	parts = append(parts, strings.TrimSpace(s[start:]))
	return parts
}

// parseRings parses "(x y, x y, ...), (...)" into GeoJSON ring arrays.
func parseRings(body string) ([][][]float64, error) {
	var rings [][][]float64
	for _, part := range splitTopLevel(body) {
		inner, err := parenBody(part)
		if err != nil {
			return nil, err
		}
		var ring [][]float64
		for _, pair := range strings.Split(inner, ",") {
			fields := strings.Fields(pair)
			if len(fields) < 2 {
				return nil, fmt.Errorf("malformed wkt coordinate %q", pair)
			}
			x, err := strconv.ParseFloat(fields[0], 64)
			if err != nil {
				return nil, fmt.Errorf("parsing wkt coordinate %q: %w", pair, err)
			}
			y, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return nil, fmt.Errorf("parsing wkt coordinate %q: %w", pair, err)
			}
			ring = append(ring, []float64{x, y})
		}
		rings = append(rings, ring)
	}
	return rings, nil
}
