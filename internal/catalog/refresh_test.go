// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/odm-import/pkg/types"
)

const upstreamVariables = "tableName,variableName,variableType\n" +
	"Sample,sampleID,string\n" +
	"Sample,pooled,boolean\n"

const upstreamSchema = "CREATE TABLE IF NOT EXISTS Sample (sampleID TEXT);\n"

func refreshServer(t *testing.T, variables string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "variables.csv"):
			w.Write([]byte(variables))
		case strings.HasSuffix(r.URL.Path, "schema.sql"):
			w.Write([]byte(upstreamSchema))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRefresh(t *testing.T) {
	srv := refreshServer(t, upstreamVariables)
	cacheDir := t.TempDir()

	cfg := types.CatalogConfig{
		VariablesURL: srv.URL + "/variables.csv",
		SchemaURL:    srv.URL + "/schema.sql",
		CacheDir:     cacheDir,
	}
	var out bytes.Buffer
	if err := Refresh(context.Background(), cfg, &out); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out.String(), "refreshed variables.csv") {
		t.Errorf("progress output = %q", out.String())
	}

	data, err := os.ReadFile(filepath.Join(cacheDir, CachedVariablesFile))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != upstreamVariables {
		t.Errorf("cached catalog = %q", data)
	}

	// Load now prefers the cached file over the embedded snapshot.
	cat, err := Load(cacheDir)
	if err != nil {
		t.Fatal(err)
	}
	if got := cat.VariableCount("Sample"); got != 2 {
		t.Errorf("cached variable count = %d, want 2", got)
	}
	if got := Schema(cacheDir); got != upstreamSchema {
		t.Errorf("cached schema = %q", got)
	}

	meta, err := LoadMetadata(cacheDir)
	if err != nil {
		t.Fatal(err)
	}
	if meta.RefreshedAt.IsZero() || meta.VariablesURL != cfg.VariablesURL {
		t.Errorf("metadata = %+v", meta)
	}
}

func TestRefresh_RejectsBrokenUpstream(t *testing.T) {
	// The upstream file lacks a variableType column, so it must not replace
	// anything in the cache.
	srv := refreshServer(t, "tableName,variableName\nSample,sampleID\n")
	cacheDir := t.TempDir()

	cfg := types.CatalogConfig{
		VariablesURL: srv.URL + "/variables.csv",
		SchemaURL:    srv.URL + "/schema.sql",
		CacheDir:     cacheDir,
	}
	err := Refresh(context.Background(), cfg, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "not usable") {
		t.Fatalf("err = %v, want upstream rejection", err)
	}

	if _, statErr := os.Stat(filepath.Join(cacheDir, CachedVariablesFile)); !os.IsNotExist(statErr) {
		t.Error("broken upstream catalog was written to the cache")
	}
}

func TestRefresh_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	cfg := types.CatalogConfig{
		VariablesURL: srv.URL + "/variables.csv",
		SchemaURL:    srv.URL + "/schema.sql",
		CacheDir:     t.TempDir(),
	}
	err := Refresh(context.Background(), cfg, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "unexpected status") {
		t.Fatalf("err = %v, want status error", err)
	}
}

func TestLoadMetadata_Missing(t *testing.T) {
	meta, err := LoadMetadata(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if !meta.RefreshedAt.IsZero() {
		t.Errorf("metadata from empty cache = %+v, want zero", meta)
	}
}
