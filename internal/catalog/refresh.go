// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/odm-import/internal/httputil"
	"github.com/pdiddy/odm-import/pkg/types"
)

// Upstream locations of the published data model, overridable via config.
const (
	DefaultVariablesURL = "https://raw.githubusercontent.com/Big-Life-Lab/covid-19-wastewater/main/site/Variables.csv"
	DefaultSchemaURL    = "https://raw.githubusercontent.com/Big-Life-Lab/covid-19-wastewater/dev/src/wbe_create_table_SQLITE_en.sql"

	// DefaultCacheDir receives refreshed catalog files.
	DefaultCacheDir = ".odm-import"

	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "odm-import/0.1"
)

// Refresh downloads the variable catalog and the schema DDL from the
// upstream data-model repository into the cache directory, where Load and
// Schema pick them up in preference to the embedded snapshots. The
// downloaded catalog is parsed before being written so a broken upstream
// file never replaces a working one.
func Refresh(ctx context.Context, cfg types.CatalogConfig, w io.Writer) error {
	cacheDir := cfg.CacheDir
	if cacheDir == "" {
		cacheDir = DefaultCacheDir
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := &http.Client{Timeout: timeout}

	variablesURL := cfg.VariablesURL
	if variablesURL == "" {
		variablesURL = DefaultVariablesURL
	}
	data, err := fetch(ctx, client, cfg.UserAgent, variablesURL)
	if err != nil {
		return fmt.Errorf("fetching variable catalog: %w", err)
	}
	if _, err := Parse(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("upstream catalog is not usable: %w", err)
	}
	if err := os.WriteFile(filepath.Join(cacheDir, CachedVariablesFile), data, 0o644); err != nil {
		return fmt.Errorf("writing cached catalog: %w", err)
	}
	fmt.Fprintf(w, "refreshed %s (%d bytes)\n", CachedVariablesFile, len(data))

	schemaURL := cfg.SchemaURL
	if schemaURL == "" {
		schemaURL = DefaultSchemaURL
	}
	data, err = fetch(ctx, client, cfg.UserAgent, schemaURL)
	if err != nil {
		return fmt.Errorf("fetching schema DDL: %w", err)
	}
	if err := os.WriteFile(filepath.Join(cacheDir, CachedSchemaFile), data, 0o644); err != nil {
		return fmt.Errorf("writing cached schema: %w", err)
	}
	fmt.Fprintf(w, "refreshed %s (%d bytes)\n", CachedSchemaFile, len(data))

	meta := Metadata{
		RefreshedAt:  time.Now().UTC(),
		VariablesURL: variablesURL,
		SchemaURL:    schemaURL,
	}
	out, err := yaml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encoding refresh metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(cacheDir, metadataFile), out, 0o644); err != nil {
		return fmt.Errorf("writing refresh metadata: %w", err)
	}

	return nil
}

const metadataFile = "catalog.yaml"

// Metadata records where and when the cached catalog files came from.
type Metadata struct {
	RefreshedAt  time.Time `yaml:"refreshed_at"`
	VariablesURL string    `yaml:"variables_url"`
	SchemaURL    string    `yaml:"schema_url"`
}

// LoadMetadata reads the refresh metadata from the cache directory. A
// missing file returns a zero Metadata: the embedded snapshot is in use.
func LoadMetadata(cacheDir string) (Metadata, error) {
	var meta Metadata
	data, err := os.ReadFile(filepath.Join(cacheDir, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return meta, nil
		}
		return meta, fmt.Errorf("reading refresh metadata: %w", err)
	}
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return meta, fmt.Errorf("parsing refresh metadata: %w", err)
	}
	return meta, nil
}

func fetch(ctx context.Context, client *http.Client, userAgent, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: unexpected status %s", url, resp.Status)
	}
	return io.ReadAll(resp.Body)
}
