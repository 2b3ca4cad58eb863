package xsd2jsonschema

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// SchemaLoader loads XSD documents together with the documents they
// include or import.
type SchemaLoader struct {
	// BaseDir resolves relative locations given to Load.
	BaseDir string
	// AllowRemote permits http(s) locations.
	AllowRemote bool
	// ValidateDocuments runs ValidateSchemaDocument on every loaded document.
	ValidateDocuments bool
	Logger            *slog.Logger

	cache      *DocumentCache
	httpClient *http.Client
}

func NewSchemaLoader(baseDir string) *SchemaLoader {
	sl := &SchemaLoader{
		BaseDir:    baseDir,
		httpClient: &http.Client{},
	}
	sl.cache = NewDocumentCache(sl.loadFile)
	return sl
}

type pendingLocation struct {
	location string
	kind     string
	from     string
}

// Load returns the documents at locations followed by every document they
// reach through include, import, redefine or override, breadth first in
// document order. Each level is read concurrently. A document that cannot be
// imported is logged and skipped; any other failure aborts the load.
func (sl *SchemaLoader) Load(ctx context.Context, locations ...string) ([]*XsdFile, error) {
	seen := make(map[string]bool)
	var frontier []pendingLocation
	for _, loc := range locations {
		abs, err := sl.resolveLocation(loc)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve location %s: %w", loc, err)
		}
		if !seen[abs] {
			seen[abs] = true
			frontier = append(frontier, pendingLocation{location: abs})
		}
	}

	var files []*XsdFile
	for len(frontier) > 0 {
		loaded := make([]*XsdFile, len(frontier))
		failed := make([]error, len(frontier))
		g, gctx := errgroup.WithContext(ctx)
		for i, p := range frontier {
			g.Go(func() error {
				f, err := sl.cache.Get(gctx, p.location)
				if err != nil {
					if p.kind == "import" {
						failed[i] = err
						return nil
					}
					if p.from != "" {
						return fmt.Errorf("failed to %s %s from %s: %w", p.kind, p.location, p.from, err)
					}
					return err
				}
				loaded[i] = f
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		var next []pendingLocation
		for i, f := range loaded {
			if f == nil {
				sl.logger().Warn("failed to load imported schema", "location", frontier[i].location, "from", frontier[i].from, "error", failed[i])
				continue
			}
			files = append(files, f)
			for _, ref := range f.References() {
				abs, err := sl.resolveLocation(sl.resolveRelative(ref.Location, f.Name))
				if err != nil {
					if ref.Kind == "import" {
						sl.logger().Warn("failed to load imported schema", "location", ref.Location, "from", f.Name, "error", err)
						continue
					}
					return nil, fmt.Errorf("failed to resolve location %s: %w", ref.Location, err)
				}
				if seen[abs] {
					continue
				}
				seen[abs] = true
				next = append(next, pendingLocation{location: abs, kind: ref.Kind, from: f.Name})
			}
		}
		frontier = next
	}
	return files, nil
}

func (sl *SchemaLoader) logger() *slog.Logger {
	if sl.Logger != nil {
		return sl.Logger
	}
	return slog.Default()
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// resolveLocation resolves a location to an absolute path or URL
func (sl *SchemaLoader) resolveLocation(location string) (string, error) {
	if isRemote(location) {
		if !sl.AllowRemote {
			return "", fmt.Errorf("remote schema loading is disabled")
		}
		return location, nil
	}
	if strings.HasPrefix(location, "file://") {
		u, err := url.Parse(location)
		if err != nil {
			return "", err
		}
		location = u.Path
	}
	if filepath.IsAbs(location) {
		return filepath.Clean(location), nil
	}
	if sl.BaseDir != "" {
		return filepath.Abs(filepath.Join(sl.BaseDir, location))
	}
	return filepath.Abs(location)
}

// resolveRelative resolves a schemaLocation against the document it
// appears in.
func (sl *SchemaLoader) resolveRelative(relative, base string) string {
	if filepath.IsAbs(relative) || isRemote(relative) {
		return relative
	}
	if isRemote(base) {
		baseURL, err := url.Parse(base)
		if err != nil {
			return relative
		}
		relURL, err := baseURL.Parse(relative)
		if err != nil {
			return relative
		}
		return relURL.String()
	}
	return filepath.Join(filepath.Dir(base), relative)
}

func (sl *SchemaLoader) loadFile(ctx context.Context, location string) (*XsdFile, error) {
	data, err := sl.read(ctx, location)
	if err != nil {
		return nil, err
	}
	f, err := ParseXsdBytes(location, data)
	if err != nil {
		return nil, err
	}
	if sl.ValidateDocuments {
		if err := ValidateSchemaDocument(f); err != nil {
			return nil, err
		}
	}
	sl.logger().Debug("loaded schema", "location", location, "targetNamespace", f.TargetNamespace)
	return f, nil
}

func (sl *SchemaLoader) read(ctx context.Context, location string) ([]byte, error) {
	// a sibling load of the same level may have failed already
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !isRemote(location) {
		data, err := os.ReadFile(location)
		if err != nil {
			return nil, fmt.Errorf("failed to read schema file %s: %w", location, err)
		}
		return data, nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}
	resp, err := sl.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", location, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, location)
	}
	return io.ReadAll(resp.Body)
}
