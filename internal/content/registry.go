// Package content maps CMS content items to the frontend components that
// render them.
package content

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	internalErrors "github.com/northwind-labs/storefront/internal/errors"
	"github.com/northwind-labs/storefront/services"
)

// ComponentRaw is the fallback component for schemas with no registered
// mapping. Frontends render it as a raw JSON dump.
const ComponentRaw = "raw"

// schemaBase prefixes the built-in schema identifiers.
const schemaBase = "https://cms.northwind.dev/schema/"

// defaultMappings is the built-in mapping set. A file-backed registry can
// extend or override it at runtime.
func defaultMappings() map[string]string {
	return map[string]string{
		schemaBase + "simple-banner.json":        "SimpleBanner",
		schemaBase + "hero-banner.json":          "HeroBanner",
		schemaBase + "card.json":                 "Card",
		schemaBase + "card-list.json":            "CardList",
		schemaBase + "curated-product-grid.json": "CuratedProductGrid",
		schemaBase + "image.json":                "Image",
		schemaBase + "rich-text.json":            "RichText",
		schemaBase + "video.json":                "Video",
		schemaBase + "blog-entry.json":           "BlogEntry",
		schemaBase + "split-block.json":          "SplitBlock",
	}
}

// Registry is a mutex-guarded map from content schema identifier to frontend
// component name. A registry created with NewFileRegistry persists changes to
// a JSON snapshot and reloads them on startup.
type Registry struct {
	mappings     map[string]string
	mutex        sync.RWMutex
	dataFilePath string
}

// NewRegistry creates an in-memory registry seeded with the built-in mapping
// set.
func NewRegistry() *Registry {
	return &Registry{mappings: defaultMappings()}
}

// NewFileRegistry creates a registry that persists every change to a JSON
// snapshot at dataFilePath. A snapshot written by a previous run replaces the
// built-in set on startup, so registrations and removals survive restarts. A
// missing snapshot is not an error; a malformed one is reported alongside the
// still-usable seeded registry.
func NewFileRegistry(dataFilePath string) (*Registry, error) {
	registry := &Registry{
		mappings:     defaultMappings(),
		dataFilePath: dataFilePath,
	}
	if err := registry.loadData(); err != nil && !os.IsNotExist(err) {
		return registry, fmt.Errorf("failed to load component mappings: %w", err)
	}
	return registry, nil
}

// Component returns the component registered for a schema.
func (r *Registry) Component(schema string) (string, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	component, ok := r.mappings[schema]
	return component, ok
}

// Register adds or replaces the mapping for a schema.
func (r *Registry) Register(schema, component string) error {
	if schema == "" {
		return internalErrors.NewValidationError("schema", "schema cannot be empty")
	}
	if component == "" {
		return internalErrors.NewValidationError("component", "component cannot be empty")
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	previous, existed := r.mappings[schema]
	r.mappings[schema] = component

	if err := r.saveData(); err != nil {
		// Rollback the in-memory change
		if existed {
			r.mappings[schema] = previous
		} else {
			delete(r.mappings, schema)
		}
		return fmt.Errorf("failed to persist component mapping: %w", err)
	}
	return nil
}

// Deregister removes the mapping for a schema.
func (r *Registry) Deregister(schema string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	component, exists := r.mappings[schema]
	if !exists {
		return internalErrors.NewMappingNotFoundError(schema)
	}
	delete(r.mappings, schema)

	if err := r.saveData(); err != nil {
		// Rollback the in-memory change
		r.mappings[schema] = component
		return fmt.Errorf("failed to persist mapping removal: %w", err)
	}
	return nil
}

// Mappings returns a copy of the current mapping set.
func (r *Registry) Mappings() map[string]string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	mappings := make(map[string]string, len(r.mappings))
	for schema, component := range r.mappings {
		mappings[schema] = component
	}
	return mappings
}

// loadData replaces the built-in mappings with the snapshot file's set.
func (r *Registry) loadData() error {
	if r.dataFilePath == "" {
		return nil
	}

	data, err := os.ReadFile(r.dataFilePath)
	if err != nil {
		return err
	}

	var stored map[string]string
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("failed to parse component mappings: %w", err)
	}

	if stored != nil {
		r.mappings = stored
	}
	return nil
}

// saveData writes the full mapping set to the snapshot file. Callers hold
// the write lock.
func (r *Registry) saveData() error {
	if r.dataFilePath == "" {
		return nil
	}

	data, err := json.MarshalIndent(r.mappings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal component mappings: %w", err)
	}

	dir := filepath.Dir(r.dataFilePath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	if err := os.WriteFile(r.dataFilePath, data, 0600); err != nil {
		return fmt.Errorf("failed to write component mappings: %w", err)
	}
	return nil
}

// Ensure Registry implements the registry service interface
var _ services.ComponentRegistry = (*Registry)(nil)
