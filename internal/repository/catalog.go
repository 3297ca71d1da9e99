package repository

import (
	"fmt"
	"maps"
)

// CatalogRepository returns catalog entries exactly as stored: an entry
// only carries the fields it was created with, so callers can tell an
// explicit value from a missing one.
type CatalogRepository struct {
	entries map[string]map[string]any
}

func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{entries: map[string]map[string]any{
		"foo": {"name": "Foo", "price": 50.2},
		"bar": {"name": "Bar", "description": "The bartenders", "price": 62.0, "tax": 20.2},
		"baz": {"name": "Baz", "description": nil, "price": 50.2, "tax": 10.5, "tags": []any{}},
	}}
}

// Get returns a copy of the entry with id.
func (r *CatalogRepository) Get(id string) (map[string]any, error) {
	entry, ok := r.entries[id]
	if !ok {
		return nil, fmt.Errorf("catalog entry %q: %w", id, ErrNotFound)
	}
	return maps.Clone(entry), nil
}
