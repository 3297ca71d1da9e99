package repository

import (
	"fmt"
)

// ItemRepository is the fixed, ordered list of item names addressed by
// index.
type ItemRepository struct {
	names []string
}

func NewItemRepository() *ItemRepository {
	return &ItemRepository{names: []string{"hat", "bike", "notebook", "pen"}}
}

// ByIndex returns the name at index.
func (r *ItemRepository) ByIndex(index int) (string, error) {
	if index < 0 || index >= len(r.names) {
		return "", fmt.Errorf("item %d: %w", index, ErrNotFound)
	}
	return r.names[index], nil
}

// Len returns the number of items.
func (r *ItemRepository) Len() int {
	return len(r.names)
}
