package service

import (
	"errors"
	"fmt"

	"github.com/Nivhaham/FastApiBasics/internal/errs"
	"github.com/Nivhaham/FastApiBasics/internal/repository"
)

// ItemIn is a submitted item.
type ItemIn struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Price       float64  `json:"price"`
	Tax         *float64 `json:"tax"`
}

// PricedItem is an item with its price after tax.
type PricedItem struct {
	ItemIn
	UpdatedPrice float64 `json:"updated_price"`
}

type ItemService struct {
	repos *repository.Repositories
}

func NewItemService(repos *repository.Repositories) *ItemService {
	return &ItemService{repos: repos}
}

// Name returns the name of the item at index.
func (s *ItemService) Name(index int) (string, error) {
	name, err := s.repos.Items.ByIndex(index)
	if errors.Is(err, repository.ErrNotFound) {
		return "", errs.NewNotFoundError("Item not found", true, nil)
	}
	return name, err
}

// Price computes price + price/100*tax. A missing tax counts as zero.
func (s *ItemService) Price(item ItemIn) PricedItem {
	return PricedItem{ItemIn: item, UpdatedPrice: UpdatedPrice(item.Price, item.Tax)}
}

// UpdatedPrice applies tax, a percentage, to price.
func UpdatedPrice(price float64, tax *float64) float64 {
	if tax == nil {
		return price
	}
	return price + price/100*(*tax)
}

// CatalogEntry returns the stored catalog entry with id.
func (s *ItemService) CatalogEntry(id string) (map[string]any, error) {
	entry, err := s.repos.Catalog.Get(id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errs.NewNotFoundError(fmt.Sprintf("Item %s not found", id), true, nil)
	}
	return entry, err
}
