package models

import "context"

// Store is the persistence context behind the products repository.
// Add, Remove and Entry stage changes; SaveChanges commits them.
type Store interface {
	Find(ctx context.Context, filters ProductFilters) ([]*Product, error)
	// Count returns the number of products matching filters, before
	// Offset and Limit.
	Count(ctx context.Context, filters ProductFilters) (int64, error)
	Add(ctx context.Context, product *Product) error
	Remove(ctx context.Context, product *Product) error
	Entry(ctx context.Context, product *Product) error
	SaveChanges(ctx context.Context) error
}
