package models

import (
	"context"
)

// ProductsRepository mediates product lookups and mutations over a Store.
// Store errors are returned exactly as the store produced them.
type ProductsRepository struct {
	store Store
}

func NewProductsRepository(store Store) *ProductsRepository {
	return &ProductsRepository{
		store: store,
	}
}

// GetProductByID returns the product with the given id, or nil when the store
// holds no such product. Absence is not an error.
func (r *ProductsRepository) GetProductByID(ctx context.Context, id uint) (*Product, error) {
	products, err := r.store.Find(ctx, ProductFilters{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, nil
	}
	return products[0], nil
}

// GetProductsByVendor returns the vendor's products in store order.
// The result is never nil.
func (r *ProductsRepository) GetProductsByVendor(ctx context.Context, vendorID uint) ([]*Product, error) {
	products, err := r.store.Find(ctx, ProductFilters{VendorID: &vendorID})
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []*Product{}
	}
	return products, nil
}

// GetFilteredProducts returns one page of matching products and the number
// of matches across all pages.
func (r *ProductsRepository) GetFilteredProducts(ctx context.Context, filters ProductFilters) ([]*Product, int64, error) {
	// Count total after filtering
	total, err := r.store.Count(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	products, err := r.store.Find(ctx, filters)
	if err != nil {
		return nil, 0, err
	}
	if products == nil {
		products = []*Product{}
	}
	return products, total, nil
}

// AddProduct hands the product to the store unvalidated; a nil product is
// forwarded as well and the store decides what that means.
func (r *ProductsRepository) AddProduct(ctx context.Context, product *Product) error {
	return r.store.Add(ctx, product)
}

// EditProduct marks the product as modified. It is written on the next Save.
func (r *ProductsRepository) EditProduct(ctx context.Context, product *Product) error {
	return r.store.Entry(ctx, product)
}

// DeleteProduct removes the product with the given id. When no product
// matches, the store is asked to remove nil and its error is returned.
func (r *ProductsRepository) DeleteProduct(ctx context.Context, id uint) error {
	product, err := r.GetProductByID(ctx, id)
	if err != nil {
		return err
	}
	return r.store.Remove(ctx, product)
}

func (r *ProductsRepository) Save(ctx context.Context) error {
	return r.store.SaveChanges(ctx)
}
