package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mytheresa/vendor-catalog/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore is a unit of work over a gorm connection. Staged changes are
// written in one transaction by SaveChanges. A GormStore is meant to live for
// a single request; the *gorm.DB it wraps is shared.
type GormStore struct {
	db *gorm.DB

	mu      sync.Mutex
	pending []change
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Find(ctx context.Context, filters models.ProductFilters) ([]*models.Product, error) {
	var products []*models.Product

	query := s.filtered(ctx, filters).Preload("Vendor")
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}

	if err := query.Order("products.id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	return products, nil
}

// Count ignores Offset and Limit.
func (s *GormStore) Count(ctx context.Context, filters models.ProductFilters) (int64, error) {
	var total int64
	if err := s.filtered(ctx, filters).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return total, nil
}

func (s *GormStore) filtered(ctx context.Context, filters models.ProductFilters) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Product{})

	if filters.ID != nil {
		query = query.Where("products.id = ?", *filters.ID)
	}
	if filters.VendorID != nil {
		query = query.Where("products.vendor_id = ?", *filters.VendorID)
	}
	if filters.PriceLessThan != nil {
		query = query.Where("products.price < ?", *filters.PriceLessThan)
	}
	return query
}

func (s *GormStore) Add(ctx context.Context, product *models.Product) error {
	if product == nil {
		return ErrNilEntity
	}
	s.stage(changeAdd, product)
	return nil
}

func (s *GormStore) Remove(ctx context.Context, product *models.Product) error {
	if err := checkTrackable(product); err != nil {
		return err
	}
	s.stage(changeRemove, product)
	return nil
}

func (s *GormStore) Entry(ctx context.Context, product *models.Product) error {
	if err := checkTrackable(product); err != nil {
		return err
	}
	s.stage(changeModify, product)
	return nil
}

func (s *GormStore) stage(kind changeKind, product *models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, change{kind: kind, product: product})
}

func (s *GormStore) SaveChanges(ctx context.Context) error {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	if len(pending) == 0 {
		return nil
	}

	// Fields written onto caller products are put back if the transaction
	// rolls back.
	var undo []func()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range pending {
			logrus.Debugf("GormStore.SaveChanges: %s product [%p] id [%d]", c.kind, c.product, c.product.ID)
			if err := apply(tx, c, &undo); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		for i := len(undo) - 1; i >= 0; i-- {
			undo[i]()
		}
		return err
	}
	return nil
}

func apply(tx *gorm.DB, c change, undo *[]func()) error {
	p := c.product
	if c.kind != changeRemove {
		if p.OwnerID() == 0 {
			return fmt.Errorf("%s product %d: %w", c.kind, p.ID, ErrMissingVendor)
		}
		vendorID, id := p.VendorID, p.ID
		*undo = append(*undo, func() {
			p.VendorID = vendorID
			p.ID = id
		})
		p.VendorID = p.OwnerID()
	}

	switch c.kind {
	case changeAdd:
		if err := tx.Omit(clause.Associations).Create(p).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("add product %d: %w", p.ID, ErrDuplicateKey)
			}
			return fmt.Errorf("add product: %w", err)
		}
	case changeModify:
		res := tx.Model(p).Select("*").Omit(clause.Associations).Updates(p)
		if res.Error != nil {
			return fmt.Errorf("update product %d: %w", p.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("update product %d: %w", p.ID, ErrNoRowsAffected)
		}
	case changeRemove:
		res := tx.Delete(p)
		if res.Error != nil {
			return fmt.Errorf("delete product %d: %w", p.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("delete product %d: %w", p.ID, ErrNoRowsAffected)
		}
	}
	return nil
}
