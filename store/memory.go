package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/mytheresa/vendor-catalog/models"
	"github.com/sirupsen/logrus"
)

// MemoryStore keeps committed products in a slice in insertion order.
// Callers work through sessions; each session stages its own changes.
type MemoryStore struct {
	mu       sync.Mutex
	products []*models.Product
	nextID   uint
}

// NewMemoryStore returns a store already holding the given products.
func NewMemoryStore(products ...*models.Product) *MemoryStore {
	s := &MemoryStore{nextID: 1}
	for _, p := range products {
		s.products = append(s.products, p)
		if p.ID >= s.nextID {
			s.nextID = p.ID + 1
		}
	}
	return s
}

// Session returns a unit of work over the store. Its staged changes are
// invisible to other sessions until its SaveChanges succeeds.
func (s *MemoryStore) Session() *MemorySession {
	return &MemorySession{store: s}
}

func (s *MemoryStore) find(filters models.ProductFilters) []*models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	var found []*models.Product
	skipped := 0
	for _, p := range s.products {
		if !filters.Match(p) {
			continue
		}
		if skipped < filters.Offset {
			skipped++
			continue
		}
		found = append(found, p)
		if filters.Limit > 0 && len(found) == filters.Limit {
			break
		}
	}
	return found
}

func (s *MemoryStore) count(filters models.ProductFilters) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total int64
	for _, p := range s.products {
		if filters.Match(p) {
			total++
		}
	}
	return total
}

// commit applies changes all or nothing. Caller products are only touched
// once every change has been checked.
func (s *MemoryStore) commit(pending []change) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	products := slices.Clone(s.products)
	nextID := s.nextID
	assigned := make(map[*models.Product]uint)
	var normalized []*models.Product

	indexOf := func(id uint) int {
		return slices.IndexFunc(products, func(p *models.Product) bool {
			if assignedID, ok := assigned[p]; ok {
				return assignedID == id
			}
			return p.ID == id
		})
	}

	for _, c := range pending {
		logrus.Debugf("MemoryStore.SaveChanges: %s product [%p] id [%d]", c.kind, c.product, c.product.ID)
		switch c.kind {
		case changeAdd:
			if c.product.OwnerID() == 0 {
				return fmt.Errorf("add product: %w", ErrMissingVendor)
			}
			id := c.product.ID
			if id == 0 {
				id = nextID
				assigned[c.product] = id
			} else if indexOf(id) >= 0 {
				return fmt.Errorf("add product %d: %w", id, ErrDuplicateKey)
			}
			if id >= nextID {
				nextID = id + 1
			}
			products = append(products, c.product)
			normalized = append(normalized, c.product)
		case changeModify:
			if c.product.OwnerID() == 0 {
				return fmt.Errorf("update product %d: %w", c.product.ID, ErrMissingVendor)
			}
			i := indexOf(c.product.ID)
			if i < 0 {
				return fmt.Errorf("update product %d: %w", c.product.ID, ErrNoRowsAffected)
			}
			products[i] = c.product
			normalized = append(normalized, c.product)
		case changeRemove:
			i := indexOf(c.product.ID)
			if i < 0 {
				return fmt.Errorf("delete product %d: %w", c.product.ID, ErrNoRowsAffected)
			}
			products = slices.Delete(products, i, i+1)
		}
	}

	for p, id := range assigned {
		p.ID = id
	}
	for _, p := range normalized {
		p.VendorID = p.OwnerID()
	}
	s.products = products
	s.nextID = nextID
	return nil
}

// MemorySession is the models.Store handed to a single repository.
type MemorySession struct {
	store *MemoryStore

	mu      sync.Mutex
	pending []change
}

func (s *MemorySession) Find(ctx context.Context, filters models.ProductFilters) ([]*models.Product, error) {
	return s.store.find(filters), nil
}

func (s *MemorySession) Count(ctx context.Context, filters models.ProductFilters) (int64, error) {
	return s.store.count(filters), nil
}

func (s *MemorySession) Add(ctx context.Context, product *models.Product) error {
	if product == nil {
		return ErrNilEntity
	}
	s.stage(changeAdd, product)
	return nil
}

func (s *MemorySession) Remove(ctx context.Context, product *models.Product) error {
	if err := checkTrackable(product); err != nil {
		return err
	}
	s.stage(changeRemove, product)
	return nil
}

func (s *MemorySession) Entry(ctx context.Context, product *models.Product) error {
	if err := checkTrackable(product); err != nil {
		return err
	}
	s.stage(changeModify, product)
	return nil
}

func (s *MemorySession) stage(kind changeKind, product *models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, change{kind: kind, product: product})
}

func (s *MemorySession) SaveChanges(ctx context.Context) error {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	if len(pending) == 0 {
		return nil
	}
	return s.store.commit(pending)
}
