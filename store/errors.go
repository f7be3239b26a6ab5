package store

import (
	"errors"

	"github.com/mytheresa/vendor-catalog/models"
)

var (
	// ErrNilEntity is returned when a nil product is added, removed or tracked.
	ErrNilEntity = errors.New("entity is nil")
	// ErrUntracked is returned when a product without an id is removed or tracked.
	ErrUntracked = errors.New("entity has no key and cannot be tracked")
	// ErrNoRowsAffected is returned by SaveChanges when a modified or removed
	// product no longer exists.
	ErrNoRowsAffected = errors.New("no rows affected")
	// ErrMissingVendor is returned by SaveChanges for a product without a vendor.
	ErrMissingVendor = errors.New("product has no vendor")
	// ErrDuplicateKey is returned by SaveChanges when an added product reuses an id.
	ErrDuplicateKey = errors.New("duplicate key")
)

type changeKind int

const (
	changeAdd changeKind = iota
	changeModify
	changeRemove
)

func (k changeKind) String() string {
	switch k {
	case changeAdd:
		return "add"
	case changeModify:
		return "modify"
	case changeRemove:
		return "remove"
	}
	return "unknown"
}

type change struct {
	kind    changeKind
	product *models.Product
}

func checkTrackable(product *models.Product) error {
	if product == nil {
		return ErrNilEntity
	}
	if product.ID == 0 {
		return ErrUntracked
	}
	return nil
}
