package models

import (
	"github.com/shopspring/decimal"
)

// Product represents a product sold by a vendor.
// VendorID is the foreign key; Vendor is filled when the store preloads it.
type Product struct {
	ID          uint            `gorm:"primaryKey"`
	Name        string          `gorm:"not null"`
	Description string          `gorm:"not null;default:''"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	VendorID    uint            `gorm:"not null;index"`
	Vendor      Vendor          `gorm:"foreignKey:VendorID"`
}

func (p *Product) TableName() string {
	return "products"
}

// OwnerID returns the identifier of the vendor the product belongs to.
func (p *Product) OwnerID() uint {
	if p.Vendor.ID != 0 {
		return p.Vendor.ID
	}
	return p.VendorID
}

// ProductFilters narrows a product query. Zero values mean "no filter";
// a zero Limit means unbounded.
type ProductFilters struct {
	ID            *uint
	VendorID      *uint
	PriceLessThan *float64
	Offset        int
	Limit         int
}

// Match reports whether p satisfies the ID, vendor and price filters.
// Offset and Limit are applied by the caller.
func (f ProductFilters) Match(p *Product) bool {
	if f.ID != nil && p.ID != *f.ID {
		return false
	}
	if f.VendorID != nil && p.OwnerID() != *f.VendorID {
		return false
	}
	if f.PriceLessThan != nil && p.Price.InexactFloat64() >= *f.PriceLessThan {
		return false
	}
	return true
}
