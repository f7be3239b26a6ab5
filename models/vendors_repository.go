package models

import (
	"errors"

	"gorm.io/gorm"
)

// ErrVendorNotFound is returned when a vendor is not found.
var ErrVendorNotFound = errors.New("vendor not found")

type VendorsRepository struct {
	db *gorm.DB
}

func NewVendorsRepository(db *gorm.DB) *VendorsRepository {
	return &VendorsRepository{
		db: db,
	}
}

func (r *VendorsRepository) GetAllVendors() ([]Vendor, error) {
	var vendors []Vendor
	if err := r.db.Order("id").Find(&vendors).Error; err != nil {
		return nil, err
	}
	return vendors, nil
}

func (r *VendorsRepository) GetVendorByID(id uint) (*Vendor, error) {
	var vendor Vendor
	if err := r.db.First(&vendor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVendorNotFound
		}
		return nil, err
	}
	return &vendor, nil
}

func (r *VendorsRepository) CreateVendor(vendor *Vendor) error {
	return r.db.Create(vendor).Error
}
