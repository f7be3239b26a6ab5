package models

// Vendor owns a set of products. Products reference exactly one vendor.
type Vendor struct {
	ID          uint   `gorm:"primaryKey"`
	Address     string `gorm:"not null;default:''"`
	FirstName   string `gorm:"not null"`
	LastName    string `gorm:"not null"`
	PhoneNumber string `gorm:"not null;default:''"`
}

func (v *Vendor) TableName() string {
	return "vendors"
}
