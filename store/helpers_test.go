package store_test

import (
	"testing"

	"github.com/mytheresa/vendor-catalog/models"
	"github.com/mytheresa/vendor-catalog/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// --- Fixtures ---

type fixture struct {
	vendors  []*models.Vendor
	products []*models.Product
}

func newFixture() fixture {
	vendor1 := &models.Vendor{ID: 11, Address: "Address", FirstName: "Bob", LastName: "Smith", PhoneNumber: "123-231-1232"}
	vendor2 := &models.Vendor{ID: 13, Address: "Address", FirstName: "Beth", LastName: "Thomas", PhoneNumber: "231-211-3332"}

	return fixture{
		vendors: []*models.Vendor{vendor1, vendor2},
		products: []*models.Product{
			{ID: 7, Name: "Name", Description: "Description", Price: decimal.NewFromInt(10), VendorID: 11, Vendor: *vendor1},
			{ID: 10, Name: "Name", Description: "Description", Price: decimal.NewFromInt(20), VendorID: 11, Vendor: *vendor1},
			{ID: 99, Name: "Name", Description: "Description", Price: decimal.NewFromInt(30), VendorID: 13, Vendor: *vendor2},
		},
	}
}

// --- Store constructors ---

type storeFactory struct {
	name string
	new  func(t *testing.T, f fixture) models.Store
}

func storeFactories() []storeFactory {
	return []storeFactory{
		{name: "memory", new: newMemoryStore},
		{name: "gorm", new: newGormStore},
	}
}

func newMemoryStore(t *testing.T, f fixture) models.Store {
	return store.NewMemoryStore(f.products...).Session()
}

func newGormStore(t *testing.T, f fixture) models.Store {
	db, err := gorm.Open(sqlite.Open(store.SQLiteDSN("file::memory:")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to file::memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, store.Migrate(db))
	for _, v := range f.vendors {
		require.NoError(t, db.Create(v).Error)
	}
	for _, p := range f.products {
		require.NoError(t, db.Omit(clause.Associations).Create(p).Error)
	}
	return store.NewGormStore(db)
}

func ids(products []*models.Product) []uint {
	out := make([]uint, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func uintPtr(v uint) *uint { return &v }

func floatPtr(v float64) *float64 { return &v }
