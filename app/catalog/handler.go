package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/mytheresa/vendor-catalog/app/respond"
	"github.com/mytheresa/vendor-catalog/models"
	"github.com/mytheresa/vendor-catalog/store"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Response struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
}

type Vendor struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type Product struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Vendor      Vendor  `json:"vendor"`
}

// ProductInput is the body accepted by create and update.
type ProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	VendorID    uint            `json:"vendor_id"`
}

type ProductProvider interface {
	GetProductByID(ctx context.Context, id uint) (*models.Product, error)
	GetProductsByVendor(ctx context.Context, vendorID uint) ([]*models.Product, error)
	GetFilteredProducts(ctx context.Context, filters models.ProductFilters) ([]*models.Product, int64, error)
	AddProduct(ctx context.Context, product *models.Product) error
	EditProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id uint) error
	Save(ctx context.Context) error
}

// CatalogHandler builds a fresh provider per request, since providers stage
// changes until Save.
type CatalogHandler struct {
	newRepo func() ProductProvider
}

func NewCatalogHandler(newRepo func() ProductProvider) *CatalogHandler {
	return &CatalogHandler{
		newRepo: newRepo,
	}
}

func (h *CatalogHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	// Parse pagination query params
	offset := 0
	limit := 10

	if oStr := r.URL.Query().Get("offset"); oStr != "" {
		if o, err := strconv.Atoi(oStr); err == nil && o >= 0 {
			offset = o
		}
	}

	if lStr := r.URL.Query().Get("limit"); lStr != "" {
		if l, err := strconv.Atoi(lStr); err == nil {
			limit = min(max(l, 1), 100)
		}
	}

	var priceFilter *float64
	if priceStr := r.URL.Query().Get("price_lt"); priceStr != "" {
		if val, err := strconv.ParseFloat(priceStr, 64); err == nil {
			priceFilter = &val
		}
	}

	filters := models.ProductFilters{
		PriceLessThan: priceFilter,
		Offset:        offset,
		Limit:         limit,
	}

	res, total, err := h.newRepo().GetFilteredProducts(r.Context(), filters)
	if err != nil {
		logrus.WithError(err).Error("catalog: listing products")
		respond.Error(w, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}

	respond.JSON(w, http.StatusOK, Response{Products: toResponse(res), Total: int(total)})
}

func (h *CatalogHandler) HandleGetVendorProducts(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := parseID(r.PathValue("id"))
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid vendor id")
		return
	}

	res, err := h.newRepo().GetProductsByVendor(r.Context(), vendorID)
	if err != nil {
		logrus.WithError(err).WithField("vendor_id", vendorID).Error("catalog: listing vendor products")
		respond.Error(w, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}

	respond.JSON(w, http.StatusOK, Response{Products: toResponse(res), Total: len(res)})
}

func (h *CatalogHandler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r.PathValue("id"))
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	product, err := h.newRepo().GetProductByID(r.Context(), id)
	if err != nil {
		logrus.WithError(err).WithField("product_id", id).Error("catalog: fetching product")
		respond.Error(w, http.StatusInternalServerError, "Failed to retrieve product")
		return
	}
	if product == nil {
		respond.Error(w, http.StatusNotFound, "Product not found")
		return
	}

	respond.JSON(w, http.StatusOK, toProduct(product))
}

func (h *CatalogHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if input.Name == "" || input.VendorID == 0 {
		respond.Error(w, http.StatusBadRequest, "Missing name or vendor_id")
		return
	}

	product := &models.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		VendorID:    input.VendorID,
	}

	repo := h.newRepo()
	if err := repo.AddProduct(r.Context(), product); err != nil {
		writeStoreError(w, err, "Failed to create product")
		return
	}
	if err := repo.Save(r.Context()); err != nil {
		writeStoreError(w, err, "Failed to create product")
		return
	}

	respond.JSON(w, http.StatusCreated, toProduct(product))
}

func (h *CatalogHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r.PathValue("id"))
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	var input ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if input.Name == "" {
		respond.Error(w, http.StatusBadRequest, "Missing name")
		return
	}

	repo := h.newRepo()
	product, err := repo.GetProductByID(r.Context(), id)
	if err != nil {
		logrus.WithError(err).WithField("product_id", id).Error("catalog: fetching product")
		respond.Error(w, http.StatusInternalServerError, "Failed to update product")
		return
	}
	if product == nil {
		respond.Error(w, http.StatusNotFound, "Product not found")
		return
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Price = input.Price
	if input.VendorID != 0 && input.VendorID != product.OwnerID() {
		product.VendorID = input.VendorID
		product.Vendor = models.Vendor{}
	}

	if err := repo.EditProduct(r.Context(), product); err != nil {
		writeStoreError(w, err, "Failed to update product")
		return
	}
	if err := repo.Save(r.Context()); err != nil {
		writeStoreError(w, err, "Failed to update product")
		return
	}

	respond.JSON(w, http.StatusOK, toProduct(product))
}

// HandleDelete treats a missing product as 404. The repository reports it as
// a store failure.
func (h *CatalogHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r.PathValue("id"))
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	repo := h.newRepo()
	if err := repo.DeleteProduct(r.Context(), id); err != nil {
		writeStoreError(w, err, "Failed to delete product")
		return
	}
	if err := repo.Save(r.Context()); err != nil {
		writeStoreError(w, err, "Failed to delete product")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeStoreError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, store.ErrNilEntity), errors.Is(err, store.ErrNoRowsAffected):
		respond.Error(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, store.ErrMissingVendor), errors.Is(err, gorm.ErrForeignKeyViolated):
		respond.Error(w, http.StatusBadRequest, "Unknown vendor")
	case errors.Is(err, store.ErrDuplicateKey), errors.Is(err, gorm.ErrDuplicatedKey):
		respond.Error(w, http.StatusConflict, "Product already exists")
	default:
		logrus.WithError(err).Error("catalog: " + message)
		respond.Error(w, http.StatusInternalServerError, message)
	}
}

func parseID(s string) (uint, bool) {
	id, err := strconv.ParseUint(s, 10, 0)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func toResponse(res []*models.Product) []Product {
	products := make([]Product, len(res))
	for i, p := range res {
		products[i] = toProduct(p)
	}
	return products
}

func toProduct(p *models.Product) Product {
	return Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.InexactFloat64(),
		Vendor: Vendor{
			ID:        p.OwnerID(),
			FirstName: p.Vendor.FirstName,
			LastName:  p.Vendor.LastName,
		},
	}
}
