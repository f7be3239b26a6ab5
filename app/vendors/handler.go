package vendors

import (
	"encoding/json"
	"net/http"

	"github.com/mytheresa/vendor-catalog/app/respond"
	"github.com/mytheresa/vendor-catalog/models"
	"github.com/sirupsen/logrus"
)

type VendorResponse struct {
	ID          uint   `json:"id"`
	Address     string `json:"address"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
}

type VendorProvider interface {
	GetAllVendors() ([]models.Vendor, error)
	CreateVendor(vendor *models.Vendor) error
}

type VendorHandler struct {
	repo VendorProvider
}

func NewVendorHandler(r VendorProvider) *VendorHandler {
	return &VendorHandler{repo: r}
}

func (h *VendorHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.repo.GetAllVendors()
	if err != nil {
		logrus.WithError(err).Error("vendors: listing vendors")
		respond.Error(w, http.StatusInternalServerError, "failed to fetch vendors")
		return
	}

	response := make([]VendorResponse, len(vendors))
	for i, v := range vendors {
		response[i] = toResponse(&v)
	}

	respond.JSON(w, http.StatusOK, response)
}

func (h *VendorHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Address     string `json:"address"`
		FirstName   string `json:"first_name"`
		LastName    string `json:"last_name"`
		PhoneNumber string `json:"phone_number"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if input.FirstName == "" || input.LastName == "" {
		respond.Error(w, http.StatusBadRequest, "Missing first_name or last_name")
		return
	}

	vendor := &models.Vendor{
		Address:     input.Address,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		PhoneNumber: input.PhoneNumber,
	}

	if err := h.repo.CreateVendor(vendor); err != nil {
		logrus.WithError(err).Error("vendors: creating vendor")
		respond.Error(w, http.StatusInternalServerError, "Failed to create vendor")
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(vendor))
}

func toResponse(v *models.Vendor) VendorResponse {
	return VendorResponse{
		ID:          v.ID,
		Address:     v.Address,
		FirstName:   v.FirstName,
		LastName:    v.LastName,
		PhoneNumber: v.PhoneNumber,
	}
}
