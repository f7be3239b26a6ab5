package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mytheresa/vendor-catalog/models"
	"github.com/mytheresa/vendor-catalog/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// --- Helpers ---

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	var errResp map[string]string
	err := json.NewDecoder(rec.Body).Decode(&errResp)
	assert.NoError(t, err)
	return errResp["error"]
}

func mockProducts() []*models.Product {
	return []*models.Product{
		newTestProduct(7, "Name", 11, 15.50),
		newTestProduct(99, "Other", 13, 30),
	}
}

// --- Tests ---

func TestHandleGetProduct(t *testing.T) {
	testCases := []struct {
		name               string
		productID          string
		mockRepoSetup      func() *MockProductRepo
		expectedStatusCode int
		checkResponse      func(t *testing.T, rec *httptest.ResponseRecorder)
		checkRepoCall      func(t *testing.T, repo *MockProductRepo)
	}{
		{
			name:      "Success",
			productID: "7",
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{SourceProducts: mockProducts()}
			},
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp Product
				err := json.NewDecoder(rec.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Equal(t, uint(7), resp.ID)
				assert.Equal(t, 15.50, resp.Price)
				assert.Equal(t, uint(11), resp.Vendor.ID)
				assert.Equal(t, "First", resp.Vendor.FirstName)
			},
			checkRepoCall: func(t *testing.T, repo *MockProductRepo) {
				assert.Equal(t, uint(7), repo.lastCalledID)
			},
		},
		{
			name:      "Product not found",
			productID: "2",
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{SourceProducts: mockProducts()}
			},
			expectedStatusCode: http.StatusNotFound,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, "Product not found", decodeError(t, rec))
			},
			checkRepoCall: func(t *testing.T, repo *MockProductRepo) {
				assert.Equal(t, uint(2), repo.lastCalledID)
			},
		},
		{
			name:      "Repository internal error",
			productID: "7",
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{Err: errors.New("db connection lost")}
			},
			expectedStatusCode: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, "Failed to retrieve product", decodeError(t, rec))
			},
		},
		{
			name:      "Invalid id",
			productID: "seven",
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{SourceProducts: mockProducts()}
			},
			expectedStatusCode: http.StatusBadRequest,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, "Invalid product id", decodeError(t, rec))
			},
			checkRepoCall: func(t *testing.T, repo *MockProductRepo) {
				assert.Zero(t, repo.lastCalledID, "repository should not be called")
			},
		},
		{
			name:      "Zero id",
			productID: "0",
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{SourceProducts: mockProducts()}
			},
			expectedStatusCode: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			mockRepo := tc.mockRepoSetup()
			handler := NewCatalogHandler(provide(mockRepo))
			req := httptest.NewRequest("GET", "/products/"+tc.productID, nil)
			req.SetPathValue("id", tc.productID)
			rec := httptest.NewRecorder()

			// Act
			handler.HandleGetProduct(rec, req)

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)

			if tc.checkResponse != nil {
				tc.checkResponse(t, rec)
			}

			if tc.checkRepoCall != nil {
				tc.checkRepoCall(t, mockRepo)
			}
		})
	}
}

func TestHandleCreate(t *testing.T) {
	testCases := []struct {
		name               string
		requestBody        string
		mockRepoSetup      func() *MockProductRepo
		expectedStatusCode int
		expectedError      string
		checkRepoCall      func(t *testing.T, repo *MockProductRepo)
	}{
		{
			name:        "Success",
			requestBody: `{"name":"Name4","description":"Description4","price":24,"vendor_id":13}`,
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{}
			},
			expectedStatusCode: http.StatusCreated,
			checkRepoCall: func(t *testing.T, repo *MockProductRepo) {
				require.Len(t, repo.added, 1)
				assert.Equal(t, "Name4", repo.added[0].Name)
				assert.Equal(t, uint(13), repo.added[0].VendorID)
				assert.Equal(t, "24", repo.added[0].Price.String())
				assert.Equal(t, 1, repo.saves)
			},
		},
		{
			name:        "Invalid JSON body",
			requestBody: `{invalid json`,
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{}
			},
			expectedStatusCode: http.StatusBadRequest,
			expectedError:      "Invalid JSON body",
			checkRepoCall: func(t *testing.T, repo *MockProductRepo) {
				assert.Empty(t, repo.added, "AddProduct should not be called with invalid JSON")
			},
		},
		{
			name:        "Missing vendor",
			requestBody: `{"name":"Name4"}`,
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{}
			},
			expectedStatusCode: http.StatusBadRequest,
			expectedError:      "Missing name or vendor_id",
			checkRepoCall: func(t *testing.T, repo *MockProductRepo) {
				assert.Empty(t, repo.added)
			},
		},
		{
			name:        "Vendor does not exist",
			requestBody: `{"name":"Name4","vendor_id":404}`,
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{SaveErr: fmt.Errorf("add product: %w", gorm.ErrForeignKeyViolated)}
			},
			expectedStatusCode: http.StatusBadRequest,
			expectedError:      "Unknown vendor",
		},
		{
			name:        "Store error on add",
			requestBody: `{"name":"Name4","vendor_id":13}`,
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{MutateErr: errors.New("insert failed")}
			},
			expectedStatusCode: http.StatusInternalServerError,
			expectedError:      "Failed to create product",
			checkRepoCall: func(t *testing.T, repo *MockProductRepo) {
				assert.Len(t, repo.added, 1)
				assert.Zero(t, repo.saves, "Save should not be called after a failed add")
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			mockRepo := tc.mockRepoSetup()
			handler := NewCatalogHandler(provide(mockRepo))
			req := httptest.NewRequest("POST", "/products", strings.NewReader(tc.requestBody))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			// Act
			handler.HandleCreate(rec, req)

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)

			if tc.expectedError != "" {
				assert.Equal(t, tc.expectedError, decodeError(t, rec))
			} else {
				var resp Product
				assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, uint(1000), resp.ID)
			}

			if tc.checkRepoCall != nil {
				tc.checkRepoCall(t, mockRepo)
			}
		})
	}
}

func TestHandleUpdate(t *testing.T) {
	testCases := []struct {
		name               string
		productID          string
		requestBody        string
		mockRepoSetup      func() *MockProductRepo
		expectedStatusCode int
		expectedError      string
		checkRepoCall      func(t *testing.T, repo *MockProductRepo)
	}{
		{
			name:        "Success",
			productID:   "7",
			requestBody: `{"name":"Renamed","description":"New","price":"12.25"}`,
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{SourceProducts: mockProducts()}
			},
			expectedStatusCode: http.StatusOK,
			checkRepoCall: func(t *testing.T, repo *MockProductRepo) {
				require.Len(t, repo.edited, 1)
				assert.Same(t, repo.SourceProducts[0], repo.edited[0])
				assert.Equal(t, "Renamed", repo.edited[0].Name)
				assert.Equal(t, "12.25", repo.edited[0].Price.String())
				assert.Equal(t, uint(11), repo.edited[0].OwnerID(), "vendor is kept when not given")
				assert.Equal(t, 1, repo.saves)
			},
		},
		{
			name:        "Moves product to another vendor",
			productID:   "7",
			requestBody: `{"name":"Name","vendor_id":13}`,
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{SourceProducts: mockProducts()}
			},
			expectedStatusCode: http.StatusOK,
			checkRepoCall: func(t *testing.T, repo *MockProductRepo) {
				require.Len(t, repo.edited, 1)
				assert.Equal(t, uint(13), repo.edited[0].OwnerID())
			},
		},
		{
			name:        "Product not found",
			productID:   "2",
			requestBody: `{"name":"Renamed"}`,
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{SourceProducts: mockProducts()}
			},
			expectedStatusCode: http.StatusNotFound,
			expectedError:      "Product not found",
			checkRepoCall: func(t *testing.T, repo *MockProductRepo) {
				assert.Empty(t, repo.edited)
			},
		},
		{
			name:        "Deleted before commit",
			productID:   "7",
			requestBody: `{"name":"Renamed"}`,
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{SourceProducts: mockProducts(), SaveErr: fmt.Errorf("update product 7: %w", store.ErrNoRowsAffected)}
			},
			expectedStatusCode: http.StatusNotFound,
			expectedError:      "Product not found",
		},
		{
			name:        "Moved to a vendor that does not exist",
			productID:   "7",
			requestBody: `{"name":"Name","vendor_id":404}`,
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{SourceProducts: mockProducts(), SaveErr: fmt.Errorf("update product 7: %w", gorm.ErrForeignKeyViolated)}
			},
			expectedStatusCode: http.StatusBadRequest,
			expectedError:      "Unknown vendor",
			checkRepoCall: func(t *testing.T, repo *MockProductRepo) {
				assert.Equal(t, 1, repo.saves)
			},
		},
		{
			name:        "Store error on track",
			productID:   "7",
			requestBody: `{"name":"Renamed"}`,
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{SourceProducts: mockProducts(), MutateErr: errors.New("entity cannot be tracked")}
			},
			expectedStatusCode: http.StatusInternalServerError,
			expectedError:      "Failed to update product",
		},
		{
			name:        "Missing name",
			productID:   "7",
			requestBody: `{"description":"only"}`,
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{SourceProducts: mockProducts()}
			},
			expectedStatusCode: http.StatusBadRequest,
			expectedError:      "Missing name",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := tc.mockRepoSetup()
			handler := NewCatalogHandler(provide(mockRepo))
			req := httptest.NewRequest("PUT", "/products/"+tc.productID, strings.NewReader(tc.requestBody))
			req.SetPathValue("id", tc.productID)
			rec := httptest.NewRecorder()

			handler.HandleUpdate(rec, req)

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.expectedError != "" {
				assert.Equal(t, tc.expectedError, decodeError(t, rec))
			}
			if tc.checkRepoCall != nil {
				tc.checkRepoCall(t, mockRepo)
			}
		})
	}
}

func TestHandleDelete(t *testing.T) {
	testCases := []struct {
		name               string
		productID          string
		mockRepoSetup      func() *MockProductRepo
		expectedStatusCode int
		expectedError      string
		expectedSaves      int
	}{
		{
			name:      "Success",
			productID: "99",
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{SourceProducts: mockProducts()}
			},
			expectedStatusCode: http.StatusNoContent,
			expectedSaves:      1,
		},
		{
			name:      "Missing product surfaces as not found",
			productID: "2",
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{SourceProducts: mockProducts()}
			},
			expectedStatusCode: http.StatusNotFound,
			expectedError:      "Product not found",
		},
		{
			name:      "Store error",
			productID: "99",
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{SourceProducts: mockProducts(), SaveErr: errors.New("connection reset")}
			},
			expectedStatusCode: http.StatusInternalServerError,
			expectedError:      "Failed to delete product",
			expectedSaves:      1,
		},
		{
			name:      "Invalid id",
			productID: "-1",
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{}
			},
			expectedStatusCode: http.StatusBadRequest,
			expectedError:      "Invalid product id",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := tc.mockRepoSetup()
			handler := NewCatalogHandler(provide(mockRepo))
			req := httptest.NewRequest("DELETE", "/products/"+tc.productID, nil)
			req.SetPathValue("id", tc.productID)
			rec := httptest.NewRecorder()

			handler.HandleDelete(rec, req)

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.expectedError != "" {
				assert.Equal(t, tc.expectedError, decodeError(t, rec))
			}
			assert.Equal(t, tc.expectedSaves, mockRepo.saves)
		})
	}
}
