package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mytheresa/vendor-catalog/app/catalog"
	"github.com/mytheresa/vendor-catalog/app/vendors"
	"github.com/sirupsen/logrus"
)

// NewRouter mounts the catalog and vendor handlers together with /health and
// /metrics.
func NewRouter(catalogHandler *catalog.CatalogHandler, vendorHandler *vendors.VendorHandler, metricsHandler http.Handler) chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  logrus.StandardLogger(),
		NoColor: true,
	}))
	router.Use(middleware.Recoverer)

	router.Route("/products", func(r chi.Router) {
		r.Get("/", catalogHandler.HandleGet)
		r.Post("/", catalogHandler.HandleCreate)
		r.Get("/{id}", catalogHandler.HandleGetProduct)
		r.Put("/{id}", catalogHandler.HandleUpdate)
		r.Delete("/{id}", catalogHandler.HandleDelete)
	})

	router.Route("/vendors", func(r chi.Router) {
		r.Get("/", vendorHandler.HandleGetAll)
		r.Post("/", vendorHandler.HandleCreate)
		r.Get("/{id}/products", catalogHandler.HandleGetVendorProducts)
	})

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	router.Method(http.MethodGet, "/metrics", metricsHandler)

	return router
}
