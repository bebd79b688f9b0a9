package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/prn-tf/grouporder-hub/internal/domain"
	"github.com/prn-tf/grouporder-hub/internal/service"
)

// ProductHandler handles the product catalog endpoints.
type ProductHandler struct {
	catalog *service.CatalogService
	logger  zerolog.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(catalog *service.CatalogService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// HandleList returns the catalog, optionally filtered by ?category=.
func (h *ProductHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	writeJSON(w, http.StatusOK, h.catalog.List(r.Context(), category))
}

// HandleGet returns one product.
func (h *ProductHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.catalog.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

type createProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Available   *bool   `json:"available"`
}

// HandleCreate adds a product to the catalog.
func (h *ProductHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.catalog.Create(r.Context(), service.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Available:   req.Available,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

type updateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Available   *bool    `json:"available"`
}

// HandleUpdate applies a partial update to a product.
func (h *ProductHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req updateProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.catalog.Update(r.Context(), id, domain.ProductPatch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Available:   req.Available,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// HandleDelete removes a product from the catalog.
func (h *ProductHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.catalog.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pathID parses a numeric chi path parameter.
func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
