package product

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/talkshopapp/talkshop-backend/internal/httpx"
	"github.com/talkshopapp/talkshop-backend/internal/validation"
)

// Handler exposes product HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Get("/read/product/{product_id}", h.getProduct)        // read one
	r.Get("/read/products/search", h.searchProducts)         // filtered search
	r.Post("/write/product", h.createProduct)                // create
	r.Put("/write/product/{product_id}", h.updateProduct)    // partial update
	r.Delete("/write/product/{product_id}", h.deleteProduct) // delete
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "product_id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) searchProducts(w http.ResponseWriter, r *http.Request) {
	f, err := ParseSearchFilters(r.URL.Query())
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	products, err := h.service.SearchProducts(r.Context(), f)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, products)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.service.CreateProduct(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req UpdateProductRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.service.UpdateProduct(r.Context(), chi.URLParam(r, "product_id"), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteProduct(r.Context(), chi.URLParam(r, "product_id")); err != nil {
		respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// ParseSearchFilters reads the recognized product query parameters. Unknown
// keys are ignored; malformed numeric values are reported as errors.
func ParseSearchFilters(q url.Values) (*SearchFilters, error) {
	f := &SearchFilters{
		Brands:      q["brand"],
		Category:    q.Get("category"),
		SubCategory: q.Get("sub_category"),
		Size:        q.Get("size"),
		StyleTags:   q["style_tags"],
		Colors:      q["colors"],
		Materials:   q["materials"],
		UseCases:    q["use_cases"],
		Text:        q.Get("text"),
	}
	var err error
	if f.PriceMin, err = httpx.FloatParam(q, "price_min"); err != nil {
		return nil, err
	}
	if f.PriceMax, err = httpx.FloatParam(q, "price_max"); err != nil {
		return nil, err
	}
	if f.Limit, err = httpx.IntParam(q, "limit", 0); err != nil {
		return nil, err
	}
	if f.Offset, err = httpx.IntParam(q, "offset", 0); err != nil {
		return nil, err
	}
	return f, nil
}

func respondServiceError(w http.ResponseWriter, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		httpx.Error(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, ErrNotFound):
		httpx.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrDuplicate):
		httpx.Error(w, http.StatusConflict, err.Error())
	default:
		httpx.Error(w, http.StatusInternalServerError, err.Error())
	}
}
