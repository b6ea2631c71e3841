package discovery

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/talkshopapp/talkshop-backend/internal/httpx"
	"github.com/talkshopapp/talkshop-backend/internal/validation"
)

// Handler exposes the discovery endpoint.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

// RegisterRoutes mounts the pipeline. Every call fans out to external
// services, so the endpoint is rate-limited per client IP.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(30, time.Minute))
		r.Post("/search", h.discover) // web search + scrape
	})
}

func (h *Handler) discover(w http.ResponseWriter, r *http.Request) {
	var req DiscoverRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	resp, err := h.service.Discover(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func respondServiceError(w http.ResponseWriter, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		httpx.Error(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, ErrSearchUnavailable):
		httpx.Error(w, http.StatusBadGateway, "Search service unavailable")
	case errors.Is(err, ErrScrapeFailed):
		httpx.Error(w, http.StatusBadGateway, "Failed to scrape products")
	default:
		httpx.Error(w, http.StatusInternalServerError, err.Error())
	}
}
