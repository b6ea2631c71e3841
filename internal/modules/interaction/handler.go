package interaction

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/talkshopapp/talkshop-backend/internal/httpx"
	"github.com/talkshopapp/talkshop-backend/internal/modules/product"
	"github.com/talkshopapp/talkshop-backend/internal/modules/profile"
	"github.com/talkshopapp/talkshop-backend/internal/validation"
)

// Handler exposes interaction HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Get("/read/interactions", h.listInteractions)                             // combined filters
	r.Get("/read/interaction/{interaction_id}", h.getInteraction)               // read one
	r.Get("/read/user/{user_id}/interactions", h.listUserInteractions)          // per user
	r.Get("/read/user/{user_id}/sentiment-by-attributes", h.sentimentByAttributes) // attribute-scoped history
	r.Get("/read/product/{product_id}/interactions", h.listProductInteractions) // per product
	r.Post("/write/interaction", h.createInteraction)                           // create
	r.Put("/write/interaction/{user_id}/{product_id}", h.updateInteractionByPair)  // update latest for pair
	r.Delete("/write/interaction/{user_id}/{product_id}", h.deleteInteractionByPair) // delete latest for pair
	r.Delete("/write/interaction/{interaction_id}", h.deleteInteraction)        // delete exact row
}

func (h *Handler) createInteraction(w http.ResponseWriter, r *http.Request) {
	var req CreateInteractionRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	in, err := h.service.CreateInteraction(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, in)
}

func (h *Handler) getInteraction(w http.ResponseWriter, r *http.Request) {
	in, err := h.service.GetInteraction(r.Context(), chi.URLParam(r, "interaction_id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, in)
}

func (h *Handler) updateInteractionByPair(w http.ResponseWriter, r *http.Request) {
	var req UpdateInteractionRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	in, err := h.service.UpdateInteractionByPair(r.Context(),
		chi.URLParam(r, "user_id"), chi.URLParam(r, "product_id"), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, in)
}

func (h *Handler) deleteInteractionByPair(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeleteInteractionByPair(r.Context(),
		chi.URLParam(r, "user_id"), chi.URLParam(r, "product_id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *Handler) deleteInteraction(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteInteraction(r.Context(), chi.URLParam(r, "interaction_id")); err != nil {
		respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *Handler) listInteractions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f, err := parseListFilters(q)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	f.UserID = q.Get("user_id")
	f.ProductID = q.Get("product_id")

	interactions, err := h.service.ListInteractions(r.Context(), f)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, interactions)
}

func (h *Handler) listUserInteractions(w http.ResponseWriter, r *http.Request) {
	f, err := parseListFilters(r.URL.Query())
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	f.UserID = chi.URLParam(r, "user_id")

	interactions, err := h.service.ListInteractions(r.Context(), f)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, interactions)
}

func (h *Handler) listProductInteractions(w http.ResponseWriter, r *http.Request) {
	f, err := parseListFilters(r.URL.Query())
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	f.ProductID = chi.URLParam(r, "product_id")

	interactions, err := h.service.ListInteractions(r.Context(), f)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, interactions)
}

func (h *Handler) sentimentByAttributes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	searchFilters, err := product.ParseSearchFilters(q)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	// Size and text search are not part of the sentiment view.
	searchFilters.Size = ""
	searchFilters.Text = ""
	f := &SentimentFilters{
		SearchFilters: *searchFilters,
		Sentiment:     Sentiment(q.Get("sentiment")),
	}

	interactions, err := h.service.SentimentByAttributes(r.Context(), chi.URLParam(r, "user_id"), f)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, interactions)
}

// parseListFilters reads the shared interaction listing parameters. Identity
// filters are assigned by the caller from the route.
func parseListFilters(q url.Values) (*ListFilters, error) {
	f := &ListFilters{Sentiment: Sentiment(q.Get("sentiment"))}
	var err error
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
	case errors.Is(err, ErrNotFound),
		errors.Is(err, product.ErrNotFound),
		errors.Is(err, profile.ErrNotFound):
		httpx.Error(w, http.StatusNotFound, err.Error())
	default:
		httpx.Error(w, http.StatusInternalServerError, err.Error())
	}
}
