package profile

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/talkshopapp/talkshop-backend/internal/httpx"
	"github.com/talkshopapp/talkshop-backend/internal/validation"
)

// Handler exposes user profile HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Get("/read/user/{user_id}", h.getProfile)        // read one
	r.Post("/write/user", h.createProfile)             // create
	r.Put("/write/user/{user_id}", h.updateProfile)    // partial update
	r.Delete("/write/user/{user_id}", h.deleteProfile) // delete
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetUserProfile(r.Context(), chi.URLParam(r, "user_id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) createProfile(w http.ResponseWriter, r *http.Request) {
	var req CreateUserProfileRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.service.CreateUserProfile(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserProfileRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.service.UpdateUserProfile(r.Context(), chi.URLParam(r, "user_id"), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) deleteProfile(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteUserProfile(r.Context(), chi.URLParam(r, "user_id")); err != nil {
		respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"deleted": true})
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
