// Package httpapi exposes the secret engine over a JSON HTTP API. It is
// deliberately thin: request decoding, identity extraction, rate limiting,
// and error-to-status mapping; all rules live in the secrets service.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/avolkovs/secretlink/internal/common"
	"github.com/avolkovs/secretlink/internal/logging"
	"github.com/avolkovs/secretlink/internal/server/ratelimit"
	"github.com/avolkovs/secretlink/internal/server/secrets"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service *secrets.Service
	limiter *ratelimit.Limiter
	logger  logging.Logger
}

func NewHandler(service *secrets.Service, limiter *ratelimit.Limiter, logger logging.Logger) *Handler {
	return &Handler{
		service: service,
		limiter: limiter,
		logger:  logger.With("module", "httpapi"),
	}
}

type createSecretRequest struct {
	Content   string  `json:"content"`
	IsOneTime bool    `json:"isOneTime"`
	ExpiresAt *string `json:"expiresAt,omitempty"`
	Password  string  `json:"password,omitempty"`
}

type createSecretResponse struct {
	ID string `json:"id"`
}

type updateSecretRequest struct {
	Content   *string `json:"content,omitempty"`
	IsOneTime *bool   `json:"isOneTime,omitempty"`
	ExpiresAt *string `json:"expiresAt,omitempty"`
	Password  *string `json:"password,omitempty"`
}

type successResponse struct {
	Success bool `json:"success"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) CreateSecret(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeErrorMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createSecretRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	expiresAt, err := parseExpiry(req.ExpiresAt)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid expiresAt: must be RFC 3339")
		return
	}

	id, err := h.service.Create(r.Context(), ownerID, secrets.CreateRequest{
		Content:   req.Content,
		IsOneTime: req.IsOneTime,
		ExpiresAt: expiresAt,
		Password:  req.Password,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, createSecretResponse{ID: id})
}

func (h *Handler) UpdateSecret(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeErrorMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id := chi.URLParam(r, "id")

	var req updateSecretRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	expiresAt, err := parseExpiry(req.ExpiresAt)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid expiresAt: must be RFC 3339")
		return
	}

	err = h.service.Update(r.Context(), ownerID, id, secrets.UpdateRequest{
		Content:   req.Content,
		IsOneTime: req.IsOneTime,
		ExpiresAt: expiresAt,
		Password:  req.Password,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (h *Handler) GetSecret(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	password := r.URL.Query().Get("password")

	view, err := h.service.Get(r.Context(), id, password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) MarkSecretViewed(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	secret, err := h.service.MarkViewed(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":        secret.ID,
		"isOneTime": secret.IsOneTime,
		"isViewed":  secret.IsViewed,
		"expiresAt": secret.ExpiresAt,
	})
}

func (h *Handler) ListMySecrets(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeErrorMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	list, err := h.service.ListForOwner(r.Context(), ownerID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) DeleteSecret(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeErrorMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), ownerID, id); err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func parseExpiry(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// writeError maps the service error taxonomy to HTTP statuses. Anything
// unrecognized is logged and surfaced as a generic internal error so no
// store or cipher detail leaks to the caller.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		writeErrorMessage(w, http.StatusNotFound, "secret not found")
	case errors.Is(err, common.ErrorExpired):
		writeErrorMessage(w, http.StatusGone, "secret expired")
	case errors.Is(err, common.ErrorConsumed):
		writeErrorMessage(w, http.StatusGone, "secret already viewed")
	case errors.Is(err, common.ErrorPasswordRequired):
		writeErrorMessage(w, http.StatusUnauthorized, "password required")
	case errors.Is(err, common.ErrorInvalidPassword):
		writeErrorMessage(w, http.StatusForbidden, "invalid password")
	case errors.Is(err, common.ErrorValidation):
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorRateLimited):
		writeErrorMessage(w, http.StatusTooManyRequests, "too many requests")
	case errors.Is(err, common.ErrorUnauthorized):
		writeErrorMessage(w, http.StatusUnauthorized, "unauthorized")
	default:
		h.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err.Error())
		writeErrorMessage(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeErrorMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
