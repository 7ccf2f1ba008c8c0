package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/coursehub/backend/internal/apperrors"
	"github.com/coursehub/backend/internal/middleware"
	"github.com/coursehub/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// AuthFunc is a middleware that authenticates the caller
type AuthFunc func(http.Handler) http.Handler

// BaseHandler provides common handler functionality
type BaseHandler struct {
	logger   *zap.Logger
	validate *validator.Validate
}

// NewBaseHandler creates a base handler shared by the API handlers
func NewBaseHandler(logger *zap.Logger, validate *validator.Validate) BaseHandler {
	return BaseHandler{logger: logger, validate: validate}
}

// respondJSON sends a JSON response
func (h *BaseHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// respondError sends an error JSON response
func (h *BaseHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps an error returned by a service to a status code.
// Internal errors are logged and their details are never sent to the client.
func (h *BaseHandler) respondServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("failed to "+action,
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.Error(err),
		)
	}
	h.respondError(w, status, apperrors.PublicMessage(err))
}

// statusFor returns the HTTP status code of an error kind
func statusFor(err error) int {
	switch apperrors.Kind(err) {
	case apperrors.ErrNotFound:
		return http.StatusNotFound
	case apperrors.ErrForbidden, apperrors.ErrNotEnrolled, apperrors.ErrLecturesLocked:
		return http.StatusForbidden
	case apperrors.ErrDuplicateEnrollment:
		return http.StatusConflict
	case apperrors.ErrTypeMismatch, apperrors.ErrInvalidSubmission, apperrors.ErrInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes the request body into dst and validates it
func (h *BaseHandler) decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return fmt.Errorf("request body too large")
		}
		return fmt.Errorf("invalid request body")
	}

	if err := h.validate.Struct(dst); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
			fe := validationErrs[0]
			return fmt.Errorf("field %s failed validation: %s", fe.Field(), fe.Tag())
		}
		return fmt.Errorf("invalid request body")
	}

	return nil
}

// pathID parses the {id} URL parameter
func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id parameter")
	}
	return id, nil
}

// identity extracts the caller identity set by the auth middleware
func (h *BaseHandler) identity(w http.ResponseWriter, r *http.Request) (models.Identity, bool) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "authentication required")
	}
	return identity, ok
}

// messageResponse is a response carrying only a message
type messageResponse struct {
	Message string `json:"message"`
}
