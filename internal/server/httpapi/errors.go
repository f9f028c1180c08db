package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/qrregistry/internal/common"
)

// writeServiceError maps a service error onto a status and error code.
// Unknown errors are logged and reported as internal.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrValidation):
		writeError(w, r, http.StatusBadRequest, "VALIDATION", err.Error())
	case errors.Is(err, common.ErrTokenExpired), errors.Is(err, common.ErrRefreshTokenExpired):
		writeError(w, r, http.StatusUnauthorized, "TOKEN_EXPIRED", "token expired")
	case errors.Is(err, common.ErrUnauthenticated),
		errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken):
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
	case errors.Is(err, common.ErrForbidden):
		writeError(w, r, http.StatusForbidden, "FORBIDDEN", "admin role required")
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", "record not found")
	case errors.Is(err, common.ErrDuplicateNationalID):
		writeError(w, r, http.StatusConflict, "DUPLICATE_NATIONAL_ID", "a record with this national id already exists")
	case errors.Is(err, common.ErrorAlreadyExists):
		writeError(w, r, http.StatusConflict, "CONFLICT", "already exists")
	default:
		h.logger.Error(r.Context(), "request failed", "error", err.Error(), "path", r.URL.Path)
		writeError(w, r, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}
