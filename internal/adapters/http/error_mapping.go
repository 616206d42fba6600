package httpadapter

import (
	"net/http"

	"github.com/mzolotarev/legal-assistant/internal/core/domain"
)

// mapErrorToHTTPStatus translates domain error kinds to status codes.
// Retrieval outages count as temporary: the dependency may recover,
// so clients get a 503 they can retry rather than a terminal 500.
func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrDocumentNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrTemporary),
		domain.IsKind(err, domain.ErrRetrievalUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
