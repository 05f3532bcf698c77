package testutil

import (
	"net/http"

	id "legacyvault/pkg/domain"
	"legacyvault/pkg/requestcontext"
)

// WithUserID adds a caller identity to the request context, as the caller
// middleware would. Invalid ids are ignored so tests can exercise the
// unauthenticated path with the same helper.
func WithUserID(req *http.Request, userID string) *http.Request {
	parsed, err := id.ParseUserID(userID)
	if err != nil {
		return req
	}
	return req.WithContext(requestcontext.WithUserID(req.Context(), parsed))
}

// WithCallerHeader sets the caller identity header read by the caller
// middleware.
func WithCallerHeader(req *http.Request, userID string) *http.Request {
	req.Header.Set("X-User-ID", userID)
	return req
}
