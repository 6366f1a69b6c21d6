package testutil

import (
	"net/http"

	"sentencer/pkg/requestcontext"
)

// WithSubject attaches an authenticated caller the way the auth middleware does.
func WithSubject(req *http.Request, subject string) *http.Request {
	return req.WithContext(requestcontext.WithSubject(req.Context(), subject))
}
