// Package requestid propagates a correlation ID through the request context.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"tempo/pkg/requestcontext"
)

// Header carries the correlation ID in and out of the service.
const Header = "X-Request-ID"

// Middleware reuses an incoming X-Request-ID or mints a new one, echoing it on
// the response.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(Header)
		if reqID == "" || len(reqID) > 64 {
			reqID = uuid.NewString()
		}
		w.Header().Set(Header, reqID)
		next.ServeHTTP(w, r.WithContext(requestcontext.WithRequestID(r.Context(), reqID)))
	})
}
