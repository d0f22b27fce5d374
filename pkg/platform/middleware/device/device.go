// Package device records which kiosk or client issued a request.
package device

import (
	"net/http"
	"strings"

	"tempo/pkg/requestcontext"
)

// HeaderDeviceID is sent by clocking kiosks to identify themselves.
const HeaderDeviceID = "X-Device-ID"

const maxDeviceIDLength = 128

// Middleware copies the device header into the request context. Oversized
// values are dropped rather than truncated.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deviceID := strings.TrimSpace(r.Header.Get(HeaderDeviceID))
		if deviceID != "" && len(deviceID) <= maxDeviceIDLength {
			r = r.WithContext(requestcontext.WithDeviceID(r.Context(), deviceID))
		}
		next.ServeHTTP(w, r)
	})
}
