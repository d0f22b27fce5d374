package testutil

import (
	"net/http"
	"time"

	"tempo/pkg/requestcontext"
)

// WithNow pins the request's clock, the way the requesttime middleware does
// for live traffic.
func WithNow(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}

// WithDevice tags the request with a kiosk/device identifier.
func WithDevice(req *http.Request, deviceID string) *http.Request {
	return req.WithContext(requestcontext.WithDeviceID(req.Context(), deviceID))
}

// WithRequestID sets the correlation id handlers echo into logs.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}
