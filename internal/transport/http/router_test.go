package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tempo/pkg/requestcontext"
	"tempo/pkg/testutil"
)

type echoRegistrar struct{}

func (echoRegistrar) Register(r chi.Router) {
	r.Get("/echo", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		_ = json.NewEncoder(w).Encode(map[string]string{
			"request_id": requestcontext.RequestID(ctx),
			"device_id":  requestcontext.DeviceID(ctx),
			"now":        requestcontext.Now(ctx).Format(time.RFC3339Nano),
		})
	})
}

func TestRouter_MiddlewarePopulatesRequestContext(t *testing.T) {
	router := NewRouter(Config{Handlers: []Registrar{echoRegistrar{}}})

	req := testutil.NewRequest(t, http.MethodGet, "/echo")
	req.Header.Set("X-Device-ID", "kiosk-7")
	rr := testutil.DoRequest(router, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.NotEmpty(t, body["request_id"])
	assert.Equal(t, "kiosk-7", body["device_id"])
	assert.NotEmpty(t, body["now"])
}

func TestRouter_Health(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("all dependencies up", func(t *testing.T) {
		router := NewRouter(Config{Logger: logger, Health: map[string]HealthCheck{
			"postgres": func(context.Context) error { return nil },
		}})

		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/health"))

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("a dependency down", func(t *testing.T) {
		router := NewRouter(Config{Logger: logger, Health: map[string]HealthCheck{
			"postgres": func(context.Context) error { return nil },
			"redis":    func(context.Context) error { return errors.New("dial tcp: refused") },
		}})

		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/health"))

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		var body struct {
			Dependencies map[string]string `json:"dependencies"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "down", body.Dependencies["redis"])
		assert.Equal(t, "ok", body.Dependencies["postgres"])
	})
}
