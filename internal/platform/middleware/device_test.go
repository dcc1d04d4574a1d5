package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseUserAgent(t *testing.T) {
	t.Run("desktop browser", func(t *testing.T) {
		got := ParseUserAgent("Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		assert.Contains(t, got, "Chrome")
		assert.Contains(t, got, " on ")
	})

	t.Run("empty user agent", func(t *testing.T) {
		assert.Equal(t, "Unknown Device", ParseUserAgent(""))
	})

	t.Run("unparseable user agent still names both parts", func(t *testing.T) {
		assert.Contains(t, ParseUserAgent("definitely-not-a-browser"), " on ")
	})
}

func TestDeviceMiddleware(t *testing.T) {
	t.Run("injects parsed device into context", func(t *testing.T) {
		var captured string
		handler := Device(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			captured = GetDevice(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.Contains(t, captured, "Chrome")
	})

	t.Run("missing user agent yields unknown device", func(t *testing.T) {
		var captured string
		handler := Device(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			captured = GetDevice(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, "Unknown Device", captured)
	})
}

func TestGetDevice_FreshContext(t *testing.T) {
	assert.Empty(t, GetDevice(context.Background()))
}
