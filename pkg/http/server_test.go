package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type pingHandler struct{}

func (pingHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })
}

func get(s *Server, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if origin != "" {
		req.Header.Set(echo.HeaderOrigin, origin)
	}
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	return rec
}

func TestServerRestrictsCORSOrigins(t *testing.T) {
	s := NewServer(pingHandler{}, WithAllowOrigins("https://pulse.example"))

	rec := get(s, "https://pulse.example")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://pulse.example", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))

	rec = get(s, "https://other.example")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

func TestServerDefaultsAdmitAnyOrigin(t *testing.T) {
	s := NewServer(pingHandler{}, WithAllowOrigins(), WithSlowThreshold(0))

	rec := get(s, "https://other.example")
	assert.Equal(t, "https://other.example", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, 2*time.Second, s.config.SlowThreshold)
}

func TestServerSlowThresholdOption(t *testing.T) {
	s := NewServer(pingHandler{}, WithSlowThreshold(250*time.Millisecond))
	assert.Equal(t, 250*time.Millisecond, s.config.SlowThreshold)
}
