package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type symbolRequest struct {
	Symbol   string `json:"symbol" validate:"required,notblank,max=8"`
	Interval string `json:"interval" default:"1d" validate:"oneof=1h 1d"`
}

func bindContext(body string) echo.Context {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestReadAndValidateRequest(t *testing.T) {
	req := &symbolRequest{}
	assert.Nil(t, ReadAndValidateRequest(bindContext(`{"symbol":"BTCUSDT"}`), req))
	assert.Equal(t, "BTCUSDT", req.Symbol)
	assert.Equal(t, "1d", req.Interval)
}

func TestReadAndValidateRequestErrors(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		code  string
		field string
	}{
		{"missing", `{}`, "ERR_REQUIRED", "symbol"},
		{"blank", `{"symbol":"   "}`, "ERR_NOTBLANK", "symbol"},
		{"too long", `{"symbol":"BTCUSDTUSDT"}`, "ERR_MAX", "symbol"},
		{"oneof", `{"symbol":"BTC","interval":"5m"}`, "ERR_ONEOF", "interval"},
		{"malformed", `{"symbol":`, "ERR_MALFORMED_BODY", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := ReadAndValidateRequest(bindContext(tc.body), &symbolRequest{})
			errs, ok := out.([]ValidationError)
			require.True(t, ok)
			require.NotEmpty(t, errs)
			assert.Equal(t, tc.code, errs[0].Code)
			assert.Equal(t, tc.field, errs[0].Field)
			assert.NotEmpty(t, errs[0].Message)
		})
	}
}
