package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	models "CryptoPulse/internal/domain/models"
	domsvc "CryptoPulse/internal/domain/service"
	svccache "CryptoPulse/internal/service/cache"
	"CryptoPulse/internal/service/metrics"
	"CryptoPulse/internal/service/ratelimit"
	pkgcache "CryptoPulse/pkg/cache"
	xhttp "CryptoPulse/pkg/http"
	xlogger "CryptoPulse/pkg/logger"
)

const (
	msgSymbolRequired = "Símbolo requerido"
	msgTextRequired   = "Texto requerido"
	msgAudioFailed    = "Error al procesar el audio"
	msgAudioDisabled  = "Servicio de voz no configurado"
	msgRateLimited    = "Demasiadas solicitudes, intenta más tarde"
	msgPriceFailed    = "No se pudo obtener el precio"
	msgAnalysisFailed = "Error al analizar la criptomoneda"

	modeLabelFutures = "FUTUROS"
	modeLabelSpot    = "SPOT"
)

// Analyzer runs one analysis request.
type Analyzer interface {
	Analyze(ctx context.Context, symbol string) (models.Analysis, error)
}

// Exchange exposes the upstream connectivity probe and its endpoints.
type Exchange interface {
	Probe(ctx context.Context) []models.ProbeResult
	Mode() string
	SpotURL() string
	FuturesURL() string
}

// AnalysisEchoHandler serves the analysis, speech and diagnostics endpoints.
type AnalysisEchoHandler struct {
	logger      *xlogger.Logger
	analyzer    Analyzer
	exchange    Exchange
	speech      domsvc.SpeechSynthesizer
	audio       svccache.BytesCache
	audioTTL    time.Duration
	limiter     *ratelimit.Limiter
	analyzeRate ratelimit.Policy
	audioRate   ratelimit.Policy
}

type HandlerOption func(*AnalysisEchoHandler)

// WithSpeech enables /api/generate-audio. Without it the endpoint answers 503.
func WithSpeech(s domsvc.SpeechSynthesizer) HandlerOption {
	return func(h *AnalysisEchoHandler) { h.speech = s }
}

// WithAudioCache caches synthesized audio by text hash for ttl.
func WithAudioCache(c svccache.BytesCache, ttl time.Duration) HandlerOption {
	return func(h *AnalysisEchoHandler) {
		h.audio = c
		h.audioTTL = ttl
	}
}

// WithRateLimit applies per-client token buckets to the POST endpoints.
func WithRateLimit(l *ratelimit.Limiter, analyze, audio ratelimit.Policy) HandlerOption {
	return func(h *AnalysisEchoHandler) {
		h.limiter = l
		h.analyzeRate = analyze
		h.audioRate = audio
	}
}

func NewAnalysisEchoHandler(logger *xlogger.Logger, analyzer Analyzer, exchange Exchange, opts ...HandlerOption) *AnalysisEchoHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	h := &AnalysisEchoHandler{
		logger:   logger.With("api"),
		analyzer: analyzer,
		exchange: exchange,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

var _ xhttp.Handler = (*AnalysisEchoHandler)(nil)

func (h *AnalysisEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/analyze-crypto", h.AnalyzeCrypto)
	g.POST("/generate-audio", h.GenerateAudio)
	g.GET("/test-weex", h.TestWeex)
	e.GET("/health", h.Health)
}

func (h *AnalysisEchoHandler) AnalyzeCrypto(c echo.Context) error {
	const endpoint = "analyze"
	defer observe(endpoint, time.Now())

	if !h.allow(c, h.analyzeRate) {
		return h.fail(c, endpoint, xhttp.TooManyRequestsError(msgRateLimited))
	}

	req := &models.AnalyzeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		countError(endpoint, http.StatusBadRequest)
		return xhttp.ErrorResponse(c, http.StatusBadRequest, "ERR_BAD_REQUEST", msgSymbolRequired, verr)
	}

	res, err := h.analyzer.Analyze(c.Request().Context(), req.Symbol)
	if err != nil {
		return h.fail(c, endpoint, analysisError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func analysisError(err error) *xhttp.AppError {
	switch {
	case errors.Is(err, models.ErrInvalidSymbol):
		return xhttp.BadRequestError(msgSymbolRequired).WithError(err)
	case errors.Is(err, models.ErrPriceUnavailable):
		return xhttp.BadGatewayError(msgPriceFailed).WithError(err)
	default:
		return xhttp.InternalError(msgAnalysisFailed).WithError(err)
	}
}

func (h *AnalysisEchoHandler) GenerateAudio(c echo.Context) error {
	const endpoint = "generate_audio"
	defer observe(endpoint, time.Now())

	if !h.allow(c, h.audioRate) {
		return h.fail(c, endpoint, xhttp.TooManyRequestsError(msgRateLimited))
	}

	req := &models.AudioRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		countError(endpoint, http.StatusBadRequest)
		return xhttp.ErrorResponse(c, http.StatusBadRequest, "ERR_BAD_REQUEST", msgTextRequired, verr)
	}
	if h.speech == nil {
		return h.fail(c, endpoint, xhttp.ServiceUnavailableError(msgAudioDisabled))
	}

	ctx := c.Request().Context()
	key := pkgcache.GenerateKey("audio", pkgcache.HashKey(req.Text))
	if h.audio != nil {
		b, ok, err := h.audio.GetBytes(ctx, key)
		if err != nil {
			h.logger.Warn("audio cache read failed", xlogger.Error(err))
		}
		if ok {
			metrics.AudioCacheHits.Inc()
			return c.Blob(http.StatusOK, h.speech.ContentType(), b)
		}
	}

	audio, err := h.speech.Synthesize(ctx, req.Text)
	if err != nil {
		return h.fail(c, endpoint, xhttp.InternalError(msgAudioFailed).WithError(err))
	}

	if h.audio != nil && h.audioTTL > 0 {
		if err := h.audio.SetBytes(ctx, key, audio, h.audioTTL); err != nil {
			h.logger.Warn("audio cache write failed", xlogger.Error(err))
		}
	}
	return c.Blob(http.StatusOK, h.speech.ContentType(), audio)
}

type probeResponse struct {
	Success     bool                 `json:"success"`
	Message     string               `json:"message"`
	Tests       []models.ProbeResult `json:"tests"`
	CurrentMode string               `json:"currentMode"`
}

func (h *AnalysisEchoHandler) TestWeex(c echo.Context) error {
	defer observe("test_weex", time.Now())

	tests := h.exchange.Probe(c.Request().Context())
	ok := len(tests) > 0
	for _, t := range tests {
		if t.Status != "OK" {
			ok = false
			break
		}
	}

	msg := "⚠️ Algunos endpoints fallaron"
	if ok {
		msg = "✅ Ambas APIs funcionando"
	}
	mode := modeLabelFutures
	if h.exchange.Mode() == "spot" {
		mode = modeLabelSpot
	}
	return xhttp.SuccessResponse(c, probeResponse{
		Success:     ok,
		Message:     msg,
		Tests:       tests,
		CurrentMode: mode,
	})
}

type healthResponse struct {
	Status string            `json:"status"`
	Mode   string            `json:"mode"`
	APIs   map[string]string `json:"apis"`
}

func (h *AnalysisEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, healthResponse{
		Status: "ok",
		Mode:   h.exchange.Mode(),
		APIs: map[string]string{
			"spot":    h.exchange.SpotURL(),
			"futures": h.exchange.FuturesURL(),
		},
	})
}

func (h *AnalysisEchoHandler) allow(c echo.Context, p ratelimit.Policy) bool {
	if h.limiter == nil || p.Capacity <= 0 {
		return true
	}
	return h.limiter.Allow(c.Path()+"|"+c.RealIP(), p)
}

func (h *AnalysisEchoHandler) fail(c echo.Context, endpoint string, appErr *xhttp.AppError) error {
	countError(endpoint, appErr.Status)
	if appErr.Status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			xlogger.String("endpoint", endpoint),
			xlogger.Int("status", appErr.Status),
			xlogger.Error(appErr),
		)
	} else {
		h.logger.Warn("request rejected",
			xlogger.String("endpoint", endpoint),
			xlogger.Int("status", appErr.Status),
			xlogger.String("reason", appErr.Message),
		)
	}
	return xhttp.AppErrorResponse(c, appErr)
}
