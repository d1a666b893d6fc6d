package weex

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"CryptoPulse/internal/domain/models"
	drepo "CryptoPulse/internal/domain/repository"
	xhttp "CryptoPulse/pkg/http"
	applogger "CryptoPulse/pkg/logger"
	"CryptoPulse/pkg/util"
)

const (
	ModeFutures = "futures"
	ModeSpot    = "spot"

	DefaultSpotURL    = "https://api-spot.weex.com"
	DefaultFuturesURL = "https://api-contract.weex.com"

	SpotTickerPath    = "/api/v2/market/ticker"
	FuturesTickerPath = "/capi/v2/market/ticker"

	probeSymbol = "BTCUSDT"
)

// Client reads tickers from the WEEX public market API.
type Client struct {
	http         *xhttp.Client
	mode         string
	spotURL      string
	futuresURL   string
	timeout      time.Duration
	probeTimeout time.Duration
	now          func() time.Time
	l            *applogger.Logger
}

type Option func(*Client)

func WithMode(mode string) Option {
	return func(c *Client) {
		if mode == ModeSpot || mode == ModeFutures {
			c.mode = mode
		}
	}
}

func WithSpotURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.spotURL = strings.TrimRight(u, "/")
		}
	}
}

func WithFuturesURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.futuresURL = strings.TrimRight(u, "/")
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithProbeTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.probeTimeout = d
		}
	}
}

func WithLogger(l *applogger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.l = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a WEEX client in futures mode unless configured otherwise.
func New(opts ...Option) *Client {
	c := &Client{
		mode:         ModeFutures,
		spotURL:      DefaultSpotURL,
		futuresURL:   DefaultFuturesURL,
		timeout:      10 * time.Second,
		probeTimeout: 5 * time.Second,
		now:          time.Now,
		l:            applogger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http = xhttp.NewClient(xhttp.WithTimeout(c.timeout))
	return c
}

var _ drepo.PriceFeed = (*Client)(nil)

func (c *Client) Mode() string { return c.mode }

func (c *Client) SpotURL() string { return c.spotURL }

func (c *Client) FuturesURL() string { return c.futuresURL }

// ticker covers both the futures and spot payloads; the two APIs name the
// same figures differently and send numbers as strings.
type ticker struct {
	Last               util.Number `json:"last"`
	Close              util.Number `json:"close"`
	High24hSnake       util.Number `json:"high_24h"`
	High24h            util.Number `json:"high24h"`
	Low24hSnake        util.Number `json:"low_24h"`
	Low24h             util.Number `json:"low24h"`
	Volume24h          util.Number `json:"volume_24h"`
	BaseVol            util.Number `json:"baseVol"`
	PriceChangePercent util.Number `json:"priceChangePercent"` // fraction, 0.0123 = 1.23%
}

type spotEnvelope struct {
	Data json.RawMessage `json:"data"`
}

// CurrentPrice fetches the ticker for symbol. Any transport or decoding
// failure is reported as models.ErrPriceUnavailable.
func (c *Client) CurrentPrice(ctx context.Context, symbol string) (models.CurrentPrice, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return models.CurrentPrice{}, models.ErrInvalidSymbol
	}

	t, err := c.fetch(ctx, symbol)
	if err != nil {
		c.l.Warn("weex ticker failed",
			applogger.String("symbol", symbol),
			applogger.String("mode", c.mode),
			applogger.Error(err),
		)
		return models.CurrentPrice{}, fmt.Errorf("weex ticker %s: %w: %w", symbol, models.ErrPriceUnavailable, err)
	}

	price := first(t.Last, t.Close)
	if c.mode == ModeSpot {
		price = first(t.Close, t.Last)
	}
	pct := t.PriceChangePercent.Float64() * 100
	out := models.CurrentPrice{
		Symbol:           strings.ToUpper(symbol),
		CurrentPrice:     price,
		High24h:          first(t.High24hSnake, t.High24h),
		Low24h:           first(t.Low24hSnake, t.Low24h),
		Volume24h:        first(t.Volume24h, t.BaseVol),
		Change24h:        price * pct / 100,
		ChangePercent24h: pct,
		Timestamp:        c.now().UnixMilli(),
	}
	if !util.Finite(out.CurrentPrice) || !util.Finite(out.ChangePercent24h) {
		return models.CurrentPrice{}, fmt.Errorf("weex ticker %s: non-finite figures: %w", symbol, models.ErrPriceUnavailable)
	}

	c.l.Debug("weex ticker",
		applogger.String("symbol", out.Symbol),
		applogger.Float64("price", out.CurrentPrice),
		applogger.Float64("change_pct", out.ChangePercent24h),
	)
	return out, nil
}

func (c *Client) fetch(ctx context.Context, symbol string) (ticker, error) {
	var t ticker
	if c.mode == ModeFutures {
		err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
			Method:      xhttp.MethodGet,
			URL:         c.futuresURL + FuturesTickerPath,
			QueryParams: map[string][]string{"symbol": {"cmt_" + strings.ToLower(symbol)}},
		}, &t)
		return t, err
	}

	var env spotEnvelope
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.spotURL + SpotTickerPath,
		QueryParams: map[string][]string{"symbol": {strings.ToUpper(symbol)}},
	}, &env)
	if err != nil {
		return t, err
	}
	return decodeSpotData(env.Data)
}

// decodeSpotData accepts the ticker as an object or as the first element of
// an array.
func decodeSpotData(raw json.RawMessage) (ticker, error) {
	var t ticker
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return t, errors.New("empty ticker data")
	}
	if raw[0] == '[' {
		var list []ticker
		if err := json.Unmarshal(raw, &list); err != nil {
			return t, fmt.Errorf("decode ticker list: %w", err)
		}
		if len(list) == 0 {
			return t, errors.New("empty ticker data")
		}
		return list[0], nil
	}
	if err := json.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("decode ticker: %w", err)
	}
	return t, nil
}

// Probe checks both WEEX ticker endpoints with a well-known symbol.
func (c *Client) Probe(ctx context.Context) []models.ProbeResult {
	return []models.ProbeResult{
		c.probe(ctx, "Spot", c.spotURL, SpotTickerPath, probeSymbol),
		c.probe(ctx, "Futures", c.futuresURL, FuturesTickerPath, "cmt_"+strings.ToLower(probeSymbol)),
	}
}

func (c *Client) probe(ctx context.Context, api, base, path, symbol string) models.ProbeResult {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	res := models.ProbeResult{API: api, Endpoint: path}
	var data any
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         base + path,
		QueryParams: map[string][]string{"symbol": {symbol}},
	}, &data)
	if err != nil {
		res.Status = "ERROR"
		res.Error = err.Error()
		return res
	}
	res.Status = "OK"
	res.Data = data
	return res
}

func first(vals ...util.Number) float64 {
	for _, v := range vals {
		if v != 0 {
			return v.Float64()
		}
	}
	return 0
}
