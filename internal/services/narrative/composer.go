package narrative

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"CryptoPulse/internal/domain/models"
	domsvc "CryptoPulse/internal/domain/service"
	"CryptoPulse/internal/service/metrics"
	applogger "CryptoPulse/pkg/logger"
)

const (
	DefaultTimeout  = 15 * time.Second
	DefaultMaxWords = 100
)

// Composer turns synthesized figures into a short spoken report.
type Composer struct {
	gen      domsvc.TextGenerator
	timeout  time.Duration
	maxWords int
	l        *applogger.Logger
}

type Option func(*Composer)

func WithTimeout(d time.Duration) Option {
	return func(c *Composer) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithMaxWords(n int) Option {
	return func(c *Composer) {
		if n > 0 {
			c.maxWords = n
		}
	}
}

func WithLogger(l *applogger.Logger) Option {
	return func(c *Composer) {
		if l != nil {
			c.l = l
		}
	}
}

// NewComposer creates a Composer. gen may be nil, in which case every report
// comes from the template.
func NewComposer(gen domsvc.TextGenerator, opts ...Option) *Composer {
	c := &Composer{
		gen:      gen,
		timeout:  DefaultTimeout,
		maxWords: DefaultMaxWords,
		l:        applogger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose asks the provider once and falls back to the template on any
// failure. It always returns a report.
func (c *Composer) Compose(ctx context.Context, price models.CurrentPrice, history models.HistoryResult, book models.OrderBook) models.Report {
	if c.gen == nil {
		metrics.NarrativeFallbacks.WithLabelValues("disabled").Inc()
		return c.fallback(price, history, book)
	}

	prompt := BuildPrompt(price, history, book, c.maxWords)
	text, err := c.generate(ctx, prompt)
	if err != nil {
		c.l.Warn("narrative provider failed, using template",
			applogger.String("symbol", price.Symbol),
			applogger.Error(err),
		)
		metrics.NarrativeFallbacks.WithLabelValues(fallbackReason(err)).Inc()
		return c.fallback(price, history, book)
	}
	return models.Report{Text: capWords(text, c.maxWords), Source: models.ReportSourceAI}
}

func (c *Composer) generate(ctx context.Context, prompt string) (text string, err error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("provider panic: %v: %w", r, models.ErrNarrativeProvider)
		}
	}()

	text, err = c.gen.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %w", models.ErrNarrativeProvider, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty text: %w", models.ErrNarrativeProvider)
	}
	return text, nil
}

func (c *Composer) fallback(price models.CurrentPrice, history models.HistoryResult, book models.OrderBook) models.Report {
	return models.Report{Text: FallbackReport(price, history, book), Source: models.ReportSourceTemplate}
}

func fallbackReason(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return "error"
}
