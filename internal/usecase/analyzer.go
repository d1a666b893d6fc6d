package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"CryptoPulse/internal/domain/models"
	drepo "CryptoPulse/internal/domain/repository"
	"CryptoPulse/internal/services/synth"
	applogger "CryptoPulse/pkg/logger"
)

// HistorySynthesizer builds a daily window ending at the live price.
type HistorySynthesizer interface {
	Synthesize(price models.CurrentPrice, days int) (models.HistoryResult, error)
}

// BookSynthesizer builds a two-sided book around the live price.
type BookSynthesizer interface {
	Synthesize(price models.CurrentPrice) (models.OrderBook, error)
}

// Narrator turns the figures into a report. It never fails.
type Narrator interface {
	Compose(ctx context.Context, price models.CurrentPrice, history models.HistoryResult, book models.OrderBook) models.Report
}

// Recorder receives completed analyses off the request path.
type Recorder interface {
	RecordAsync(ctx context.Context, a models.Analysis)
}

// Analyzer runs one analysis request end to end.
type Analyzer struct {
	feed       drepo.PriceFeed
	history    HistorySynthesizer
	book       BookSynthesizer
	narrator   Narrator
	recorder   Recorder
	metrics    drepo.Metrics
	days       int
	dataSource string
	now        func() time.Time
	l          *applogger.Logger
}

type AnalyzerOption func(*Analyzer)

func WithRecorder(r Recorder) AnalyzerOption {
	return func(a *Analyzer) { a.recorder = r }
}

func WithMetrics(m drepo.Metrics) AnalyzerOption {
	return func(a *Analyzer) {
		if m != nil {
			a.metrics = m
		}
	}
}

func WithHistoryDays(days int) AnalyzerOption {
	return func(a *Analyzer) {
		if days > 0 {
			a.days = days
		}
	}
}

func WithDataSource(s string) AnalyzerOption {
	return func(a *Analyzer) { a.dataSource = s }
}

func WithClock(now func() time.Time) AnalyzerOption {
	return func(a *Analyzer) {
		if now != nil {
			a.now = now
		}
	}
}

func WithLogger(l *applogger.Logger) AnalyzerOption {
	return func(a *Analyzer) {
		if l != nil {
			a.l = l
		}
	}
}

func NewAnalyzer(feed drepo.PriceFeed, history HistorySynthesizer, book BookSynthesizer, narrator Narrator, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		feed:     feed,
		history:  history,
		book:     book,
		narrator: narrator,
		metrics:  nopMetrics{},
		days:     15,
		now:      time.Now,
		l:        applogger.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze fetches the ticker for symbol, synthesizes history and order book
// concurrently, then composes the report. No partial result is returned.
func (a *Analyzer) Analyze(ctx context.Context, symbol string) (models.Analysis, error) {
	start := time.Now()

	sym := strings.ToLower(strings.TrimSpace(symbol))
	if sym == "" {
		return models.Analysis{}, models.ErrInvalidSymbol
	}
	display := strings.ToUpper(sym)

	price, err := a.feed.CurrentPrice(ctx, sym)
	if err != nil {
		a.metrics.RecordError("price")
		if errors.Is(err, models.ErrInvalidSymbol) || errors.Is(err, models.ErrPriceUnavailable) {
			return models.Analysis{}, err
		}
		return models.Analysis{}, fmt.Errorf("%w: %w", models.ErrPriceUnavailable, err)
	}
	if !(price.CurrentPrice > 0) {
		a.metrics.RecordError("price")
		return models.Analysis{}, fmt.Errorf("%s price %v: %w", display, price.CurrentPrice, models.ErrPriceUnavailable)
	}
	price.Symbol = display
	a.metrics.RecordLastPrice(display, price.CurrentPrice)

	var (
		wg      sync.WaitGroup
		history models.HistoryResult
		book    models.OrderBook
		histErr error
		bookErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		history, histErr = a.history.Synthesize(price, a.days)
	}()
	go func() {
		defer wg.Done()
		book, bookErr = a.book.Synthesize(price)
	}()
	wg.Wait()

	if histErr == nil && bookErr == nil {
		histErr, bookErr = synth.CheckHistory(history), synth.CheckBook(book)
	}
	if err := errors.Join(histErr, bookErr); err != nil {
		a.metrics.RecordError("synthesize")
		return models.Analysis{}, fmt.Errorf("synthesize %s: %w", display, err)
	}

	report := a.narrator.Compose(ctx, price, history, book)

	out := models.Analysis{
		Success:    true,
		Symbol:     display,
		PriceData:  price,
		Historical: history,
		OrderBook:  book,
		AIReport:   report.Text,
		Source:     report.Source,
		DataSource: a.dataSource,
		Timestamp:  a.now().UnixMilli(),
	}

	if a.recorder != nil {
		a.recorder.RecordAsync(ctx, out)
	}

	a.metrics.RecordAnalysis(display)
	a.metrics.RecordLatency("analyze", time.Since(start).Seconds())
	a.l.Info("analysis complete",
		applogger.String("symbol", display),
		applogger.Float64("price", price.CurrentPrice),
		applogger.String("trend", history.Trend.String()),
		applogger.String("sentiment", book.Sentiment.String()),
		applogger.String("report_source", string(report.Source)),
		applogger.Duration("took", time.Since(start)),
	)
	return out, nil
}
