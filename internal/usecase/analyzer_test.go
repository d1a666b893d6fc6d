package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CryptoPulse/internal/domain/models"
	"CryptoPulse/internal/services/narrative"
	"CryptoPulse/internal/services/synth"
)

var testNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestAnalyzer(feed *fakeFeed, narr Narrator, opts ...AnalyzerOption) *Analyzer {
	hist := synth.NewHistory(synth.WithClock(func() time.Time { return testNow }))
	book := synth.NewOrderBook()
	opts = append([]AnalyzerOption{WithClock(func() time.Time { return testNow })}, opts...)
	return NewAnalyzer(feed, hist, book, narr, opts...)
}

func btc(change float64) models.CurrentPrice {
	return models.CurrentPrice{
		Symbol:           "btcusdt",
		CurrentPrice:     50000,
		High24h:          51000,
		Low24h:           49000,
		Volume24h:        1000,
		ChangePercent24h: change,
	}
}

func TestAnalyzeHappyPath(t *testing.T) {
	feed := &fakeFeed{price: btc(3)}
	narr := &fakeNarrator{report: models.Report{Text: "informe", Source: models.ReportSourceAI}}
	rec := &fakeRecorder{}
	m := newFakeMetrics()

	a := newTestAnalyzer(feed, narr,
		WithRecorder(rec),
		WithMetrics(m),
		WithDataSource("WEEX Futures API"),
	)

	out, err := a.Analyze(context.Background(), "  BTCUSDT ")
	require.NoError(t, err)

	assert.Equal(t, "btcusdt", feed.last)
	assert.True(t, out.Success)
	assert.Equal(t, "BTCUSDT", out.Symbol)
	assert.Equal(t, "BTCUSDT", out.PriceData.Symbol)
	assert.Equal(t, 50000.0, out.PriceData.CurrentPrice)
	assert.Len(t, out.Historical.Series, 15)
	assert.Len(t, out.OrderBook.Bids, synth.BookDepth)
	assert.Equal(t, "informe", out.AIReport)
	assert.Equal(t, models.ReportSourceAI, out.Source)
	assert.Equal(t, "WEEX Futures API", out.DataSource)
	assert.Equal(t, testNow.UnixMilli(), out.Timestamp)

	require.NoError(t, synth.CheckHistory(out.Historical))
	require.NoError(t, synth.CheckBook(out.OrderBook))
	assert.InDelta(t, 100.0, out.OrderBook.BuyPressure+out.OrderBook.SellPressure, 1e-9)

	assert.Equal(t, 1, narr.calls)
	require.Len(t, rec.recs, 1)
	assert.Equal(t, out.Symbol, rec.recs[0].Symbol)
	assert.Equal(t, 1, m.analyses["BTCUSDT"])
	assert.Equal(t, 50000.0, m.last["BTCUSDT"])
}

func TestAnalyzeSeriesEndsAtLivePrice(t *testing.T) {
	feed := &fakeFeed{price: btc(0)}
	a := newTestAnalyzer(feed, narrative.NewComposer(nil))

	out, err := a.Analyze(context.Background(), "btcusdt")
	require.NoError(t, err)

	last := out.Historical.Series[len(out.Historical.Series)-1]
	assert.InDelta(t, 50000, last.Close, 50000*0.021)
	assert.Equal(t, testNow.UnixMilli(), last.Timestamp)
	assert.Equal(t, models.ReportSourceTemplate, out.Source)
	assert.Contains(t, out.AIReport, "50000.00")
}

func TestAnalyzeEmptySymbol(t *testing.T) {
	feed := &fakeFeed{price: btc(0)}
	narr := &fakeNarrator{}
	a := newTestAnalyzer(feed, narr)

	_, err := a.Analyze(context.Background(), "   ")
	assert.ErrorIs(t, err, models.ErrInvalidSymbol)
	assert.Zero(t, feed.calls)
	assert.Zero(t, narr.calls)
}

func TestAnalyzePriceFailureStopsEverything(t *testing.T) {
	tests := []struct {
		name string
		feed *fakeFeed
	}{
		{"feed error", &fakeFeed{err: errors.New("dial tcp: refused")}},
		{"wrapped unavailable", &fakeFeed{err: models.ErrPriceUnavailable}},
		{"zero price", &fakeFeed{price: models.CurrentPrice{CurrentPrice: 0}}},
		{"negative price", &fakeFeed{price: models.CurrentPrice{CurrentPrice: -1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			narr := &fakeNarrator{}
			rec := &fakeRecorder{}
			m := newFakeMetrics()
			a := newTestAnalyzer(tt.feed, narr, WithRecorder(rec), WithMetrics(m))

			out, err := a.Analyze(context.Background(), "btcusdt")
			assert.ErrorIs(t, err, models.ErrPriceUnavailable)
			assert.Equal(t, models.Analysis{}, out)
			assert.Zero(t, narr.calls)
			assert.Empty(t, rec.recs)
			assert.Equal(t, 1, m.errCount("price"))
		})
	}
}

type midSource struct{}

func (midSource) Float64() float64 { return 0.5 }

func TestAnalyzeMomentumReachesNarrator(t *testing.T) {
	narr := &fakeNarrator{report: models.Report{Text: "x", Source: models.ReportSourceTemplate}}
	book := synth.NewOrderBook(synth.WithSourceFactory(func() synth.Source { return midSource{} }))
	a := NewAnalyzer(&fakeFeed{price: btc(5)}, synth.NewHistory(), book, narr)

	out, err := a.Analyze(context.Background(), "btcusdt")
	require.NoError(t, err)
	// Equal amounts on both sides put raw pressure just under 50; a +5% day adds 10.
	assert.InDelta(t, 59.7, out.OrderBook.BuyPressure, 0.1)
	assert.Equal(t, models.SentimentModerateBullish, out.OrderBook.Sentiment)
	assert.Equal(t, out.OrderBook, narr.got)
}

func TestAnalyzeSynthesisFailure(t *testing.T) {
	narr := &fakeNarrator{}
	m := newFakeMetrics()
	a := NewAnalyzer(&fakeFeed{price: btc(0)}, failingHistory{}, synth.NewOrderBook(), narr, WithMetrics(m))

	_, err := a.Analyze(context.Background(), "btcusdt")
	require.Error(t, err)
	assert.False(t, errors.Is(err, models.ErrPriceUnavailable))
	assert.Zero(t, narr.calls)
	assert.Equal(t, 1, m.errCount("synthesize"))
}

func TestAnalyzeRejectsBookBreakingInvariants(t *testing.T) {
	narr := &fakeNarrator{}
	rec := &fakeRecorder{}
	m := newFakeMetrics()
	a := NewAnalyzer(&fakeFeed{price: btc(0)}, synth.NewHistory(), brokenBook{}, narr, WithRecorder(rec), WithMetrics(m))

	out, err := a.Analyze(context.Background(), "btcusdt")
	require.ErrorIs(t, err, models.ErrInvalidInput)
	assert.Equal(t, models.Analysis{}, out)
	assert.Zero(t, narr.calls)
	assert.Empty(t, rec.recs)
	assert.Equal(t, 1, m.errCount("synthesize"))
}

func TestAnalyzeIsSafeForConcurrentUse(t *testing.T) {
	a := newTestAnalyzer(&fakeFeed{price: btc(1)}, narrative.NewComposer(nil))

	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		go func() {
			out, err := a.Analyze(context.Background(), "ethusdt")
			if err == nil {
				err = synth.CheckBook(out.OrderBook)
			}
			errs <- err
		}()
	}
	for i := 0; i < 16; i++ {
		assert.NoError(t, <-errs)
	}
}
