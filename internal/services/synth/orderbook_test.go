package synth

import (
	"errors"
	"math/rand"
	"testing"

	"CryptoPulse/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderBookInvariants(t *testing.T) {
	ob := NewOrderBook()
	for _, change := range []float64{-7, -1, 0, 1, 7} {
		price := models.CurrentPrice{Symbol: "ETHUSDT", CurrentPrice: 3200, ChangePercent24h: change}
		for run := 0; run < 100; run++ {
			book, err := ob.Synthesize(price)
			require.NoError(t, err)
			require.Len(t, book.Bids, BookDepth)
			require.Len(t, book.Asks, BookDepth)
			require.Len(t, book.TopBids, TopLevels)
			require.Len(t, book.TopAsks, TopLevels)
			require.NoError(t, CheckBook(book))

			assert.InDelta(t, 100, book.BuyPressure+book.SellPressure, 1e-9)
			assert.GreaterOrEqual(t, book.BuyPressure, 0.0)
			assert.LessOrEqual(t, book.BuyPressure, 100.0)
			assert.Less(t, book.Bids[0].Price, price.CurrentPrice)
			assert.Greater(t, book.Asks[0].Price, price.CurrentPrice)
			assert.Equal(t, book.Sentiment.Interpretation(), book.Interpretation)
		}
	}
}

func TestOrderBookLevelPrices(t *testing.T) {
	ob := NewOrderBook(WithSourceFactory(constFactory(0.5)))
	book, err := ob.Synthesize(models.CurrentPrice{CurrentPrice: 10000})
	require.NoError(t, err)

	assert.InDelta(t, 9995, book.Bids[0].Price, 1e-9)
	assert.InDelta(t, 9900, book.Bids[19].Price, 1e-9)
	assert.InDelta(t, 10005, book.Asks[0].Price, 1e-9)
	assert.InDelta(t, 10100, book.Asks[19].Price, 1e-9)

	// mid draw is 1.5, scaled by distance from the top of book
	assert.InDelta(t, 1.5, book.Bids[0].Amount, 1e-12)
	assert.InDelta(t, 1.5*2.9, book.Asks[19].Amount, 1e-12)
	assert.Equal(t, 9995.0, book.TopBids[0].Price)
	assert.Equal(t, 1.5, book.TopBids[0].Amount)
}

func TestOrderBookMomentumScenario(t *testing.T) {
	// 50000 with +3% on the day: +10 bias, no overflow past 100
	ob := NewOrderBook(WithSourceFactory(constFactory(0.5)))
	price := models.CurrentPrice{CurrentPrice: 50000, ChangePercent24h: 3.0}
	book, err := ob.Synthesize(price)
	require.NoError(t, err)

	raw := notional(book.Bids) / (notional(book.Bids) + notional(book.Asks)) * 100
	assert.InDelta(t, raw+10, book.BuyPressure, 0.005)
	assert.LessOrEqual(t, book.BuyPressure, 100.0)
	// asks sit above the price so raw pressure lands just under 50
	assert.Less(t, raw, 50.0)
	assert.Equal(t, models.SentimentModerateBullish, book.Sentiment)
	assert.InDelta(t, 100, book.BuyPressure+book.SellPressure, 1e-9)
}

func TestOrderBookRepeatedCallsDiffer(t *testing.T) {
	ob := NewOrderBook()
	price := models.CurrentPrice{CurrentPrice: 50000, ChangePercent24h: 1.2}

	a, err := ob.Synthesize(price)
	require.NoError(t, err)
	b, err := ob.Synthesize(price)
	require.NoError(t, err)

	assert.NotEqual(t, a.Bids, b.Bids)
	assert.InDelta(t, 100-a.BuyPressure, a.SellPressure, 1e-12)
	assert.InDelta(t, 100-b.BuyPressure, b.SellPressure, 1e-12)
}

func TestOrderBookRejectsNonPositivePrice(t *testing.T) {
	_, err := NewOrderBook().Synthesize(models.CurrentPrice{CurrentPrice: 0})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidInput))
}

func TestPressureClamps(t *testing.T) {
	buy, sell := Pressure(1e9, 0, 3)
	assert.Equal(t, 100.0, buy)
	assert.Equal(t, 0.0, sell)

	buy, sell = Pressure(0, 1e9, -3)
	assert.Equal(t, 0.0, buy)
	assert.Equal(t, 100.0, sell)

	buy, sell = Pressure(0, 0, 0)
	assert.Equal(t, 50.0, buy)
	assert.Equal(t, 50.0, sell)
}

func TestPressureAppliesMomentumBeforeClamp(t *testing.T) {
	raw, _ := Pressure(45, 55, 0)
	adj, _ := Pressure(45, 55, 2.5)
	assert.InDelta(t, 10, adj-raw, 1e-12)
}

func TestMomentumAdjustment(t *testing.T) {
	tests := []struct {
		change float64
		want   float64
	}{
		{3, 10},
		{2.01, 10},
		{2, 5},
		{0.1, 5},
		{0, 0},
		{-0.1, -5},
		{-2, -5},
		{-2.01, -10},
		{-9, -10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MomentumAdjustment(tt.change), "change=%v", tt.change)
	}
}

func TestClassifySentimentBoundaries(t *testing.T) {
	tests := []struct {
		bp   float64
		want models.Sentiment
	}{
		{100, models.SentimentStrongBullish},
		{60.01, models.SentimentStrongBullish},
		{60, models.SentimentModerateBullish},
		{52.01, models.SentimentModerateBullish},
		{52, models.SentimentNeutral},
		{48, models.SentimentNeutral},
		{47.99, models.SentimentModerateBearish},
		{40, models.SentimentModerateBearish},
		{39.99, models.SentimentStrongBearish},
		{0, models.SentimentStrongBearish},
	}
	for _, tt := range tests {
		got := ClassifySentiment(tt.bp)
		assert.Equal(t, tt.want, got, "bp=%v", tt.bp)
		assert.Equal(t, got, ClassifySentiment(tt.bp), "classification must be stable")
	}
}

func TestCheckBookDetectsBrokenPressure(t *testing.T) {
	book := models.OrderBook{BuyPressure: 60, SellPressure: 30}
	assert.Error(t, CheckBook(book))
}

func TestOrderBookSentimentMatchesPublishedPressure(t *testing.T) {
	price := models.CurrentPrice{Symbol: "BTCUSDT", CurrentPrice: 50000}
	for seed := int64(0); seed < 2000; seed++ {
		ob := NewOrderBook(WithSourceFactory(func() Source { return rand.New(rand.NewSource(seed)) }))
		book, err := ob.Synthesize(price)
		require.NoError(t, err)
		require.Equal(t, ClassifySentiment(book.BuyPressure), book.Sentiment, "seed %d buyPressure %v", seed, book.BuyPressure)
		require.Equal(t, book.Sentiment.Interpretation(), book.Interpretation)
	}
}

func TestCheckBookDetectsMislabelledSentiment(t *testing.T) {
	book := models.OrderBook{BuyPressure: 48, SellPressure: 52, Sentiment: ClassifySentiment(47.99)}
	assert.ErrorIs(t, CheckBook(book), models.ErrInvalidInput)

	book.Sentiment = ClassifySentiment(48)
	assert.NoError(t, CheckBook(book))
}
