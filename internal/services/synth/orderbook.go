package synth

import (
	"fmt"
	"math"

	"CryptoPulse/internal/domain/models"
)

const (
	BookDepth = 20
	TopLevels = 5

	levelStep     = 0.0005 // 0.05% per rung
	minAmount     = 0.5
	maxAmount     = 2.5
	depthGradient = 0.1

	bookNote = "Order book simulado basado en precio actual y tendencia 24h"
)

// OrderBook builds a synthetic ladder around the live price and scores it.
type OrderBook struct {
	opts options
}

func NewOrderBook(opts ...Option) *OrderBook {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &OrderBook{opts: o}
}

// Synthesize returns BookDepth levels per side and the pressure summary.
func (b *OrderBook) Synthesize(price models.CurrentPrice) (models.OrderBook, error) {
	p := price.CurrentPrice
	if p <= 0 || math.IsNaN(p) || math.IsInf(p, 0) {
		return models.OrderBook{}, fmt.Errorf("orderbook: current price %v: %w", p, models.ErrInvalidInput)
	}

	src := b.opts.newSource()
	bids := make([]models.BookLevel, BookDepth)
	asks := make([]models.BookLevel, BookDepth)
	for i := 0; i < BookDepth; i++ {
		offset := float64(i+1) * levelStep
		bids[i] = models.BookLevel{Price: p * (1 - offset), Amount: levelAmount(src, i)}
	}
	for i := 0; i < BookDepth; i++ {
		offset := float64(i+1) * levelStep
		asks[i] = models.BookLevel{Price: p * (1 + offset), Amount: levelAmount(src, i)}
	}

	buyVol := notional(bids)
	sellVol := notional(asks)
	buy, _ := Pressure(buyVol, sellVol, price.ChangePercent24h)

	// sell side and label both come from the rounded buy side, so the pair
	// sums to 100 and the label agrees with the published score
	buyShown := round(buy, 2)
	sentiment := ClassifySentiment(buyShown)
	return models.OrderBook{
		Bids:           bids,
		Asks:           asks,
		BuyVolume:      round(buyVol, 2),
		SellVolume:     round(sellVol, 2),
		BuyPressure:    buyShown,
		SellPressure:   100 - buyShown,
		Sentiment:      sentiment,
		Interpretation: sentiment.Interpretation(),
		TopBids:        topLevels(bids),
		TopAsks:        topLevels(asks),
		Note:           bookNote,
	}, nil
}

func levelAmount(src Source, i int) float64 {
	return uniform(src, minAmount, maxAmount) * (1 + float64(i)*depthGradient)
}

func notional(levels []models.BookLevel) float64 {
	var sum float64
	for _, l := range levels {
		sum += l.Price * l.Amount
	}
	return sum
}

func topLevels(levels []models.BookLevel) []models.BookLevel {
	n := min(TopLevels, len(levels))
	out := make([]models.BookLevel, n)
	for i := 0; i < n; i++ {
		out[i] = models.BookLevel{Price: round(levels[i].Price, 2), Amount: round(levels[i].Amount, 4)}
	}
	return out
}

// Pressure converts notional imbalance plus 24h momentum into a buy/sell
// split. The buy side is clamped to [0,100]; sell is always 100-buy.
func Pressure(buyVolume, sellVolume, changePercent24h float64) (buy, sell float64) {
	total := buyVolume + sellVolume
	raw := 50.0
	if total > 0 {
		raw = buyVolume / total * 100
	}
	buy = clamp(raw+MomentumAdjustment(changePercent24h), 0, 100)
	return buy, 100 - buy
}

// MomentumAdjustment is the pressure bias for a 24h change in percent.
func MomentumAdjustment(changePercent24h float64) float64 {
	switch {
	case changePercent24h > 2:
		return 10
	case changePercent24h > 0:
		return 5
	case changePercent24h < -2:
		return -10
	case changePercent24h < 0:
		return -5
	default:
		return 0
	}
}

// ClassifySentiment maps buy pressure to a label. Upper bounds are strict,
// lower neutral/bearish bounds inclusive.
func ClassifySentiment(buyPressure float64) models.Sentiment {
	switch {
	case buyPressure > 60:
		return models.SentimentStrongBullish
	case buyPressure > 52:
		return models.SentimentModerateBullish
	case buyPressure >= 48:
		return models.SentimentNeutral
	case buyPressure >= 40:
		return models.SentimentModerateBearish
	default:
		return models.SentimentStrongBearish
	}
}
