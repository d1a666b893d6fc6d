package synth

import (
	"fmt"
	"math"
	"time"

	"CryptoPulse/internal/domain/models"
)

const (
	DefaultHistoryDays = 15

	maxTotalChange = 0.20
	dailyNoise     = 0.02
	wickRange      = 0.02
	openRange      = 0.01
	maxBarVolume   = 1_000_000

	historyNote = "Datos históricos simulados a partir del precio actual"
)

// History interpolates a daily OHLCV window ending at the live price.
type History struct {
	opts options
}

func NewHistory(opts ...Option) *History {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &History{opts: o}
}

// Synthesize builds `days` bars, oldest first. The path starts at a price
// implied by a random total move in [-20%, +20%] and is linearly
// interpolated to the current price with ±2% daily noise.
func (h *History) Synthesize(price models.CurrentPrice, days int) (models.HistoryResult, error) {
	if price.CurrentPrice <= 0 || math.IsNaN(price.CurrentPrice) || math.IsInf(price.CurrentPrice, 0) {
		return models.HistoryResult{}, fmt.Errorf("history: current price %v: %w", price.CurrentPrice, models.ErrInvalidInput)
	}
	if days < 1 {
		return models.HistoryResult{}, fmt.Errorf("history: days %d: %w", days, models.ErrInvalidInput)
	}

	src := h.opts.newSource()
	now := h.opts.now()
	current := price.CurrentPrice

	totalChange := uniform(src, -maxTotalChange, maxTotalChange)
	start := current / (1 + totalChange)

	series := make([]models.HistoryPoint, 0, days)
	for i := 0; i < days; i++ {
		ts := now.Add(-time.Duration(days-1-i) * 24 * time.Hour)

		progress := 0.0
		if days > 1 {
			progress = float64(i) / float64(days-1)
		}
		base := start + (current-start)*progress

		closeP := base * (1 + uniform(src, -dailyNoise, dailyNoise))
		high := closeP * (1 + uniform(src, 0, wickRange))
		low := closeP * (1 - uniform(src, 0, wickRange))
		open := closeP * (1 + uniform(src, -openRange, openRange))

		// open is drawn independently of the wicks; widen the bar to hold it
		high = math.Max(high, open)
		low = math.Min(low, open)

		series = append(series, models.HistoryPoint{
			Timestamp: ts.UnixMilli(),
			Date:      ts.UTC().Format(time.DateOnly),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     closeP,
			Volume:    uniform(src, 0, maxBarVolume),
		})
	}

	oldest := series[0].Close
	newest := series[len(series)-1].Close
	change := round((newest-oldest)/oldest*100, 2)

	return models.HistoryResult{
		Series:        series,
		ChangePercent: change,
		OldestClose:   round(oldest, 2),
		NewestClose:   round(newest, 2),
		Trend:         ClassifyTrend(change),
		Note:          historyNote,
	}, nil
}

// ClassifyTrend labels a window change in percent.
//
// The bands are asymmetric: (-5, 0] is Bear rather than a sideways label.
// Kept as-is so labels match what clients already display.
func ClassifyTrend(changePercent float64) models.Trend {
	switch {
	case changePercent > 5:
		return models.TrendStrongBull
	case changePercent > 0:
		return models.TrendBull
	case changePercent > -5:
		return models.TrendBear
	default:
		return models.TrendStrongBear
	}
}
