package synth

import (
	"fmt"
	"math"

	"CryptoPulse/internal/domain/models"
)

// round rounds half away from zero to dp decimals.
func round(x float64, dp int) float64 {
	p := math.Pow(10, float64(dp))
	return math.Round(x*p) / p
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// CheckHistory verifies the bar invariants of a synthesized window.
func CheckHistory(h models.HistoryResult) error {
	for i, p := range h.Series {
		if p.Low > math.Min(p.Open, p.Close) || p.High < math.Max(p.Open, p.Close) {
			return fmt.Errorf("bar %d outside [low,high]: %w", i, models.ErrInvalidInput)
		}
		if p.Volume < 0 {
			return fmt.Errorf("bar %d negative volume: %w", i, models.ErrInvalidInput)
		}
		if i > 0 && p.Timestamp <= h.Series[i-1].Timestamp {
			return fmt.Errorf("bar %d timestamp not increasing: %w", i, models.ErrInvalidInput)
		}
	}
	return nil
}

// CheckBook verifies ladder ordering, the pressure identity and that the
// label matches the published buy pressure.
func CheckBook(b models.OrderBook) error {
	if b.BuyPressure < 0 || b.BuyPressure > 100 || b.SellPressure < 0 || b.SellPressure > 100 {
		return fmt.Errorf("pressure out of range: %w", models.ErrInvalidInput)
	}
	if math.Abs(b.BuyPressure+b.SellPressure-100) > 1e-9 {
		return fmt.Errorf("pressures sum to %v: %w", b.BuyPressure+b.SellPressure, models.ErrInvalidInput)
	}
	if want := ClassifySentiment(b.BuyPressure); b.Sentiment != want {
		return fmt.Errorf("sentiment %s does not match pressure %v: %w", b.Sentiment, b.BuyPressure, models.ErrInvalidInput)
	}
	for i, l := range b.Bids {
		if l.Price <= 0 || l.Amount <= 0 {
			return fmt.Errorf("bid %d not positive: %w", i, models.ErrInvalidInput)
		}
		if i > 0 && l.Price >= b.Bids[i-1].Price {
			return fmt.Errorf("bids not descending at %d: %w", i, models.ErrInvalidInput)
		}
	}
	for i, l := range b.Asks {
		if l.Price <= 0 || l.Amount <= 0 {
			return fmt.Errorf("ask %d not positive: %w", i, models.ErrInvalidInput)
		}
		if i > 0 && l.Price <= b.Asks[i-1].Price {
			return fmt.Errorf("asks not ascending at %d: %w", i, models.ErrInvalidInput)
		}
	}
	return nil
}
