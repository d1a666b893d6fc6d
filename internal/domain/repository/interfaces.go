package repository

import (
	"context"

	"CryptoPulse/internal/domain/models"
)

// PriceFeed acquires the live ticker for a symbol.
type PriceFeed interface {
	CurrentPrice(ctx context.Context, symbol string) (models.CurrentPrice, error)
}

// AnalysisPublisher emits completed analyses to a message bus.
type AnalysisPublisher interface {
	Publish(ctx context.Context, ev models.AnalysisEvent) error
	Close() error
}

// AnalysisStorage persists completed analyses.
type AnalysisStorage interface {
	Store(ctx context.Context, ev models.AnalysisEvent) error
	Health(ctx context.Context) error
	Close() error
}

type Metrics interface {
	RecordAnalysis(symbol string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
