package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"CryptoPulse/internal/domain/models"
	drepo "CryptoPulse/internal/domain/repository"
	applogger "CryptoPulse/pkg/logger"
)

const (
	BackendNone       = "none"
	BackendKafka      = "kafka"
	BackendClickHouse = "clickhouse"
)

// AnalysisRecorder routes completed analyses to the configured backend.
type AnalysisRecorder struct {
	pub     drepo.AnalysisPublisher
	store   drepo.AnalysisStorage
	metrics drepo.Metrics
	backend string
	timeout time.Duration
	l       *applogger.Logger

	wg sync.WaitGroup
}

// NewAnalysisRecorder creates a recorder. pub and store may be nil when the
// backend does not use them.
func NewAnalysisRecorder(
	pub drepo.AnalysisPublisher,
	store drepo.AnalysisStorage,
	metrics drepo.Metrics,
	backend string,
	timeout time.Duration,
	l *applogger.Logger,
) *AnalysisRecorder {
	if backend == "" {
		backend = BackendNone
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if l == nil {
		l = applogger.Nop()
	}
	return &AnalysisRecorder{
		pub:     pub,
		store:   store,
		metrics: metrics,
		backend: backend,
		timeout: timeout,
		l:       l,
	}
}

func (r *AnalysisRecorder) Backend() string { return r.backend }

// Record writes one analysis synchronously.
func (r *AnalysisRecorder) Record(ctx context.Context, a models.Analysis) error {
	start := time.Now()
	ev := models.NewAnalysisEvent(a)

	var err error
	switch r.backend {
	case BackendNone:
		return nil
	case BackendKafka:
		if r.pub == nil {
			err = fmt.Errorf("kafka publisher not configured")
			break
		}
		err = r.pub.Publish(ctx, ev)
	case BackendClickHouse:
		if r.store == nil {
			err = fmt.Errorf("clickhouse storage not configured")
			break
		}
		err = r.store.Store(ctx, ev)
	default:
		err = fmt.Errorf("unknown backend: %s", r.backend)
	}

	if err != nil {
		r.metrics.RecordError("record")
		return fmt.Errorf("record analysis: %w", err)
	}

	r.metrics.RecordLatency("record", time.Since(start).Seconds())
	return nil
}

// RecordAsync records in the background, detached from the request's
// cancellation but bounded by the recorder timeout. Failures are logged.
func (r *AnalysisRecorder) RecordAsync(ctx context.Context, a models.Analysis) {
	if r.backend == BackendNone {
		return
	}
	ctx = context.WithoutCancel(ctx)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()

		if err := r.Record(ctx, a); err != nil {
			r.l.Warn("record analysis failed",
				applogger.String("backend", r.backend),
				applogger.String("symbol", a.Symbol),
				applogger.Error(err),
			)
		}
	}()
}

// Wait blocks until in-flight background records finish.
func (r *AnalysisRecorder) Wait() {
	r.wg.Wait()
}

// Close drains background records and closes underlying resources.
func (r *AnalysisRecorder) Close() {
	r.Wait()
	if r.pub != nil {
		_ = r.pub.Close()
	}
	if r.store != nil {
		_ = r.store.Close()
	}
}

type nopMetrics struct{}

func (nopMetrics) RecordAnalysis(string)           {}
func (nopMetrics) RecordError(string)              {}
func (nopMetrics) RecordLastPrice(string, float64) {}
func (nopMetrics) RecordLatency(string, float64)   {}
