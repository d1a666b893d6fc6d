package usecase

import (
	"context"
	"errors"
	"sync"

	"CryptoPulse/internal/domain/models"
)

type fakeFeed struct {
	mu    sync.Mutex
	price models.CurrentPrice
	err   error
	calls int
	last  string
}

func (f *fakeFeed) CurrentPrice(_ context.Context, symbol string) (models.CurrentPrice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last = symbol
	return f.price, f.err
}

type fakeNarrator struct {
	report models.Report
	calls  int
	got    models.OrderBook
}

func (n *fakeNarrator) Compose(_ context.Context, _ models.CurrentPrice, _ models.HistoryResult, book models.OrderBook) models.Report {
	n.calls++
	n.got = book
	return n.report
}

type fakeRecorder struct {
	mu   sync.Mutex
	recs []models.Analysis
}

func (r *fakeRecorder) RecordAsync(_ context.Context, a models.Analysis) {
	r.mu.Lock()
	r.recs = append(r.recs, a)
	r.mu.Unlock()
}

type fakeMetrics struct {
	mu       sync.Mutex
	analyses map[string]int
	errs     map[string]int
	last     map[string]float64
	ops      map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		analyses: map[string]int{},
		errs:     map[string]int{},
		last:     map[string]float64{},
		ops:      map[string]int{},
	}
}

func (m *fakeMetrics) RecordAnalysis(symbol string) {
	m.mu.Lock()
	m.analyses[symbol]++
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordError(kind string) {
	m.mu.Lock()
	m.errs[kind]++
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordLastPrice(symbol string, price float64) {
	m.mu.Lock()
	m.last[symbol] = price
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordLatency(op string, _ float64) {
	m.mu.Lock()
	m.ops[op]++
	m.mu.Unlock()
}

func (m *fakeMetrics) errCount(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errs[kind]
}

type failingHistory struct{}

func (failingHistory) Synthesize(models.CurrentPrice, int) (models.HistoryResult, error) {
	return models.HistoryResult{}, errors.New("history broke")
}

type fakePublisher struct {
	mu     sync.Mutex
	events []models.AnalysisEvent
	err    error
	closed bool
}

func (p *fakePublisher) Publish(_ context.Context, ev models.AnalysisEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *fakePublisher) Close() error {
	p.closed = true
	return nil
}

type fakeStorage struct {
	mu     sync.Mutex
	events []models.AnalysisEvent
	err    error
	closed bool
}

func (s *fakeStorage) Store(_ context.Context, ev models.AnalysisEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, ev)
	return nil
}

func (s *fakeStorage) Health(context.Context) error { return nil }

func (s *fakeStorage) Close() error {
	s.closed = true
	return nil
}

type brokenBook struct{}

// Synthesize returns a book whose sides do not sum to 100.
func (brokenBook) Synthesize(models.CurrentPrice) (models.OrderBook, error) {
	return models.OrderBook{BuyPressure: 70, SellPressure: 20}, nil
}
