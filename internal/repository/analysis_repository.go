package repository

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"CryptoPulse/internal/domain/models"
	"CryptoPulse/internal/domain/repository"
)

// AnalysisTable is the table completed analyses are written to.
const AnalysisTable = "analysis_snapshots"

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// AnalysisSchema returns the idempotent DDL for the analysis table.
func AnalysisSchema(database string) ([]string, error) {
	if !identRe.MatchString(database) {
		return nil, fmt.Errorf("invalid clickhouse database name %q", database)
	}
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
	ts DateTime64(3),
	symbol LowCardinality(String),
	price Float64,
	change_24h Float64,
	change_15d Float64,
	trend LowCardinality(String),
	buy_pressure Float64,
	sell_pressure Float64,
	sentiment LowCardinality(String),
	report_source LowCardinality(String),
	report String
) ENGINE = MergeTree ORDER BY (symbol, ts)`, database, AnalysisTable),
	}, nil
}

// execer is satisfied by *sql.DB and *clickhouse.Client.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PingContext(ctx context.Context) error
}

// ClickHouseAnalysisStorage implements AnalysisStorage for ClickHouse.
type ClickHouseAnalysisStorage struct {
	db    execer
	table string
}

// NewClickHouseAnalysisStorage creates ClickHouse storage writing to
// database.analysis_snapshots.
func NewClickHouseAnalysisStorage(db execer, database string) (*ClickHouseAnalysisStorage, error) {
	if !identRe.MatchString(database) {
		return nil, fmt.Errorf("invalid clickhouse database name %q", database)
	}
	return &ClickHouseAnalysisStorage{db: db, table: database + "." + AnalysisTable}, nil
}

var _ repository.AnalysisStorage = (*ClickHouseAnalysisStorage)(nil)

func (s *ClickHouseAnalysisStorage) Store(ctx context.Context, ev models.AnalysisEvent) error {
	q := fmt.Sprintf("INSERT INTO %s (ts, symbol, price, change_24h, change_15d, trend, buy_pressure, sell_pressure, sentiment, report_source, report) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", s.table)
	_, err := s.db.ExecContext(ctx, q,
		time.UnixMilli(ev.Timestamp).UTC(),
		ev.Symbol,
		ev.Price,
		ev.Change24h,
		ev.Change15d,
		ev.Trend,
		ev.BuyPressure,
		ev.SellPressure,
		ev.Sentiment,
		ev.ReportSource,
		ev.Report,
	)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

func (s *ClickHouseAnalysisStorage) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseAnalysisStorage) Close() error {
	return nil // Managed by pkg
}

// producer is satisfied by *kafka.Producer.
type producer interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	Close() error
}

// KafkaAnalysisPublisher implements AnalysisPublisher for Kafka. Messages are
// keyed by symbol so one symbol's analyses stay ordered on a partition.
type KafkaAnalysisPublisher struct {
	producer producer
	topic    string
}

// NewKafkaAnalysisPublisher creates Kafka publisher.
func NewKafkaAnalysisPublisher(p producer, topic string) *KafkaAnalysisPublisher {
	return &KafkaAnalysisPublisher{producer: p, topic: topic}
}

var _ repository.AnalysisPublisher = (*KafkaAnalysisPublisher)(nil)

func (p *KafkaAnalysisPublisher) Publish(ctx context.Context, ev models.AnalysisEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(ev.Symbol), ev)
}

func (p *KafkaAnalysisPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
