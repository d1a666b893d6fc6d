package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"CryptoPulse/internal/domain/repository"
	domsvc "CryptoPulse/internal/domain/service"
	"CryptoPulse/internal/handler/api"
	internalrepo "CryptoPulse/internal/repository"
	svccache "CryptoPulse/internal/service/cache"
	"CryptoPulse/internal/service/elevenlabs"
	"CryptoPulse/internal/service/ratelimit"
	"CryptoPulse/internal/service/weex"
	"CryptoPulse/internal/services/llm"
	"CryptoPulse/internal/services/narrative"
	"CryptoPulse/internal/services/synth"
	"CryptoPulse/internal/usecase"
	pkgcache "CryptoPulse/pkg/cache"
	pkgch "CryptoPulse/pkg/clickhouse"
	"CryptoPulse/pkg/config"
	xhttp "CryptoPulse/pkg/http"
	pkgkafka "CryptoPulse/pkg/kafka"
	applogger "CryptoPulse/pkg/logger"
	"CryptoPulse/pkg/metrics"
	"CryptoPulse/pkg/server"
)

// ProvideLogger creates the root logger from the log section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client when the clickhouse
// backend is selected, and ensures the analysis table exists.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.Backend.Type != config.BackendClickHouse {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithPool(10, 5, 0),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	stmts, err := internalrepo.AnalysisSchema(cfg.ClickHouse.Database)
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, stmts); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer when the kafka backend is selected.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if cfg.Backend.Type != config.BackendKafka {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideAnalysisStorage creates the ClickHouse storage repository.
func ProvideAnalysisStorage(chClient *pkgch.Client, cfg *config.Config) (repository.AnalysisStorage, error) {
	if chClient == nil {
		return nil, nil
	}
	return internalrepo.NewClickHouseAnalysisStorage(chClient, cfg.ClickHouse.Database)
}

// ProvideAnalysisPublisher creates the Kafka publisher repository.
func ProvideAnalysisPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.AnalysisPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaAnalysisPublisher(producer, cfg.Kafka.Topic)
}

func ProvideAnalysisRecorder(
	pub repository.AnalysisPublisher,
	store repository.AnalysisStorage,
	m repository.Metrics,
	cfg *config.Config,
	l *applogger.Logger,
) *usecase.AnalysisRecorder {
	r := usecase.NewAnalysisRecorder(pub, store, m, cfg.Backend.Type, cfg.Backend.RecordTimeout, l.With("recorder"))
	l.Info("analysis recorder ready", applogger.String("backend", r.Backend()))
	return r
}

// ProvideRedisCache connects to Redis when enabled; nil otherwise.
func ProvideRedisCache(cfg *config.Config) (*pkgcache.RedisCache, error) {
	rc := cfg.Cache.Redis
	if !rc.Enabled {
		return nil, nil
	}
	c, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisAddrs(net.JoinHostPort(rc.Host, strconv.Itoa(rc.Port))),
		pkgcache.WithRedisAuth(rc.Password, rc.DB),
		pkgcache.WithRedisPrefix(rc.Prefix),
		pkgcache.WithRedisPool(rc.PoolSize, rc.MinIdleConns),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return c, nil
}

// ProvideTickerCache returns a memory cache, layered over Redis when available.
func ProvideTickerCache(redis *pkgcache.RedisCache, cfg *config.Config) pkgcache.Service {
	if redis != nil {
		return pkgcache.NewLayeredCache(redis,
			pkgcache.WithLayeredMemorySize(cfg.Cache.MemoryMaxSize),
			pkgcache.WithLayeredCleanup(cfg.Cache.MemoryCleanup),
		)
	}
	return pkgcache.NewMemoryCache(
		pkgcache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize),
		pkgcache.WithMemoryCleanup(cfg.Cache.MemoryCleanup),
	)
}

// ProvideAudioCache shares the Redis pool when available.
func ProvideAudioCache(redis *pkgcache.RedisCache, cfg *config.Config) svccache.BytesCache {
	if redis != nil {
		return svccache.NewRedisCache(redis.Client(), cfg.Cache.Redis.Prefix+":audio")
	}
	return svccache.NewTTLCache()
}

func ProvideWeexClient(cfg *config.Config, l *applogger.Logger) *weex.Client {
	return weex.New(
		weex.WithMode(cfg.Weex.Mode),
		weex.WithSpotURL(cfg.Weex.SpotURL),
		weex.WithFuturesURL(cfg.Weex.FuturesURL),
		weex.WithTimeout(cfg.Weex.Timeout),
		weex.WithProbeTimeout(cfg.Weex.ProbeTimeout),
		weex.WithLogger(l.With("weex")),
	)
}

func ProvidePriceFeed(client *weex.Client, c pkgcache.Service, cfg *config.Config) repository.PriceFeed {
	return usecase.NewCachedFeed(client, c, cfg.Cache.TickerTTL, cfg.Weex.Mode)
}

// ProvideTextGenerator creates the Gemini client. Without an API key the
// narrator always renders the local template.
func ProvideTextGenerator(cfg *config.Config, l *applogger.Logger) (domsvc.TextGenerator, error) {
	if cfg.Gemini.APIKey == "" {
		l.Warn("GEMINI_API_KEY not set, reports use the local template")
		return nil, nil
	}
	g, err := llm.NewGeminiGenerator(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Temperature, l.With("gemini"))
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	return g, nil
}

func ProvideNarrator(gen domsvc.TextGenerator, cfg *config.Config, l *applogger.Logger) *narrative.Composer {
	return narrative.NewComposer(gen,
		narrative.WithTimeout(cfg.Narrative.Timeout),
		narrative.WithMaxWords(cfg.Narrative.MaxWords),
		narrative.WithLogger(l.With("narrative")),
	)
}

func ProvideAnalyzer(
	feed repository.PriceFeed,
	narrator *narrative.Composer,
	recorder *usecase.AnalysisRecorder,
	m repository.Metrics,
	cfg *config.Config,
	l *applogger.Logger,
) *usecase.Analyzer {
	return usecase.NewAnalyzer(feed, synth.NewHistory(), synth.NewOrderBook(), narrator,
		usecase.WithRecorder(recorder),
		usecase.WithMetrics(m),
		usecase.WithHistoryDays(cfg.Synthesis.HistoryDays),
		usecase.WithDataSource(cfg.DataSource()),
		usecase.WithLogger(l.With("analyzer")),
	)
}

// ProvideSpeech creates the ElevenLabs client; nil disables /api/generate-audio.
func ProvideSpeech(cfg *config.Config, l *applogger.Logger) (domsvc.SpeechSynthesizer, error) {
	el := cfg.ElevenLabs
	if el.APIKey == "" {
		l.Warn("ELEVENLABS_API_KEY not set, audio generation disabled")
		return nil, nil
	}
	c, err := elevenlabs.New(el.APIKey,
		elevenlabs.WithBaseURL(el.BaseURL),
		elevenlabs.WithVoice(el.VoiceID, el.ModelID),
		elevenlabs.WithVoiceSettings(el.Stability, el.SimilarityBoost),
		elevenlabs.WithTimeout(el.Timeout),
		elevenlabs.WithLogger(l.With("elevenlabs")),
	)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: %w", err)
	}
	return c, nil
}

func ProvideRateLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

func ProvideHTTPHandler(
	l *applogger.Logger,
	analyzer *usecase.Analyzer,
	client *weex.Client,
	speech domsvc.SpeechSynthesizer,
	audio svccache.BytesCache,
	limiter *ratelimit.Limiter,
	cfg *config.Config,
) *api.AnalysisEchoHandler {
	rl := cfg.RateLimit
	return api.NewAnalysisEchoHandler(l, analyzer, client,
		api.WithSpeech(speech),
		api.WithAudioCache(audio, cfg.Cache.AudioTTL),
		api.WithRateLimit(limiter,
			ratelimit.Policy{Capacity: rl.Analyze.Capacity, RefillPerSec: rl.Analyze.RefillPerSec},
			ratelimit.Policy{Capacity: rl.Audio.Capacity, RefillPerSec: rl.Audio.RefillPerSec},
		),
	)
}

func ProvideHTTPServer(h *api.AnalysisEchoHandler, cfg *config.Config, l *applogger.Logger) *xhttp.Server {
	return xhttp.NewServer(h,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS),
		xhttp.WithAllowOrigins(cfg.Server.AllowOrigins...),
		xhttp.WithSlowThreshold(cfg.Server.SlowThreshold),
		xhttp.WithLogger(l),
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	httpServer *xhttp.Server,
	recorder *usecase.AnalysisRecorder,
	chClient *pkgch.Client,
	tickerCache pkgcache.Service,
) *server.App {
	return server.New(cfg, l, httpServer,
		server.WithCloser("recorder", func() error { recorder.Close(); return nil }),
		server.WithCloser("ticker cache", tickerCache.Close),
		server.WithCloser("clickhouse", func() error {
			if chClient == nil {
				return nil
			}
			return chClient.Close()
		}),
	)
}
