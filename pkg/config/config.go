package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"CryptoPulse/pkg/util"
)

const (
	BackendNone       = "none"
	BackendKafka      = "kafka"
	BackendClickHouse = "clickhouse"

	WeexModeFutures = "futures"
	WeexModeSpot    = "spot"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Log         struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
	Server struct {
		Port            int           `yaml:"port" default:"3000"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"60s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		CORS            bool          `yaml:"cors" default:"true"`
		AllowOrigins    []string      `yaml:"allow_origins"`
		SlowThreshold   time.Duration `yaml:"slow_threshold" default:"2s"`
	} `yaml:"server"`
	Weex struct {
		Mode         string        `yaml:"mode" default:"futures"`
		SpotURL      string        `yaml:"spot_url" default:"https://api-spot.weex.com"`
		FuturesURL   string        `yaml:"futures_url" default:"https://api-contract.weex.com"`
		Timeout      time.Duration `yaml:"timeout" default:"10s"`
		ProbeTimeout time.Duration `yaml:"probe_timeout" default:"5s"`
	} `yaml:"weex"`
	Gemini struct {
		APIKey      string  `yaml:"api_key"`
		Model       string  `yaml:"model" default:"gemini-2.5-flash"`
		Temperature float32 `yaml:"temperature" default:"0.7"`
	} `yaml:"gemini"`
	ElevenLabs struct {
		APIKey          string        `yaml:"api_key"`
		BaseURL         string        `yaml:"base_url" default:"https://api.elevenlabs.io"`
		VoiceID         string        `yaml:"voice_id" default:"21m00Tcm4TlvDq8ikWAM"`
		ModelID         string        `yaml:"model_id" default:"eleven_multilingual_v2"`
		Stability       float64       `yaml:"stability" default:"0.5"`
		SimilarityBoost float64       `yaml:"similarity_boost" default:"0.75"`
		Timeout         time.Duration `yaml:"timeout" default:"30s"`
	} `yaml:"elevenlabs"`
	Narrative struct {
		Timeout  time.Duration `yaml:"timeout" default:"15s"`
		MaxWords int           `yaml:"max_words" default:"100"`
	} `yaml:"narrative"`
	Synthesis struct {
		HistoryDays int `yaml:"history_days" default:"15"`
	} `yaml:"synthesis"`
	Cache struct {
		TickerTTL     time.Duration `yaml:"ticker_ttl" default:"5s"`
		AudioTTL      time.Duration `yaml:"audio_ttl" default:"10m"`
		MemoryMaxSize int           `yaml:"memory_max_size" default:"1000"`
		MemoryCleanup time.Duration `yaml:"memory_cleanup" default:"1m"`
		Redis         struct {
			Enabled      bool   `yaml:"enabled"`
			Host         string `yaml:"host" default:"localhost"`
			Port         int    `yaml:"port" default:"6379"`
			Password     string `yaml:"password"`
			DB           int    `yaml:"db"`
			Prefix       string `yaml:"prefix" default:"cryptopulse"`
			PoolSize     int    `yaml:"pool_size" default:"10"`
			MinIdleConns int    `yaml:"min_idle_conns" default:"2"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	RateLimit struct {
		Analyze struct {
			Capacity     float64 `yaml:"capacity" default:"10"`
			RefillPerSec float64 `yaml:"refill_per_sec" default:"1"`
		} `yaml:"analyze"`
		Audio struct {
			Capacity     float64 `yaml:"capacity" default:"3"`
			RefillPerSec float64 `yaml:"refill_per_sec" default:"0.2"`
		} `yaml:"audio"`
	} `yaml:"rate_limit"`
	Backend struct {
		Type          string        `yaml:"type" default:"none"`
		RecordTimeout time.Duration `yaml:"record_timeout" default:"5s"`
	} `yaml:"backend"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic" default:"crypto.analysis"`
		RequiredAcks int      `yaml:"required_acks" default:"-1"`
		Compression  string   `yaml:"compression" default:"gzip"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			Linger       time.Duration `yaml:"linger" default:"100ms"`
			BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host             string        `yaml:"host" default:"localhost"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"cryptopulse"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"30s"`
	} `yaml:"clickhouse"`
}

// Default returns a configuration populated only from struct defaults.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	return &c, nil
}

// Load reads and parses a YAML configuration file on top of the defaults.
func Load(path string) (*Config, error) {
	c, err := load(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func load(path string) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads .env (if present), the YAML file (if present) and then
// applies environment overrides. A missing config file is not an error.
func LoadWithEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	c, err := load(path)
	if errors.Is(err, fs.ErrNotExist) {
		c, err = Default()
	}
	if err != nil {
		return nil, err
	}

	applyEnv(c)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func applyEnv(c *Config) {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		c.Gemini.Model = v
	}
	if v := os.Getenv("ELEVENLABS_API_KEY"); v != "" {
		c.ElevenLabs.APIKey = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = util.ParseIntDefault(v, c.Server.Port)
	}
	if v := os.Getenv("CORS_ALLOW_ORIGINS"); v != "" {
		c.Server.AllowOrigins = util.SplitCSV(v)
	}
	if v := os.Getenv("WEEX_MODE"); v != "" {
		c.Weex.Mode = strings.ToLower(v)
	}
	if v := os.Getenv("BACKEND"); v != "" {
		c.Backend.Type = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = util.SplitCSV(v)
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		host, port, ok := strings.Cut(v, ":")
		c.Cache.Redis.Enabled = true
		c.Cache.Redis.Host = host
		if ok {
			c.Cache.Redis.Port = util.ParseIntDefault(port, c.Cache.Redis.Port)
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	switch c.Weex.Mode {
	case WeexModeFutures, WeexModeSpot:
	default:
		return fmt.Errorf("weex.mode must be 'futures' or 'spot', got '%s'", c.Weex.Mode)
	}
	switch c.Backend.Type {
	case BackendNone:
	case BackendKafka:
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka.brokers cannot be empty when backend.type is kafka")
		}
	case BackendClickHouse:
		if c.ClickHouse.Host == "" {
			return fmt.Errorf("clickhouse.host is required when backend.type is clickhouse")
		}
	default:
		return fmt.Errorf("backend.type must be 'none', 'kafka' or 'clickhouse', got '%s'", c.Backend.Type)
	}
	if c.Synthesis.HistoryDays < 1 {
		return fmt.Errorf("synthesis.history_days must be >= 1")
	}
	if c.Narrative.MaxWords < 1 {
		return fmt.Errorf("narrative.max_words must be >= 1")
	}
	return nil
}

// DataSource describes the active ticker source for responses.
func (c *Config) DataSource() string {
	if c.Weex.Mode == WeexModeSpot {
		return "WEEX Spot API"
	}
	return "WEEX Futures API"
}
