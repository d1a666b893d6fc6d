package elevenlabs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domsvc "CryptoPulse/internal/domain/service"
	xhttp "CryptoPulse/pkg/http"
	applogger "CryptoPulse/pkg/logger"
)

const (
	DefaultBaseURL = "https://api.elevenlabs.io"
	DefaultVoiceID = "21m00Tcm4TlvDq8ikWAM"
	DefaultModelID = "eleven_multilingual_v2"

	ContentTypeMPEG = "audio/mpeg"
)

var ErrEmptyAudio = errors.New("elevenlabs returned no audio")

// Client relays text to the ElevenLabs text-to-speech API.
type Client struct {
	http            *xhttp.Client
	apiKey          string
	baseURL         string
	voiceID         string
	modelID         string
	stability       float64
	similarityBoost float64
	timeout         time.Duration
	l               *applogger.Logger
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

func WithVoice(voiceID, modelID string) Option {
	return func(c *Client) {
		if voiceID != "" {
			c.voiceID = voiceID
		}
		if modelID != "" {
			c.modelID = modelID
		}
	}
}

func WithVoiceSettings(stability, similarityBoost float64) Option {
	return func(c *Client) {
		c.stability = stability
		c.similarityBoost = similarityBoost
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithLogger(l *applogger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.l = l
		}
	}
}

// New creates a client. apiKey is required.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("elevenlabs api key is required")
	}
	c := &Client{
		apiKey:          apiKey,
		baseURL:         DefaultBaseURL,
		voiceID:         DefaultVoiceID,
		modelID:         DefaultModelID,
		stability:       0.5,
		similarityBoost: 0.75,
		timeout:         30 * time.Second,
		l:               applogger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http = xhttp.NewClient(xhttp.WithTimeout(c.timeout))
	return c, nil
}

var _ domsvc.SpeechSynthesizer = (*Client)(nil)

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type ttsRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

// Synthesize returns MPEG audio for text.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("text is required")
	}

	start := time.Now()
	var audio []byte
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    fmt.Sprintf("%s/v1/text-to-speech/%s", c.baseURL, c.voiceID),
		Headers: map[string]string{
			"Accept":       ContentTypeMPEG,
			"Content-Type": "application/json",
			"xi-api-key":   c.apiKey,
		},
		Body: ttsRequest{
			Text:    text,
			ModelID: c.modelID,
			VoiceSettings: voiceSettings{
				Stability:       c.stability,
				SimilarityBoost: c.similarityBoost,
			},
		},
	}, &audio)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs tts: %w", err)
	}
	if len(audio) == 0 {
		return nil, ErrEmptyAudio
	}

	c.l.Debug("elevenlabs audio generated",
		applogger.Int("bytes", len(audio)),
		applogger.Duration("took", time.Since(start)),
	)
	return audio, nil
}

func (c *Client) ContentType() string { return ContentTypeMPEG }
