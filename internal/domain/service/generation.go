package service

import "context"

// TextGenerator turns a prompt into free text using an external provider.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// SpeechSynthesizer renders text into an audio payload.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
	ContentType() string
}
