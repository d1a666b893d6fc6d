package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeModels struct {
	resp      *genai.GenerateContentResponse
	err       error
	gotModel  string
	gotPrompt string
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.gotModel = model
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.gotPrompt = contents[0].Parts[0].Text
	}
	return f.resp, f.err
}

func textResponse(texts ...string) *genai.GenerateContentResponse {
	parts := make([]*genai.Part, 0, len(texts))
	for _, t := range texts {
		parts = append(parts, genai.NewPartFromText(t))
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: parts}}},
	}
}

func TestGenerateConcatenatesParts(t *testing.T) {
	fm := &fakeModels{resp: textResponse("Bitcoin sube. ", "Presión compradora alta.")}
	g := NewGeminiGeneratorWithModels(fm, "gemini-test", 0.5, nil)

	out, err := g.Generate(context.Background(), "hola")
	require.NoError(t, err)
	assert.Equal(t, "Bitcoin sube. Presión compradora alta.", out)
	assert.Equal(t, "gemini-test", fm.gotModel)
	assert.Equal(t, "hola", fm.gotPrompt)
}

func TestGenerateSkipsEmptyCandidates(t *testing.T) {
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
		{Content: nil},
		{Content: &genai.Content{Parts: []*genai.Part{{Text: ""}}}},
		{Content: &genai.Content{Parts: []*genai.Part{{Text: "texto"}}}},
	}}
	g := NewGeminiGeneratorWithModels(&fakeModels{resp: resp}, "", 0.5, nil)

	out, err := g.Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "texto", out)
}

func TestGenerateErrors(t *testing.T) {
	g := NewGeminiGeneratorWithModels(&fakeModels{err: errors.New("quota exceeded")}, "m", 0.5, nil)
	_, err := g.Generate(context.Background(), "p")
	require.ErrorContains(t, err, "quota exceeded")

	g = NewGeminiGeneratorWithModels(&fakeModels{resp: &genai.GenerateContentResponse{}}, "m", 0.5, nil)
	_, err = g.Generate(context.Background(), "p")
	require.Error(t, err)

	_, err = g.Generate(context.Background(), "   ")
	require.Error(t, err)
}

func TestNewGeminiGeneratorRequiresKey(t *testing.T) {
	_, err := NewGeminiGenerator(context.Background(), "", "m", 0.5, nil)
	require.Error(t, err)
}
