package models

import "encoding/json"

// Trend classifies the change across the synthesized window.
type Trend int

const (
	TrendStrongBull Trend = iota
	TrendBull
	TrendBear
	TrendStrongBear
)

var trendLabels = map[Trend]string{
	TrendStrongBull: "Alcista Fuerte",
	TrendBull:       "Alcista",
	TrendBear:       "Bajista",
	TrendStrongBear: "Bajista Fuerte",
}

// String returns the display label used in responses and narratives.
func (t Trend) String() string {
	if s, ok := trendLabels[t]; ok {
		return s
	}
	return "Desconocida"
}

func (t Trend) MarshalJSON() ([]byte, error) { return json.Marshal(t.String()) }

// Sentiment is the discrete label derived from buy pressure.
type Sentiment int

const (
	SentimentStrongBullish Sentiment = iota
	SentimentModerateBullish
	SentimentNeutral
	SentimentModerateBearish
	SentimentStrongBearish
)

var sentimentLabels = map[Sentiment]string{
	SentimentStrongBullish:   "Bullish Fuerte 🚀",
	SentimentModerateBullish: "Bullish Moderado 📈",
	SentimentNeutral:         "Neutral ⚖️",
	SentimentModerateBearish: "Bearish Moderado 📉",
	SentimentStrongBearish:   "Bearish Fuerte 🔻",
}

var sentimentInterpretations = map[Sentiment]string{
	SentimentStrongBullish:   "Presión compradora muy alta. Los compradores dominan el mercado.",
	SentimentModerateBullish: "Ligera ventaja compradora. Más demanda que oferta.",
	SentimentNeutral:         "Equilibrio entre compradores y vendedores.",
	SentimentModerateBearish: "Ligera ventaja vendedora. Más oferta que demanda.",
	SentimentStrongBearish:   "Presión vendedora muy alta. Los vendedores dominan.",
}

func (s Sentiment) String() string {
	if l, ok := sentimentLabels[s]; ok {
		return l
	}
	return "Desconocido"
}

// Interpretation returns the fixed human-readable reading of the sentiment.
func (s Sentiment) Interpretation() string {
	return sentimentInterpretations[s]
}

func (s Sentiment) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }
