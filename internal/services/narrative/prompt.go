package narrative

import (
	"fmt"
	"math"
	"strings"

	"CryptoPulse/internal/domain/models"
)

// BuildPrompt renders the request sent to the text provider. All numbers
// the narrative may mention are embedded so the model never has to guess.
func BuildPrompt(price models.CurrentPrice, history models.HistoryResult, book models.OrderBook, maxWords int) string {
	var b strings.Builder
	b.WriteString("Eres un analista experto de criptomonedas. Genera un reporte de voz conciso en español.\n\n")
	fmt.Fprintf(&b, "CRIPTOMONEDA: %s\n\n", strings.ToUpper(price.Symbol))

	b.WriteString("DATOS ACTUALES (24H):\n")
	fmt.Fprintf(&b, "- Precio: %.2f\n", price.CurrentPrice)
	fmt.Fprintf(&b, "- Máx 24h: %.2f\n", price.High24h)
	fmt.Fprintf(&b, "- Mín 24h: %.2f\n", price.Low24h)
	fmt.Fprintf(&b, "- Cambio: %+.2f%%\n\n", price.ChangePercent24h)

	fmt.Fprintf(&b, "TENDENCIA %d DÍAS:\n", len(history.Series))
	fmt.Fprintf(&b, "- Cambio: %+.2f%%\n", history.ChangePercent)
	fmt.Fprintf(&b, "- Tendencia: %s\n\n", history.Trend)

	b.WriteString("LIBRO DE ÓRDENES:\n")
	fmt.Fprintf(&b, "- Presión compradora: %.2f%%\n", book.BuyPressure)
	fmt.Fprintf(&b, "- Sentimiento: %s\n\n", book.Sentiment)

	b.WriteString("INSTRUCCIONES:\n")
	fmt.Fprintf(&b, "- Máximo %d palabras\n", maxWords)
	b.WriteString("- Tono profesional y conversacional\n")
	b.WriteString("- Natural para text-to-speech\n")
	b.WriteString("- Sin introducciones\n\n")
	b.WriteString("Responde SOLO el texto del reporte.")
	return b.String()
}

// FallbackReport renders the local template. It cannot fail.
func FallbackReport(price models.CurrentPrice, history models.HistoryResult, book models.OrderBook) string {
	days := len(history.Series)
	if days == 0 {
		days = 15
	}
	return fmt.Sprintf(
		"Reporte de %s. En 24 horas, %s %.2f%%, cotizando en %.2f dólares. "+
			"En %d días, %s %.2f%%, mostrando tendencia %s. "+
			"El libro de órdenes muestra %s. %s",
		strings.ToUpper(price.Symbol),
		direction(price.ChangePercent24h), math.Abs(price.ChangePercent24h), price.CurrentPrice,
		days, direction(history.ChangePercent), math.Abs(history.ChangePercent), strings.ToLower(history.Trend.String()),
		book.Sentiment, book.Sentiment.Interpretation(),
	)
}

func direction(pct float64) string {
	if pct >= 0 {
		return "subió"
	}
	return "bajó"
}

// capWords keeps at most n whitespace-separated words.
func capWords(s string, n int) string {
	words := strings.Fields(s)
	if n <= 0 || len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:n], " ")
}
