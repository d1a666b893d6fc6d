package models

// Requests for the analysis HTTP endpoints.

type AnalyzeRequest struct {
	Symbol string `json:"symbol" validate:"required,notblank,max=32"`
}

type AudioRequest struct {
	Text string `json:"text" validate:"required,notblank,max=5000"`
}

// AnalysisEvent is the payload published for every completed analysis.
type AnalysisEvent struct {
	Symbol       string  `json:"symbol"`
	Price        float64 `json:"price"`
	Change24h    float64 `json:"change24h"`
	Change15d    float64 `json:"change15d"`
	Trend        string  `json:"trend"`
	BuyPressure  float64 `json:"buyPressure"`
	SellPressure float64 `json:"sellPressure"`
	Sentiment    string  `json:"sentiment"`
	ReportSource string  `json:"reportSource"`
	Report       string  `json:"report"`
	Timestamp    int64   `json:"timestamp"`
}

// NewAnalysisEvent flattens an Analysis for publishing and storage.
func NewAnalysisEvent(a Analysis) AnalysisEvent {
	return AnalysisEvent{
		Symbol:       a.Symbol,
		Price:        a.PriceData.CurrentPrice,
		Change24h:    a.PriceData.ChangePercent24h,
		Change15d:    a.Historical.ChangePercent,
		Trend:        a.Historical.Trend.String(),
		BuyPressure:  a.OrderBook.BuyPressure,
		SellPressure: a.OrderBook.SellPressure,
		Sentiment:    a.OrderBook.Sentiment.String(),
		ReportSource: string(a.Source),
		Report:       a.AIReport,
		Timestamp:    a.Timestamp,
	}
}

// ProbeResult is the outcome of one upstream connectivity check.
type ProbeResult struct {
	API      string `json:"api"`
	Endpoint string `json:"endpoint"`
	Status   string `json:"status"`
	Data     any    `json:"data,omitempty"`
	Error    string `json:"error,omitempty"`
}
