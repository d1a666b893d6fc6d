package models

// CurrentPrice is a single ticker snapshot for a symbol. It anchors every
// synthetic series produced for one analysis request.
type CurrentPrice struct {
	Symbol           string  `json:"symbol"`
	CurrentPrice     float64 `json:"currentPrice"`
	High24h          float64 `json:"high24h"`
	Low24h           float64 `json:"low24h"`
	Volume24h        float64 `json:"volume24h"`
	Change24h        float64 `json:"change24h"`
	ChangePercent24h float64 `json:"changePercent24h"`
	Timestamp        int64   `json:"timestamp"` // unix ms
}

// HistoryPoint is one daily OHLCV bar.
type HistoryPoint struct {
	Timestamp int64   `json:"timestamp"` // unix ms
	Date      string  `json:"date"`      // YYYY-MM-DD (UTC)
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// HistoryResult is the synthesized window, oldest bar first.
type HistoryResult struct {
	Series        []HistoryPoint `json:"data"`
	ChangePercent float64        `json:"change15d"`
	OldestClose   float64        `json:"oldestPrice"`
	NewestClose   float64        `json:"newestPrice"`
	Trend         Trend          `json:"trend"`
	Note          string         `json:"note,omitempty"`
}

// BookLevel is a single price/amount rung of the order book.
type BookLevel struct {
	Price  float64 `json:"price"`
	Amount float64 `json:"amount"`
}

// OrderBook is a synthetic two-sided ladder with its pressure summary.
// Bids descend from just below the price, asks ascend from just above it.
type OrderBook struct {
	Bids           []BookLevel `json:"-"`
	Asks           []BookLevel `json:"-"`
	BuyVolume      float64     `json:"buyVolume"`
	SellVolume     float64     `json:"sellVolume"`
	BuyPressure    float64     `json:"buyPressure"`
	SellPressure   float64     `json:"sellPressure"`
	Sentiment      Sentiment   `json:"sentiment"`
	Interpretation string      `json:"interpretation"`
	TopBids        []BookLevel `json:"topBids"`
	TopAsks        []BookLevel `json:"topAsks"`
	Note           string      `json:"note,omitempty"`
}

// ReportSource tells whether a narrative came from the text provider or the
// local template.
type ReportSource string

const (
	ReportSourceAI       ReportSource = "ai"
	ReportSourceTemplate ReportSource = "template"
)

// Report is the narrative produced for speech playback.
type Report struct {
	Text   string       `json:"text"`
	Source ReportSource `json:"source"`
}

// Analysis is the full result of one analysis request.
type Analysis struct {
	Success    bool          `json:"success"`
	Symbol     string        `json:"symbol"`
	PriceData  CurrentPrice  `json:"priceData"`
	Historical HistoryResult `json:"historical"`
	OrderBook  OrderBook     `json:"orderBook"`
	AIReport   string        `json:"aiReport"`
	Source     ReportSource  `json:"reportSource"`
	DataSource string        `json:"dataSource"`
	Timestamp  int64         `json:"timestamp"` // unix ms
}
