package api

// navigationResponse from GET /marketnavigation/{nodeID}
type navigationResponse struct {
	Nodes   []navigationNode   `json:"nodes"`
	Markets []navigationMarket `json:"markets"`
}

// navigationNode is a child node of the market navigation hierarchy.
type navigationNode struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// navigationMarket is one market listed under a navigation node.
type navigationMarket struct {
	Epic             string   `json:"epic"`
	InstrumentName   string   `json:"instrumentName"`
	InstrumentType   string   `json:"instrumentType"`
	MarketStatus     string   `json:"marketStatus"`
	Bid              *float64 `json:"bid"`
	Offer            *float64 `json:"offer"`
	PercentageChange *float64 `json:"percentageChange"`
}

// marketDetailsResponse from GET /markets/{epic}
type marketDetailsResponse struct {
	Instrument instrumentDetails `json:"instrument"`
	Snapshot   marketSnapshot    `json:"snapshot"`
}

// instrumentDetails is the static half of a market details response.
type instrumentDetails struct {
	Epic     string `json:"epic"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Currency string `json:"currency"`
}

// marketSnapshot is the live half of a market details response. Numeric
// fields are pointers: the provider omits them for halted or stale
// markets, and an absent price must stay distinguishable from zero.
type marketSnapshot struct {
	Bid              *float64 `json:"bid"`
	Offer            *float64 `json:"offer"`
	PercentageChange *float64 `json:"percentageChange"`
	NetChange        *float64 `json:"netChange"`
	MarketStatus     string   `json:"marketStatus"`
	UpdateTime       string   `json:"updateTime"`
}

// pricesResponse from GET /prices/{epic}
type pricesResponse struct {
	Prices []priceCandle `json:"prices"`
}

// priceCandle is one OHLC bar of historical prices.
type priceCandle struct {
	SnapshotTime     string    `json:"snapshotTime"`
	OpenPrice        *apiQuote `json:"openPrice"`
	ClosePrice       *apiQuote `json:"closePrice"`
	HighPrice        *apiQuote `json:"highPrice"`
	LowPrice         *apiQuote `json:"lowPrice"`
	LastTradedVolume int64     `json:"lastTradedVolume"`
}

// apiQuote carries both sides of a quoted price.
type apiQuote struct {
	Bid *float64 `json:"bid"`
	Ask *float64 `json:"ask"`
}
