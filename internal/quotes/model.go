package quotes

// chartResponse represents the raw JSON response structure from the Yahoo
// Finance chart API. Only the fields this package reads are mapped:
//   - Chart.Result[].Meta: symbol metadata and the regular market price
//   - Chart.Result[].Timestamp + Indicators: daily close series
//   - Chart.Error: optional error message from the API
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string  `json:"currency"`
				Symbol             string  `json:"symbol"`
				ExchangeName       string  `json:"exchangeName"`
				FullExchangeName   string  `json:"fullExchangeName"`
				LongName           string  `json:"longName"`
				Shortname          string  `json:"shortName"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				RegularMarketTime  int64   `json:"regularMarketTime"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					Close  []float64 `json:"close"`
					Volume []int64   `json:"volume"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *string `json:"error"`
	} `json:"chart"`
}
