package request

// CreateTransactionRequest represents the request body for appending a
// ledger entry. Quantity, price, fees and totalAmount travel as decimal
// strings so values survive the wire without float rounding.
type CreateTransactionRequest struct {
	PortfolioID string `json:"portfolioId"`
	Symbol      string `json:"symbol"`
	Type        string `json:"type"`
	Quantity    string `json:"quantity"`
	Price       string `json:"price"`
	Fees        string `json:"fees,omitempty"`
	TotalAmount string `json:"totalAmount,omitempty"`
	Currency    string `json:"currency"`
	Exchange    string `json:"exchange"`
	Date        string `json:"date"`
}
