package request

// CreatePortfolioRequest represents the request body for creating a portfolio
type CreatePortfolioRequest struct {
	Name              string `json:"name"`
	BaseCurrency      string `json:"baseCurrency"`
	TaxResidency      string `json:"taxResidency,omitempty"`
	FinancialYearEnd  string `json:"financialYearEnd,omitempty"`
	PerformanceMethod string `json:"performanceMethod,omitempty"`
}

type UpdatePortfolioRequest struct {
	Name              *string `json:"name,omitempty"`
	BaseCurrency      *string `json:"baseCurrency,omitempty"`
	TaxResidency      *string `json:"taxResidency,omitempty"`
	FinancialYearEnd  *string `json:"financialYearEnd,omitempty"`
	PerformanceMethod *string `json:"performanceMethod,omitempty"`
}
