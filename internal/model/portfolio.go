package model

import "time"

// Portfolio represents a portfolio from the database
type Portfolio struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	BaseCurrency      string    `json:"baseCurrency"`
	TaxResidency      string    `json:"taxResidency"`
	FinancialYearEnd  string    `json:"financialYearEnd"`
	PerformanceMethod string    `json:"performanceMethod"`
	CreatedAt         time.Time `json:"createdAt"`
}
