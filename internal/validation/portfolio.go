package validation

import (
	"strings"

	"github.com/vishal3152/port-api/internal/api/request"
)

func ValidateCreatePortfolio(req request.CreatePortfolioRequest) error {
	errors := make(map[string]string)

	// Required field
	if strings.TrimSpace(req.Name) == "" {
		errors["name"] = "name is required"
	} else if len(req.Name) > 100 {
		errors["name"] = "name must be 100 characters or less"
	}

	if strings.TrimSpace(req.BaseCurrency) == "" {
		errors["baseCurrency"] = "baseCurrency is required"
	} else if len(req.BaseCurrency) != 3 {
		errors["baseCurrency"] = "baseCurrency must be a 3-letter code"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

func ValidateUpdatePortfolio(req request.UpdatePortfolioRequest) error {
	errors := make(map[string]string)

	// Only validate provided fields
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			errors["name"] = "name cannot be empty"
		} else if len(*req.Name) > 100 {
			errors["name"] = "name must be 100 characters or less"
		}
	}

	if req.BaseCurrency != nil && len(*req.BaseCurrency) != 3 {
		errors["baseCurrency"] = "baseCurrency must be a 3-letter code"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
