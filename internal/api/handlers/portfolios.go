package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vishal3152/port-api/internal/api/request"
	"github.com/vishal3152/port-api/internal/api/response"
	"github.com/vishal3152/port-api/internal/apperrors"
	"github.com/vishal3152/port-api/internal/service"
	"github.com/vishal3152/port-api/internal/validation"
)

// PortfolioHandler handles portfolio-related HTTP requests
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
	}
}

// Portfolios handles GET requests to retrieve all portfolios.
//
// Endpoint: GET /api/portfolio
// Response: 200 OK with array of Portfolio
// Error: 500 Internal Server Error if retrieval fails
func (h *PortfolioHandler) Portfolios(w http.ResponseWriter, _ *http.Request) {
	portfolios, err := h.portfolioService.GetAllPortfolios()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrievePortfolios.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, portfolios)
}

// GetPortfolio handles GET requests to retrieve a single portfolio by ID.
//
// Endpoint: GET /api/portfolio/{uuid}
// Response: 200 OK with Portfolio
// Error: 400 Bad Request if portfolio ID is invalid (validated by middleware)
// Error: 404 Not Found if portfolio not found
// Error: 500 Internal Server Error if retrieval fails
func (h *PortfolioHandler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	portfolio, err := h.portfolioService.GetPortfolio(portfolioID)
	if err != nil {
		if errors.Is(err, apperrors.ErrPortfolioNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrPortfolioNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrievePortfolio.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, portfolio)
}

// CreatePortfolio handles POST requests to create a new portfolio.
//
// Endpoint: POST /api/portfolio
// Request Body: CreatePortfolioRequest (name, baseCurrency, taxResidency, financialYearEnd, performanceMethod)
// Response: 201 Created with Portfolio
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if creation fails
func (h *PortfolioHandler) CreatePortfolio(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreatePortfolioRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreatePortfolio(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	portfolio, err := h.portfolioService.CreatePortfolio(r.Context(), req)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to create portfolio", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, portfolio)
}

// UpdatePortfolio handles PUT requests to update an existing portfolio.
//
// Endpoint: PUT /api/portfolio/{uuid}
// Request Body: UpdatePortfolioRequest (all fields optional)
// Response: 200 OK with updated Portfolio
// Error: 400 Bad Request if portfolio ID is invalid (validated by middleware) or validation fails
// Error: 404 Not Found if portfolio not found
// Error: 500 Internal Server Error if update fails
func (h *PortfolioHandler) UpdatePortfolio(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.UpdatePortfolioRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdatePortfolio(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	portfolio, err := h.portfolioService.UpdatePortfolio(r.Context(), portfolioID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrPortfolioNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrPortfolioNotFound.Error(), err.Error())
			return
		}

		response.RespondError(w, http.StatusInternalServerError, "failed to update portfolio", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, portfolio)
}

// DeletePortfolio handles DELETE requests to remove a portfolio along with
// its ledger, holdings, and realized gains.
//
// Endpoint: DELETE /api/portfolio/{uuid}
// Response: 204 No Content on successful deletion
// Error: 400 Bad Request if portfolio ID is invalid (validated by middleware)
// Error: 404 Not Found if portfolio not found
// Error: 500 Internal Server Error if deletion fails
func (h *PortfolioHandler) DeletePortfolio(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	err := h.portfolioService.DeletePortfolio(r.Context(), portfolioID)
	if err != nil {
		if errors.Is(err, apperrors.ErrPortfolioNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrPortfolioNotFound.Error(), err.Error())
			return
		}

		response.RespondError(w, http.StatusInternalServerError, "failed to delete portfolio", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// Holdings handles GET requests to retrieve a portfolio's open positions
// with their derived valuation metrics.
//
// Endpoint: GET /api/portfolio/{uuid}/holdings
// Response: 200 OK with array of HoldingWithMetrics
// Error: 400 Bad Request if portfolio ID is invalid (validated by middleware)
// Error: 404 Not Found if portfolio not found
// Error: 500 Internal Server Error if retrieval fails
func (h *PortfolioHandler) Holdings(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	holdings, err := h.portfolioService.GetHoldings(portfolioID)
	if err != nil {
		if errors.Is(err, apperrors.ErrPortfolioNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrPortfolioNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveHoldings.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, holdings)
}

// Metrics handles GET requests to retrieve aggregate valuation metrics for
// a portfolio.
//
// Endpoint: GET /api/portfolio/{uuid}/metrics
// Response: 200 OK with PortfolioMetrics
// Error: 400 Bad Request if portfolio ID is invalid (validated by middleware)
// Error: 404 Not Found if portfolio not found
// Error: 500 Internal Server Error if computation fails
func (h *PortfolioHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	portfolioMetrics, err := h.portfolioService.GetPortfolioMetrics(portfolioID)
	if err != nil {
		if errors.Is(err, apperrors.ErrPortfolioNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrPortfolioNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputeMetrics.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, portfolioMetrics)
}
