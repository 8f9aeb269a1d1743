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

// TransactionHandler handles HTTP requests for ledger endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the transactionService.
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler with the provided service dependency.
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// TransactionsPerPortfolio handles GET requests to retrieve the ledger for a specific portfolio.
//
// Endpoint: GET /api/portfolio/{uuid}/transactions
// Response: 200 OK with array of Transaction
// Error: 400 Bad Request if portfolio ID is invalid (validated by middleware)
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) TransactionsPerPortfolio(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	transactions, err := h.transactionService.GetTransactionsPerPortfolio(portfolioID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransactions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, transactions)
}

// AllTransactions handles GET requests to retrieve the ledger across all portfolios.
//
// Endpoint: GET /api/transaction
// Response: 200 OK with array of Transaction
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) AllTransactions(w http.ResponseWriter, _ *http.Request) {

	transactions, err := h.transactionService.GetTransactionsPerPortfolio("")
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransactions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, transactions)
}

// GetTransaction handles GET requests to retrieve a single ledger entry by ID.
//
// Endpoint: GET /api/transaction/{uuid}
// Response: 200 OK with Transaction
// Error: 400 Bad Request if transaction ID is invalid (validated by middleware)
// Error: 404 Not Found if transaction not found
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {

	transactionID := chi.URLParam(r, "uuid")

	transaction, err := h.transactionService.GetTransaction(transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrTransactionNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTransactionNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransaction.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, transaction)
}

// CreateTransaction handles POST requests to append a ledger entry.
// Validates the request body, appends the entry, and applies it to the
// holdings projection.
//
// Endpoint: POST /api/transaction
// Request Body: CreateTransactionRequest (portfolioId, symbol, type, quantity, price, currency, exchange, fees, date)
// Response: 201 Created with Transaction
// Error: 400 Bad Request if validation fails or the transaction is invalid
// Error: 404 Not Found if the portfolio, or the holding for a sell, does not exist
// Error: 409 Conflict if a sell exceeds the held quantity under the reject policy
// Error: 500 Internal Server Error if creation fails
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateTransactionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateTransaction(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	transaction, err := h.transactionService.CreateTransaction(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrPortfolioNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrPortfolioNotFound.Error(), err.Error())
		case errors.Is(err, apperrors.ErrHoldingNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrHoldingNotFound.Error(), err.Error())
		case errors.Is(err, apperrors.ErrOversell):
			response.RespondError(w, http.StatusConflict, apperrors.ErrOversell.Error(), err.Error())
		case errors.Is(err, apperrors.ErrInvalidTransaction):
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidTransaction.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, "failed to create transaction", err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusCreated, transaction)
}

// RealizedGainsPerPortfolio handles GET requests to retrieve the realized
// gain records written by past sells on a portfolio.
//
// Endpoint: GET /api/portfolio/{uuid}/realized-gains
// Response: 200 OK with array of RealizedGain
// Error: 400 Bad Request if portfolio ID is invalid (validated by middleware)
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) RealizedGainsPerPortfolio(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	gains, err := h.transactionService.GetRealizedGainsPerPortfolio(portfolioID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveGains.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, gains)
}
