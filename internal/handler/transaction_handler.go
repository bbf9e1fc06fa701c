package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/finbook/finbook-backend/internal/domain"
	"github.com/finbook/finbook-backend/internal/middleware"
	"github.com/finbook/finbook-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CreateTransactionRequest represents the create transaction request body
type CreateTransactionRequest struct {
	CategoryID int32   `json:"categoryId"`
	Amount     string  `json:"amount"`
	Date       *string `json:"date,omitempty"`
	Comment    *string `json:"comment,omitempty"`
}

// UpdateTransactionRequest represents the update transaction request body
type UpdateTransactionRequest struct {
	CategoryID int32   `json:"categoryId"`
	Amount     string  `json:"amount"`
	Date       string  `json:"date"`
	Comment    *string `json:"comment,omitempty"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID         int32             `json:"id"`
	CategoryID int32             `json:"categoryId"`
	Amount     string            `json:"amount"`
	Date       string            `json:"date"`
	Comment    *string           `json:"comment,omitempty"`
	Category   *CategoryResponse `json:"category,omitempty"`
}

// PaginatedTransactionsResponse represents a page of transactions
type PaginatedTransactionsResponse struct {
	Data       []TransactionResponse `json:"data"`
	Page       int32                 `json:"page"`
	PageSize   int32                 `json:"pageSize"`
	TotalItems int64                 `json:"totalItems"`
	TotalPages int32                 `json:"totalPages"`
}

// CreateTransaction creates a new transaction
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	if req.CategoryID <= 0 {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "categoryId", Message: "Category ID is required"},
		})
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	var date *time.Time
	if req.Date != nil && *req.Date != "" {
		parsed, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			return NewValidationError(c, "Invalid date", []ValidationError{
				{Field: "date", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		date = &parsed
	}

	transaction, err := h.transactionService.CreateTransaction(userID, service.CreateTransactionInput{
		CategoryID: req.CategoryID,
		Amount:     amount,
		Date:       date,
		Comment:    req.Comment,
	})
	if err != nil {
		if mapped := mapTransactionError(c, err); mapped != nil {
			return mapped
		}
		log.Error().Err(err).Msg("Failed to create transaction")
		return NewInternalError(c, "Failed to create transaction")
	}

	return c.JSON(http.StatusCreated, toTransactionResponse(transaction))
}

// GetTransactions lists the user's transactions with optional filters
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	filters := &domain.TransactionFilters{}

	if from := c.QueryParam("from"); from != "" {
		parsed, err := time.Parse(dateLayout, from)
		if err != nil {
			return NewValidationError(c, "Invalid from date", []ValidationError{
				{Field: "from", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		filters.StartDate = &parsed
	}
	if to := c.QueryParam("to"); to != "" {
		parsed, err := time.Parse(dateLayout, to)
		if err != nil {
			return NewValidationError(c, "Invalid to date", []ValidationError{
				{Field: "to", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		filters.EndDate = &parsed
	}
	if typeParam := c.QueryParam("type"); typeParam != "" {
		categoryType := domain.CategoryType(typeParam)
		filters.Type = &categoryType
	}
	if page := c.QueryParam("page"); page != "" {
		if parsed, err := strconv.ParseInt(page, 10, 32); err == nil {
			filters.Page = int32(parsed)
		}
	}
	if pageSize := c.QueryParam("pageSize"); pageSize != "" {
		if parsed, err := strconv.ParseInt(pageSize, 10, 32); err == nil {
			filters.PageSize = int32(parsed)
		}
	}

	result, err := h.transactionService.GetTransactions(userID, filters)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCategoryType) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "type", Message: "Must be one of: income, expense"},
			})
		}
		log.Error().Err(err).Msg("Failed to list transactions")
		return NewInternalError(c, "Failed to list transactions")
	}

	response := PaginatedTransactionsResponse{
		Data:       make([]TransactionResponse, len(result.Data)),
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalItems: result.TotalItems,
		TotalPages: result.TotalPages,
	}
	for i, transaction := range result.Data {
		response.Data[i] = toTransactionResponse(transaction)
	}
	return c.JSON(http.StatusOK, response)
}

// GetTransaction returns a single transaction
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	transaction, err := h.transactionService.GetTransactionByID(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Msg("Failed to load transaction")
		return NewInternalError(c, "Failed to load transaction")
	}

	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// UpdateTransaction updates an existing transaction
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	var req UpdateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return NewValidationError(c, "Invalid date", []ValidationError{
			{Field: "date", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	transaction, err := h.transactionService.UpdateTransaction(userID, id, service.UpdateTransactionInput{
		CategoryID: req.CategoryID,
		Amount:     amount,
		Date:       date,
		Comment:    req.Comment,
	})
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		if mapped := mapTransactionError(c, err); mapped != nil {
			return mapped
		}
		log.Error().Err(err).Msg("Failed to update transaction")
		return NewInternalError(c, "Failed to update transaction")
	}

	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// DeleteTransaction removes a transaction
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	if err := h.transactionService.DeleteTransaction(userID, id); err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Msg("Failed to delete transaction")
		return NewInternalError(c, "Failed to delete transaction")
	}

	return c.NoContent(http.StatusNoContent)
}

// mapTransactionError translates shared create/update validation failures.
// Returns nil for errors the caller should handle itself.
func mapTransactionError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount must be positive"},
		})
	case errors.Is(err, domain.ErrCommentTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "comment", Message: "Comment must be 255 characters or less"},
		})
	case errors.Is(err, domain.ErrCategoryNotFound):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "categoryId", Message: "Category does not exist"},
		})
	}
	return nil
}

func toTransactionResponse(transaction *domain.Transaction) TransactionResponse {
	response := TransactionResponse{
		ID:         transaction.ID,
		CategoryID: transaction.CategoryID,
		Amount:     transaction.Amount.StringFixed(2),
		Date:       transaction.Date.Format(dateLayout),
		Comment:    transaction.Comment,
	}
	if transaction.Category != nil {
		category := toCategoryResponse(transaction.Category)
		response.Category = &category
	}
	return response
}
