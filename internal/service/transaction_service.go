package service

import (
	"strings"
	"time"

	"github.com/finbook/finbook-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionService handles transaction-related business logic
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	categoryRepo    domain.CategoryRepository
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo domain.TransactionRepository, categoryRepo domain.CategoryRepository) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
	}
}

// CreateTransactionInput holds the input for creating a transaction
type CreateTransactionInput struct {
	CategoryID int32
	Amount     decimal.Decimal
	Date       *time.Time
	Comment    *string
}

// CreateTransaction creates a new transaction with validation
func (s *TransactionService) CreateTransaction(userID uuid.UUID, input CreateTransactionInput) (*domain.Transaction, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	// Category must exist and belong to the user
	if _, err := s.categoryRepo.GetByID(userID, input.CategoryID); err != nil {
		return nil, domain.ErrCategoryNotFound
	}

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if input.Date != nil {
		date = *input.Date
	}

	comment, err := normalizeComment(input.Comment)
	if err != nil {
		return nil, err
	}

	return s.transactionRepo.Create(&domain.Transaction{
		UserID:     userID,
		CategoryID: input.CategoryID,
		Amount:     input.Amount,
		Date:       date,
		Comment:    comment,
	})
}

// GetTransactions retrieves the user's transactions with optional filters and pagination
func (s *TransactionService) GetTransactions(userID uuid.UUID, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	if filters != nil && filters.Type != nil && !filters.Type.Valid() {
		return nil, domain.ErrInvalidCategoryType
	}
	return s.transactionRepo.GetByUser(userID, filters)
}

// GetTransactionByID retrieves one of the user's transactions by ID
func (s *TransactionService) GetTransactionByID(userID uuid.UUID, id int32) (*domain.Transaction, error) {
	return s.transactionRepo.GetByID(userID, id)
}

// UpdateTransactionInput holds the input for updating a transaction
type UpdateTransactionInput struct {
	CategoryID int32
	Amount     decimal.Decimal
	Date       time.Time
	Comment    *string
}

// UpdateTransaction updates an existing transaction with validation
func (s *TransactionService) UpdateTransaction(userID uuid.UUID, id int32, input UpdateTransactionInput) (*domain.Transaction, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	if _, err := s.categoryRepo.GetByID(userID, input.CategoryID); err != nil {
		return nil, domain.ErrCategoryNotFound
	}

	comment, err := normalizeComment(input.Comment)
	if err != nil {
		return nil, err
	}

	return s.transactionRepo.Update(userID, id, &domain.UpdateTransactionData{
		CategoryID: input.CategoryID,
		Amount:     input.Amount,
		Date:       input.Date,
		Comment:    comment,
	})
}

// DeleteTransaction removes one of the user's transactions
func (s *TransactionService) DeleteTransaction(userID uuid.UUID, id int32) error {
	return s.transactionRepo.Delete(userID, id)
}

// normalizeComment trims the comment and enforces the length limit. An empty
// comment becomes nil.
func normalizeComment(comment *string) (*string, error) {
	if comment == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*comment)
	if trimmed == "" {
		return nil, nil
	}
	if len(trimmed) > domain.MaxCommentLength {
		return nil, domain.ErrCommentTooLong
	}
	return &trimmed, nil
}
