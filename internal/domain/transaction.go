package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is a single income or expense entry. The Category field is
// resolved by the repository at read time; consumers never re-resolve it.
type Transaction struct {
	ID         int32           `json:"id"`
	UserID     uuid.UUID       `json:"userId"`
	CategoryID int32           `json:"categoryId"`
	Amount     decimal.Decimal `json:"amount"`
	Date       time.Time       `json:"date"`
	Comment    *string         `json:"comment,omitempty"`
	Category   *Category       `json:"category,omitempty"`
}

type TransactionFilters struct {
	StartDate *time.Time
	EndDate   *time.Time
	Type      *CategoryType
	Page      int32
	PageSize  int32
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type PaginatedTransactions struct {
	Data       []*Transaction `json:"data"`
	Page       int32          `json:"page"`
	PageSize   int32          `json:"pageSize"`
	TotalItems int64          `json:"totalItems"`
	TotalPages int32          `json:"totalPages"`
}

// UpdateTransactionData holds the fields applied by an update
type UpdateTransactionData struct {
	CategoryID int32
	Amount     decimal.Decimal
	Date       time.Time
	Comment    *string
}

type TransactionRepository interface {
	Create(transaction *Transaction) (*Transaction, error)
	GetByID(userID uuid.UUID, id int32) (*Transaction, error)
	GetByUser(userID uuid.UUID, filters *TransactionFilters) (*PaginatedTransactions, error)
	// FindByOwnerInRange returns the user's transactions dated within
	// [from, to] inclusive, each with its category resolved.
	FindByOwnerInRange(userID uuid.UUID, from, to time.Time) ([]*Transaction, error)
	Update(userID uuid.UUID, id int32, data *UpdateTransactionData) (*Transaction, error)
	Delete(userID uuid.UUID, id int32) error
}
