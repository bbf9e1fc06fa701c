package domain

import "github.com/google/uuid"

// CategoryType is a closed classification tag. Every category, and
// transitively every transaction, is either income or expense.
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Valid reports whether t is one of the two known category types.
func (t CategoryType) Valid() bool {
	return t == CategoryTypeIncome || t == CategoryTypeExpense
}

type Category struct {
	ID     int32        `json:"id"`
	UserID uuid.UUID    `json:"userId"`
	Name   string       `json:"name"`
	Type   CategoryType `json:"type"`
}

type CategoryRepository interface {
	Create(category *Category) (*Category, error)
	GetByID(userID uuid.UUID, id int32) (*Category, error)
	GetByName(userID uuid.UUID, name string) (*Category, error)
	GetAllByUser(userID uuid.UUID) ([]*Category, error)
	GetByUserAndType(userID uuid.UUID, categoryType CategoryType) ([]*Category, error)
	Update(userID uuid.UUID, id int32, name string, categoryType CategoryType) (*Category, error)
	Delete(userID uuid.UUID, id int32) error
	HasTransactions(userID uuid.UUID, id int32) (bool, error)
}
