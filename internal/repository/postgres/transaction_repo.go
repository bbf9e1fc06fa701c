package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finbook/finbook-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionRepository implements domain.TransactionRepository using
// PostgreSQL. Every read resolves the transaction's category in the same
// query; consumers never re-resolve it.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `
	t.id, t.user_id, t.category_id, t.amount, t.date, t.comment,
	c.id, c.user_id, c.name, c.type`

// Create creates a new transaction
func (r *TransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	var date pgtype.Date
	date.Time = transaction.Date
	date.Valid = true

	var id int32
	err = r.pool.QueryRow(ctx,
		`INSERT INTO transactions (user_id, category_id, amount, date, comment)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		transaction.UserID, transaction.CategoryID, amount, date,
		stringPtrToPgText(transaction.Comment)).Scan(&id)
	if err != nil {
		return nil, err
	}

	return r.GetByID(transaction.UserID, id)
}

// GetByID retrieves a transaction by its ID within a user's set
func (r *TransactionRepository) GetByID(userID uuid.UUID, id int32) (*domain.Transaction, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+transactionColumns+`
		 FROM transactions t
		 JOIN categories c ON c.id = t.category_id
		 WHERE t.user_id = $1 AND t.id = $2`, userID, id)
	transaction, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return transaction, nil
}

// GetByUser retrieves a user's transactions with optional filters and
// pagination, newest first
func (r *TransactionRepository) GetByUser(userID uuid.UUID, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	ctx := context.Background()

	page := int32(1)
	pageSize := int32(domain.DefaultPageSize)
	var startDate, endDate pgtype.Date
	var categoryType pgtype.Text

	if filters != nil {
		if filters.Page > 0 {
			page = filters.Page
		}
		if filters.PageSize > 0 {
			pageSize = filters.PageSize
			if pageSize > domain.MaxPageSize {
				pageSize = domain.MaxPageSize
			}
		}
		if filters.StartDate != nil {
			startDate.Time = *filters.StartDate
			startDate.Valid = true
		}
		if filters.EndDate != nil {
			endDate.Time = *filters.EndDate
			endDate.Valid = true
		}
		if filters.Type != nil {
			categoryType.String = string(*filters.Type)
			categoryType.Valid = true
		}
	}

	offset := (page - 1) * pageSize

	var totalItems int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*)
		 FROM transactions t
		 JOIN categories c ON c.id = t.category_id
		 WHERE t.user_id = $1
		   AND ($2::date IS NULL OR t.date >= $2)
		   AND ($3::date IS NULL OR t.date <= $3)
		   AND ($4::text IS NULL OR c.type = $4)`,
		userID, startDate, endDate, categoryType).Scan(&totalItems)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+transactionColumns+`
		 FROM transactions t
		 JOIN categories c ON c.id = t.category_id
		 WHERE t.user_id = $1
		   AND ($2::date IS NULL OR t.date >= $2)
		   AND ($3::date IS NULL OR t.date <= $3)
		   AND ($4::text IS NULL OR c.type = $4)
		 ORDER BY t.date DESC, t.id DESC
		 LIMIT $5 OFFSET $6`,
		userID, startDate, endDate, categoryType, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions, err := scanTransactions(rows)
	if err != nil {
		return nil, err
	}

	totalPages := int32(totalItems / int64(pageSize))
	if totalItems%int64(pageSize) > 0 {
		totalPages++
	}

	return &domain.PaginatedTransactions{
		Data:       transactions,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}, nil
}

// FindByOwnerInRange returns the user's transactions dated within [from, to]
// inclusive, each with its category resolved
func (r *TransactionRepository) FindByOwnerInRange(userID uuid.UUID, from, to time.Time) ([]*domain.Transaction, error) {
	var fromDate, toDate pgtype.Date
	fromDate.Time = from
	fromDate.Valid = true
	toDate.Time = to
	toDate.Valid = true

	rows, err := r.pool.Query(context.Background(),
		`SELECT `+transactionColumns+`
		 FROM transactions t
		 JOIN categories c ON c.id = t.category_id
		 WHERE t.user_id = $1 AND t.date >= $2 AND t.date <= $3
		 ORDER BY t.date, t.id`,
		userID, fromDate, toDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// Update applies the given data to an existing transaction
func (r *TransactionRepository) Update(userID uuid.UUID, id int32, data *domain.UpdateTransactionData) (*domain.Transaction, error) {
	amount, err := decimalToPgNumeric(data.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	var date pgtype.Date
	date.Time = data.Date
	date.Valid = true

	tag, err := r.pool.Exec(context.Background(),
		`UPDATE transactions
		 SET category_id = $3, amount = $4, date = $5, comment = $6
		 WHERE user_id = $1 AND id = $2`,
		userID, id, data.CategoryID, amount, date, stringPtrToPgText(data.Comment))
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrTransactionNotFound
	}

	return r.GetByID(userID, id)
}

// Delete removes a transaction
func (r *TransactionRepository) Delete(userID uuid.UUID, id int32) error {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM transactions WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var transaction domain.Transaction
	var category domain.Category
	var amount pgtype.Numeric
	var date pgtype.Date
	var comment pgtype.Text
	var categoryType string

	err := row.Scan(
		&transaction.ID, &transaction.UserID, &transaction.CategoryID,
		&amount, &date, &comment,
		&category.ID, &category.UserID, &category.Name, &categoryType)
	if err != nil {
		return nil, err
	}

	transaction.Amount = pgNumericToDecimal(amount)
	transaction.Date = date.Time
	transaction.Comment = pgTextToStringPtr(comment)
	category.Type = domain.CategoryType(categoryType)
	transaction.Category = &category

	return &transaction, nil
}

func scanTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	transactions := make([]*domain.Transaction, 0)
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}
	return transactions, rows.Err()
}
