package postgres

import (
	"context"
	"errors"

	"github.com/finbook/finbook-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CategoryRepository implements domain.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// Create creates a new category
func (r *CategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	row := r.pool.QueryRow(context.Background(),
		`INSERT INTO categories (user_id, name, type)
		 VALUES ($1, $2, $3)
		 RETURNING id, user_id, name, type`,
		category.UserID, category.Name, string(category.Type))
	return scanCategory(row)
}

// GetByID retrieves a category by its ID within a user's set
func (r *CategoryRepository) GetByID(userID uuid.UUID, id int32) (*domain.Category, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT id, user_id, name, type FROM categories
		 WHERE user_id = $1 AND id = $2`, userID, id)
	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// GetByName retrieves a category by its per-user unique name
func (r *CategoryRepository) GetByName(userID uuid.UUID, name string) (*domain.Category, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT id, user_id, name, type FROM categories
		 WHERE user_id = $1 AND name = $2`, userID, name)
	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// GetAllByUser retrieves all of a user's categories
func (r *CategoryRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Category, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT id, user_id, name, type FROM categories
		 WHERE user_id = $1 ORDER BY name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCategories(rows)
}

// GetByUserAndType retrieves a user's categories of one type
func (r *CategoryRepository) GetByUserAndType(userID uuid.UUID, categoryType domain.CategoryType) ([]*domain.Category, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT id, user_id, name, type FROM categories
		 WHERE user_id = $1 AND type = $2 ORDER BY name`, userID, string(categoryType))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCategories(rows)
}

// Update renames or retypes a category
func (r *CategoryRepository) Update(userID uuid.UUID, id int32, name string, categoryType domain.CategoryType) (*domain.Category, error) {
	row := r.pool.QueryRow(context.Background(),
		`UPDATE categories SET name = $3, type = $4
		 WHERE user_id = $1 AND id = $2
		 RETURNING id, user_id, name, type`,
		userID, id, name, string(categoryType))
	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// Delete removes a category
func (r *CategoryRepository) Delete(userID uuid.UUID, id int32) error {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM categories WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

// HasTransactions reports whether any transaction references the category
func (r *CategoryRepository) HasTransactions(userID uuid.UUID, id int32) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(context.Background(),
		`SELECT EXISTS (
			SELECT 1 FROM transactions WHERE user_id = $1 AND category_id = $2
		 )`, userID, id).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var category domain.Category
	var categoryType string
	if err := row.Scan(&category.ID, &category.UserID, &category.Name, &categoryType); err != nil {
		return nil, err
	}
	category.Type = domain.CategoryType(categoryType)
	return &category, nil
}

func scanCategories(rows pgx.Rows) ([]*domain.Category, error) {
	categories := make([]*domain.Category, 0)
	for rows.Next() {
		var category domain.Category
		var categoryType string
		if err := rows.Scan(&category.ID, &category.UserID, &category.Name, &categoryType); err != nil {
			return nil, err
		}
		category.Type = domain.CategoryType(categoryType)
		categories = append(categories, &category)
	}
	return categories, rows.Err()
}
