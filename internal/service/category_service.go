package service

import (
	"errors"
	"strings"

	"github.com/finbook/finbook-backend/internal/domain"
	"github.com/google/uuid"
)

// CategoryService handles category-related business logic
type CategoryService struct {
	categoryRepo domain.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo domain.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// CreateCategory creates a new category. Names are unique per user, not
// globally.
func (s *CategoryService) CreateCategory(userID uuid.UUID, name string, categoryType domain.CategoryType) (*domain.Category, error) {
	name, err := validateCategoryName(name)
	if err != nil {
		return nil, err
	}
	if !categoryType.Valid() {
		return nil, domain.ErrInvalidCategoryType
	}

	if _, err := s.categoryRepo.GetByName(userID, name); err == nil {
		return nil, domain.ErrCategoryExists
	} else if !errors.Is(err, domain.ErrCategoryNotFound) {
		return nil, err
	}

	return s.categoryRepo.Create(&domain.Category{
		UserID: userID,
		Name:   name,
		Type:   categoryType,
	})
}

// GetCategories retrieves all of the user's categories
func (s *CategoryService) GetCategories(userID uuid.UUID) ([]*domain.Category, error) {
	return s.categoryRepo.GetAllByUser(userID)
}

// GetCategoriesByType retrieves the user's categories of one type
func (s *CategoryService) GetCategoriesByType(userID uuid.UUID, categoryType domain.CategoryType) ([]*domain.Category, error) {
	if !categoryType.Valid() {
		return nil, domain.ErrInvalidCategoryType
	}
	return s.categoryRepo.GetByUserAndType(userID, categoryType)
}

// GetCategoryByID retrieves one of the user's categories by ID
func (s *CategoryService) GetCategoryByID(userID uuid.UUID, id int32) (*domain.Category, error) {
	return s.categoryRepo.GetByID(userID, id)
}

// UpdateCategory renames or retypes an existing category
func (s *CategoryService) UpdateCategory(userID uuid.UUID, id int32, name string, categoryType domain.CategoryType) (*domain.Category, error) {
	name, err := validateCategoryName(name)
	if err != nil {
		return nil, err
	}
	if !categoryType.Valid() {
		return nil, domain.ErrInvalidCategoryType
	}

	existing, err := s.categoryRepo.GetByName(userID, name)
	if err == nil && existing.ID != id {
		return nil, domain.ErrCategoryExists
	} else if err != nil && !errors.Is(err, domain.ErrCategoryNotFound) {
		return nil, err
	}

	return s.categoryRepo.Update(userID, id, name, categoryType)
}

// DeleteCategory removes a category that has no transactions
func (s *CategoryService) DeleteCategory(userID uuid.UUID, id int32) error {
	inUse, err := s.categoryRepo.HasTransactions(userID, id)
	if err != nil {
		return err
	}
	if inUse {
		return domain.ErrCategoryInUse
	}
	return s.categoryRepo.Delete(userID, id)
}

func validateCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.ErrNameRequired
	}
	if len(name) > domain.MaxCategoryNameLength {
		return "", domain.ErrNameTooLong
	}
	return name, nil
}
