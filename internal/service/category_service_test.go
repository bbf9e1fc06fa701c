package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/finbook/finbook-backend/internal/domain"
	"github.com/finbook/finbook-backend/internal/testutil"
	"github.com/google/uuid"
)

func TestCreateCategory(t *testing.T) {
	categoryRepo := testutil.NewMockCategoryRepository()
	svc := NewCategoryService(categoryRepo)
	userID := uuid.New()

	category, err := svc.CreateCategory(userID, "  Food  ", domain.CategoryTypeExpense)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if category.ID == 0 {
		t.Error("Expected an assigned category ID")
	}
	if category.Name != "Food" {
		t.Errorf("Expected trimmed name Food, got %q", category.Name)
	}
	if category.Type != domain.CategoryTypeExpense {
		t.Errorf("Expected expense type, got %s", category.Type)
	}
}

func TestCreateCategory_Validation(t *testing.T) {
	svc := NewCategoryService(testutil.NewMockCategoryRepository())
	userID := uuid.New()

	_, err := svc.CreateCategory(userID, "   ", domain.CategoryTypeExpense)
	if !errors.Is(err, domain.ErrNameRequired) {
		t.Errorf("Expected ErrNameRequired, got %v", err)
	}

	_, err = svc.CreateCategory(userID, strings.Repeat("x", domain.MaxCategoryNameLength+1), domain.CategoryTypeExpense)
	if !errors.Is(err, domain.ErrNameTooLong) {
		t.Errorf("Expected ErrNameTooLong, got %v", err)
	}

	_, err = svc.CreateCategory(userID, "Food", domain.CategoryType("savings"))
	if !errors.Is(err, domain.ErrInvalidCategoryType) {
		t.Errorf("Expected ErrInvalidCategoryType, got %v", err)
	}
}

func TestCreateCategory_DuplicateName(t *testing.T) {
	svc := NewCategoryService(testutil.NewMockCategoryRepository())
	userID := uuid.New()

	if _, err := svc.CreateCategory(userID, "Food", domain.CategoryTypeExpense); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	_, err := svc.CreateCategory(userID, "Food", domain.CategoryTypeIncome)
	if !errors.Is(err, domain.ErrCategoryExists) {
		t.Errorf("Expected ErrCategoryExists, got %v", err)
	}

	// Uniqueness is per user, not global
	if _, err := svc.CreateCategory(uuid.New(), "Food", domain.CategoryTypeExpense); err != nil {
		t.Errorf("Expected another user to reuse the name, got %v", err)
	}
}

func TestGetCategoriesByType(t *testing.T) {
	categoryRepo := testutil.NewMockCategoryRepository()
	svc := NewCategoryService(categoryRepo)
	userID := uuid.New()

	categoryRepo.AddCategory(&domain.Category{ID: 1, UserID: userID, Name: "Salary", Type: domain.CategoryTypeIncome})
	categoryRepo.AddCategory(&domain.Category{ID: 2, UserID: userID, Name: "Food", Type: domain.CategoryTypeExpense})

	incomes, err := svc.GetCategoriesByType(userID, domain.CategoryTypeIncome)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(incomes) != 1 || incomes[0].Name != "Salary" {
		t.Errorf("Expected only Salary, got %d categories", len(incomes))
	}

	_, err = svc.GetCategoriesByType(userID, domain.CategoryType("savings"))
	if !errors.Is(err, domain.ErrInvalidCategoryType) {
		t.Errorf("Expected ErrInvalidCategoryType, got %v", err)
	}
}

func TestUpdateCategory(t *testing.T) {
	categoryRepo := testutil.NewMockCategoryRepository()
	svc := NewCategoryService(categoryRepo)
	userID := uuid.New()

	categoryRepo.AddCategory(&domain.Category{ID: 1, UserID: userID, Name: "Food", Type: domain.CategoryTypeExpense})
	categoryRepo.AddCategory(&domain.Category{ID: 2, UserID: userID, Name: "Travel", Type: domain.CategoryTypeExpense})

	// Renaming to a name held by another category conflicts
	_, err := svc.UpdateCategory(userID, 1, "Travel", domain.CategoryTypeExpense)
	if !errors.Is(err, domain.ErrCategoryExists) {
		t.Errorf("Expected ErrCategoryExists, got %v", err)
	}

	// Keeping its own name is not a conflict
	updated, err := svc.UpdateCategory(userID, 1, "Food", domain.CategoryTypeIncome)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.Type != domain.CategoryTypeIncome {
		t.Errorf("Expected retyped category, got %s", updated.Type)
	}
}

func TestDeleteCategory(t *testing.T) {
	categoryRepo := testutil.NewMockCategoryRepository()
	svc := NewCategoryService(categoryRepo)
	userID := uuid.New()

	categoryRepo.AddCategory(&domain.Category{ID: 1, UserID: userID, Name: "Food", Type: domain.CategoryTypeExpense})

	if err := svc.DeleteCategory(userID, 1); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := categoryRepo.GetByID(userID, 1); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Error("Expected the category to be gone")
	}
}

func TestDeleteCategory_InUse(t *testing.T) {
	categoryRepo := testutil.NewMockCategoryRepository()
	svc := NewCategoryService(categoryRepo)
	userID := uuid.New()

	categoryRepo.AddCategory(&domain.Category{ID: 1, UserID: userID, Name: "Food", Type: domain.CategoryTypeExpense})
	categoryRepo.HasTransactionsFn = func(uuid.UUID, int32) (bool, error) { return true, nil }

	err := svc.DeleteCategory(userID, 1)
	if !errors.Is(err, domain.ErrCategoryInUse) {
		t.Errorf("Expected ErrCategoryInUse, got %v", err)
	}

	if _, getErr := categoryRepo.GetByID(userID, 1); getErr != nil {
		t.Error("Expected the category to survive a refused delete")
	}
}
