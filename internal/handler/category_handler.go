package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/finbook/finbook-backend/internal/domain"
	"github.com/finbook/finbook-backend/internal/middleware"
	"github.com/finbook/finbook-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// CategoryHandler handles category-related HTTP requests
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CategoryRequest represents the create/update category request body
type CategoryRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID   int32  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// CreateCategory creates a new category
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	category, err := h.categoryService.CreateCategory(userID, req.Name, domain.CategoryType(req.Type))
	if err != nil {
		if mapped := mapCategoryError(c, err); mapped != nil {
			return mapped
		}
		log.Error().Err(err).Msg("Failed to create category")
		return NewInternalError(c, "Failed to create category")
	}

	return c.JSON(http.StatusCreated, toCategoryResponse(category))
}

// GetCategories lists the user's categories, optionally filtered by type
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var categories []*domain.Category
	var err error

	if typeParam := c.QueryParam("type"); typeParam != "" {
		categories, err = h.categoryService.GetCategoriesByType(userID, domain.CategoryType(typeParam))
	} else {
		categories, err = h.categoryService.GetCategories(userID)
	}
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCategoryType) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "type", Message: "Must be one of: income, expense"},
			})
		}
		log.Error().Err(err).Msg("Failed to list categories")
		return NewInternalError(c, "Failed to list categories")
	}

	response := make([]CategoryResponse, len(categories))
	for i, category := range categories {
		response[i] = toCategoryResponse(category)
	}
	return c.JSON(http.StatusOK, response)
}

// GetCategory returns a single category
func (h *CategoryHandler) GetCategory(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	category, err := h.categoryService.GetCategoryByID(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return NewNotFoundError(c, "Category not found")
		}
		log.Error().Err(err).Msg("Failed to load category")
		return NewInternalError(c, "Failed to load category")
	}

	return c.JSON(http.StatusOK, toCategoryResponse(category))
}

// UpdateCategory renames or retypes a category
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	category, err := h.categoryService.UpdateCategory(userID, id, req.Name, domain.CategoryType(req.Type))
	if err != nil {
		if mapped := mapCategoryError(c, err); mapped != nil {
			return mapped
		}
		log.Error().Err(err).Msg("Failed to update category")
		return NewInternalError(c, "Failed to update category")
	}

	return c.JSON(http.StatusOK, toCategoryResponse(category))
}

// DeleteCategory removes a category without transactions
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	if err := h.categoryService.DeleteCategory(userID, id); err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return NewNotFoundError(c, "Category not found")
		}
		if errors.Is(err, domain.ErrCategoryInUse) {
			return NewConflictError(c, "Category has transactions and cannot be deleted")
		}
		log.Error().Err(err).Msg("Failed to delete category")
		return NewInternalError(c, "Failed to delete category")
	}

	return c.NoContent(http.StatusNoContent)
}

// mapCategoryError translates shared create/update validation failures.
// Returns nil for errors the caller should handle itself.
func mapCategoryError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrNameRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name is required"},
		})
	case errors.Is(err, domain.ErrNameTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name must be 100 characters or less"},
		})
	case errors.Is(err, domain.ErrInvalidCategoryType):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "type", Message: "Must be one of: income, expense"},
		})
	case errors.Is(err, domain.ErrCategoryExists):
		return NewConflictError(c, "A category with this name already exists")
	case errors.Is(err, domain.ErrCategoryNotFound):
		return NewNotFoundError(c, "Category not found")
	}
	return nil
}

func toCategoryResponse(category *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:   category.ID,
		Name: category.Name,
		Type: string(category.Type),
	}
}

func parseIDParam(c echo.Context) (int32, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidInput
	}
	return int32(id), nil
}
