package domain

import "errors"

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrReportNotFound      = errors.New("report not found")
	ErrAccessDenied        = errors.New("access denied")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")

	// ErrInvalidRange signals a period whose lower bound is after its upper
	// bound, or a malformed date. Never retried.
	ErrInvalidRange = errors.New("invalid date range")

	// ErrInvalidInput signals a data-integrity fault in transactions handed to
	// the aggregation engine: a missing category or a non-positive amount.
	// Surfaced, never silently coerced.
	ErrInvalidInput = errors.New("invalid input")

	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidCategoryType = errors.New("category type must be income or expense")
	ErrCommentTooLong      = errors.New("comment exceeds maximum length")
	ErrNameRequired        = errors.New("name is required")
	ErrNameTooLong         = errors.New("name exceeds maximum length")
	ErrCategoryInUse       = errors.New("category has transactions")
	ErrCategoryExists      = errors.New("category name already in use")
	ErrInvalidReportType   = errors.New("invalid report type")
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrPasswordTooShort    = errors.New("password too short")
)

// Validation constants
const (
	MaxCategoryNameLength = 100
	MaxCommentLength      = 255
	MaxReportTypeLength   = 50
	MaxUsernameLength     = 100
	MinPasswordLength     = 8
)
