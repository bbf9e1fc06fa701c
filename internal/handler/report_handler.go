package handler

import (
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/finbook/finbook-backend/internal/domain"
	"github.com/finbook/finbook-backend/internal/middleware"
	"github.com/finbook/finbook-backend/internal/service"
	"github.com/finbook/finbook-backend/internal/util"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ReportHandler handles report-related HTTP requests
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GenerateReportRequest represents the report generation request body
type GenerateReportRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// CreateReportRequest represents the save-report-pointer request body
type CreateReportRequest struct {
	ReportType string `json:"reportType"`
	PeriodFrom string `json:"periodFrom"`
	PeriodTo   string `json:"periodTo"`
}

// ReportResponse represents a saved report pointer in API responses
type ReportResponse struct {
	ID         int32  `json:"id"`
	ReportType string `json:"reportType"`
	PeriodFrom string `json:"periodFrom"`
	PeriodTo   string `json:"periodTo"`
	CreatedAt  string `json:"createdAt"`
}

// PeriodResponse represents a report period
type PeriodResponse struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// SummaryResponse represents the overall totals, rounded for display
type SummaryResponse struct {
	TotalIncome  string `json:"totalIncome"`
	TotalExpense string `json:"totalExpense"`
	Balance      string `json:"balance"`
}

// MetricsResponse represents one class's statistics, rounded for display
type MetricsResponse struct {
	Mean              string  `json:"mean"`
	Median            string  `json:"median"`
	Mode              string  `json:"mode"`
	Variance          float64 `json:"variance"`
	StandardDeviation float64 `json:"standardDeviation"`
}

// ClassStatisticsResponse represents the per-class statistics
type ClassStatisticsResponse struct {
	Income  MetricsResponse `json:"income"`
	Expense MetricsResponse `json:"expense"`
}

// CategoryTotalResponse represents one category's total within a period
type CategoryTotalResponse struct {
	CategoryID int32  `json:"categoryId"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Total      string `json:"total"`
}

// CategoryStatisticsResponse represents one category's statistics
type CategoryStatisticsResponse struct {
	CategoryID       int32  `json:"categoryId"`
	Name             string `json:"name"`
	Type             string `json:"type"`
	Median           string `json:"median"`
	Mode             string `json:"mode"`
	TransactionCount int    `json:"transactionCount"`
}

// ReportPayloadResponse represents a generated report
type ReportPayloadResponse struct {
	Period             PeriodResponse               `json:"period"`
	Summary            SummaryResponse              `json:"summary"`
	Statistics         ClassStatisticsResponse      `json:"statistics"`
	Categories         []CategoryTotalResponse      `json:"categories"`
	CategoryStatistics []CategoryStatisticsResponse `json:"categoryStatistics"`
	Transactions       []TransactionResponse        `json:"transactions"`
}

// GenerateMonthly generates a report for the requested period
func (h *ReportHandler) GenerateMonthly(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req GenerateReportRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	var from, to time.Time
	if req.From == "" && req.To == "" {
		// Default period: start of the current month through today
		now := time.Now().UTC()
		from = util.MonthStart(now)
		to = util.DateOnly(now)
	} else {
		var validationErr []ValidationError
		from, to, validationErr = parsePeriod(req.From, req.To)
		if validationErr != nil {
			return NewValidationError(c, "Invalid period", validationErr)
		}
	}

	payload, err := h.reportService.GenerateMonthlyReport(userID, from, to)
	if err != nil {
		return h.mapReportError(c, err, "Failed to generate report")
	}

	return c.JSON(http.StatusOK, toReportPayloadResponse(payload))
}

// CreateReport saves a report pointer for later reloading
func (h *ReportHandler) CreateReport(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateReportRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	from, to, validationErr := parsePeriod(req.PeriodFrom, req.PeriodTo)
	if validationErr != nil {
		return NewValidationError(c, "Invalid period", validationErr)
	}

	report, err := h.reportService.CreateReport(userID, req.ReportType, from, to)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidReportType) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "reportType", Message: "Report type is required and must be 50 characters or less"},
			})
		}
		return h.mapReportError(c, err, "Failed to save report")
	}

	return c.JSON(http.StatusCreated, toReportResponse(report))
}

// GetReports lists the user's saved report pointers, newest first
func (h *ReportHandler) GetReports(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	reports, err := h.reportService.GetReports(userID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list reports")
		return NewInternalError(c, "Failed to list reports")
	}

	response := make([]ReportResponse, len(reports))
	for i, report := range reports {
		response[i] = toReportResponse(report)
	}
	return c.JSON(http.StatusOK, response)
}

// GetReport returns a saved report pointer
func (h *ReportHandler) GetReport(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid report ID", nil)
	}

	report, err := h.reportService.GetReport(userID, id)
	if err != nil {
		return h.mapReportError(c, err, "Failed to load report")
	}

	return c.JSON(http.StatusOK, toReportResponse(report))
}

// ReloadReport regenerates the payload for a saved report's period. The
// numbers reflect current transaction data, not a snapshot from save time.
func (h *ReportHandler) ReloadReport(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid report ID", nil)
	}

	payload, err := h.reportService.ReloadReport(id, userID)
	if err != nil {
		return h.mapReportError(c, err, "Failed to reload report")
	}

	return c.JSON(http.StatusOK, toReportPayloadResponse(payload))
}

func (h *ReportHandler) mapReportError(c echo.Context, err error, detail string) error {
	switch {
	case errors.Is(err, domain.ErrInvalidRange):
		return NewValidationError(c, "Invalid period", []ValidationError{
			{Field: "from", Message: "Must not be after the end of the period"},
		})
	case errors.Is(err, domain.ErrReportNotFound):
		return NewNotFoundError(c, "Report not found")
	case errors.Is(err, domain.ErrAccessDenied):
		return NewForbiddenError(c, "Report belongs to a different user")
	}
	log.Error().Err(err).Msg(detail)
	return NewInternalError(c, detail)
}

// parsePeriod parses both period bounds, collecting field-level errors.
func parsePeriod(fromStr, toStr string) (time.Time, time.Time, []ValidationError) {
	var fieldErrors []ValidationError

	from, err := time.Parse(dateLayout, fromStr)
	if err != nil {
		fieldErrors = append(fieldErrors, ValidationError{Field: "from", Message: "Must be in YYYY-MM-DD format"})
	}
	to, err := time.Parse(dateLayout, toStr)
	if err != nil {
		fieldErrors = append(fieldErrors, ValidationError{Field: "to", Message: "Must be in YYYY-MM-DD format"})
	}
	if fieldErrors != nil {
		return time.Time{}, time.Time{}, fieldErrors
	}
	return from, to, nil
}

func toReportResponse(report *domain.Report) ReportResponse {
	return ReportResponse{
		ID:         report.ID,
		ReportType: report.ReportType,
		PeriodFrom: report.PeriodFrom.Format(dateLayout),
		PeriodTo:   report.PeriodTo.Format(dateLayout),
		CreatedAt:  report.CreatedAt.Format(time.RFC3339),
	}
}

func toReportPayloadResponse(payload *domain.ReportPayload) ReportPayloadResponse {
	response := ReportPayloadResponse{
		Period: PeriodResponse{
			From: payload.Period.From.Format(dateLayout),
			To:   payload.Period.To.Format(dateLayout),
		},
		Summary: SummaryResponse{
			TotalIncome:  payload.Summary.TotalIncome.StringFixed(2),
			TotalExpense: payload.Summary.TotalExpense.StringFixed(2),
			Balance:      payload.Summary.Balance.StringFixed(2),
		},
		Statistics: ClassStatisticsResponse{
			Income:  toMetricsResponse(payload.Statistics.Income),
			Expense: toMetricsResponse(payload.Statistics.Expense),
		},
		Categories:         make([]CategoryTotalResponse, len(payload.Categories)),
		CategoryStatistics: make([]CategoryStatisticsResponse, len(payload.CategoryStatistics)),
		Transactions:       make([]TransactionResponse, len(payload.Transactions)),
	}

	for i, total := range payload.Categories {
		response.Categories[i] = CategoryTotalResponse{
			CategoryID: total.CategoryID,
			Name:       total.Name,
			Type:       string(total.Type),
			Total:      total.Total.StringFixed(2),
		}
	}
	for i, stats := range payload.CategoryStatistics {
		response.CategoryStatistics[i] = CategoryStatisticsResponse{
			CategoryID:       stats.CategoryID,
			Name:             stats.Name,
			Type:             string(stats.Type),
			Median:           stats.Median.StringFixed(2),
			Mode:             stats.Mode.StringFixed(2),
			TransactionCount: stats.TransactionCount,
		}
	}
	for i, transaction := range payload.Transactions {
		response.Transactions[i] = toTransactionResponse(transaction)
	}

	return response
}

// toMetricsResponse rounds for display. Full precision lives in the domain
// values; rounding sooner would corrupt the variance.
func toMetricsResponse(metrics domain.Metrics) MetricsResponse {
	return MetricsResponse{
		Mean:              metrics.Mean.StringFixed(2),
		Median:            metrics.Median.StringFixed(2),
		Mode:              metrics.Mode.StringFixed(2),
		Variance:          round2(metrics.Variance),
		StandardDeviation: round2(metrics.StandardDeviation),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
