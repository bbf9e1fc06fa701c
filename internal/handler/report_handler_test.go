package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/finbook/finbook-backend/internal/domain"
	"github.com/finbook/finbook-backend/internal/service"
	"github.com/finbook/finbook-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newReportHandlerFixture() (*ReportHandler, *testutil.MockReportRepository, *testutil.MockTransactionRepository) {
	reportRepo := testutil.NewMockReportRepository()
	transactionRepo := testutil.NewMockTransactionRepository()
	svc := service.NewReportService(reportRepo, transactionRepo, service.NewAggregationService())
	return NewReportHandler(svc), reportRepo, transactionRepo
}

func seedReportData(transactionRepo *testutil.MockTransactionRepository, userID uuid.UUID) {
	salary := &domain.Category{ID: 1, UserID: userID, Name: "Salary", Type: domain.CategoryTypeIncome}
	food := &domain.Category{ID: 2, UserID: userID, Name: "Food", Type: domain.CategoryTypeExpense}
	transactionRepo.AddCategory(salary)
	transactionRepo.AddCategory(food)
	transactionRepo.AddTransaction(&domain.Transaction{
		ID: 1, UserID: userID, CategoryID: 1,
		Amount: decimal.NewFromInt(100),
		Date:   time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
	})
	transactionRepo.AddTransaction(&domain.Transaction{
		ID: 2, UserID: userID, CategoryID: 1,
		Amount: decimal.NewFromInt(300),
		Date:   time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
	})
	transactionRepo.AddTransaction(&domain.Transaction{
		ID: 3, UserID: userID, CategoryID: 2,
		Amount: decimal.NewFromInt(50),
		Date:   time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
	})
}

func TestGenerateMonthly(t *testing.T) {
	h, _, transactionRepo := newReportHandlerFixture()
	userID := uuid.New()
	seedReportData(transactionRepo, userID)

	c, rec := newJSONContext(http.MethodPost, "/api/v1/reports/generate/monthly",
		`{"from":"2024-01-01","to":"2024-01-31"}`)
	authenticate(c, userID)

	if err := h.GenerateMonthly(c); err != nil {
		t.Fatalf("Handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response ReportPayloadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if response.Summary.TotalIncome != "400.00" {
		t.Errorf("Expected total income 400.00, got %s", response.Summary.TotalIncome)
	}
	if response.Summary.TotalExpense != "50.00" {
		t.Errorf("Expected total expense 50.00, got %s", response.Summary.TotalExpense)
	}
	if response.Summary.Balance != "350.00" {
		t.Errorf("Expected balance 350.00, got %s", response.Summary.Balance)
	}
	if response.Statistics.Income.Mean != "200.00" || response.Statistics.Income.Median != "200.00" {
		t.Errorf("Expected income mean/median 200.00, got %s/%s",
			response.Statistics.Income.Mean, response.Statistics.Income.Median)
	}
	if response.Statistics.Income.Variance != 20000 {
		t.Errorf("Expected income variance 20000, got %f", response.Statistics.Income.Variance)
	}
	if len(response.Categories) != 2 {
		t.Errorf("Expected 2 category totals, got %d", len(response.Categories))
	}
	if len(response.Transactions) != 3 {
		t.Errorf("Expected 3 transactions, got %d", len(response.Transactions))
	}
	if response.Period.From != "2024-01-01" || response.Period.To != "2024-01-31" {
		t.Errorf("Unexpected period: %+v", response.Period)
	}
}

func TestGenerateMonthly_DefaultPeriod(t *testing.T) {
	h, _, _ := newReportHandlerFixture()

	c, rec := newJSONContext(http.MethodPost, "/api/v1/reports/generate/monthly", `{}`)
	authenticate(c, uuid.New())

	if err := h.GenerateMonthly(c); err != nil {
		t.Fatalf("Handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response ReportPayloadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	now := time.Now().UTC()
	expectedFrom := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
	if response.Period.From != expectedFrom {
		t.Errorf("Expected default from %s, got %s", expectedFrom, response.Period.From)
	}
	if response.Period.To != now.Format("2006-01-02") {
		t.Errorf("Expected default to be today, got %s", response.Period.To)
	}
}

func TestGenerateMonthly_Unauthenticated(t *testing.T) {
	h, _, _ := newReportHandlerFixture()

	c, rec := newJSONContext(http.MethodPost, "/api/v1/reports/generate/monthly",
		`{"from":"2024-01-01","to":"2024-01-31"}`)

	if err := h.GenerateMonthly(c); err != nil {
		t.Fatalf("Handler returned error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestGenerateMonthly_InvalidPeriod(t *testing.T) {
	h, _, _ := newReportHandlerFixture()

	c, rec := newJSONContext(http.MethodPost, "/api/v1/reports/generate/monthly",
		`{"from":"January 1st","to":"2024-01-31"}`)
	authenticate(c, uuid.New())

	if err := h.GenerateMonthly(c); err != nil {
		t.Fatalf("Handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rec.Code)
	}

	var problem ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if problem.Type != ErrorTypeValidation {
		t.Errorf("Expected validation problem type, got %s", problem.Type)
	}
	if len(problem.Errors) != 1 || problem.Errors[0].Field != "from" {
		t.Errorf("Expected a field error on from, got %+v", problem.Errors)
	}
}

func TestGenerateMonthly_InvertedRange(t *testing.T) {
	h, _, _ := newReportHandlerFixture()

	c, rec := newJSONContext(http.MethodPost, "/api/v1/reports/generate/monthly",
		`{"from":"2024-02-01","to":"2024-01-01"}`)
	authenticate(c, uuid.New())

	if err := h.GenerateMonthly(c); err != nil {
		t.Fatalf("Handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestCreateReportEndpoint(t *testing.T) {
	h, _, _ := newReportHandlerFixture()

	c, rec := newJSONContext(http.MethodPost, "/api/v1/reports",
		`{"reportType":"monthly","periodFrom":"2024-01-01","periodTo":"2024-01-31"}`)
	authenticate(c, uuid.New())

	if err := h.CreateReport(c); err != nil {
		t.Fatalf("Handler returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var response ReportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response.ID == 0 {
		t.Error("Expected an assigned report ID")
	}
	if response.PeriodFrom != "2024-01-01" || response.PeriodTo != "2024-01-31" {
		t.Errorf("Unexpected period: %s..%s", response.PeriodFrom, response.PeriodTo)
	}
}

func TestCreateReportEndpoint_BlankType(t *testing.T) {
	h, _, _ := newReportHandlerFixture()

	c, rec := newJSONContext(http.MethodPost, "/api/v1/reports",
		`{"reportType":"  ","periodFrom":"2024-01-01","periodTo":"2024-01-31"}`)
	authenticate(c, uuid.New())

	if err := h.CreateReport(c); err != nil {
		t.Fatalf("Handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetReportsEndpoint(t *testing.T) {
	h, reportRepo, _ := newReportHandlerFixture()
	userID := uuid.New()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	reportRepo.AddReport(&domain.Report{
		ID: 1, UserID: userID, ReportType: "monthly",
		PeriodFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		PeriodTo:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		CreatedAt:  base,
	})
	reportRepo.AddReport(&domain.Report{
		ID: 2, UserID: userID, ReportType: "monthly",
		PeriodFrom: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		PeriodTo:   time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		CreatedAt:  base.Add(time.Hour),
	})

	c, rec := newJSONContext(http.MethodGet, "/api/v1/reports", "")
	authenticate(c, userID)

	if err := h.GetReports(c); err != nil {
		t.Fatalf("Handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response []ReportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(response) != 2 {
		t.Fatalf("Expected 2 reports, got %d", len(response))
	}
	if response[0].ID != 2 {
		t.Errorf("Expected newest report first, got ID %d", response[0].ID)
	}
}

func TestReloadReportEndpoint(t *testing.T) {
	h, reportRepo, transactionRepo := newReportHandlerFixture()
	userID := uuid.New()
	seedReportData(transactionRepo, userID)

	reportRepo.AddReport(&domain.Report{
		ID: 1, UserID: userID, ReportType: "monthly",
		PeriodFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		PeriodTo:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	})

	c, rec := newJSONContext(http.MethodGet, "/api/v1/reports/1/result", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	authenticate(c, userID)

	if err := h.ReloadReport(c); err != nil {
		t.Fatalf("Handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response ReportPayloadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response.Summary.Balance != "350.00" {
		t.Errorf("Expected balance 350.00, got %s", response.Summary.Balance)
	}
}

func TestReloadReportEndpoint_Forbidden(t *testing.T) {
	h, reportRepo, _ := newReportHandlerFixture()

	reportRepo.AddReport(&domain.Report{
		ID: 1, UserID: uuid.New(), ReportType: "monthly",
		PeriodFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		PeriodTo:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	})

	c, rec := newJSONContext(http.MethodGet, "/api/v1/reports/1/result", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	authenticate(c, uuid.New())

	if err := h.ReloadReport(c); err != nil {
		t.Fatalf("Handler returned error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", rec.Code)
	}
}

func TestReloadReportEndpoint_NotFound(t *testing.T) {
	h, _, _ := newReportHandlerFixture()

	c, rec := newJSONContext(http.MethodGet, "/api/v1/reports/42/result", "")
	c.SetParamNames("id")
	c.SetParamValues("42")
	authenticate(c, uuid.New())

	if err := h.ReloadReport(c); err != nil {
		t.Fatalf("Handler returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}
