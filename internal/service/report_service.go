package service

import (
	"strings"
	"time"

	"github.com/finbook/finbook-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReportService orchestrates report generation: it loads transactions for a
// period, runs the aggregation engine and manages persisted report pointers.
type ReportService struct {
	reportRepo      domain.ReportRepository
	transactionRepo domain.TransactionRepository
	aggregation     *AggregationService
}

// NewReportService creates a new ReportService
func NewReportService(reportRepo domain.ReportRepository, transactionRepo domain.TransactionRepository, aggregation *AggregationService) *ReportService {
	return &ReportService{
		reportRepo:      reportRepo,
		transactionRepo: transactionRepo,
		aggregation:     aggregation,
	}
}

// GenerateMonthlyReport builds the full report payload for the user's
// transactions within [from, to] inclusive. Read-only and idempotent: the
// same arguments against unchanged data yield identical output.
func (s *ReportService) GenerateMonthlyReport(userID uuid.UUID, from, to time.Time) (*domain.ReportPayload, error) {
	if from.After(to) {
		return nil, domain.ErrInvalidRange
	}

	transactions, err := s.transactionRepo.FindByOwnerInRange(userID, from, to)
	if err != nil {
		return nil, err
	}
	if transactions == nil {
		transactions = []*domain.Transaction{}
	}

	summary, err := s.aggregation.Summarize(transactions)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Report aggregation rejected input")
		return nil, err
	}
	categories, err := s.aggregation.GroupByCategory(transactions)
	if err != nil {
		return nil, err
	}
	statistics, err := s.aggregation.ComputeClassStatistics(transactions)
	if err != nil {
		return nil, err
	}
	categoryStats, err := s.aggregation.ComputeCategoryStatistics(transactions)
	if err != nil {
		return nil, err
	}

	return &domain.ReportPayload{
		Period:             domain.Period{From: from, To: to},
		Summary:            summary,
		Statistics:         statistics,
		Categories:         categories,
		CategoryStatistics: categoryStats,
		Transactions:       transactions,
	}, nil
}

// CreateReport persists a report pointer: the range descriptor only, stamped
// with the current time. Computed values are never snapshotted.
func (s *ReportService) CreateReport(userID uuid.UUID, reportType string, from, to time.Time) (*domain.Report, error) {
	if from.After(to) {
		return nil, domain.ErrInvalidRange
	}

	reportType = strings.TrimSpace(reportType)
	if reportType == "" || len(reportType) > domain.MaxReportTypeLength {
		return nil, domain.ErrInvalidReportType
	}

	return s.reportRepo.Insert(&domain.Report{
		UserID:     userID,
		ReportType: reportType,
		PeriodFrom: from,
		PeriodTo:   to,
		CreatedAt:  time.Now().UTC(),
	})
}

// GetReports returns the user's saved report pointers, newest first.
func (s *ReportService) GetReports(userID uuid.UUID) ([]*domain.Report, error) {
	return s.reportRepo.GetAllByOwner(userID)
}

// GetReport looks up a report pointer and verifies ownership.
func (s *ReportService) GetReport(userID uuid.UUID, id int32) (*domain.Report, error) {
	report, err := s.reportRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if report.UserID != userID {
		return nil, domain.ErrAccessDenied
	}
	return report, nil
}

// ReloadReport re-generates the payload for a stored range. The result
// reflects current transaction data, not a snapshot taken at save time, so a
// reloaded report drifts when transactions in its range are edited or
// deleted.
func (s *ReportService) ReloadReport(reportID int32, userID uuid.UUID) (*domain.ReportPayload, error) {
	report, err := s.GetReport(userID, reportID)
	if err != nil {
		return nil, err
	}
	return s.GenerateMonthlyReport(userID, report.PeriodFrom, report.PeriodTo)
}
