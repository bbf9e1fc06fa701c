package postgres

import (
	"context"
	"errors"

	"github.com/finbook/finbook-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReportRepository implements domain.ReportRepository using PostgreSQL.
// Reports are range pointers only; no computed values are stored.
type ReportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// Insert persists a report pointer
func (r *ReportRepository) Insert(report *domain.Report) (*domain.Report, error) {
	var from, to pgtype.Date
	from.Time = report.PeriodFrom
	from.Valid = true
	to.Time = report.PeriodTo
	to.Valid = true

	row := r.pool.QueryRow(context.Background(),
		`INSERT INTO reports (user_id, report_type, period_from, period_to, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, user_id, report_type, period_from, period_to, created_at`,
		report.UserID, report.ReportType, from, to, report.CreatedAt)
	return scanReport(row)
}

// GetByID retrieves a report pointer by ID. Ownership is checked by the
// service layer, not here.
func (r *ReportRepository) GetByID(id int32) (*domain.Report, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT id, user_id, report_type, period_from, period_to, created_at
		 FROM reports WHERE id = $1`, id)
	report, err := scanReport(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReportNotFound
		}
		return nil, err
	}
	return report, nil
}

// GetAllByOwner retrieves a user's report pointers, newest first
func (r *ReportRepository) GetAllByOwner(userID uuid.UUID) ([]*domain.Report, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT id, user_id, report_type, period_from, period_to, created_at
		 FROM reports WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := make([]*domain.Report, 0)
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

func scanReport(row pgx.Row) (*domain.Report, error) {
	var report domain.Report
	var from, to pgtype.Date
	if err := row.Scan(&report.ID, &report.UserID, &report.ReportType, &from, &to, &report.CreatedAt); err != nil {
		return nil, err
	}
	report.PeriodFrom = from.Time
	report.PeriodTo = to.Time
	return &report, nil
}
