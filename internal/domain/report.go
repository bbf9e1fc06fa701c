package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReportTypeMonthly is the only report type the generator currently produces.
// The field itself is a free string so new types can be added without a
// schema change.
const ReportTypeMonthly = "monthly"

// Report is a persisted pointer to a previously requested period. It never
// stores computed totals; reloading a report re-runs the aggregation against
// current transaction data for the stored range.
type Report struct {
	ID         int32     `json:"id"`
	UserID     uuid.UUID `json:"userId"`
	ReportType string    `json:"reportType"`
	PeriodFrom time.Time `json:"periodFrom"`
	PeriodTo   time.Time `json:"periodTo"`
	CreatedAt  time.Time `json:"createdAt"`
}

type ReportRepository interface {
	Insert(report *Report) (*Report, error)
	GetByID(id int32) (*Report, error)
	// GetAllByOwner returns the user's reports ordered newest-first.
	GetAllByOwner(userID uuid.UUID) ([]*Report, error)
}

// Period is an inclusive pair of calendar dates bounding a report.
type Period struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Summary holds the overall income/expense totals for a period.
type Summary struct {
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	Balance      decimal.Decimal `json:"balance"`
}

// CategoryTotal is the summed amount for one category within a period.
type CategoryTotal struct {
	CategoryID int32           `json:"categoryId"`
	Name       string          `json:"name"`
	Type       CategoryType    `json:"type"`
	Total      decimal.Decimal `json:"total"`
}

// Metrics holds descriptive statistics over a multiset of amounts. Mean,
// median and mode are exact decimals; variance and standard deviation are
// computed in floating point (sample variance, n-1 denominator).
type Metrics struct {
	Mean              decimal.Decimal `json:"mean"`
	Median            decimal.Decimal `json:"median"`
	Mode              decimal.Decimal `json:"mode"`
	Variance          float64         `json:"variance"`
	StandardDeviation float64         `json:"standardDeviation"`
}

// ClassStatistics holds the per-class metrics, one set for each category type.
type ClassStatistics struct {
	Income  Metrics `json:"income"`
	Expense Metrics `json:"expense"`
}

// CategoryStatistics holds the per-category metrics. Only median, mode and
// count are computed at category granularity.
type CategoryStatistics struct {
	CategoryID       int32           `json:"categoryId"`
	Name             string          `json:"name"`
	Type             CategoryType    `json:"type"`
	Median           decimal.Decimal `json:"median"`
	Mode             decimal.Decimal `json:"mode"`
	TransactionCount int             `json:"transactionCount"`
}

// ReportPayload is the full result of a report generation.
type ReportPayload struct {
	Period             Period               `json:"period"`
	Summary            Summary              `json:"summary"`
	Statistics         ClassStatistics      `json:"statistics"`
	Categories         []CategoryTotal      `json:"categories"`
	CategoryStatistics []CategoryStatistics `json:"categoryStatistics"`
	Transactions       []*Transaction       `json:"transactions"`
}
