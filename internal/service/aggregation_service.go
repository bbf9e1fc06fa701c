package service

import (
	"fmt"
	"math"
	"sort"

	"github.com/finbook/finbook-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// AggregationService computes period summaries and descriptive statistics
// over a caller-supplied snapshot of transactions. It holds no state and
// never mutates its input, so concurrent use is safe.
type AggregationService struct{}

// NewAggregationService creates a new AggregationService
func NewAggregationService() *AggregationService {
	return &AggregationService{}
}

// checkIntegrity fails fast on transactions that violate the input contract:
// an unresolved category or a non-positive amount. These indicate an upstream
// data fault and are never silently skipped.
func checkIntegrity(transactions []*domain.Transaction) error {
	for _, tx := range transactions {
		if tx.Category == nil {
			return fmt.Errorf("transaction %d has no resolved category: %w", tx.ID, domain.ErrInvalidInput)
		}
		if !tx.Category.Type.Valid() {
			return fmt.Errorf("transaction %d has unknown category type %q: %w", tx.ID, tx.Category.Type, domain.ErrInvalidInput)
		}
		if tx.Amount.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("transaction %d has non-positive amount %s: %w", tx.ID, tx.Amount, domain.ErrInvalidInput)
		}
	}
	return nil
}

// Summarize computes the overall income/expense totals and balance.
// Empty input yields zero totals; the balance may be negative.
func (s *AggregationService) Summarize(transactions []*domain.Transaction) (domain.Summary, error) {
	if err := checkIntegrity(transactions); err != nil {
		return domain.Summary{}, err
	}

	totalIncome := decimal.Zero
	totalExpense := decimal.Zero
	for _, tx := range transactions {
		if tx.Category.Type == domain.CategoryTypeIncome {
			totalIncome = totalIncome.Add(tx.Amount)
		} else {
			totalExpense = totalExpense.Add(tx.Amount)
		}
	}

	return domain.Summary{
		TotalIncome:  totalIncome,
		TotalExpense: totalExpense,
		Balance:      totalIncome.Sub(totalExpense),
	}, nil
}

// GroupByCategory sums amounts per category. Grouping is keyed by category ID,
// never by display name, so two same-named categories stay distinct. Groups
// appear in order of first appearance in the input.
func (s *AggregationService) GroupByCategory(transactions []*domain.Transaction) ([]domain.CategoryTotal, error) {
	if err := checkIntegrity(transactions); err != nil {
		return nil, err
	}

	totals := make(map[int32]*domain.CategoryTotal)
	order := make([]int32, 0)

	for _, tx := range transactions {
		group, ok := totals[tx.Category.ID]
		if !ok {
			group = &domain.CategoryTotal{
				CategoryID: tx.Category.ID,
				Name:       tx.Category.Name,
				Type:       tx.Category.Type,
				Total:      decimal.Zero,
			}
			totals[tx.Category.ID] = group
			order = append(order, tx.Category.ID)
		}
		group.Total = group.Total.Add(tx.Amount)
	}

	result := make([]domain.CategoryTotal, 0, len(order))
	for _, id := range order {
		result = append(result, *totals[id])
	}
	return result, nil
}

// ComputeClassStatistics computes descriptive statistics over the income and
// expense amounts independently. An empty class degrades to all-zero metrics.
func (s *AggregationService) ComputeClassStatistics(transactions []*domain.Transaction) (domain.ClassStatistics, error) {
	if err := checkIntegrity(transactions); err != nil {
		return domain.ClassStatistics{}, err
	}

	var income, expense []decimal.Decimal
	for _, tx := range transactions {
		if tx.Category.Type == domain.CategoryTypeIncome {
			income = append(income, tx.Amount)
		} else {
			expense = append(expense, tx.Amount)
		}
	}

	return domain.ClassStatistics{
		Income:  computeMetrics(income),
		Expense: computeMetrics(expense),
	}, nil
}

// ComputeCategoryStatistics computes median, mode and transaction count per
// category. Variance and mean are deliberately not computed at this
// granularity. Grouping uses the same category-ID key as GroupByCategory.
func (s *AggregationService) ComputeCategoryStatistics(transactions []*domain.Transaction) ([]domain.CategoryStatistics, error) {
	if err := checkIntegrity(transactions); err != nil {
		return nil, err
	}

	amounts := make(map[int32][]decimal.Decimal)
	groups := make(map[int32]*domain.CategoryStatistics)
	order := make([]int32, 0)

	for _, tx := range transactions {
		if _, ok := groups[tx.Category.ID]; !ok {
			groups[tx.Category.ID] = &domain.CategoryStatistics{
				CategoryID: tx.Category.ID,
				Name:       tx.Category.Name,
				Type:       tx.Category.Type,
			}
			order = append(order, tx.Category.ID)
		}
		amounts[tx.Category.ID] = append(amounts[tx.Category.ID], tx.Amount)
	}

	result := make([]domain.CategoryStatistics, 0, len(order))
	for _, id := range order {
		stats := groups[id]
		stats.Median = median(amounts[id])
		stats.Mode = mode(amounts[id])
		stats.TransactionCount = len(amounts[id])
		result = append(result, *stats)
	}
	return result, nil
}

var two = decimal.NewFromInt(2)

// computeMetrics computes the full metric set over one class of amounts.
// Sums, mean, median and mode stay in exact decimal arithmetic; variance and
// standard deviation use floating point. Rounding happens only at the
// presentation boundary, never here.
func computeMetrics(amounts []decimal.Decimal) domain.Metrics {
	if len(amounts) == 0 {
		return domain.Metrics{
			Mean:   decimal.Zero,
			Median: decimal.Zero,
			Mode:   decimal.Zero,
		}
	}

	sum := decimal.Zero
	for _, a := range amounts {
		sum = sum.Add(a)
	}
	mean := sum.Div(decimal.NewFromInt(int64(len(amounts))))

	return domain.Metrics{
		Mean:              mean,
		Median:            median(amounts),
		Mode:              mode(amounts),
		Variance:          sampleVariance(amounts),
		StandardDeviation: math.Sqrt(sampleVariance(amounts)),
	}
}

// median returns the middle element of the sorted amounts, or the average of
// the two central elements for an even count. The input is not modified.
func median(amounts []decimal.Decimal) decimal.Decimal {
	if len(amounts) == 0 {
		return decimal.Zero
	}

	sorted := make([]decimal.Decimal, len(amounts))
	copy(sorted, amounts)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].LessThan(sorted[j])
	})

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return sorted[mid-1].Add(sorted[mid]).Div(two)
}

// mode returns the most frequent amount. On a frequency tie the winner is the
// first value, scanning in original input order, to attain the maximum
// frequency. The strict comparison below reproduces exactly that tie-break.
func mode(amounts []decimal.Decimal) decimal.Decimal {
	if len(amounts) == 0 {
		return decimal.Zero
	}

	counts := make(map[string]int, len(amounts))
	for _, a := range amounts {
		counts[a.String()]++
	}

	best := decimal.Zero
	bestCount := 0
	for _, a := range amounts {
		if c := counts[a.String()]; c > bestCount {
			best = a
			bestCount = c
		}
	}
	return best
}

// sampleVariance computes the n-1 denominator variance in floating point.
// Fewer than two samples yield 0, not NaN.
func sampleVariance(amounts []decimal.Decimal) float64 {
	n := len(amounts)
	if n <= 1 {
		return 0
	}

	var sum float64
	values := make([]float64, n)
	for i, a := range amounts {
		values[i] = a.InexactFloat64()
		sum += values[i]
	}
	mean := sum / float64(n)

	var sqDev float64
	for _, v := range values {
		diff := v - mean
		sqDev += diff * diff
	}
	return sqDev / float64(n-1)
}
