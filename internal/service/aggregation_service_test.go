package service

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/finbook/finbook-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var testUserID = uuid.New()

func incomeCategory(id int32, name string) *domain.Category {
	return &domain.Category{ID: id, UserID: testUserID, Name: name, Type: domain.CategoryTypeIncome}
}

func expenseCategory(id int32, name string) *domain.Category {
	return &domain.Category{ID: id, UserID: testUserID, Name: name, Type: domain.CategoryTypeExpense}
}

func makeTransaction(id int32, category *domain.Category, amount float64) *domain.Transaction {
	return &domain.Transaction{
		ID:         id,
		UserID:     testUserID,
		CategoryID: category.ID,
		Amount:     decimal.NewFromFloat(amount),
		Date:       time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Category:   category,
	}
}

func TestSummarize_Scenario(t *testing.T) {
	aggregation := NewAggregationService()
	salary := incomeCategory(1, "Salary")
	food := expenseCategory(2, "Food")

	transactions := []*domain.Transaction{
		makeTransaction(1, salary, 100),
		makeTransaction(2, salary, 300),
		makeTransaction(3, food, 50),
	}

	summary, err := aggregation.Summarize(transactions)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !summary.TotalIncome.Equal(decimal.NewFromInt(400)) {
		t.Errorf("Expected total income 400, got %s", summary.TotalIncome)
	}
	if !summary.TotalExpense.Equal(decimal.NewFromInt(50)) {
		t.Errorf("Expected total expense 50, got %s", summary.TotalExpense)
	}
	if !summary.Balance.Equal(decimal.NewFromInt(350)) {
		t.Errorf("Expected balance 350, got %s", summary.Balance)
	}
}

func TestSummarize_BalanceIdentity(t *testing.T) {
	aggregation := NewAggregationService()
	salary := incomeCategory(1, "Salary")
	rent := expenseCategory(2, "Rent")

	transactions := []*domain.Transaction{
		makeTransaction(1, salary, 123.45),
		makeTransaction(2, rent, 678.90),
		makeTransaction(3, rent, 0.01),
	}

	summary, err := aggregation.Summarize(transactions)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !summary.Balance.Equal(summary.TotalIncome.Sub(summary.TotalExpense)) {
		t.Errorf("Balance %s does not equal income %s minus expense %s",
			summary.Balance, summary.TotalIncome, summary.TotalExpense)
	}

	// More expense than income: the balance goes negative
	if !summary.Balance.IsNegative() {
		t.Errorf("Expected negative balance, got %s", summary.Balance)
	}
}

func TestSummarize_Empty(t *testing.T) {
	aggregation := NewAggregationService()

	summary, err := aggregation.Summarize(nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !summary.TotalIncome.IsZero() || !summary.TotalExpense.IsZero() || !summary.Balance.IsZero() {
		t.Errorf("Expected all-zero summary, got %+v", summary)
	}
}

func TestSummarize_MissingCategory(t *testing.T) {
	aggregation := NewAggregationService()

	transactions := []*domain.Transaction{
		{ID: 7, UserID: testUserID, Amount: decimal.NewFromInt(10)},
	}

	_, err := aggregation.Summarize(transactions)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestSummarize_NonPositiveAmount(t *testing.T) {
	aggregation := NewAggregationService()
	salary := incomeCategory(1, "Salary")

	transactions := []*domain.Transaction{
		{ID: 8, UserID: testUserID, CategoryID: 1, Amount: decimal.Zero, Category: salary},
	}

	_, err := aggregation.Summarize(transactions)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestGroupByCategory_TotalsAndOrder(t *testing.T) {
	aggregation := NewAggregationService()
	salary := incomeCategory(1, "Salary")
	food := expenseCategory(2, "Food")
	travel := expenseCategory(3, "Travel")

	transactions := []*domain.Transaction{
		makeTransaction(1, food, 20),
		makeTransaction(2, salary, 1000),
		makeTransaction(3, food, 30),
		makeTransaction(4, travel, 15),
	}

	groups, err := aggregation.GroupByCategory(transactions)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(groups) != 3 {
		t.Fatalf("Expected 3 groups, got %d", len(groups))
	}

	// First appearance order: Food, Salary, Travel
	if groups[0].Name != "Food" || groups[1].Name != "Salary" || groups[2].Name != "Travel" {
		t.Errorf("Unexpected group order: %s, %s, %s", groups[0].Name, groups[1].Name, groups[2].Name)
	}
	if !groups[0].Total.Equal(decimal.NewFromInt(50)) {
		t.Errorf("Expected Food total 50, got %s", groups[0].Total)
	}
	if groups[0].Type != domain.CategoryTypeExpense {
		t.Errorf("Expected Food type expense, got %s", groups[0].Type)
	}
}

func TestGroupByCategory_SameNameDistinctIDs(t *testing.T) {
	aggregation := NewAggregationService()
	// Same display name, different identities: must stay separate groups
	first := expenseCategory(1, "Misc")
	second := expenseCategory(2, "Misc")

	transactions := []*domain.Transaction{
		makeTransaction(1, first, 10),
		makeTransaction(2, second, 20),
	}

	groups, err := aggregation.GroupByCategory(transactions)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(groups) != 2 {
		t.Fatalf("Expected 2 groups for same-named categories, got %d", len(groups))
	}
	if !groups[0].Total.Equal(decimal.NewFromInt(10)) || !groups[1].Total.Equal(decimal.NewFromInt(20)) {
		t.Errorf("Expected totals 10 and 20, got %s and %s", groups[0].Total, groups[1].Total)
	}
}

func TestGroupByCategory_RoundTripWithSummary(t *testing.T) {
	aggregation := NewAggregationService()
	salary := incomeCategory(1, "Salary")
	bonus := incomeCategory(2, "Bonus")
	food := expenseCategory(3, "Food")

	transactions := []*domain.Transaction{
		makeTransaction(1, salary, 1200.50),
		makeTransaction(2, bonus, 300.25),
		makeTransaction(3, food, 78.99),
		makeTransaction(4, salary, 1200.50),
	}

	summary, err := aggregation.Summarize(transactions)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	groups, err := aggregation.GroupByCategory(transactions)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	incomeSum := decimal.Zero
	expenseSum := decimal.Zero
	for _, group := range groups {
		if group.Type == domain.CategoryTypeIncome {
			incomeSum = incomeSum.Add(group.Total)
		} else {
			expenseSum = expenseSum.Add(group.Total)
		}
	}

	if !incomeSum.Equal(summary.TotalIncome) {
		t.Errorf("Income group totals %s do not match summary income %s", incomeSum, summary.TotalIncome)
	}
	if !expenseSum.Equal(summary.TotalExpense) {
		t.Errorf("Expense group totals %s do not match summary expense %s", expenseSum, summary.TotalExpense)
	}
}

func TestComputeClassStatistics_Scenario(t *testing.T) {
	aggregation := NewAggregationService()
	salary := incomeCategory(1, "Salary")
	food := expenseCategory(2, "Food")

	transactions := []*domain.Transaction{
		makeTransaction(1, salary, 100),
		makeTransaction(2, salary, 300),
		makeTransaction(3, food, 50),
	}

	stats, err := aggregation.ComputeClassStatistics(transactions)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !stats.Income.Mean.Equal(decimal.NewFromInt(200)) {
		t.Errorf("Expected income mean 200, got %s", stats.Income.Mean)
	}
	// Even count: median is the average of the two central elements
	if !stats.Income.Median.Equal(decimal.NewFromInt(200)) {
		t.Errorf("Expected income median 200, got %s", stats.Income.Median)
	}
	if stats.Income.Variance != 20000 {
		t.Errorf("Expected income variance 20000, got %f", stats.Income.Variance)
	}
	if math.Abs(stats.Income.StandardDeviation-math.Sqrt(20000)) > 1e-9 {
		t.Errorf("Expected income stddev sqrt(20000), got %f", stats.Income.StandardDeviation)
	}

	fifty := decimal.NewFromInt(50)
	if !stats.Expense.Mean.Equal(fifty) || !stats.Expense.Median.Equal(fifty) || !stats.Expense.Mode.Equal(fifty) {
		t.Errorf("Expected expense mean/median/mode 50, got %s/%s/%s",
			stats.Expense.Mean, stats.Expense.Median, stats.Expense.Mode)
	}
	if stats.Expense.Variance != 0 || stats.Expense.StandardDeviation != 0 {
		t.Errorf("Expected zero variance for a single expense, got %f/%f",
			stats.Expense.Variance, stats.Expense.StandardDeviation)
	}
}

func TestComputeClassStatistics_Empty(t *testing.T) {
	aggregation := NewAggregationService()

	stats, err := aggregation.ComputeClassStatistics(nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	for name, metrics := range map[string]domain.Metrics{"income": stats.Income, "expense": stats.Expense} {
		if !metrics.Mean.IsZero() || !metrics.Median.IsZero() || !metrics.Mode.IsZero() {
			t.Errorf("Expected zero %s decimal metrics, got %+v", name, metrics)
		}
		if metrics.Variance != 0 || metrics.StandardDeviation != 0 {
			t.Errorf("Expected zero %s variance metrics, got %+v", name, metrics)
		}
	}
}

func TestComputeClassStatistics_SingleTransaction(t *testing.T) {
	aggregation := NewAggregationService()
	salary := incomeCategory(1, "Salary")

	stats, err := aggregation.ComputeClassStatistics([]*domain.Transaction{
		makeTransaction(1, salary, 99.99),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if stats.Income.Variance != 0 {
		t.Errorf("Expected variance 0 for one sample, got %f", stats.Income.Variance)
	}
	if stats.Income.StandardDeviation != 0 {
		t.Errorf("Expected stddev 0 for one sample, got %f", stats.Income.StandardDeviation)
	}
	if !stats.Income.Mean.Equal(decimal.NewFromFloat(99.99)) {
		t.Errorf("Expected mean 99.99, got %s", stats.Income.Mean)
	}
}

func TestComputeClassStatistics_OddCountMedian(t *testing.T) {
	aggregation := NewAggregationService()
	food := expenseCategory(1, "Food")

	stats, err := aggregation.ComputeClassStatistics([]*domain.Transaction{
		makeTransaction(1, food, 30),
		makeTransaction(2, food, 10),
		makeTransaction(3, food, 20),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !stats.Expense.Median.Equal(decimal.NewFromInt(20)) {
		t.Errorf("Expected median 20, got %s", stats.Expense.Median)
	}
}

func TestComputeClassStatistics_ModeTieBreak(t *testing.T) {
	aggregation := NewAggregationService()
	food := expenseCategory(1, "Food")

	// Both values reach frequency 2; the first to attain the maximum while
	// scanning original input order wins.
	stats, err := aggregation.ComputeClassStatistics([]*domain.Transaction{
		makeTransaction(1, food, 10),
		makeTransaction(2, food, 20),
		makeTransaction(3, food, 10),
		makeTransaction(4, food, 20),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !stats.Expense.Mode.Equal(decimal.NewFromInt(10)) {
		t.Errorf("Expected mode 10, got %s", stats.Expense.Mode)
	}

	// Reversed first appearance flips the winner
	stats, err = aggregation.ComputeClassStatistics([]*domain.Transaction{
		makeTransaction(1, food, 20),
		makeTransaction(2, food, 10),
		makeTransaction(3, food, 20),
		makeTransaction(4, food, 10),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !stats.Expense.Mode.Equal(decimal.NewFromInt(20)) {
		t.Errorf("Expected mode 20, got %s", stats.Expense.Mode)
	}
}

func TestComputeClassStatistics_ModeMostFrequent(t *testing.T) {
	aggregation := NewAggregationService()
	food := expenseCategory(1, "Food")

	stats, err := aggregation.ComputeClassStatistics([]*domain.Transaction{
		makeTransaction(1, food, 5),
		makeTransaction(2, food, 7),
		makeTransaction(3, food, 7),
		makeTransaction(4, food, 7),
		makeTransaction(5, food, 5),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !stats.Expense.Mode.Equal(decimal.NewFromInt(7)) {
		t.Errorf("Expected mode 7, got %s", stats.Expense.Mode)
	}
}

func TestComputeClassStatistics_OrderInvariance(t *testing.T) {
	aggregation := NewAggregationService()
	salary := incomeCategory(1, "Salary")

	amounts := []float64{10.50, 99.99, 42, 17.25, 42}
	permutations := [][]int{
		{0, 1, 2, 3, 4},
		{4, 3, 2, 1, 0},
		{2, 0, 4, 1, 3},
	}

	var baseline domain.Metrics
	for i, perm := range permutations {
		transactions := make([]*domain.Transaction, len(perm))
		for j, idx := range perm {
			transactions[j] = makeTransaction(int32(j+1), salary, amounts[idx])
		}

		stats, err := aggregation.ComputeClassStatistics(transactions)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if i == 0 {
			baseline = stats.Income
			continue
		}

		if !stats.Income.Mean.Equal(baseline.Mean) {
			t.Errorf("Mean changed under reordering: %s vs %s", stats.Income.Mean, baseline.Mean)
		}
		if !stats.Income.Median.Equal(baseline.Median) {
			t.Errorf("Median changed under reordering: %s vs %s", stats.Income.Median, baseline.Median)
		}
		if math.Abs(stats.Income.Variance-baseline.Variance) > 1e-9 {
			t.Errorf("Variance changed under reordering: %f vs %f", stats.Income.Variance, baseline.Variance)
		}
	}
}

func TestComputeCategoryStatistics(t *testing.T) {
	aggregation := NewAggregationService()
	salary := incomeCategory(1, "Salary")
	food := expenseCategory(2, "Food")

	transactions := []*domain.Transaction{
		makeTransaction(1, food, 10),
		makeTransaction(2, food, 30),
		makeTransaction(3, food, 10),
		makeTransaction(4, salary, 500),
	}

	stats, err := aggregation.ComputeCategoryStatistics(transactions)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(stats) != 2 {
		t.Fatalf("Expected 2 category groups, got %d", len(stats))
	}

	food0 := stats[0]
	if food0.Name != "Food" {
		t.Fatalf("Expected Food first (insertion order), got %s", food0.Name)
	}
	if food0.TransactionCount != 3 {
		t.Errorf("Expected 3 Food transactions, got %d", food0.TransactionCount)
	}
	if !food0.Median.Equal(decimal.NewFromInt(10)) {
		t.Errorf("Expected Food median 10, got %s", food0.Median)
	}
	if !food0.Mode.Equal(decimal.NewFromInt(10)) {
		t.Errorf("Expected Food mode 10, got %s", food0.Mode)
	}

	salary1 := stats[1]
	if salary1.TransactionCount != 1 {
		t.Errorf("Expected 1 Salary transaction, got %d", salary1.TransactionCount)
	}
	if !salary1.Median.Equal(decimal.NewFromInt(500)) || !salary1.Mode.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Expected Salary median/mode 500, got %s/%s", salary1.Median, salary1.Mode)
	}
}

func TestComputeCategoryStatistics_Empty(t *testing.T) {
	aggregation := NewAggregationService()

	stats, err := aggregation.ComputeCategoryStatistics(nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(stats) != 0 {
		t.Errorf("Expected no groups, got %d", len(stats))
	}
}
