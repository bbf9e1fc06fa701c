package testutil

import (
	"sort"
	"time"

	"github.com/finbook/finbook-backend/internal/domain"
	"github.com/google/uuid"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	ByID    map[uuid.UUID]*domain.User
	ByEmail map[string]*domain.User
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		ByID:    make(map[uuid.UUID]*domain.User),
		ByEmail: make(map[string]*domain.User),
	}
}

// Create creates a new user
func (m *MockUserRepository) Create(user *domain.User) (*domain.User, error) {
	user.ID = uuid.New()
	user.CreatedAt = time.Now().UTC()
	m.ByID[user.ID] = user
	m.ByEmail[user.Email] = user
	return user, nil
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByEmail retrieves a user by email
func (m *MockUserRepository) GetByEmail(email string) (*domain.User, error) {
	if user, ok := m.ByEmail[email]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.ByID[user.ID] = user
	m.ByEmail[user.Email] = user
}

// MockCategoryRepository is a mock implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	Categories        map[int32]*domain.Category
	NextID            int32
	HasTransactionsFn func(userID uuid.UUID, id int32) (bool, error)
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories: make(map[int32]*domain.Category),
		NextID:     1,
	}
}

// Create creates a new category
func (m *MockCategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	category.ID = m.NextID
	m.NextID++
	m.Categories[category.ID] = category
	return category, nil
}

// GetByID retrieves a category by ID
func (m *MockCategoryRepository) GetByID(userID uuid.UUID, id int32) (*domain.Category, error) {
	if category, ok := m.Categories[id]; ok && category.UserID == userID {
		return category, nil
	}
	return nil, domain.ErrCategoryNotFound
}

// GetByName retrieves a category by name
func (m *MockCategoryRepository) GetByName(userID uuid.UUID, name string) (*domain.Category, error) {
	for _, category := range m.Categories {
		if category.UserID == userID && category.Name == name {
			return category, nil
		}
	}
	return nil, domain.ErrCategoryNotFound
}

// GetAllByUser retrieves all of a user's categories
func (m *MockCategoryRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Category, error) {
	result := make([]*domain.Category, 0)
	for _, category := range m.Categories {
		if category.UserID == userID {
			result = append(result, category)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// GetByUserAndType retrieves a user's categories of one type
func (m *MockCategoryRepository) GetByUserAndType(userID uuid.UUID, categoryType domain.CategoryType) ([]*domain.Category, error) {
	result := make([]*domain.Category, 0)
	for _, category := range m.Categories {
		if category.UserID == userID && category.Type == categoryType {
			result = append(result, category)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// Update renames or retypes a category
func (m *MockCategoryRepository) Update(userID uuid.UUID, id int32, name string, categoryType domain.CategoryType) (*domain.Category, error) {
	category, ok := m.Categories[id]
	if !ok || category.UserID != userID {
		return nil, domain.ErrCategoryNotFound
	}
	category.Name = name
	category.Type = categoryType
	return category, nil
}

// Delete removes a category
func (m *MockCategoryRepository) Delete(userID uuid.UUID, id int32) error {
	category, ok := m.Categories[id]
	if !ok || category.UserID != userID {
		return domain.ErrCategoryNotFound
	}
	delete(m.Categories, id)
	return nil
}

// HasTransactions reports whether the category is referenced by transactions
func (m *MockCategoryRepository) HasTransactions(userID uuid.UUID, id int32) (bool, error) {
	if m.HasTransactionsFn != nil {
		return m.HasTransactionsFn(userID, id)
	}
	return false, nil
}

// AddCategory adds a category to the mock repository (helper for tests)
func (m *MockCategoryRepository) AddCategory(category *domain.Category) {
	if category.ID >= m.NextID {
		m.NextID = category.ID + 1
	}
	m.Categories[category.ID] = category
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions map[int32]*domain.Transaction
	Categories   map[int32]*domain.Category
	NextID       int32
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[int32]*domain.Transaction),
		Categories:   make(map[int32]*domain.Category),
		NextID:       1,
	}
}

// AddCategory registers a category for resolution on reads
func (m *MockTransactionRepository) AddCategory(category *domain.Category) {
	m.Categories[category.ID] = category
}

// AddTransaction adds a transaction to the mock repository (helper for tests)
func (m *MockTransactionRepository) AddTransaction(transaction *domain.Transaction) {
	if transaction.ID == 0 {
		transaction.ID = m.NextID
	}
	if transaction.ID >= m.NextID {
		m.NextID = transaction.ID + 1
	}
	m.Transactions[transaction.ID] = transaction
}

// Create creates a new transaction
func (m *MockTransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	transaction.ID = m.NextID
	m.NextID++
	m.Transactions[transaction.ID] = transaction
	return m.resolve(transaction), nil
}

// GetByID retrieves a transaction by ID
func (m *MockTransactionRepository) GetByID(userID uuid.UUID, id int32) (*domain.Transaction, error) {
	if transaction, ok := m.Transactions[id]; ok && transaction.UserID == userID {
		return m.resolve(transaction), nil
	}
	return nil, domain.ErrTransactionNotFound
}

// GetByUser retrieves a user's transactions with filters and pagination
func (m *MockTransactionRepository) GetByUser(userID uuid.UUID, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	matched := make([]*domain.Transaction, 0)
	for _, transaction := range m.sorted() {
		if transaction.UserID != userID {
			continue
		}
		resolved := m.resolve(transaction)
		if filters != nil {
			if filters.StartDate != nil && resolved.Date.Before(*filters.StartDate) {
				continue
			}
			if filters.EndDate != nil && resolved.Date.After(*filters.EndDate) {
				continue
			}
			if filters.Type != nil && (resolved.Category == nil || resolved.Category.Type != *filters.Type) {
				continue
			}
		}
		matched = append(matched, resolved)
	}

	// Newest first, like the real repository
	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date) {
			return matched[i].Date.After(matched[j].Date)
		}
		return matched[i].ID > matched[j].ID
	})

	page := int32(1)
	pageSize := int32(domain.DefaultPageSize)
	if filters != nil {
		if filters.Page > 0 {
			page = filters.Page
		}
		if filters.PageSize > 0 {
			pageSize = filters.PageSize
			if pageSize > domain.MaxPageSize {
				pageSize = domain.MaxPageSize
			}
		}
	}

	totalItems := int64(len(matched))
	totalPages := int32(totalItems / int64(pageSize))
	if totalItems%int64(pageSize) > 0 {
		totalPages++
	}

	start := int((page - 1) * pageSize)
	if start > len(matched) {
		start = len(matched)
	}
	end := start + int(pageSize)
	if end > len(matched) {
		end = len(matched)
	}

	return &domain.PaginatedTransactions{
		Data:       matched[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}, nil
}

// FindByOwnerInRange returns transactions dated within [from, to] inclusive
func (m *MockTransactionRepository) FindByOwnerInRange(userID uuid.UUID, from, to time.Time) ([]*domain.Transaction, error) {
	result := make([]*domain.Transaction, 0)
	for _, transaction := range m.sorted() {
		if transaction.UserID != userID {
			continue
		}
		if transaction.Date.Before(from) || transaction.Date.After(to) {
			continue
		}
		result = append(result, m.resolve(transaction))
	}
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Update applies the given data to an existing transaction
func (m *MockTransactionRepository) Update(userID uuid.UUID, id int32, data *domain.UpdateTransactionData) (*domain.Transaction, error) {
	transaction, ok := m.Transactions[id]
	if !ok || transaction.UserID != userID {
		return nil, domain.ErrTransactionNotFound
	}
	transaction.CategoryID = data.CategoryID
	transaction.Amount = data.Amount
	transaction.Date = data.Date
	transaction.Comment = data.Comment
	transaction.Category = nil
	return m.resolve(transaction), nil
}

// Delete removes a transaction
func (m *MockTransactionRepository) Delete(userID uuid.UUID, id int32) error {
	transaction, ok := m.Transactions[id]
	if !ok || transaction.UserID != userID {
		return domain.ErrTransactionNotFound
	}
	delete(m.Transactions, id)
	return nil
}

// resolve attaches the category, mirroring the real repository's join
func (m *MockTransactionRepository) resolve(transaction *domain.Transaction) *domain.Transaction {
	if transaction.Category == nil {
		transaction.Category = m.Categories[transaction.CategoryID]
	}
	return transaction
}

func (m *MockTransactionRepository) sorted() []*domain.Transaction {
	result := make([]*domain.Transaction, 0, len(m.Transactions))
	for _, transaction := range m.Transactions {
		result = append(result, transaction)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// MockReportRepository is a mock implementation of domain.ReportRepository
type MockReportRepository struct {
	Reports map[int32]*domain.Report
	NextID  int32
}

// NewMockReportRepository creates a new MockReportRepository
func NewMockReportRepository() *MockReportRepository {
	return &MockReportRepository{
		Reports: make(map[int32]*domain.Report),
		NextID:  1,
	}
}

// Insert persists a report pointer
func (m *MockReportRepository) Insert(report *domain.Report) (*domain.Report, error) {
	report.ID = m.NextID
	m.NextID++
	m.Reports[report.ID] = report
	return report, nil
}

// GetByID retrieves a report pointer by ID
func (m *MockReportRepository) GetByID(id int32) (*domain.Report, error) {
	if report, ok := m.Reports[id]; ok {
		return report, nil
	}
	return nil, domain.ErrReportNotFound
}

// GetAllByOwner retrieves a user's report pointers, newest first
func (m *MockReportRepository) GetAllByOwner(userID uuid.UUID) ([]*domain.Report, error) {
	result := make([]*domain.Report, 0)
	for _, report := range m.Reports {
		if report.UserID == userID {
			result = append(result, report)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

// AddReport adds a report to the mock repository (helper for tests)
func (m *MockReportRepository) AddReport(report *domain.Report) {
	if report.ID >= m.NextID {
		m.NextID = report.ID + 1
	}
	m.Reports[report.ID] = report
}
