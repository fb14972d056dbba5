package importer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spendings-app/spendings-backend/internal/clock"
	"github.com/spendings-app/spendings-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockExpenseRepository is a mock implementation of ExpenseRepository for testing
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Expense, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) Update(ctx context.Context, expense *domain.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockExpenseRepository) List(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]*domain.Expense, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) SumByUser(ctx context.Context, userID uuid.UUID, start, end time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, userID, start, end)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockExpenseRepository) SumByCategory(ctx context.Context, userID, categoryID uuid.UUID, from, to *time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, userID, categoryID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockExpenseRepository) FirstExpenseDate(ctx context.Context, userID uuid.UUID) (*time.Time, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

// MockCategoryRepository is a mock implementation of CategoryRepository for testing
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Category, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetByName(ctx context.Context, userID uuid.UUID, name string) (*domain.Category, error) {
	args := m.Called(ctx, userID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) List(ctx context.Context, userID uuid.UUID) ([]*domain.Category, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

var testNow = time.Date(2021, time.March, 15, 2, 0, 0, 0, time.UTC)

func newTestService() (*Service, *MockExpenseRepository, *MockCategoryRepository) {
	expenseRepo := new(MockExpenseRepository)
	categoryRepo := new(MockCategoryRepository)
	return NewService(expenseRepo, categoryRepo, clock.Fixed{T: testNow}), expenseRepo, categoryRepo
}

func TestImportExpenses_CreatesExpensesAndMissingCategories(t *testing.T) {
	ctx := context.Background()
	svc, expenseRepo, categoryRepo := newTestService()
	user := &domain.User{ID: uuid.New()}

	file := strings.Join([]string{
		"date,category,amount",
		"15/03/2021,Groceries,42.50",
		"5/03/2021,Groceries,7",
		"1/03/2021,Rent,800",
	}, "\n")

	categoryRepo.On("GetByName", ctx, user.ID, "Groceries").Return(nil, domain.ErrNotFound).Once()
	categoryRepo.On("GetByName", ctx, user.ID, "Rent").Return(nil, domain.ErrNotFound).Once()
	categoryRepo.On("Create", ctx, mock.MatchedBy(func(c *domain.Category) bool {
		return c.UserID == user.ID && (c.Name == "Groceries" || c.Name == "Rent")
	})).Return(nil).Twice()

	expenseRepo.On("Create", ctx, mock.MatchedBy(func(e *domain.Expense) bool {
		return e.UserID == user.ID && e.CategoryID != nil
	})).Return(nil).Times(3)

	results, err := svc.ImportExpenses(ctx, user, strings.NewReader(file))

	assert.NoError(t, err)
	assert.Len(t, results, 3)
	for _, line := range results {
		assert.Contains(t, line, "added expense")
	}
	// "Groceries" appears twice but is looked up and created only once.
	categoryRepo.AssertExpectations(t)
	expenseRepo.AssertExpectations(t)
}

func TestImportExpenses_ReusesExistingCategory(t *testing.T) {
	ctx := context.Background()
	svc, expenseRepo, categoryRepo := newTestService()
	user := &domain.User{ID: uuid.New()}

	existing := &domain.Category{ID: uuid.New(), UserID: user.ID, Name: "Groceries"}
	categoryRepo.On("GetByName", ctx, user.ID, "Groceries").Return(existing, nil).Once()

	expenseRepo.On("Create", ctx, mock.MatchedBy(func(e *domain.Expense) bool {
		return e.CategoryID != nil && *e.CategoryID == existing.ID &&
			e.Date.Equal(time.Date(2021, time.March, 15, 0, 0, 0, 0, time.UTC)) &&
			e.Amount.Equal(decimal.RequireFromString("42.50"))
	})).Return(nil).Once()

	results, err := svc.ImportExpenses(ctx, user,
		strings.NewReader("date,category,amount\n15/03/2021,Groceries,42.50\n"))

	assert.NoError(t, err)
	assert.Len(t, results, 1)
	categoryRepo.AssertNotCalled(t, "Create")
}

func TestImportExpenses_BadRowsDoNotAbort(t *testing.T) {
	ctx := context.Background()
	svc, expenseRepo, categoryRepo := newTestService()
	user := &domain.User{ID: uuid.New()}

	file := strings.Join([]string{
		"date,category,amount",
		"not-a-date,Groceries,10",
		"15/03/2021,Groceries,not-a-number",
		"15/03/2021,Groceries,25",
	}, "\n")

	categoryRepo.On("GetByName", ctx, user.ID, "Groceries").Return(nil, domain.ErrNotFound).Once()
	categoryRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
	expenseRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

	results, err := svc.ImportExpenses(ctx, user, strings.NewReader(file))

	assert.NoError(t, err)
	assert.Len(t, results, 3)
	assert.Contains(t, results[0], "row 1")
	assert.Contains(t, results[1], "row 2")
	assert.Contains(t, results[2], "added expense")
	expenseRepo.AssertExpectations(t)
}

func TestImportExpenses_EmptyFile(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	user := &domain.User{ID: uuid.New()}

	_, err := svc.ImportExpenses(ctx, user, strings.NewReader(""))

	assert.Error(t, err)
}
