package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spendings-app/spendings-backend/internal/clock"
	"github.com/spendings-app/spendings-backend/internal/domain"
	"github.com/spendings-app/spendings-backend/internal/usecase/aggregate"
	"github.com/spendings-app/spendings-backend/internal/usecase/timezone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockSummer is a mock implementation of Summer for testing
type MockSummer struct {
	mock.Mock
}

func (m *MockSummer) Sum(ctx context.Context, userID uuid.UUID, kind aggregate.Kind, start, end time.Time, opts aggregate.Options) (decimal.Decimal, error) {
	args := m.Called(ctx, userID, kind, start, end, opts)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockExpenseDates is a mock implementation of ExpenseDates for testing
type MockExpenseDates struct {
	mock.Mock
}

func (m *MockExpenseDates) FirstExpenseDate(ctx context.Context, userID uuid.UUID) (*time.Time, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

// testUser has no usable zone identifier, so every computation runs in
// the fixed UTC+10 fallback.
func testUser() *domain.User {
	return &domain.User{ID: uuid.New(), Email: "t@example.com", TimeZoneID: ""}
}

func newReportService(now time.Time) (*Service, *MockSummer, *MockExpenseDates) {
	summer := new(MockSummer)
	dates := new(MockExpenseDates)
	svc := NewService(summer, dates, timezone.NewResolver(), clock.Fixed{T: now})
	return svc, summer, dates
}

func utc(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func TestDaily_WindowsAndPercentage(t *testing.T) {
	ctx := context.Background()
	user := testUser()

	// 2021-03-15T02:00Z is 2021-03-15 12:00 local (UTC+10).
	svc, summer, _ := newReportService(utc(2021, time.March, 15, 2))

	curStart := utc(2021, time.March, 14, 14)
	curEnd := utc(2021, time.March, 15, 14)
	prevStart := utc(2021, time.March, 7, 14)
	prevEnd := utc(2021, time.March, 8, 14)

	summer.On("Sum", ctx, user.ID, aggregate.KindExpense, curStart, curEnd, aggregate.Options{}).
		Return(decimal.NewFromInt(30), nil)
	summer.On("Sum", ctx, user.ID, aggregate.KindExpense, prevStart, prevEnd, aggregate.Options{}).
		Return(decimal.NewFromInt(20), nil)

	got, err := svc.Daily(ctx, user)

	assert.NoError(t, err)
	assert.True(t, decimal.NewFromInt(30).Equal(got.Current))
	assert.True(t, decimal.NewFromInt(50).Equal(got.ChangePct), "got %s", got.ChangePct)
	summer.AssertExpectations(t)
}

func TestDaily_ZeroPriorPeriodMeansZeroChange(t *testing.T) {
	ctx := context.Background()
	user := testUser()
	svc, summer, _ := newReportService(utc(2021, time.March, 15, 2))

	summer.On("Sum", ctx, user.ID, aggregate.KindExpense,
		utc(2021, time.March, 14, 14), utc(2021, time.March, 15, 14), aggregate.Options{}).
		Return(decimal.NewFromInt(30), nil)
	summer.On("Sum", ctx, user.ID, aggregate.KindExpense,
		utc(2021, time.March, 7, 14), utc(2021, time.March, 8, 14), aggregate.Options{}).
		Return(decimal.Zero, nil)

	got, err := svc.Daily(ctx, user)

	assert.NoError(t, err)
	assert.True(t, got.ChangePct.IsZero())
}

func TestDaily_AggregationFailureSurfaces(t *testing.T) {
	ctx := context.Background()
	user := testUser()
	svc, summer, _ := newReportService(utc(2021, time.March, 15, 2))

	summer.On("Sum", ctx, user.ID, aggregate.KindExpense,
		mock.Anything, mock.Anything, aggregate.Options{}).
		Return(decimal.Zero, errors.New("storage unavailable"))

	_, err := svc.Daily(ctx, user)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "storage unavailable")
}

func TestWeekly_MidweekOffset(t *testing.T) {
	ctx := context.Background()
	user := testUser()

	// 2021-03-17 local is a Wednesday: offset to Monday is 2 days.
	svc, summer, _ := newReportService(utc(2021, time.March, 17, 2))

	today := utc(2021, time.March, 16, 14)

	summer.On("Sum", ctx, user.ID, aggregate.KindExpense,
		today.AddDate(0, 0, -2), today.AddDate(0, 0, 1), aggregate.Options{}).
		Return(decimal.NewFromInt(100), nil)
	summer.On("Sum", ctx, user.ID, aggregate.KindExpense,
		today.AddDate(0, 0, -9), today.AddDate(0, 0, -6), aggregate.Options{}).
		Return(decimal.NewFromInt(50), nil)

	got, err := svc.Weekly(ctx, user)

	assert.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(got.Current))
	assert.True(t, decimal.NewFromInt(100).Equal(got.ChangePct))
	summer.AssertExpectations(t)
}

func TestWeekly_SundayTieBreak(t *testing.T) {
	ctx := context.Background()
	user := testUser()

	// 2021-03-14 local is a Sunday: offset to Monday is 6 days, not -1.
	svc, summer, _ := newReportService(utc(2021, time.March, 14, 2))

	today := utc(2021, time.March, 13, 14)

	summer.On("Sum", ctx, user.ID, aggregate.KindExpense,
		today.AddDate(0, 0, -6), today.AddDate(0, 0, 1), aggregate.Options{}).
		Return(decimal.NewFromInt(70), nil)
	summer.On("Sum", ctx, user.ID, aggregate.KindExpense,
		today.AddDate(0, 0, -13), today.AddDate(0, 0, -6), aggregate.Options{}).
		Return(decimal.NewFromInt(70), nil)

	got, err := svc.Weekly(ctx, user)

	assert.NoError(t, err)
	assert.True(t, got.ChangePct.IsZero())
	summer.AssertExpectations(t)
}

func TestMonthly_ShiftsOneCalendarMonth(t *testing.T) {
	ctx := context.Background()
	user := testUser()

	// Local date 2021-03-15: month-to-date starts at March 1 local.
	svc, summer, _ := newReportService(utc(2021, time.March, 15, 2))

	curStart := utc(2021, time.February, 28, 14) // March 1 local
	curEnd := utc(2021, time.March, 15, 14)
	prevStart := utc(2021, time.January, 31, 14) // February 1 local
	prevEnd := utc(2021, time.February, 15, 14)

	summer.On("Sum", ctx, user.ID, aggregate.KindExpense, curStart, curEnd, aggregate.Options{}).
		Return(decimal.NewFromInt(120), nil)
	summer.On("Sum", ctx, user.ID, aggregate.KindExpense, prevStart, prevEnd, aggregate.Options{}).
		Return(decimal.NewFromInt(80), nil)

	got, err := svc.Monthly(ctx, user)

	assert.NoError(t, err)
	assert.True(t, decimal.NewFromInt(120).Equal(got.Current))
	assert.True(t, decimal.NewFromInt(50).Equal(got.ChangePct))
	summer.AssertExpectations(t)
}

func TestAddMonthsClamped(t *testing.T) {
	tests := []struct {
		name   string
		in     time.Time
		months int
		want   time.Time
	}{
		{
			"plain shift back",
			utc(2021, time.March, 15, 9),
			-1,
			utc(2021, time.February, 15, 9),
		},
		{
			"march 31 clamps to february 28",
			utc(2021, time.March, 31, 0),
			-1,
			utc(2021, time.February, 28, 0),
		},
		{
			"leap year clamps to february 29",
			utc(2020, time.March, 31, 0),
			-1,
			utc(2020, time.February, 29, 0),
		},
		{
			"october 31 clamps forward to november 30",
			utc(2021, time.October, 31, 0),
			1,
			utc(2021, time.November, 30, 0),
		},
		{
			"clock time preserved",
			time.Date(2021, time.May, 31, 14, 30, 45, 7, time.UTC),
			-1,
			time.Date(2021, time.April, 30, 14, 30, 45, 7, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, addMonthsClamped(tt.in, tt.months))
		})
	}
}

func TestPercentChange(t *testing.T) {
	tests := []struct {
		name     string
		current  int64
		previous int64
		want     string
	}{
		{"increase", 30, 20, "50"},
		{"decrease", 10, 20, "-50"},
		{"flat", 20, 20, "0"},
		{"zero previous", 30, 0, "0"},
		{"zero both", 0, 0, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := percentChange(decimal.NewFromInt(tt.current), decimal.NewFromInt(tt.previous))
			want, err := decimal.NewFromString(tt.want)
			assert.NoError(t, err)
			assert.True(t, want.Equal(got), "want %s got %s", want, got)
		})
	}
}
