// Package importer loads expenses from uploaded CSV files. Rows are
// independent: a malformed row produces an error line in the result,
// never an aborted import.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spendings-app/spendings-backend/internal/clock"
	"github.com/spendings-app/spendings-backend/internal/domain"
)

// dateLayout matches d/MM/yyyy exports (e.g. "5/03/2021", "15/03/2021").
const dateLayout = "2/01/2006"

// Service handles CSV expense imports
type Service struct {
	ExpenseRepo  domain.ExpenseRepository
	CategoryRepo domain.CategoryRepository
	Clock        clock.Clock
}

// NewService creates a new importer Service instance
func NewService(expenseRepo domain.ExpenseRepository, categoryRepo domain.CategoryRepository, clk clock.Clock) *Service {
	return &Service{
		ExpenseRepo:  expenseRepo,
		CategoryRepo: categoryRepo,
		Clock:        clk,
	}
}

// ImportExpenses reads `date,category,amount` rows (header required)
// and creates one expense per valid row, creating missing categories
// on first use. It returns one result line per data row.
func (s *Service) ImportExpenses(ctx context.Context, user *domain.User, r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	// Categories created or fetched during this import, by name, so a
	// repeated name never creates a duplicate.
	categories := make(map[string]*domain.Category)

	var results []string
	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			results = append(results, fmt.Sprintf("row %d: %v", row, err))
			continue
		}

		expense, categoryName, err := s.importRow(ctx, user, record, categories)
		if err != nil {
			results = append(results, fmt.Sprintf("row %d: %v", row, err))
			continue
		}
		results = append(results, fmt.Sprintf("added expense %s to category %s", expense.ID, categoryName))
	}

	return results, nil
}

func (s *Service) importRow(ctx context.Context, user *domain.User, record []string, categories map[string]*domain.Category) (*domain.Expense, string, error) {
	if len(record) != 3 {
		return nil, "", fmt.Errorf("expected 3 fields, got %d", len(record))
	}

	date, err := time.ParseInLocation(dateLayout, record[0], time.UTC)
	if err != nil {
		return nil, "", fmt.Errorf("parse date %q: %w", record[0], err)
	}

	amount, err := decimal.NewFromString(record[2])
	if err != nil {
		return nil, "", fmt.Errorf("parse amount %q: %w", record[2], err)
	}

	category, err := s.getOrCreateCategory(ctx, user, record[1], categories)
	if err != nil {
		return nil, "", err
	}

	expense := &domain.Expense{
		ID:         uuid.New(),
		UserID:     user.ID,
		CategoryID: &category.ID,
		Amount:     amount,
		Date:       date,
	}
	if err := s.ExpenseRepo.Create(ctx, expense); err != nil {
		return nil, "", fmt.Errorf("create expense: %w", err)
	}

	return expense, category.Name, nil
}

func (s *Service) getOrCreateCategory(ctx context.Context, user *domain.User, name string, cache map[string]*domain.Category) (*domain.Category, error) {
	if name == "" {
		return nil, errors.New("category name is empty")
	}
	if c, ok := cache[name]; ok {
		return c, nil
	}

	c, err := s.CategoryRepo.GetByName(ctx, user.ID, name)
	if errors.Is(err, domain.ErrNotFound) {
		c = &domain.Category{
			ID:        uuid.New(),
			UserID:    user.ID,
			Name:      name,
			DateAdded: s.Clock.Now().UTC(),
		}
		if err := s.CategoryRepo.Create(ctx, c); err != nil {
			return nil, fmt.Errorf("create category %q: %w", name, err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("look up category %q: %w", name, err)
	}

	cache[name] = c
	return c, nil
}
