package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/spendings-app/spendings-backend/internal/domain"
)

// categoryRepository implements domain.CategoryRepository
type categoryRepository struct {
	db *DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *DB) domain.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	query := `
		INSERT INTO categories (id, user_id, name, date_added)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query,
		category.ID,
		category.UserID,
		category.Name,
		category.DateAdded,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateCategory
		}
		return fmt.Errorf("failed to insert category: %w", err)
	}
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Category, error) {
	query := `
		SELECT id, user_id, name, date_added
		FROM categories
		WHERE user_id = $1 AND id = $2
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, userID, id))
}

func (r *categoryRepository) GetByName(ctx context.Context, userID uuid.UUID, name string) (*domain.Category, error) {
	query := `
		SELECT id, user_id, name, date_added
		FROM categories
		WHERE user_id = $1 AND name = $2
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, userID, name))
}

func (r *categoryRepository) scanOne(row rowScanner) (*domain.Category, error) {
	var category domain.Category
	err := row.Scan(&category.ID, &category.UserID, &category.Name, &category.DateAdded)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context, userID uuid.UUID) ([]*domain.Category, error) {
	query := `
		SELECT id, user_id, name, date_added
		FROM categories
		WHERE user_id = $1
		ORDER BY name ASC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.UserID, &category.Name, &category.DateAdded); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, &category)
	}
	return categories, rows.Err()
}

func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	query := `
		UPDATE categories
		SET name = $3
		WHERE user_id = $1 AND id = $2
	`
	res, err := r.db.ExecContext(ctx, query, category.UserID, category.ID, category.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateCategory
		}
		return fmt.Errorf("failed to update category: %w", err)
	}
	return requireRow(res)
}

// Delete removes a category. Expenses referencing it keep existing with
// a null category, per the schema's ON DELETE SET NULL.
func (r *categoryRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return requireRow(res)
}
