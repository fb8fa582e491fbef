package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/prasanna-0103/dynamic-forms-backend/internal/model"
)

type CategoryRepository interface {
	CreateWithFields(ctx context.Context, name string, fields []model.DynamicField) (int64, error)
	List(ctx context.Context) ([]model.Category, error)
	ListFieldsByCategory(ctx context.Context, categoryID int64) ([]model.DynamicField, error)
	ListBasicFields(ctx context.Context) ([]model.BasicField, error)
}

type postgresCategoryRepository struct {
	db *sqlx.DB
}

func NewPostgresCategoryRepository(db *sqlx.DB) CategoryRepository {
	return &postgresCategoryRepository{db: db}
}

// CreateWithFields inserts the category row and all of its field definitions
// in one transaction. Either everything commits or nothing is visible.
func (r *postgresCategoryRepository) CreateWithFields(ctx context.Context, name string, fields []model.DynamicField) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, queryFailed(ctx, "BEGIN", nil, err)
	}

	categoryQuery := `INSERT INTO categories (name) VALUES ($1) RETURNING id`
	var categoryID int64
	if err := tx.QueryRowxContext(ctx, categoryQuery, name).Scan(&categoryID); err != nil {
		tx.Rollback()
		return 0, queryFailed(ctx, categoryQuery, []interface{}{name}, err)
	}

	fieldQuery := `
		INSERT INTO dynamic_fields (name, category_id, field_type, is_required)
		VALUES ($1, $2, $3, $4)
	`
	for _, field := range fields {
		args := []interface{}{field.Name, categoryID, field.FieldType, field.IsRequired}
		if _, err := tx.ExecContext(ctx, fieldQuery, args...); err != nil {
			tx.Rollback()
			return 0, queryFailed(ctx, fieldQuery, args, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, queryFailed(ctx, "COMMIT", nil, err)
	}

	return categoryID, nil
}

func (r *postgresCategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	query := `SELECT id, name FROM categories`
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, queryFailed(ctx, query, nil, err)
	}

	if categories == nil {
		categories = []model.Category{}
	}

	return categories, nil
}

func (r *postgresCategoryRepository) ListFieldsByCategory(ctx context.Context, categoryID int64) ([]model.DynamicField, error) {
	var fields []model.DynamicField
	query := `SELECT id, name, category_id, field_type, is_required FROM dynamic_fields WHERE category_id = $1`
	if err := r.db.SelectContext(ctx, &fields, query, categoryID); err != nil {
		return nil, queryFailed(ctx, query, []interface{}{categoryID}, err)
	}

	if fields == nil {
		fields = []model.DynamicField{}
	}

	return fields, nil
}

// ListBasicFields introspects the fixed columns of the users table through
// the database's own schema metadata rather than a hardcoded list.
func (r *postgresCategoryRepository) ListBasicFields(ctx context.Context) ([]model.BasicField, error) {
	var fields []model.BasicField
	query := `SELECT column_name, data_type FROM information_schema.columns WHERE table_name = 'users'`
	if err := r.db.SelectContext(ctx, &fields, query); err != nil {
		return nil, queryFailed(ctx, query, nil, err)
	}

	if fields == nil {
		fields = []model.BasicField{}
	}

	return fields, nil
}
