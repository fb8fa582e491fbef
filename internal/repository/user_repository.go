package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/prasanna-0103/dynamic-forms-backend/internal/model"
)

// SearchFilter carries the optional search parameters as they arrived on the
// query string. Empty values mean the attribute is not filtered.
type SearchFilter struct {
	Name     string
	Age      string
	Gender   string
	Email    string
	Address  string
	Category string
}

type UserRepository interface {
	CreateWithValues(ctx context.Context, user *model.User, values []model.DynamicValue) (int64, error)
	Search(ctx context.Context, filter SearchFilter) ([]model.SearchResult, error)
	DynamicFieldsByUser(ctx context.Context) (map[int64][]model.DynamicFieldCell, error)
}

type postgresUserRepository struct {
	db *sqlx.DB
}

func NewPostgresUserRepository(db *sqlx.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

// CreateWithValues inserts the user row and every dynamic value in one
// transaction, so a partial submission is never visible.
func (r *postgresUserRepository) CreateWithValues(ctx context.Context, user *model.User, values []model.DynamicValue) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, queryFailed(ctx, "BEGIN", nil, err)
	}

	userQuery := `
		INSERT INTO users (name, age, gender, email, address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	var userID int64
	row := tx.QueryRowxContext(ctx, userQuery, user.Name, user.Age, user.Gender, user.Email, user.Address)
	if err := row.Scan(&userID); err != nil {
		tx.Rollback()
		return 0, queryFailed(ctx, userQuery, []interface{}{user.Name, user.Age, user.Gender, user.Email, user.Address}, err)
	}

	valueQuery := `
		INSERT INTO user_dynamic_fields (user_id, dynamic_field_id, value)
		VALUES ($1, $2, $3)
	`
	for _, value := range values {
		if _, err := tx.ExecContext(ctx, valueQuery, userID, value.DynamicFieldID, value.Value); err != nil {
			tx.Rollback()
			return 0, queryFailed(ctx, valueQuery, []interface{}{userID, value.DynamicFieldID, value.Value}, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, queryFailed(ctx, "COMMIT", nil, err)
	}

	return userID, nil
}

// Search returns the filtered user rows with their resolved category name.
// Dynamic field values are fetched separately (DynamicFieldsByUser) so the
// filter never suppresses values that did not match it.
func (r *postgresUserRepository) Search(ctx context.Context, filter SearchFilter) ([]model.SearchResult, error) {
	baseQuery := `
		SELECT
			u.id,
			u.name,
			u.age,
			u.gender,
			u.email,
			u.address,
			COALESCE(c.name, '') AS category
		FROM users u
		LEFT JOIN user_dynamic_fields udf ON u.id = udf.user_id
		LEFT JOIN dynamic_fields df ON udf.dynamic_field_id = df.id
		LEFT JOIN categories c ON df.category_id = c.id
		WHERE true
	`

	args := []interface{}{}
	conditions := []string{}

	if filter.Name != "" {
		conditions = append(conditions, fmt.Sprintf("u.name ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Name+"%")
	}
	if filter.Age != "" {
		age, err := strconv.Atoi(filter.Age)
		if err != nil {
			// Not a number, so it can never equal an integer column. The
			// filter is dropped rather than failing the whole search.
			slog.WarnContext(ctx, "Ignoring non-numeric age filter", slog.String("age", filter.Age))
		} else {
			conditions = append(conditions, fmt.Sprintf("u.age = $%d", len(args)+1))
			args = append(args, age)
		}
	}
	if filter.Gender != "" {
		conditions = append(conditions, fmt.Sprintf("u.gender = $%d", len(args)+1))
		args = append(args, filter.Gender)
	}
	if filter.Email != "" {
		conditions = append(conditions, fmt.Sprintf("u.email ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Email+"%")
	}
	if filter.Address != "" {
		conditions = append(conditions, fmt.Sprintf("u.address ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Address+"%")
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("c.name ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Category+"%")
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	baseQuery += " GROUP BY u.id, c.name"

	var results []model.SearchResult
	if err := r.db.SelectContext(ctx, &results, baseQuery, args...); err != nil {
		return nil, queryFailed(ctx, baseQuery, args, err)
	}

	if results == nil {
		results = []model.SearchResult{}
	}

	return results, nil
}

// DynamicFieldsByUser aggregates every stored dynamic value for every user,
// keyed by user id. Users without dynamic data map to an empty collection.
func (r *postgresUserRepository) DynamicFieldsByUser(ctx context.Context) (map[int64][]model.DynamicFieldCell, error) {
	query := `
		SELECT
			u.id AS user_id,
			COALESCE(
				json_agg(
					json_build_object(
						'fieldName', df.name,
						'fieldValue', udf.value,
						'fieldType', df.field_type
					)
				) FILTER (WHERE udf.dynamic_field_id IS NOT NULL),
				'[]'
			) AS dynamic_fields
		FROM users u
		LEFT JOIN user_dynamic_fields udf ON u.id = udf.user_id
		LEFT JOIN dynamic_fields df ON udf.dynamic_field_id = df.id
		GROUP BY u.id
	`

	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, queryFailed(ctx, query, nil, err)
	}
	defer rows.Close()

	fieldsByUser := make(map[int64][]model.DynamicFieldCell)
	for rows.Next() {
		var userID int64
		var raw []byte
		if err := rows.Scan(&userID, &raw); err != nil {
			return nil, queryFailed(ctx, query, nil, err)
		}

		var cells []model.DynamicFieldCell
		if err := json.Unmarshal(raw, &cells); err != nil {
			return nil, queryFailed(ctx, query, nil, err)
		}

		fieldsByUser[userID] = cells
	}
	if err := rows.Err(); err != nil {
		return nil, queryFailed(ctx, query, nil, err)
	}

	return fieldsByUser, nil
}
