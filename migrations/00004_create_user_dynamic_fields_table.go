package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateUserDynamicFieldsTable, downCreateUserDynamicFieldsTable)
}

func upCreateUserDynamicFieldsTable(ctx context.Context, tx *sql.Tx) error {
	// No uniqueness on (user_id, dynamic_field_id): a user may carry duplicate
	// values for the same field.
	query := `
	CREATE TABLE user_dynamic_fields (
	  user_id BIGINT NOT NULL REFERENCES users(id),
	  dynamic_field_id BIGINT NOT NULL REFERENCES dynamic_fields(id),
	  value TEXT
	);
	`

	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}

func downCreateUserDynamicFieldsTable(ctx context.Context, tx *sql.Tx) error {
	query := `DROP TABLE IF EXISTS user_dynamic_fields;`
	_, err := tx.ExecContext(ctx, query)
	if err != nil {
		return err
	}
	return nil
}
