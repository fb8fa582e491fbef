package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateDynamicFieldsTable, downCreateDynamicFieldsTable)
}

func upCreateDynamicFieldsTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE dynamic_fields (
	  id BIGSERIAL PRIMARY KEY,
	  name TEXT NOT NULL,
	  category_id BIGINT NOT NULL REFERENCES categories(id),
	  field_type TEXT NOT NULL CHECK (field_type IN ('text', 'number', 'date')),
	  is_required BOOLEAN NOT NULL DEFAULT false
	);
	`

	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}

func downCreateDynamicFieldsTable(ctx context.Context, tx *sql.Tx) error {
	query := `DROP TABLE IF EXISTS dynamic_fields;`
	_, err := tx.ExecContext(ctx, query)
	if err != nil {
		return err
	}
	return nil
}
