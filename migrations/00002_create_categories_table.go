package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateCategoriesTable, downCreateCategoriesTable)
}

func upCreateCategoriesTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE categories (
	  id BIGSERIAL PRIMARY KEY,
	  name TEXT NOT NULL
	);
	`

	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}

func downCreateCategoriesTable(ctx context.Context, tx *sql.Tx) error {
	query := `DROP TABLE IF EXISTS categories;`
	_, err := tx.ExecContext(ctx, query)
	if err != nil {
		return err
	}
	return nil
}
