package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// TableRefresher replaces the contents of silver tables.
//
// Each refresh runs in its own transaction: TRUNCATE then COPY then COMMIT.
// Any failure rolls the transaction back, so the table keeps its previous
// contents. Tables refreshed earlier in a batch are not affected.
type TableRefresher struct {
	db     DB
	schema string
}

// NewTableRefresher creates a refresher writing into the given silver schema.
func NewTableRefresher(db DB, silverSchema string) *TableRefresher {
	return &TableRefresher{db: db, schema: silverSchema}
}

// Target returns the schema-qualified identifier of a silver table.
func (r *TableRefresher) Target(info TableInfo) pgx.Identifier {
	return pgx.Identifier{r.schema, info.Target}
}

// Refresh truncates the table described by info and loads rows into it.
// Values in each row must be ordered as info.Columns.
// Returns the number of rows loaded.
func (r *TableRefresher) Refresh(ctx context.Context, info TableInfo, rows [][]any) (int64, error) {
	target := r.Target(info)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "TRUNCATE TABLE "+target.Sanitize()); err != nil {
		return 0, fmt.Errorf("truncate %s: %w", target.Sanitize(), err)
	}

	loaded, err := tx.CopyFrom(ctx, target, info.Columns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("copy into %s: %w", target.Sanitize(), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	return loaded, nil
}
