package tables

import (
	"context"
	"fmt"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jackc/pgx/v5"

	"github.com/JonMunkholm/silverload/internal/core"
)

// selectQuery builds the bronze SELECT for one table. Columns may be plain
// names or expressions built with sb.As; orderBy keeps extraction
// deterministic so repeated runs load identical rows.
func selectQuery(schema, table string, columns func(sb *sqlbuilder.SelectBuilder) []string, orderBy ...string) string {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns(sb)...)
	sb.From(pgx.Identifier{schema, table}.Sanitize())
	if len(orderBy) > 0 {
		sb.OrderBy(orderBy...)
	}

	query, _ := sb.Build()
	return query
}

// columnList returns a column builder for plain column names.
func columnList(names ...string) func(*sqlbuilder.SelectBuilder) []string {
	return func(*sqlbuilder.SelectBuilder) []string { return names }
}

// selectRows runs query and scans every row into T by db tag.
func selectRows[T any](ctx context.Context, db core.DBTX, query string) ([]T, error) {
	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query bronze: %w", err)
	}

	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, fmt.Errorf("scan bronze: %w", err)
	}
	return out, nil
}

// buildRows extracts bronze rows of type R, applies rule and converts each
// resulting record to a COPY row.
func buildRows[R, S any](ctx context.Context, db core.DBTX, query string, rule func([]R) []S, toRow func(S) []any) (core.BuildResult, error) {
	raw, err := selectRows[R](ctx, db, query)
	if err != nil {
		return core.BuildResult{}, err
	}

	records := rule(raw)
	rows := make([][]any, len(records))
	for i, rec := range records {
		rows[i] = toRow(rec)
	}

	return core.BuildResult{Extracted: len(raw), Rows: rows}, nil
}
