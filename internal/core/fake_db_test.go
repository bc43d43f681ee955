package core

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeDB is an in-memory stand-in for a pgx pool. Committed table contents
// are keyed by sanitized identifier, e.g. "silver"."crm_cust_info".
type fakeDB struct {
	mu       sync.Mutex
	tables   map[string][][]any
	copyErrs map[string]error
	beginErr error
	execs    []string
	commits  int
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		tables:   make(map[string][][]any),
		copyErrs: make(map[string]error),
	}
}

func (db *fakeDB) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errors.New("fakeDB: Exec outside transaction")
}

func (db *fakeDB) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return nil, errors.New("fakeDB: Query not supported")
}

func (db *fakeDB) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return nil
}

func (db *fakeDB) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (db *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	if db.beginErr != nil {
		return nil, db.beginErr
	}
	return &fakeTx{db: db, staged: make(map[string][][]any)}, nil
}

func (db *fakeDB) seed(table string, rows [][]any) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.tables[table] = rows
}

func (db *fakeDB) contents(table string) [][]any {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.tables[table]
}

// fakeTx implements the parts of pgx.Tx the refresher uses.
type fakeTx struct {
	pgx.Tx
	db     *fakeDB
	staged map[string][][]any
	closed bool
}

func (tx *fakeTx) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	if err := ctx.Err(); err != nil {
		return pgconn.CommandTag{}, err
	}
	tx.db.mu.Lock()
	tx.db.execs = append(tx.db.execs, sql)
	tx.db.mu.Unlock()

	if name, ok := strings.CutPrefix(sql, "TRUNCATE TABLE "); ok {
		tx.staged[name] = nil
		return pgconn.NewCommandTag("TRUNCATE TABLE"), nil
	}
	return pgconn.CommandTag{}, errors.New("fakeTx: unexpected statement: " + sql)
}

func (tx *fakeTx) CopyFrom(ctx context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	name := table.Sanitize()

	tx.db.mu.Lock()
	copyErr := tx.db.copyErrs[name]
	tx.db.mu.Unlock()
	if copyErr != nil {
		return 0, copyErr
	}

	var rows [][]any
	for src.Next() {
		values, err := src.Values()
		if err != nil {
			return 0, err
		}
		if len(values) != len(columns) {
			return 0, errors.New("fakeTx: column count mismatch")
		}
		rows = append(rows, values)
	}
	if err := src.Err(); err != nil {
		return 0, err
	}

	tx.staged[name] = rows
	return int64(len(rows)), nil
}

func (tx *fakeTx) Commit(ctx context.Context) error {
	if tx.closed {
		return pgx.ErrTxClosed
	}
	tx.closed = true

	tx.db.mu.Lock()
	defer tx.db.mu.Unlock()
	for name, rows := range tx.staged {
		tx.db.tables[name] = rows
	}
	tx.db.commits++
	return nil
}

func (tx *fakeTx) Rollback(ctx context.Context) error {
	if tx.closed {
		return pgx.ErrTxClosed
	}
	tx.closed = true
	return nil
}
