package gateway

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	apperrors "github.com/horizonbtp/vitrine/internal/errors"
	"github.com/horizonbtp/vitrine/internal/models"
	"github.com/horizonbtp/vitrine/internal/uuid"
)

// SQLite is the SQLite-backed Gateway implementation. It owns the catalog
// tables and emits a change event to feed subscribers after every committed
// mutation.
type SQLite struct {
	db   *sql.DB
	feed *changeFeed

	// Prepared statement cache; statements are prepared on first use.
	stmtCache sync.Map // map[string]*sql.Stmt
}

// Open opens the SQLite database under dataDir with:
// - WAL mode for concurrent reads
// - foreign key constraints enabled
// - a single writer connection (SQLite does not support multiple writers)
func Open(dataDir string) (*SQLite, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "vitrine.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &SQLite{db: db, feed: newChangeFeed()}, nil
}

// OpenInMemory opens a throwaway in-memory gateway, used by tests.
func OpenInMemory() (*SQLite, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return &SQLite{db: db, feed: newChangeFeed()}, nil
}

// Close closes all cached prepared statements and the database.
func (g *SQLite) Close() error {
	g.stmtCache.Range(func(key, value interface{}) bool {
		value.(*sql.Stmt).Close()
		return true
	})
	return g.db.Close()
}

// prepareStmt gets or creates a prepared statement from the cache.
func (g *SQLite) prepareStmt(query string) (*sql.Stmt, error) {
	if stmt, ok := g.stmtCache.Load(query); ok {
		return stmt.(*sql.Stmt), nil
	}

	stmt, err := g.db.Prepare(query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}

	actual, loaded := g.stmtCache.LoadOrStore(query, stmt)
	if loaded {
		// Another goroutine already prepared this, close our duplicate.
		stmt.Close()
		return actual.(*sql.Stmt), nil
	}
	return stmt, nil
}

// Query implements Gateway. Zero matching rows is a valid empty result, not
// an error.
func (g *SQLite) Query(ctx context.Context, table models.Table, preds []Predicate, order Order) ([]models.Row, error) {
	spec, err := specFor(table)
	if err != nil {
		return nil, err
	}

	query, args, err := spec.selectSQL(table, preds, order)
	if err != nil {
		return nil, err
	}

	stmt, err := g.prepareStmt(query)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrGatewayQuery, "query preparation failed", err)
	}

	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrGatewayQuery, fmt.Sprintf("query on %s failed", table), err)
	}
	defer rows.Close()

	var result []models.Row
	for rows.Next() {
		row, err := spec.scan(rows)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrGatewayQuery, fmt.Sprintf("scan on %s failed", table), err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrGatewayQuery, fmt.Sprintf("iteration on %s failed", table), err)
	}
	return result, nil
}

// Insert implements Gateway. The row is validated, stamped with a new id and
// creation time, committed, and only then echoed on the change feed.
func (g *SQLite) Insert(ctx context.Context, table models.Table, row models.Row) (models.Row, error) {
	spec, err := specFor(table)
	if err != nil {
		return nil, err
	}

	row.Init(models.UUID(uuid.New()), time.Now().Unix())

	values, err := spec.values(row)
	if err != nil {
		return nil, err
	}

	if _, err := g.db.ExecContext(ctx, spec.insertSQL(table), values...); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrGatewayWrite, fmt.Sprintf("insert into %s failed", table), err)
	}

	g.feed.emit(table, OpInsert, row.RowID())
	return row, nil
}

// Update implements Gateway. Concurrent writers to the same row resolve
// last-write-wins; no version check is performed.
func (g *SQLite) Update(ctx context.Context, table models.Table, id models.UUID, row models.Row) (models.Row, error) {
	spec, err := specFor(table)
	if err != nil {
		return nil, err
	}

	values, err := spec.values(row)
	if err != nil {
		return nil, err
	}

	args := spec.updateArgs(values)
	args = append(args, time.Now().Unix(), id)

	result, err := g.db.ExecContext(ctx, spec.updateSQL(table), args...)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrGatewayWrite, fmt.Sprintf("update on %s failed", table), err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return nil, apperrors.New(apperrors.ErrRowNotFound, fmt.Sprintf("%s row %s not found", table, id))
	}

	updated, err := g.Get(ctx, table, id)
	if err != nil {
		return nil, err
	}

	g.feed.emit(table, OpUpdate, id)
	return updated, nil
}

// Delete implements Gateway. Rows are soft deleted so queries simply stop
// returning them.
func (g *SQLite) Delete(ctx context.Context, table models.Table, id models.UUID) error {
	if _, err := specFor(table); err != nil {
		return err
	}

	query := fmt.Sprintf("UPDATE %s SET is_deleted = 1, updated_at = ? WHERE id = ? AND is_deleted = 0", table)
	result, err := g.db.ExecContext(ctx, query, time.Now().Unix(), id)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrGatewayWrite, fmt.Sprintf("delete on %s failed", table), err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return apperrors.New(apperrors.ErrRowNotFound, fmt.Sprintf("%s row %s not found", table, id))
	}

	g.feed.emit(table, OpDelete, id)
	return nil
}

// SubscribeChanges implements Gateway.
func (g *SQLite) SubscribeChanges(table models.Table, handler func(ChangeEvent)) func() {
	return g.feed.subscribe(table, handler)
}

// Get implements Gateway.
func (g *SQLite) Get(ctx context.Context, table models.Table, id models.UUID) (models.Row, error) {
	spec, err := specFor(table)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = ? AND is_deleted = 0",
		strings.Join(spec.columns, ", "), table)
	stmt, err := g.prepareStmt(query)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrGatewayQuery, "query preparation failed", err)
	}

	rows, err := stmt.QueryContext(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrGatewayQuery, fmt.Sprintf("get on %s failed", table), err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrGatewayQuery, fmt.Sprintf("get on %s failed", table), err)
		}
		return nil, apperrors.New(apperrors.ErrRowNotFound, fmt.Sprintf("%s row %s not found", table, id))
	}
	return spec.scan(rows)
}

// Ensure SQLite implements the Gateway interface at compile time.
var _ Gateway = (*SQLite)(nil)
