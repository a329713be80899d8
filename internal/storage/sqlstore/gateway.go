package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_ops/internal/adapters/observability"
	"hotel_ops/internal/domain"
)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Gateway executes parameterized statements. A Gateway returned to a
// RunAtomic callback is bound to that unit's transaction.
type Gateway struct {
	db      *sql.DB
	ex      execer
	dialect Dialect
	inTx    bool
}

func NewGateway(db *sql.DB, d Dialect) *Gateway {
	return &Gateway{db: db, ex: db, dialect: d}
}

func (g *Gateway) Dialect() Dialect { return g.dialect }

// WriteResult reports what a write did.
type WriteResult struct {
	RowsAffected int64
}

func (g *Gateway) fault(op string, start time.Time, err error) error {
	observability.ObserveStore(op, err, time.Since(start))
	if err == nil {
		return nil
	}
	return &domain.StorageFault{Op: op, Err: err}
}

// CountMatching runs a read that returns a single scalar count.
func (g *Gateway) CountMatching(ctx context.Context, query string, args ...any) (int, error) {
	start := time.Now()
	var n int
	err := g.ex.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, g.fault("count", start, err)
}

// QueryRow scans a single row into dest. A missing row is domain.ErrNotFound,
// not a fault.
func (g *Gateway) QueryRow(ctx context.Context, query string, args []any, dest ...any) error {
	start := time.Now()
	err := g.ex.QueryRowContext(ctx, query, args...).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		observability.ObserveStore("row", nil, time.Since(start))
		return domain.ErrNotFound
	}
	return g.fault("row", start, err)
}

// Query runs a read and hands every row to scan.
func (g *Gateway) Query(ctx context.Context, query string, args []any, scan func(*sql.Rows) error) error {
	start := time.Now()
	rows, err := g.ex.QueryContext(ctx, query, args...)
	if err != nil {
		return g.fault("query", start, err)
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return g.fault("query", start, err)
		}
	}
	return g.fault("query", start, rows.Err())
}

// FetchRows returns every row as text. NULL becomes "".
func (g *Gateway) FetchRows(ctx context.Context, query string, args ...any) ([][]string, error) {
	_, out, err := g.fetch(ctx, query, args...)
	return out, err
}

func (g *Gateway) fetch(ctx context.Context, query string, args ...any) ([]string, [][]string, error) {
	start := time.Now()
	rows, err := g.ex.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, g.fault("fetch", start, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, g.fault("fetch", start, err)
	}
	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, g.fault("fetch", start, err)
		}
		rec := make([]string, len(cols))
		for i, v := range vals {
			rec[i] = cellText(v)
		}
		out = append(out, rec)
	}
	return cols, out, g.fault("fetch", start, rows.Err())
}

// cellText renders one scanned value the same way on every driver. MySQL
// with parseTime yields time.Time for DATE and DATETIME columns where sqlite
// yields the stored text.
func cellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format(domain.DateLayout)
		}
		return x.Format(timestampLayout)
	default:
		return fmt.Sprint(x)
	}
}

// PrintQuery renders the result as a header line plus one line per row and
// returns the row count. The header is written only when at least one row
// exists.
func (g *Gateway) PrintQuery(ctx context.Context, w io.Writer, query string, args ...any) (int, error) {
	cols, rows, err := g.fetch(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(cols, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return len(rows), err
	}
	return len(rows), nil
}

// ApplyWrite executes an update, delete or DDL statement.
func (g *Gateway) ApplyWrite(ctx context.Context, stmt string, args ...any) (WriteResult, error) {
	start := time.Now()
	res, err := g.ex.ExecContext(ctx, stmt, args...)
	if err != nil {
		return WriteResult{}, g.fault("write", start, err)
	}
	var wr WriteResult
	if wr.RowsAffected, err = res.RowsAffected(); err != nil {
		return WriteResult{}, g.fault("write", start, err)
	}
	return wr, g.fault("write", start, nil)
}

// Insert executes an INSERT and returns the identity the store assigned to
// the new row. Failing to read that identity is a fault.
func (g *Gateway) Insert(ctx context.Context, stmt string, args ...any) (int64, error) {
	start := time.Now()
	res, err := g.ex.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, g.fault("insert", start, err)
	}
	id, err := insertedID(res)
	if err != nil {
		return 0, g.fault("insert", start, err)
	}
	return id, g.fault("insert", start, nil)
}

func insertedID(res sql.Result) (int64, error) {
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("last insert id: driver reported %d", id)
	}
	return id, nil
}

// RunAtomic executes fn inside one transaction. Returning an error from fn
// rolls everything back and is passed through unchanged; a failed commit is
// a fault. Nested calls join the enclosing unit.
func (g *Gateway) RunAtomic(ctx context.Context, fn func(*Gateway) error) error {
	if g.inTx {
		return fn(g)
	}
	start := time.Now()
	tx, err := g.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil && g.dialect.Name == SQLite.Name {
		// sqlite only offers serializable; retry with the driver default
		tx, err = g.db.BeginTx(ctx, nil)
	}
	if err != nil {
		return g.fault("begin", start, err)
	}
	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				log.Warn().Err(rbErr).Msg("rollback failed")
			}
		}
	}()

	if err := fn(&Gateway{db: g.db, ex: tx, dialect: g.dialect, inTx: true}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return g.fault("commit", start, err)
	}
	committed = true
	return g.fault("atomic", start, nil)
}

// IsDuplicate reports whether err is a unique-constraint violation.
func (g *Gateway) IsDuplicate(err error) bool {
	return err != nil && g.dialect.isDuplicate(err)
}
