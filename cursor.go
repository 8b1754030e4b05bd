package oracleraw

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultPrefetch is the number of rows requested per round-trip
const DefaultPrefetch = 5000

// Cursor is a parsed statement bound to one checked-out connection. It
// carries its bind values until executed and the open rows afterwards.
type Cursor struct {
	conn     *sql.Conn
	stmt     string
	args     []any
	rows     *sql.Rows
	columns  []string
	rowCount int64
	prefetch int
	log      *zerolog.Logger
}

// BindParameters binds every param in order. A nil list binds nothing.
func (c *Cursor) BindParameters(params []Param) error {
	if len(params) == 0 {
		return nil
	}
	values, err := buildParamsList(params)
	if err != nil {
		return err
	}
	c.args = append(c.args, values...)
	return nil
}

// ExecWithPrefetch executes the statement as a query and records the
// prefetch row count. go-ora fixes the prefetch size per session through
// PREFETCH_ROWS, set from DB.Prefetch when the pool is opened, so an amount
// different from the pool's is recorded but does not change the round-trips.
func (c *Cursor) ExecWithPrefetch(ctx context.Context, amount int) error {
	if c.rows != nil {
		return errors.New("cursor already executed")
	}
	if amount <= 0 {
		amount = DefaultPrefetch
	}

	rows, err := c.conn.QueryContext(ctx, c.stmt, c.args...)
	if err != nil {
		return err
	}

	columns, err := rows.Columns()
	if err != nil {
		_ = rows.Close()
		return err
	}

	c.rows = rows
	c.columns = columns
	c.prefetch = amount
	c.log.Debug().Str("stmt", c.stmt).Int("prefetch", amount).Msg("cursor executed")
	return nil
}

// Exec runs a statement that returns no rows (DML, DDL, PL/SQL blocks) and
// stores the affected row count
func (c *Cursor) Exec(ctx context.Context) (int64, error) {
	result, err := c.conn.ExecContext(ctx, c.stmt, c.args...)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	c.rowCount = affected
	return affected, nil
}

// Fetch returns the next row as a Row, or nil once the rows are exhausted
func (c *Cursor) Fetch() (Row, error) {
	values, err := c.next()
	if err != nil || values == nil {
		return nil, err
	}
	return Row(values), nil
}

// FetchHash returns the next row as a Record keyed by column name, or nil
// once the rows are exhausted
func (c *Cursor) FetchHash() (Record, error) {
	values, err := c.next()
	if err != nil || values == nil {
		return nil, err
	}
	return unwrapToRecord(c.columns, values), nil
}

// ColumnNames returns the column names lower-cased
func (c *Cursor) ColumnNames() []string {
	names := make([]string, len(c.columns))
	for i, n := range c.columns {
		names[i] = strings.ToLower(n)
	}
	return names
}

// RowCount is the number of rows fetched so far, or the number of rows
// affected after Exec
func (c *Cursor) RowCount() int64 {
	return c.rowCount
}

// Close releases the open rows, if any. It is safe to call more than once.
func (c *Cursor) Close() error {
	if c.rows == nil {
		return nil
	}
	err := c.rows.Close()
	c.rows = nil
	return err
}

func (c *Cursor) next() ([]any, error) {
	if c.rows == nil {
		return nil, errors.New("cursor not executed")
	}

	if !c.rows.Next() {
		return nil, c.rows.Err()
	}

	values := make([]any, len(c.columns))
	columnPointers := make([]any, len(c.columns))
	for i := range values {
		columnPointers[i] = &values[i]
	}
	if err := c.rows.Scan(columnPointers...); err != nil {
		return nil, err
	}

	c.rowCount++
	return values, nil
}

// unwrapToRecord take every row and create a new Record
// Parameters:
// @columns Every column in the row set
// @values Every value of the row
func unwrapToRecord(columns []string, values []any) Record {
	r := make(Record, len(columns))
	for i, c := range values {
		r[columns[i]] = c
	}
	return r
}
