// Package sqldb holds the SQL shared by the SQLite and PostgreSQL stores.
// Queries are written with ? placeholders and rebound for the dialect.
package sqldb

import (
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/duet/internal/constants"
	"github.com/julianstephens/duet/internal/storage"
	"github.com/julianstephens/duet/internal/utils"
)

type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

// timestampLayout is fixed width so that stored UTC timestamps sort as text.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Queries implements the data half of storage.Provider over a *sql.DB.
// Stores embed it and set DB once the connection is open.
type Queries struct {
	DB      *sql.DB
	Dialect Dialect
}

func (q *Queries) rebind(query string) string {
	if q.Dialect != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (q *Queries) exec(query string, args ...any) (sql.Result, error) {
	return q.DB.Exec(q.rebind(query), args...)
}

func (q *Queries) query(query string, args ...any) (*sql.Rows, error) {
	return q.DB.Query(q.rebind(query), args...)
}

func (q *Queries) queryRow(query string, args ...any) *sql.Row {
	return q.DB.QueryRow(q.rebind(query), args...)
}

// notFound maps sql.ErrNoRows onto storage.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	return err
}

// affected returns storage.ErrNotFound when res touched no rows.
func affected(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(timestampLayout, s)
}

func nullTimestamp(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTimestamp(*t), Valid: true}
}

func parseNullTimestamp(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := parseTimestamp(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Calendar dates are stored as YYYY-MM-DD and read back at local midnight.
func parseDate(s string) (time.Time, error) {
	return utils.ParseDateInLocation(s, time.Local)
}

func nullDate(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(constants.DateFormat), Valid: true}
}

func parseNullDate(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	t, err := parseDate(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
