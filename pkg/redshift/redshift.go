// Package redshift runs SQL against the warehouse through database/sql and
// lib/pq, and generates the DDL and DML statements the schema manager and ETL
// pipeline issue.
package redshift

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -destination=mock/mock_redshift.go -package=mock github.com/kube-reporting/warehouse-etl/pkg/redshift Execer,Queryer

type Queryer interface {
	Query(ctx context.Context, query string) ([]Row, error)
}

// Execer runs statements in order in one transaction and commits it before
// returning. If any statement fails none of them take effect.
type Execer interface {
	Exec(ctx context.Context, queries ...string) error
}

// SQLQueryer is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type SQLQueryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

type DB struct {
	db         *sql.DB
	logger     log.FieldLogger
	logQueries bool
}

var (
	_ Queryer = (*DB)(nil)
	_ Execer  = (*DB)(nil)
)

// NewDB wraps sqlDB. When logQueries is set every statement is logged at
// debug level with its kind, duration and affected rows.
func NewDB(sqlDB *sql.DB, logger log.FieldLogger, logQueries bool) *DB {
	return &DB{
		db:         sqlDB,
		logger:     logger.WithField("component", "warehouse"),
		logQueries: logQueries,
	}
}

func (d *DB) Query(ctx context.Context, query string) (rows []Row, err error) {
	defer func(start time.Time) { d.logStatement(query, start, int64(len(rows)), err) }(time.Now())
	return ExecuteSelect(ctx, d.db, query)
}

// Exec runs queries in a single transaction. A failed statement rolls back
// every statement before it.
func (d *DB) Exec(ctx context.Context, queries ...string) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("unable to begin transaction: %v", err)
	}
	for _, query := range queries {
		if err := d.execStatement(ctx, tx, query); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				d.logger.WithError(rbErr).Warnf("unable to rollback transaction")
			}
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("unable to commit transaction: %v", err)
	}
	return nil
}

func (d *DB) execStatement(ctx context.Context, tx *sql.Tx, query string) (err error) {
	affected := int64(-1)
	defer func(start time.Time) { d.logStatement(query, start, affected, err) }(time.Now())
	res, err := tx.ExecContext(ctx, query)
	if err != nil {
		return err
	}
	if n, rerr := res.RowsAffected(); rerr == nil {
		affected = n
	}
	return nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) logStatement(query string, start time.Time, rows int64, err error) {
	if !d.logQueries {
		return
	}
	fields := log.Fields{
		"statement": StatementKind(query),
		"elapsed":   time.Since(start),
	}
	if rows >= 0 {
		fields["rows"] = rows
	}
	logger := d.logger.WithFields(fields)
	if err != nil {
		logger = logger.WithError(err)
	}
	logger.Debug(strings.TrimSpace(query))
}

// StatementKind returns the upper-cased leading keyword of query, such as
// SELECT or COPY.
func StatementKind(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[0])
}

// CountRows returns the number of rows in tableName.
func CountRows(ctx context.Context, queryer Queryer, tableName string) (int64, error) {
	rows, err := queryer.Query(ctx, GenerateCountSQL(tableName))
	if err != nil {
		return 0, fmt.Errorf("unable to count rows of %s: %v", tableName, err)
	}
	if len(rows) != 1 {
		return 0, fmt.Errorf("unable to count rows of %s: expected 1 row, got %d", tableName, len(rows))
	}
	switch v := rows[0]["count"].(type) {
	case int64:
		return v, nil
	case []byte:
		var n int64
		if _, err := fmt.Sscan(string(v), &n); err != nil {
			return 0, fmt.Errorf("unable to count rows of %s: %v", tableName, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("unable to count rows of %s: unexpected count type %T", tableName, v)
	}
}
