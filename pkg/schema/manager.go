// Package schema declares the star-schema tables and issues the DDL that
// drops and recreates them in dependency order.
package schema

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/kube-reporting/warehouse-etl/pkg/metrics"
	"github.com/kube-reporting/warehouse-etl/pkg/redshift"
)

type Manager struct {
	logger  log.FieldLogger
	execer  redshift.Execer
	dialect redshift.Dialect
	tables  []Table
	metrics *metrics.Recorder
}

type Option func(*Manager)

func WithDialect(dialect redshift.Dialect) Option {
	return func(m *Manager) { m.dialect = dialect }
}

// WithTables replaces the default star schema.
func WithTables(tables []Table) Option {
	return func(m *Manager) { m.tables = tables }
}

func WithMetrics(recorder *metrics.Recorder) Option {
	return func(m *Manager) { m.metrics = recorder }
}

func NewManager(logger log.FieldLogger, execer redshift.Execer, opts ...Option) *Manager {
	m := &Manager{
		logger:  logger.WithField("component", "schema"),
		execer:  execer,
		dialect: redshift.DialectRedshift,
		tables:  Tables(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Tables() []Table {
	return m.tables
}

// DropAll drops every table that exists, dependents before the tables they
// reference. Each drop is committed on its own; on failure the tables
// dropped so far stay dropped.
func (m *Manager) DropAll(ctx context.Context) (err error) {
	defer func(start time.Time) { m.metrics.ObserveStep("drop-tables", start, err) }(time.Now())
	ordered, err := DropOrder(m.tables)
	if err != nil {
		return err
	}
	for _, t := range ordered {
		m.logger.WithField("table", t.Name).Debugf("dropping table")
		err = m.execer.Exec(ctx, redshift.GenerateDropTableSQL(t.Name, true))
		m.metrics.ObserveStatement("drop", t.Name, err)
		if err != nil {
			return fmt.Errorf("unable to drop table %s: %v", t.Name, err)
		}
	}
	m.logger.Infof("dropped %d tables", len(ordered))
	return nil
}

// CreateAll creates every missing table, never before a table it
// references.
func (m *Manager) CreateAll(ctx context.Context) (err error) {
	defer func(start time.Time) { m.metrics.ObserveStep("create-tables", start, err) }(time.Now())
	ordered, err := CreateOrder(m.tables)
	if err != nil {
		return err
	}
	for _, t := range ordered {
		m.logger.WithFields(log.Fields{"table": t.Name, "kind": t.Kind}).Debugf("creating table")
		err = m.execer.Exec(ctx, redshift.GenerateCreateTableSQL(m.dialect, t.Name, t.Columns, t.Options, true))
		m.metrics.ObserveStatement("create", t.Name, err)
		if err != nil {
			return fmt.Errorf("unable to create table %s: %v", t.Name, err)
		}
	}
	m.logger.Infof("created %d tables", len(ordered))
	return nil
}

// Reset drops and recreates the whole schema.
func (m *Manager) Reset(ctx context.Context) error {
	if err := m.DropAll(ctx); err != nil {
		return err
	}
	return m.CreateAll(ctx)
}
