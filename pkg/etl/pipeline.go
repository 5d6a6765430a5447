// Package etl loads the raw S3 data into the staging tables and transforms
// it into the star schema's dimension and fact tables.
package etl

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/kube-reporting/warehouse-etl/pkg/aws"
	"github.com/kube-reporting/warehouse-etl/pkg/config"
	"github.com/kube-reporting/warehouse-etl/pkg/metrics"
	"github.com/kube-reporting/warehouse-etl/pkg/redshift"
	"github.com/kube-reporting/warehouse-etl/pkg/schema"
)

var errNoInspector = errors.New("preflight requires an S3 source inspector")

// SourceInspector inspects the S3 sources before they are loaded.
type SourceInspector interface {
	CountObjects(ctx context.Context, loc aws.Location, limit int) (int, error)
	RetrieveJSONPaths(ctx context.Context, loc aws.Location) (*aws.JSONPaths, error)
}

type Pipeline struct {
	logger    log.FieldLogger
	execer    redshift.Execer
	loader    BulkLoader
	tables    []schema.Table
	inspector SourceInspector
	sources   config.S3Config
	metrics   *metrics.Recorder
}

type Option func(*Pipeline)

// WithTables replaces the default star schema.
func WithTables(tables []schema.Table) Option {
	return func(p *Pipeline) { p.tables = tables }
}

func WithMetrics(recorder *metrics.Recorder) Option {
	return func(p *Pipeline) { p.metrics = recorder }
}

// WithPreflight enables Preflight checks of sources.
func WithPreflight(inspector SourceInspector, sources config.S3Config) Option {
	return func(p *Pipeline) {
		p.inspector = inspector
		p.sources = sources
	}
}

func NewPipeline(logger log.FieldLogger, execer redshift.Execer, loader BulkLoader, opts ...Option) *Pipeline {
	p := &Pipeline{
		logger: logger.WithField("component", "etl"),
		execer: execer,
		loader: loader,
		tables: schema.Tables(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// LoadStaging loads every staging table, stopping at the first failure.
func (p *Pipeline) LoadStaging(ctx context.Context) (err error) {
	defer func(start time.Time) { p.metrics.ObserveStep("load-staging", start, err) }(time.Now())
	for _, t := range schema.OfKind(p.tables, schema.KindStaging) {
		logger := p.logger.WithField("table", t.Name)
		logger.Infof("loading staging table")
		start := time.Now()
		if err = p.loader.Load(ctx, t); err != nil {
			return err
		}
		logger.WithField("elapsed", time.Since(start)).Infof("loaded staging table")
	}
	return nil
}

// TransformInsert populates the dimension and fact tables from staging in
// load order, committing each table. A failure stops the run; tables
// inserted before it keep their rows.
func (p *Pipeline) TransformInsert(ctx context.Context) (err error) {
	defer func(start time.Time) { p.metrics.ObserveStep("transform-insert", start, err) }(time.Now())
	ordered, err := schema.LoadOrder(schema.OfKind(p.tables, schema.KindDimension, schema.KindFact))
	if err != nil {
		return err
	}
	for _, t := range ordered {
		logger := p.logger.WithField("table", t.Name)
		query, err := RenderTransform(t.Name)
		if err != nil {
			return err
		}
		logger.Infof("inserting into %s", t.Name)
		start := time.Now()
		err = p.execer.Exec(ctx, redshift.FormatInsertQuery(t.Name, t.InsertColumns(), query))
		p.metrics.ObserveStatement("insert", t.Name, err)
		if err != nil {
			logger.WithError(err).Errorf("inserting into %s FAILED", t.Name)
			return fmt.Errorf("failed to insert into table %s: %v", t.Name, err)
		}
		logger.WithField("elapsed", time.Since(start)).Debugf("inserted into %s", t.Name)
	}
	return nil
}

// Run loads staging then transforms it.
func (p *Pipeline) Run(ctx context.Context) error {
	if err := p.LoadStaging(ctx); err != nil {
		return err
	}
	return p.TransformInsert(ctx)
}

// Preflight checks every S3 source holds at least one object and that the
// JSONPaths mapping has one entry per staging_events column.
func (p *Pipeline) Preflight(ctx context.Context) error {
	if p.inspector == nil {
		return errNoInspector
	}
	for _, src := range []string{p.sources.LogData, p.sources.SongData} {
		loc, err := aws.ParseLocation(src)
		if err != nil {
			return err
		}
		count, err := p.inspector.CountObjects(ctx, loc, 1)
		if err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("no objects found under %s", loc)
		}
		p.logger.WithField("source", loc.String()).Debugf("source has objects")
	}

	if p.sources.LogJSONPath == "" {
		return nil
	}
	loc, err := aws.ParseLocation(p.sources.LogJSONPath)
	if err != nil {
		return err
	}
	paths, err := p.inspector.RetrieveJSONPaths(ctx, loc)
	if err != nil {
		return err
	}
	events, ok := schema.Find(p.tables, schema.StagingEventsTable)
	if !ok {
		return nil
	}
	if len(paths.Paths) != len(events.Columns) {
		return fmt.Errorf("JSONPaths file %s has %d entries, %s has %d columns", loc, len(paths.Paths), events.Name, len(events.Columns))
	}
	return nil
}

// RowCounts returns the number of rows in every table.
func (p *Pipeline) RowCounts(ctx context.Context, queryer redshift.Queryer) (map[string]int64, error) {
	counts := make(map[string]int64, len(p.tables))
	for _, t := range p.tables {
		n, err := redshift.CountRows(ctx, queryer, t.Name)
		if err != nil {
			return nil, err
		}
		counts[t.Name] = n
	}
	return counts, nil
}
