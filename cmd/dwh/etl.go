package main

import (
	"context"
	"sort"
	"sync/atomic"

	"github.com/robfig/cron"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kube-reporting/warehouse-etl/pkg/aws"
	"github.com/kube-reporting/warehouse-etl/pkg/etl"
	"github.com/kube-reporting/warehouse-etl/pkg/redshift"
)

type etlOptions struct {
	preflight bool
	schedule  string
}

func newETLCmd(ctx context.Context, opts *rootOptions) *cobra.Command {
	etlOpts := &etlOptions{}
	cmd := &cobra.Command{
		Use:   "etl",
		Short: "loads the staging tables from S3 and inserts into the star schema tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(opts, "etl")
			if err != nil {
				return err
			}
			if err := a.cfg.ValidateSources(); err != nil {
				return err
			}
			return a.run(ctx, func(ctx context.Context) error {
				return runETL(ctx, a, etlOpts)
			})
		},
	}
	cmd.Flags().BoolVar(&etlOpts.preflight, "preflight", false, "if true, checks the S3 sources hold data before loading")
	cmd.Flags().StringVar(&etlOpts.schedule, "schedule", "", "if set, a cron spec with seconds (\"0 0 * * * *\") or a descriptor (\"@hourly\") to run the pipeline on until interrupted")
	return cmd
}

func runETL(ctx context.Context, a *app, etlOpts *etlOptions) error {
	if err := a.resolveRoleARN(ctx); err != nil {
		return err
	}
	db, err := a.openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	loader := etl.NewCopyLoader(a.logger, db, a.cfg, a.recorder)
	pipelineOpts := []etl.Option{etl.WithMetrics(a.recorder)}
	if etlOpts.preflight {
		pipelineOpts = append(pipelineOpts, etl.WithPreflight(aws.NewSourceInspector(a.clients.S3), a.cfg.S3))
	}
	pipeline := etl.NewPipeline(a.logger, db, loader, pipelineOpts...)

	runOnce := func() error {
		return runPipeline(ctx, a.logger, pipeline, db, etlOpts.preflight)
	}
	if etlOpts.schedule == "" {
		return runOnce()
	}
	return runScheduled(ctx, a.logger, etlOpts.schedule, runOnce)
}

func runPipeline(ctx context.Context, logger log.FieldLogger, pipeline *etl.Pipeline, queryer redshift.Queryer, preflight bool) error {
	if preflight {
		if err := pipeline.Preflight(ctx); err != nil {
			return err
		}
	}
	if err := pipeline.Run(ctx); err != nil {
		return err
	}

	counts, err := pipeline.RowCounts(ctx, queryer)
	if err != nil {
		return err
	}
	tables := make([]string, 0, len(counts))
	for table := range counts {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	for _, table := range tables {
		logger.WithFields(log.Fields{"table": table, "rows": counts[table]}).Info("table row count")
	}
	return nil
}

// runScheduled runs fn on the cron schedule spec until ctx is done. Failed
// runs are logged and do not stop the schedule.
func runScheduled(ctx context.Context, logger log.FieldLogger, spec string, fn func() error) error {
	schedule, err := cron.Parse(spec)
	if err != nil {
		return err
	}
	c := cron.New()
	c.Schedule(schedule, cron.FuncJob(skipOverlapping(logger, fn)))
	c.Start()
	logger.WithField("schedule", spec).Info("waiting for the next scheduled run")

	<-ctx.Done()
	c.Stop()
	logger.Info("schedule stopped")
	return nil
}

// skipOverlapping wraps fn so that a call made while a previous call is
// still running returns immediately.
func skipOverlapping(logger log.FieldLogger, fn func() error) func() {
	var running int32
	return func() {
		if !atomic.CompareAndSwapInt32(&running, 0, 1) {
			logger.Warn("previous run is still in progress, skipping this run")
			return
		}
		defer atomic.StoreInt32(&running, 0)
		if err := fn(); err != nil {
			logger.WithError(err).Error("scheduled run failed")
		}
	}
}
