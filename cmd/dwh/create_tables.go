package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kube-reporting/warehouse-etl/pkg/redshift"
	"github.com/kube-reporting/warehouse-etl/pkg/schema"
)

func newCreateTablesCmd(ctx context.Context, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "create-tables",
		Short: "drops and recreates the staging and star schema tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dialect, err := redshift.ParseDialect(opts.dialect)
			if err != nil {
				return err
			}
			a, err := newApp(opts, "create-tables")
			if err != nil {
				return err
			}
			return a.run(ctx, func(ctx context.Context) error {
				db, err := a.openDB(ctx)
				if err != nil {
					return err
				}
				defer db.Close()

				mgr := schema.NewManager(a.logger, db,
					schema.WithDialect(dialect),
					schema.WithMetrics(a.recorder),
				)
				if err := mgr.Reset(ctx); err != nil {
					return err
				}
				a.logger.Infof("created %d tables", len(mgr.Tables()))
				return nil
			})
		},
	}
}
