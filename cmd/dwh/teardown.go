package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

// roleCleanupTimeout bounds removing the access role, separately from the
// wait for the cluster to go away.
const roleCleanupTimeout = 2 * time.Minute

func newTeardownCmd(ctx context.Context, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "teardown",
		Short: "deletes the cluster, waits until it is gone, then removes the access role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(opts, "teardown")
			if err != nil {
				return err
			}
			return a.run(ctx, func(ctx context.Context) error {
				return runTeardown(ctx, a)
			})
		},
	}
}

// runTeardown deletes the cluster and then removes the access role even if
// the cluster could not be confirmed gone. The cluster error is returned.
func runTeardown(ctx context.Context, a *app) error {
	mgr := a.clusterManager()

	waitCtx, cancelWait := context.WithTimeout(ctx, a.opts.waitTimeout)
	defer cancelWait()
	teardownErr := mgr.TeardownCluster(waitCtx)
	if teardownErr != nil {
		a.logger.WithError(teardownErr).Error("cluster teardown did not complete, removing the access role anyway")
	}

	roleCtx, cancelRole := context.WithTimeout(ctx, roleCleanupTimeout)
	defer cancelRole()
	mgr.DecommissionAccessRole(roleCtx)
	return teardownErr
}
