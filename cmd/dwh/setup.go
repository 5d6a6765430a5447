package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newSetupCmd(ctx context.Context, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "creates the access role and security group, then provisions the cluster and waits for it to become available",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(opts, "setup")
			if err != nil {
				return err
			}
			return a.run(ctx, func(ctx context.Context) error {
				return runSetup(ctx, a, cmd.OutOrStdout())
			})
		},
	}
}

func runSetup(ctx context.Context, a *app, out io.Writer) error {
	ctx, cancel := context.WithTimeout(ctx, a.opts.waitTimeout)
	defer cancel()

	mgr := a.clusterManager()
	role, err := mgr.EnsureAccessRole(ctx)
	if err != nil {
		return err
	}
	var groupIDs []string
	groupID, err := mgr.EnsureSecurityGroup(ctx)
	if err != nil {
		return err
	}
	if groupID != "" {
		groupIDs = append(groupIDs, groupID)
	}
	if err := mgr.ProvisionCluster(ctx, role, groupIDs...); err != nil {
		return err
	}

	endpoint, err := mgr.ClusterEndpoint(ctx)
	if err != nil {
		return err
	}
	a.logger.WithField("endpoint", endpoint.String()).Info("cluster is available")
	fmt.Fprintf(out, "HOST=%s\nDB_PORT=%d\nROLE_ARN=%s\n", endpoint.Address, endpoint.Port, role.ARN)
	return nil
}
