package main

import (
	"context"
	"fmt"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/version"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/kube-reporting/warehouse-etl/cmd/helpers"
	"github.com/kube-reporting/warehouse-etl/pkg/aws"
	"github.com/kube-reporting/warehouse-etl/pkg/cluster"
	"github.com/kube-reporting/warehouse-etl/pkg/config"
	"github.com/kube-reporting/warehouse-etl/pkg/metrics"
	"github.com/kube-reporting/warehouse-etl/pkg/redshift"
)

const (
	programName = "dwh"

	connBackoff = 5 * time.Second
	connRetries = 8
)

// app is what every subcommand builds from the root options before running.
type app struct {
	opts     *rootOptions
	logger   log.FieldLogger
	cfg      config.Config
	clients  aws.Clients
	registry *prometheus.Registry
	recorder *metrics.Recorder
}

func newApp(opts *rootOptions, command string) (*app, error) {
	logger, err := helpers.SetupLogger(opts.logLevel, log.Fields{"app": programName, "command": command})
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, err
	}
	logger.Debugf("config: %s", spew.Sprintf("%+v", cfg.Redacted()))

	clients, err := aws.NewClients(cfg.AWS)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	if err := registry.Register(version.NewCollector(programName)); err != nil {
		return nil, err
	}
	recorder := metrics.NewRecorder()
	if err := recorder.Register(registry); err != nil {
		return nil, err
	}

	return &app{
		opts:     opts,
		logger:   logger,
		cfg:      cfg,
		clients:  clients,
		registry: registry,
		recorder: recorder,
	}, nil
}

// run calls fn, serving metrics alongside it when a listen address is
// configured. The server is stopped once fn returns.
func (a *app) run(ctx context.Context, fn func(ctx context.Context) error) error {
	if a.opts.metricsListen == "" {
		return fn(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		router := metrics.NewRouter(a.logger, a.registry)
		return metrics.Serve(gctx, a.logger, a.opts.metricsListen, router)
	})
	g.Go(func() error {
		defer cancel()
		return fn(gctx)
	})
	return g.Wait()
}

func (a *app) clusterManager() *cluster.Manager {
	return cluster.NewManager(a.logger, a.cfg, a.clients,
		cluster.WithPollInterval(a.opts.pollInterval),
		cluster.WithMetrics(a.recorder),
	)
}

// resolveHost fills in the cluster endpoint when HOST is not configured.
func (a *app) resolveHost(ctx context.Context) error {
	if a.cfg.Cluster.Host != "" {
		return nil
	}
	endpoint, err := a.clusterManager().ClusterEndpoint(ctx)
	if err != nil {
		return fmt.Errorf("%s.HOST is not set and the cluster endpoint is unavailable: %v", config.SectionCluster, err)
	}
	a.logger.WithField("endpoint", endpoint.String()).Info("using cluster endpoint")
	a.cfg = a.cfg.WithHost(endpoint.Address)
	return nil
}

// resolveRoleARN fills in the access role ARN when ROLE_ARN is not configured.
func (a *app) resolveRoleARN(ctx context.Context) error {
	if a.cfg.IAMRole.RoleARN != "" {
		return nil
	}
	arn, err := a.clusterManager().RoleARN(ctx)
	if err != nil {
		return fmt.Errorf("%s.ROLE_ARN is not set and the role could not be looked up: %v", config.SectionIAMRole, err)
	}
	a.cfg = a.cfg.WithRoleARN(arn)
	return nil
}

func (a *app) openDB(ctx context.Context) (*redshift.DB, error) {
	if err := a.resolveHost(ctx); err != nil {
		return nil, err
	}
	sqlDB, err := redshift.NewConnWithRetry(ctx, a.logger, a.cfg.Cluster.ConnectionString(), connBackoff, connRetries)
	if err != nil {
		return nil, err
	}
	return redshift.NewDB(sqlDB, a.logger, a.opts.logQueries), nil
}
