package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kube-reporting/warehouse-etl/cmd/helpers"
	"github.com/kube-reporting/warehouse-etl/pkg/cluster"
	"github.com/kube-reporting/warehouse-etl/pkg/redshift"
)

const (
	envPrefix          = "DWH"
	defaultConfigFile  = "dwh.cfg"
	defaultWaitTimeout = 30 * time.Minute
)

type rootOptions struct {
	configFile    string
	envFile       string
	logLevel      string
	logQueries    bool
	metricsListen string
	waitTimeout   time.Duration
	pollInterval  time.Duration
	dialect       string
}

func newRootCmd(ctx context.Context) *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:           "dwh",
		Short:         "provisions a Redshift cluster and loads the song play warehouse",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := helpers.LoadDotEnv(opts.envFile); err != nil {
				return err
			}
			return helpers.SetFlagsFromEnv(cmd.Flags(), envPrefix)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", defaultConfigFile, "path to the warehouse configuration file")
	flags.StringVar(&opts.envFile, "env-file", ".env", "optional file of environment variables to load before reading flags from the environment")
	flags.StringVar(&opts.logLevel, "log-level", log.InfoLevel.String(), "log level")
	flags.BoolVar(&opts.logQueries, "log-queries", false, "if true, every SQL statement is logged at debug level")
	flags.StringVar(&opts.metricsListen, "metrics-listen", "", "if set, the host:port to serve Prometheus metrics on while the command runs")
	flags.DurationVar(&opts.waitTimeout, "wait-timeout", defaultWaitTimeout, "how long setup and teardown wait for the cluster to reach its target state")
	flags.DurationVar(&opts.pollInterval, "poll-interval", cluster.DefaultPollInterval, "how often the cluster status is checked while waiting")
	flags.StringVar(&opts.dialect, "dialect", string(redshift.DialectRedshift), "SQL dialect of the warehouse database, redshift or postgres")

	rootCmd.AddCommand(
		newSetupCmd(ctx, opts),
		newCreateTablesCmd(ctx, opts),
		newETLCmd(ctx, opts),
		newTeardownCmd(ctx, opts),
		newVersionCmd(),
	)
	return rootCmd
}

func main() {
	rootCmd := newRootCmd(setupSignals())
	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Fatalf("error executing command: %v", err)
	}
}

func setupSignals() context.Context {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sig := <-sigs
		log.Infof("got signal %s, performing shutdown", sig)
		cancel()
	}()
	return ctx
}
