// Package cluster creates and removes the warehouse's IAM access role,
// security group and Redshift cluster, blocking until the control plane
// reports a terminal state.
package cluster

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	sdkaws "github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/redshift"
	log "github.com/sirupsen/logrus"
	"k8s.io/apimachinery/pkg/util/clock"
	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/kube-reporting/warehouse-etl/pkg/aws"
	"github.com/kube-reporting/warehouse-etl/pkg/config"
	"github.com/kube-reporting/warehouse-etl/pkg/metrics"
)

const (
	DefaultPollInterval = 5 * time.Second

	StatusAvailable = "available"
	StatusCreating  = "creating"
	StatusDeleting  = "deleting"
	// StatusAbsent is reported while no cluster with the identifier exists.
	StatusAbsent = "absent"

	redshiftServicePrincipal = "redshift.amazonaws.com"
)

var (
	// ErrTimedOut is returned when the context ends before the cluster
	// reaches the awaited state.
	ErrTimedOut = errors.New("timed out waiting for cluster")
	// ErrClusterUnrecoverable is returned when the cluster reaches a status
	// from which it can not become available.
	ErrClusterUnrecoverable = errors.New("cluster can not become available")
)

// unrecoverableStatuses never transition to available on their own.
var unrecoverableStatuses = map[string]bool{
	StatusDeleting:     true,
	"final-snapshot":   true,
	"hardware-failure": true,
	"storage-full":     true,
}

func isUnrecoverable(status string) bool {
	return unrecoverableStatuses[status] || strings.HasPrefix(status, "incompatible-")
}

// RoleHandle identifies the access role the cluster assumes.
type RoleHandle struct {
	Name string
	ARN  string
	ID   string
}

type Endpoint struct {
	Address string
	Port    int64
}

func (e Endpoint) String() string {
	return fmt.Sprintf("%s:%d", e.Address, e.Port)
}

type Manager struct {
	logger       log.FieldLogger
	cfg          config.Config
	clients      aws.Clients
	pollInterval time.Duration
	retryBackoff wait.Backoff
	clock        clock.Clock
	metrics      *metrics.Recorder
}

type Option func(*Manager)

func WithPollInterval(interval time.Duration) Option {
	return func(m *Manager) { m.pollInterval = interval }
}

// WithRetryBackoff sets how calls failing with a retryable error are
// retried.
func WithRetryBackoff(backoff wait.Backoff) Option {
	return func(m *Manager) { m.retryBackoff = backoff }
}

func WithClock(c clock.Clock) Option {
	return func(m *Manager) { m.clock = c }
}

func WithMetrics(recorder *metrics.Recorder) Option {
	return func(m *Manager) { m.metrics = recorder }
}

func NewManager(logger log.FieldLogger, cfg config.Config, clients aws.Clients, opts ...Option) *Manager {
	m := &Manager{
		logger: logger.WithFields(log.Fields{
			"component": "cluster",
			"cluster":   cfg.Cluster.Identifier,
		}),
		cfg:          cfg,
		clients:      clients,
		pollInterval: DefaultPollInterval,
		retryBackoff: wait.Backoff{Duration: 500 * time.Millisecond, Factor: 2, Steps: 4},
		clock:        clock.RealClock{},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.retryBackoff.Steps < 1 {
		m.retryBackoff.Steps = 1
	}
	return m
}

// call runs fn, retrying while it fails with a retryable error, and returns
// the classified result of the last attempt.
func (m *Manager) call(ctx context.Context, name string, fn func() error, benign ...string) aws.Result {
	var res aws.Result
	_ = wait.ExponentialBackoff(m.retryBackoff, func() (bool, error) {
		res = aws.Classify(fn(), benign...)
		if res.Retryable() && ctx.Err() == nil {
			m.logger.WithError(res.Err).WithField("call", name).Debugf("retryable error, backing off")
			return false, nil
		}
		return true, nil
	})
	if res.Err != nil && !res.OK() {
		m.metrics.ObserveControlPlaneError(name, res.Outcome.String())
	}
	return res
}

type trustPolicy struct {
	Version   string
	Statement []trustStatement
}

type trustStatement struct {
	Effect    string
	Action    string
	Principal map[string]string
}

func assumeRolePolicyDocument() (string, error) {
	doc, err := json.Marshal(trustPolicy{
		Version: "2012-10-17",
		Statement: []trustStatement{{
			Effect:    "Allow",
			Action:    "sts:AssumeRole",
			Principal: map[string]string{"Service": redshiftServicePrincipal},
		}},
	})
	if err != nil {
		return "", err
	}
	return string(doc), nil
}

func clusterStatus(out *redshift.DescribeClustersOutput) (*redshift.Cluster, string) {
	if out == nil || len(out.Clusters) == 0 || out.Clusters[0] == nil {
		return nil, StatusAbsent
	}
	return out.Clusters[0], sdkaws.StringValue(out.Clusters[0].ClusterStatus)
}

func (m *Manager) describeCluster(ctx context.Context) (*redshift.DescribeClustersOutput, error) {
	return m.clients.Redshift.DescribeClustersWithContext(ctx, &redshift.DescribeClustersInput{
		ClusterIdentifier: sdkaws.String(m.cfg.Cluster.Identifier),
	})
}

// poll calls check immediately and then every poll interval until it
// reports done, returns an error, or ctx ends.
func (m *Manager) poll(ctx context.Context, operation string, check func(elapsed time.Duration) (bool, error)) error {
	start := m.clock.Now()
	err := wait.PollImmediateUntil(m.pollInterval, func() (bool, error) {
		return check(m.clock.Since(start))
	}, ctx.Done())
	if err == wait.ErrWaitTimeout {
		return fmt.Errorf("%w %s during %s after %s", ErrTimedOut, m.cfg.Cluster.Identifier, operation, m.clock.Since(start).Round(time.Second))
	}
	return err
}
