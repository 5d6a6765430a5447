// Package redshifttest starts a throwaway PostgreSQL database standing in for
// the warehouse in integration tests.
package redshifttest

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/kube-reporting/warehouse-etl/pkg/redshift"
)

const postgresImage = "postgres:16-alpine"

// NewPostgres starts a PostgreSQL container and returns a connected DB. The
// test is skipped in -short mode.
func NewPostgres(t *testing.T) *redshift.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping warehouse integration test in short mode")
	}
	ctx := context.Background()

	ctr, err := postgres.Run(ctx, postgresImage,
		postgres.WithDatabase("dwh"),
		postgres.WithUsername("dwhuser"),
		postgres.WithPassword("Passw0rd"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)
	sqlDB, err := redshift.NewConnWithRetry(ctx, logger, connStr, 500*time.Millisecond, 10)
	require.NoError(t, err)

	db := redshift.NewDB(sqlDB, logger, true)
	t.Cleanup(func() { db.Close() })
	return db
}
