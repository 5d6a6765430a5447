package redshift

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"
	"k8s.io/apimachinery/pkg/util/wait"
)

const driverName = "postgres"

// NewConnWithRetry opens connStr and pings it until the warehouse accepts
// connections, backing off between attempts.
func NewConnWithRetry(ctx context.Context, logger log.FieldLogger, connStr string, connBackoff time.Duration, maxRetries int) (*sql.DB, error) {
	var sqlDB *sql.DB
	backoff := wait.Backoff{
		Duration: connBackoff,
		Factor:   1.25,
		Steps:    maxRetries,
	}
	cond := func() (bool, error) {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		conn, err := sql.Open(driverName, connStr)
		if err == nil {
			err = conn.PingContext(ctx)
			if err == nil {
				sqlDB = conn
				return true, nil
			}
			conn.Close()
		}
		logger.WithError(err).Debugf("error encountered, backing off and trying again: %v", err)
		return false, nil
	}
	err := wait.ExponentialBackoff(backoff, cond)
	if err != nil {
		if err == wait.ErrWaitTimeout {
			return nil, fmt.Errorf("timed out while waiting to connect to the warehouse")
		}
		return nil, err
	}

	return sqlDB, nil
}
