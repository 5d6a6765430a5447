package etl

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/kube-reporting/warehouse-etl/pkg/config"
	"github.com/kube-reporting/warehouse-etl/pkg/metrics"
	"github.com/kube-reporting/warehouse-etl/pkg/redshift"
	"github.com/kube-reporting/warehouse-etl/pkg/schema"
)

// BulkLoader replaces the contents of a staging table.
type BulkLoader interface {
	Load(ctx context.Context, table schema.Table) error
}

// CopySource is where a staging table is copied from.
type CopySource struct {
	Location string
	// JSONPaths is optional, see redshift.CopyOptions.
	JSONPaths string
}

// CopyLoader loads staging tables with Redshift COPY from S3.
type CopyLoader struct {
	logger  log.FieldLogger
	execer  redshift.Execer
	iamRole string
	region  string
	sources map[string]CopySource
	metrics *metrics.Recorder
}

// NewCopyLoader returns a loader copying staging_events and staging_songs
// from the S3 locations in cfg using the access role cfg.IAMRole.RoleARN.
func NewCopyLoader(logger log.FieldLogger, execer redshift.Execer, cfg config.Config, recorder *metrics.Recorder) *CopyLoader {
	return &CopyLoader{
		logger:  logger.WithField("component", "copy-loader"),
		execer:  execer,
		iamRole: cfg.IAMRole.RoleARN,
		region:  cfg.AWS.Region,
		sources: map[string]CopySource{
			schema.StagingEventsTable: {Location: cfg.S3.LogData, JSONPaths: cfg.S3.LogJSONPath},
			schema.StagingSongsTable:  {Location: cfg.S3.SongData},
		},
		metrics: recorder,
	}
}

// Load deletes every row of table then copies its source into it, committing
// both together. A failed copy leaves the previous rows in place.
func (l *CopyLoader) Load(ctx context.Context, table schema.Table) error {
	source, ok := l.sources[table.Name]
	if !ok || source.Location == "" {
		return fmt.Errorf("no S3 source configured for table %s", table.Name)
	}
	if l.iamRole == "" {
		return fmt.Errorf("no IAM role ARN to copy %s with", table.Name)
	}
	logger := l.logger.WithFields(log.Fields{"table": table.Name, "source": source.Location})

	logger.Infof("replacing the rows of %s", table.Name)
	err := l.execer.Exec(ctx,
		redshift.GenerateDeleteFromSQL(table.Name),
		redshift.GenerateCopySQL(table.Name, table.ColumnNames(), redshift.CopyOptions{
			Source:    source.Location,
			IAMRole:   l.iamRole,
			JSONPaths: source.JSONPaths,
			Region:    l.region,
		}),
	)
	l.metrics.ObserveStatement("copy", table.Name, err)
	if err != nil {
		return fmt.Errorf("unable to copy %s into %s: %v", source.Location, table.Name, err)
	}
	return nil
}
