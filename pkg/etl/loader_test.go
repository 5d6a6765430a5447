package etl

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/kube-reporting/warehouse-etl/pkg/config"
	"github.com/kube-reporting/warehouse-etl/pkg/redshift"
	"github.com/kube-reporting/warehouse-etl/pkg/redshift/mock"
	"github.com/kube-reporting/warehouse-etl/pkg/schema"
)

func testConfig() config.Config {
	return config.Config{
		AWS:     config.AWSConfig{Region: "us-west-2"},
		IAMRole: config.IAMRoleConfig{Name: "dwhRole", RoleARN: "arn:aws:iam::123456789012:role/dwhRole"},
		S3: config.S3Config{
			LogData:     "s3://udacity-dend/log_data",
			LogJSONPath: "s3://udacity-dend/log_json_path.json",
			SongData:    "s3://udacity-dend/song_data",
		},
	}
}

func stagingTable(t *testing.T, name string) schema.Table {
	table, ok := schema.Find(schema.Tables(), name)
	if !ok {
		t.Fatalf("unknown table %s", name)
	}
	return table
}

func TestCopyLoaderLoad(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()
	cfg := testConfig()
	events := stagingTable(t, schema.StagingEventsTable)
	songs := stagingTable(t, schema.StagingSongsTable)

	// each table is emptied and copied in one transaction
	execer := mock.NewMockExecer(ctrl)
	gomock.InOrder(
		execer.EXPECT().Exec(ctx,
			`DELETE FROM "staging_events"`,
			redshift.GenerateCopySQL(events.Name, events.ColumnNames(), redshift.CopyOptions{
				Source:    cfg.S3.LogData,
				IAMRole:   cfg.IAMRole.RoleARN,
				JSONPaths: cfg.S3.LogJSONPath,
				Region:    "us-west-2",
			}),
		),
		execer.EXPECT().Exec(ctx,
			`DELETE FROM "staging_songs"`,
			redshift.GenerateCopySQL(songs.Name, songs.ColumnNames(), redshift.CopyOptions{
				Source:  cfg.S3.SongData,
				IAMRole: cfg.IAMRole.RoleARN,
				Region:  "us-west-2",
			}),
		),
	)

	loader := NewCopyLoader(logrus.New(), execer, cfg, nil)
	assert.NoError(t, loader.Load(ctx, events))
	assert.NoError(t, loader.Load(ctx, songs))
}

func TestCopyLoaderErrors(t *testing.T) {
	ctx := context.Background()
	events := stagingTable(t, schema.StagingEventsTable)

	tests := map[string]struct {
		makeCfg     func() config.Config
		table       schema.Table
		setup       func(*mock.MockExecer)
		expectedErr string
	}{
		"copy fails": {
			makeCfg: testConfig,
			table:   events,
			setup: func(m *mock.MockExecer) {
				m.EXPECT().Exec(ctx, `DELETE FROM "staging_events"`, gomock.Any()).Return(errors.New("Load into table 'staging_events' failed"))
			},
			expectedErr: "unable to copy s3://udacity-dend/log_data into staging_events: Load into table 'staging_events' failed",
		},
		"no source for table": {
			makeCfg:     testConfig,
			table:       schema.Table{Name: "staging_other", Kind: schema.KindStaging},
			setup:       func(*mock.MockExecer) {},
			expectedErr: "no S3 source configured for table staging_other",
		},
		"no role arn": {
			makeCfg: func() config.Config {
				cfg := testConfig()
				cfg.IAMRole.RoleARN = ""
				return cfg
			},
			table:       events,
			setup:       func(*mock.MockExecer) {},
			expectedErr: "no IAM role ARN to copy staging_events with",
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			execer := mock.NewMockExecer(ctrl)
			tt.setup(execer)
			loader := NewCopyLoader(logrus.New(), execer, tt.makeCfg(), nil)
			assert.EqualError(t, loader.Load(ctx, tt.table), tt.expectedErr)
		})
	}
}
