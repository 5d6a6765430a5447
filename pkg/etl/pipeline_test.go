package etl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kube-reporting/warehouse-etl/pkg/aws"
	"github.com/kube-reporting/warehouse-etl/pkg/aws/awstest"
	"github.com/kube-reporting/warehouse-etl/pkg/config"
	"github.com/kube-reporting/warehouse-etl/pkg/schema"
)

type recordingLoader struct {
	loaded []string
	failOn string
}

func (l *recordingLoader) Load(_ context.Context, table schema.Table) error {
	l.loaded = append(l.loaded, table.Name)
	if table.Name == l.failOn {
		return fmt.Errorf("unable to copy into %s", table.Name)
	}
	return nil
}

type recordingExecer struct {
	statements []string
	failOn     string
}

func (r *recordingExecer) Exec(_ context.Context, queries ...string) error {
	for _, query := range queries {
		r.statements = append(r.statements, query)
		if r.failOn != "" && strings.HasPrefix(query, r.failOn) {
			return errors.New("Invalid digit, Value 'a'")
		}
	}
	return nil
}

func insertTargets(statements []string) []string {
	var targets []string
	for _, stmt := range statements {
		fields := strings.Fields(stmt)
		if len(fields) > 2 && fields[0] == "INSERT" {
			targets = append(targets, strings.Trim(fields[2], `"`))
		}
	}
	return targets
}

func TestLoadStaging(t *testing.T) {
	loader := &recordingLoader{}
	p := NewPipeline(logrus.New(), &recordingExecer{}, loader)
	require.NoError(t, p.LoadStaging(context.Background()))
	assert.Equal(t, []string{schema.StagingEventsTable, schema.StagingSongsTable}, loader.loaded)

	loader = &recordingLoader{failOn: schema.StagingEventsTable}
	p = NewPipeline(logrus.New(), &recordingExecer{}, loader)
	assert.EqualError(t, p.LoadStaging(context.Background()), "unable to copy into staging_events")
	assert.Equal(t, []string{schema.StagingEventsTable}, loader.loaded)
}

func TestTransformInsertOrder(t *testing.T) {
	execer := &recordingExecer{}
	p := NewPipeline(logrus.New(), execer, &recordingLoader{})
	require.NoError(t, p.TransformInsert(context.Background()))

	// songplays must be populated before time is derived from it
	assert.Equal(t, []string{
		schema.UsersTable,
		schema.ArtistsTable,
		schema.SongsTable,
		schema.SongplaysTable,
		schema.TimeTable,
	}, insertTargets(execer.statements))
	assert.True(t, strings.HasPrefix(execer.statements[0], `INSERT INTO "users" ("user_id", "first_name", "last_name", "gender", "level")`))
	assert.NotContains(t, execer.statements[3], "songplay_id")
}

func TestTransformInsertStopsOnFailure(t *testing.T) {
	execer := &recordingExecer{failOn: `INSERT INTO "songs"`}
	p := NewPipeline(logrus.New(), execer, &recordingLoader{})
	err := p.TransformInsert(context.Background())
	assert.EqualError(t, err, "failed to insert into table songs: Invalid digit, Value 'a'")
	assert.Equal(t, []string{schema.UsersTable, schema.ArtistsTable, schema.SongsTable}, insertTargets(execer.statements))
}

func TestRunStopsWhenStagingFails(t *testing.T) {
	execer := &recordingExecer{}
	loader := &recordingLoader{failOn: schema.StagingSongsTable}
	p := NewPipeline(logrus.New(), execer, loader)
	assert.Error(t, p.Run(context.Background()))
	assert.Empty(t, execer.statements)

	loader = &recordingLoader{}
	p = NewPipeline(logrus.New(), execer, loader)
	require.NoError(t, p.Run(context.Background()))
	assert.Len(t, loader.loaded, 2)
	assert.Len(t, execer.statements, 5)
}

func newFakeSources(jsonPaths int) *awstest.FakeS3 {
	fake := awstest.NewFakeS3()
	fake.Put("udacity-dend", "log_data/2018/11/2018-11-01-events.json", []byte(`{"artist":null}`))
	fake.Put("udacity-dend", "song_data/A/A/A/TRAAAAW128F429D538.json", []byte(`{"num_songs":1}`))
	paths := make([]string, jsonPaths)
	for i := range paths {
		paths[i] = fmt.Sprintf(`"$['c%d']"`, i)
	}
	fake.Put("udacity-dend", "log_json_path.json", []byte(`{"jsonpaths": [`+strings.Join(paths, ",")+`]}`))
	return fake
}

func defaultSources() config.S3Config {
	return testConfig().S3
}

func TestPreflight(t *testing.T) {
	eventColumns := len(stagingTable(t, schema.StagingEventsTable).Columns)
	ctx := context.Background()

	tests := map[string]struct {
		fake        *awstest.FakeS3
		makeSources func() config.S3Config
		expectedErr string
	}{
		"sources present": {
			fake:        newFakeSources(eventColumns),
			makeSources: defaultSources,
		},
		"jsonpaths mismatch": {
			fake:        newFakeSources(eventColumns - 1),
			makeSources: defaultSources,
			expectedErr: fmt.Sprintf("JSONPaths file s3://udacity-dend/log_json_path.json has %d entries, staging_events has %d columns", eventColumns-1, eventColumns),
		},
		"empty song prefix": {
			fake: newFakeSources(eventColumns),
			makeSources: func() config.S3Config {
				s := defaultSources()
				s.SongData = "s3://udacity-dend/missing_data"
				return s
			},
			expectedErr: "no objects found under s3://udacity-dend/missing_data",
		},
		"invalid location": {
			fake: newFakeSources(eventColumns),
			makeSources: func() config.S3Config {
				s := defaultSources()
				s.LogData = "udacity-dend/log_data"
				return s
			},
			expectedErr: `invalid S3 location "udacity-dend/log_data": scheme must be s3`,
		},
		"no jsonpaths configured": {
			fake: newFakeSources(0),
			makeSources: func() config.S3Config {
				s := defaultSources()
				s.LogJSONPath = ""
				return s
			},
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			p := NewPipeline(logrus.New(), &recordingExecer{}, &recordingLoader{},
				WithPreflight(aws.NewSourceInspector(tt.fake), tt.makeSources()))
			err := p.Preflight(ctx)
			if tt.expectedErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.expectedErr)
			}
		})
	}

	p := NewPipeline(logrus.New(), &recordingExecer{}, &recordingLoader{})
	assert.Equal(t, errNoInspector, p.Preflight(ctx))
}
