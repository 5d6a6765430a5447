package etl

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kube-reporting/warehouse-etl/pkg/redshift"
	"github.com/kube-reporting/warehouse-etl/pkg/redshift/redshifttest"
	"github.com/kube-reporting/warehouse-etl/pkg/schema"
)

const (
	eventColumns = "artist, auth, first_name, gender, item_in_session, last_name, length, level, location, method, page, registration, session_id, song, status, ts, user_agent, user_id"
	songColumns  = "num_songs, artist_id, artist_latitude, artist_longitude, artist_location, artist_name, song_id, title, duration, year"
)

var (
	coldStartEvents = []string{
		`('40 Grit', 'Logged In', 'Ryan', 'M', 0, 'Smith', 269.58322, 'free', 'San Jose-Sunnyvale-Santa Clara, CA', 'PUT', 'NextSong', 1541016707796, 583, 'Setanta matins', 200, 1542241826796, 'Mozilla/5.0', '26')`,
		`('Line Renaud', 'Logged In', 'Ryan', 'M', 1, 'Smith', 152.92036, 'free', 'San Jose-Sunnyvale-Santa Clara, CA', 'PUT', 'NextSong', 1541016707796, 583, 'Der Kleine Dompfaff', 200, 1542242481796, 'Mozilla/5.0', '26')`,
		`(NULL, 'Logged In', 'Lily', 'F', 0, 'Koch', NULL, 'paid', 'Chicago-Naperville-Elgin, IL-IN-WI', 'GET', 'Home', 1541048010796, 582, NULL, 200, 1542242500000, 'Mozilla/5.0', '8')`,
	}
	coldStartSongs = []string{
		`(1, 'ARJIE2Y1187B994AB7', NULL, NULL, '', 'Line Renaud', 'SOUPIRU12A6D4FA1E1', 'Der Kleine Dompfaff', 152.92036, 0)`,
		`(1, 'AR558FS1187FB45658', 40.79086, -73.96644, 'New York, NY', '40 Grit', 'SOZCTXZ12AB0182364', 'Setanta matins', 269.58322, 2004)`,
	}
)

// fixtureLoader stands in for COPY, which PostgreSQL does not support from
// S3, by inserting literal rows.
type fixtureLoader struct {
	execer redshift.Execer
	rows   map[string][]string
}

func (l *fixtureLoader) Load(ctx context.Context, table schema.Table) error {
	statements := []string{redshift.GenerateDeleteFromSQL(table.Name)}
	columns := map[string]string{
		schema.StagingEventsTable: eventColumns,
		schema.StagingSongsTable:  songColumns,
	}[table.Name]
	if len(l.rows[table.Name]) != 0 {
		statements = append(statements, fmt.Sprintf("INSERT INTO %s (%s) VALUES %s", table.Name, columns, strings.Join(l.rows[table.Name], ", ")))
	}
	return l.execer.Exec(ctx, statements...)
}

func setupWarehouse(t *testing.T) (*redshift.DB, *schema.Manager) {
	db := redshifttest.NewPostgres(t)
	m := schema.NewManager(logrus.New(), db, schema.WithDialect(redshift.DialectPostgres))
	return db, m
}

func assertCounts(t *testing.T, p *Pipeline, db redshift.Queryer, expected map[string]int64) {
	t.Helper()
	counts, err := p.RowCounts(context.Background(), db)
	require.NoError(t, err)
	for table, n := range expected {
		assert.Equal(t, n, counts[table], "rows in %s", table)
	}
}

func TestColdStart(t *testing.T) {
	db, m := setupWarehouse(t)
	ctx := context.Background()

	require.NoError(t, m.DropAll(ctx))
	require.NoError(t, m.CreateAll(ctx))

	loader := &fixtureLoader{execer: db, rows: map[string][]string{
		schema.StagingEventsTable: coldStartEvents,
		schema.StagingSongsTable:  coldStartSongs,
	}}
	p := NewPipeline(logrus.New(), db, loader)

	require.NoError(t, p.LoadStaging(ctx))
	assertCounts(t, p, db, map[string]int64{
		schema.StagingEventsTable: 3,
		schema.StagingSongsTable:  2,
	})

	require.NoError(t, p.TransformInsert(ctx))
	assertCounts(t, p, db, map[string]int64{
		schema.UsersTable:     2,
		schema.ArtistsTable:   2,
		schema.SongsTable:     2,
		schema.SongplaysTable: 2,
		schema.TimeTable:      2,
	})

	// users come from every event, not only song plays
	rows, err := db.Query(ctx, `SELECT user_id, level FROM users ORDER BY user_id`)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "26", fmt.Sprintf("%s", rows[0]["user_id"]))
	assert.Equal(t, "free", fmt.Sprintf("%s", rows[0]["level"]))
	assert.Equal(t, "8", fmt.Sprintf("%s", rows[1]["user_id"]))
	assert.Equal(t, "paid", fmt.Sprintf("%s", rows[1]["level"]))

	// every time row comes from a songplay
	rows, err = db.Query(ctx, `SELECT count(*) AS count FROM "time" t LEFT JOIN songplays sp ON sp.start_time = t.start_time WHERE sp.songplay_id IS NULL`)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows[0]["count"])

	rows, err = db.Query(ctx, `SELECT hour, year, weekday FROM "time" ORDER BY start_time LIMIT 1`)
	require.NoError(t, err)
	// 2018-11-15 00:30:26 UTC was a Thursday
	assert.EqualValues(t, 0, rows[0]["hour"])
	assert.EqualValues(t, 2018, rows[0]["year"])
	assert.EqualValues(t, 4, rows[0]["weekday"])
}

func TestUserDedup(t *testing.T) {
	db, m := setupWarehouse(t)
	ctx := context.Background()
	require.NoError(t, m.Reset(ctx))

	row := `('40 Grit', 'Logged In', 'Ryan', 'M', %d, 'Smith', 269.58322, 'free', 'San Jose', 'PUT', 'NextSong', 1541016707796, 583, 'Setanta matins', 200, %d, 'Mozilla/5.0', '26')`
	var events []string
	for i := 0; i < 4; i++ {
		events = append(events, fmt.Sprintf(row, i, 1542241826796+int64(i)*60000))
	}
	loader := &fixtureLoader{execer: db, rows: map[string][]string{
		schema.StagingEventsTable: events,
		schema.StagingSongsTable:  coldStartSongs,
	}}
	p := NewPipeline(logrus.New(), db, loader)
	require.NoError(t, p.Run(ctx))

	assertCounts(t, p, db, map[string]int64{
		schema.StagingEventsTable: 4,
		schema.UsersTable:         1,
		schema.SongplaysTable:     4,
		schema.TimeTable:          4,
	})
}

func TestRerunDoesNotDuplicate(t *testing.T) {
	db, m := setupWarehouse(t)
	ctx := context.Background()
	require.NoError(t, m.Reset(ctx))

	loader := &fixtureLoader{execer: db, rows: map[string][]string{
		schema.StagingEventsTable: coldStartEvents,
		schema.StagingSongsTable:  coldStartSongs,
	}}
	p := NewPipeline(logrus.New(), db, loader)
	expected := map[string]int64{
		schema.StagingEventsTable: 3,
		schema.StagingSongsTable:  2,
		schema.UsersTable:         2,
		schema.ArtistsTable:       2,
		schema.SongsTable:         2,
		schema.SongplaysTable:     2,
		schema.TimeTable:          2,
	}

	require.NoError(t, p.Run(ctx))
	assertCounts(t, p, db, expected)

	// staging is replaced, everything else is left as is
	require.NoError(t, p.Run(ctx))
	assertCounts(t, p, db, expected)
}
