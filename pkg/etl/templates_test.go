package etl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kube-reporting/warehouse-etl/pkg/schema"
)

func TestRenderTransform(t *testing.T) {
	tests := map[string]struct {
		target   string
		expected string
	}{
		"users": {
			target: schema.UsersTable,
			expected: `SELECT e.user_id, e.first_name, e.last_name, e.gender, e.level
FROM "staging_events" e
WHERE e.user_id IS NOT NULL
	AND NOT EXISTS (SELECT 1 FROM "users" t WHERE t.user_id = e.user_id)
GROUP BY e.user_id, e.first_name, e.last_name, e.gender, e.level`,
		},
		"artists": {
			target: schema.ArtistsTable,
			expected: `SELECT s.artist_id, s.artist_name, s.artist_location, s.artist_latitude, s.artist_longitude
FROM "staging_songs" s
WHERE s.artist_id IS NOT NULL
	AND NOT EXISTS (SELECT 1 FROM "artists" t WHERE t.artist_id = s.artist_id)
GROUP BY s.artist_id, s.artist_name, s.artist_location, s.artist_latitude, s.artist_longitude`,
		},
		"time": {
			target: schema.TimeTable,
			expected: `SELECT DISTINCT sp.start_time, EXTRACT(hour FROM sp.start_time), EXTRACT(day FROM sp.start_time), EXTRACT(week FROM sp.start_time), EXTRACT(month FROM sp.start_time), EXTRACT(year FROM sp.start_time), EXTRACT(dow FROM sp.start_time)
FROM "songplays" sp
WHERE NOT EXISTS (SELECT 1 FROM "time" t WHERE t.start_time = sp.start_time)`,
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			query, err := RenderTransform(tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, query)
		})
	}
}

func TestRenderSongplaysTransform(t *testing.T) {
	query, err := RenderTransform(schema.SongplaysTable)
	require.NoError(t, err)
	assert.Contains(t, query, `SELECT DISTINCT TIMESTAMP 'epoch' + e.ts / 1000 * INTERVAL '1 second' AS start_time`)
	assert.Contains(t, query, `JOIN "staging_songs" s ON e.song = s.title AND e.artist = s.artist_name`)
	assert.Contains(t, query, `WHERE t.start_time = TIMESTAMP 'epoch' + e.ts / 1000 * INTERVAL '1 second'`)
}

func TestRenderTransformCoversEveryTable(t *testing.T) {
	for _, table := range schema.OfKind(schema.Tables(), schema.KindDimension, schema.KindFact) {
		_, err := RenderTransform(table.Name)
		assert.NoError(t, err, table.Name)
	}

	_, err := RenderTransform(schema.StagingEventsTable)
	assert.EqualError(t, err, "no transform query for table staging_events")
}
