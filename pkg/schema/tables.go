package schema

import (
	"github.com/kube-reporting/warehouse-etl/pkg/redshift"
)

type Kind string

const (
	KindStaging   Kind = "staging"
	KindDimension Kind = "dimension"
	KindFact      Kind = "fact"
)

const (
	StagingEventsTable = "staging_events"
	StagingSongsTable  = "staging_songs"
	UsersTable         = "users"
	SongsTable         = "songs"
	ArtistsTable       = "artists"
	TimeTable          = "time"
	SongplaysTable     = "songplays"
)

// Table describes one warehouse table. Creation order is derived from the
// References of its columns, load order additionally from LoadAfter.
type Table struct {
	Name    string
	Kind    Kind
	Columns []redshift.Column
	Options redshift.TableOptions
	// LoadAfter names tables that must be populated before this one although
	// it holds no reference to them.
	LoadAfter []string
}

// References returns the distinct tables referenced by t's columns, in column
// order.
func (t Table) References() []string {
	var refs []string
	seen := make(map[string]bool)
	for _, col := range t.Columns {
		if col.References == "" || seen[col.References] {
			continue
		}
		seen[col.References] = true
		refs = append(refs, col.References)
	}
	return refs
}

func (t Table) ColumnNames() []string {
	return redshift.ColumnNames(t.Columns)
}

// InsertColumns returns the names of the columns an INSERT provides values
// for; identity columns are filled by the warehouse.
func (t Table) InsertColumns() []string {
	var names []string
	for _, col := range t.Columns {
		if !col.Identity {
			names = append(names, col.Name)
		}
	}
	return names
}

// Tables returns the star schema: two staging tables, four dimensions and
// the songplays fact table.
func Tables() []Table {
	return []Table{
		{
			Name: StagingEventsTable,
			Kind: KindStaging,
			Columns: []redshift.Column{
				{Name: "artist", Type: "VARCHAR(512)"},
				{Name: "auth", Type: "VARCHAR(32)"},
				{Name: "first_name", Type: "VARCHAR(256)"},
				{Name: "gender", Type: "VARCHAR(8)"},
				{Name: "item_in_session", Type: "INTEGER"},
				{Name: "last_name", Type: "VARCHAR(256)"},
				{Name: "length", Type: "DOUBLE PRECISION"},
				{Name: "level", Type: "VARCHAR(16)"},
				{Name: "location", Type: "VARCHAR(512)"},
				{Name: "method", Type: "VARCHAR(16)"},
				{Name: "page", Type: "VARCHAR(64)"},
				{Name: "registration", Type: "DOUBLE PRECISION"},
				{Name: "session_id", Type: "INTEGER"},
				{Name: "song", Type: "VARCHAR(512)"},
				{Name: "status", Type: "INTEGER"},
				{Name: "ts", Type: "BIGINT"},
				{Name: "user_agent", Type: "VARCHAR(1024)"},
				{Name: "user_id", Type: "VARCHAR(64)"},
			},
			Options: redshift.TableOptions{DistStyle: "even"},
		},
		{
			Name: StagingSongsTable,
			Kind: KindStaging,
			Columns: []redshift.Column{
				{Name: "num_songs", Type: "INTEGER"},
				{Name: "artist_id", Type: "VARCHAR(64)"},
				{Name: "artist_latitude", Type: "DOUBLE PRECISION"},
				{Name: "artist_longitude", Type: "DOUBLE PRECISION"},
				{Name: "artist_location", Type: "VARCHAR(512)"},
				{Name: "artist_name", Type: "VARCHAR(512)"},
				{Name: "song_id", Type: "VARCHAR(64)"},
				{Name: "title", Type: "VARCHAR(512)"},
				{Name: "duration", Type: "DOUBLE PRECISION"},
				{Name: "year", Type: "INTEGER"},
			},
			Options: redshift.TableOptions{DistStyle: "even"},
		},
		{
			Name: UsersTable,
			Kind: KindDimension,
			Columns: []redshift.Column{
				{Name: "user_id", Type: "VARCHAR(64)", PrimaryKey: true},
				{Name: "first_name", Type: "VARCHAR(256)"},
				{Name: "last_name", Type: "VARCHAR(256)"},
				{Name: "gender", Type: "VARCHAR(8)"},
				{Name: "level", Type: "VARCHAR(16)"},
			},
			Options: redshift.TableOptions{DistKey: "user_id", SortKey: []string{"user_id"}},
		},
		{
			Name: SongsTable,
			Kind: KindDimension,
			Columns: []redshift.Column{
				{Name: "song_id", Type: "VARCHAR(64)", PrimaryKey: true},
				{Name: "title", Type: "VARCHAR(512)"},
				{Name: "artist_id", Type: "VARCHAR(64)", References: ArtistsTable},
				{Name: "year", Type: "INTEGER"},
				{Name: "duration", Type: "DOUBLE PRECISION"},
			},
			Options: redshift.TableOptions{SortKey: []string{"year"}},
		},
		{
			Name: ArtistsTable,
			Kind: KindDimension,
			Columns: []redshift.Column{
				{Name: "artist_id", Type: "VARCHAR(64)", PrimaryKey: true},
				{Name: "name", Type: "VARCHAR(512)"},
				{Name: "location", Type: "VARCHAR(512)"},
				{Name: "latitude", Type: "DOUBLE PRECISION"},
				{Name: "longitude", Type: "DOUBLE PRECISION"},
			},
		},
		{
			Name: TimeTable,
			Kind: KindDimension,
			Columns: []redshift.Column{
				{Name: "start_time", Type: "TIMESTAMP", PrimaryKey: true},
				{Name: "hour", Type: "SMALLINT"},
				{Name: "day", Type: "SMALLINT"},
				{Name: "week", Type: "SMALLINT"},
				{Name: "month", Type: "SMALLINT"},
				{Name: "year", Type: "SMALLINT"},
				{Name: "weekday", Type: "SMALLINT"},
			},
			Options: redshift.TableOptions{SortKey: []string{"start_time"}},
			// decomposes the timestamps of inserted songplays
			LoadAfter: []string{SongplaysTable},
		},
		{
			Name: SongplaysTable,
			Kind: KindFact,
			Columns: []redshift.Column{
				{Name: "songplay_id", Type: "BIGINT", Identity: true, PrimaryKey: true},
				{Name: "start_time", Type: "TIMESTAMP", NotNull: true},
				{Name: "user_id", Type: "VARCHAR(64)", References: UsersTable},
				{Name: "level", Type: "VARCHAR(16)"},
				{Name: "song_id", Type: "VARCHAR(64)", References: SongsTable},
				{Name: "artist_id", Type: "VARCHAR(64)", References: ArtistsTable},
				{Name: "session_id", Type: "INTEGER"},
				{Name: "location", Type: "VARCHAR(512)"},
				{Name: "user_agent", Type: "VARCHAR(1024)"},
			},
			Options: redshift.TableOptions{DistKey: "song_id", SortKey: []string{"start_time"}},
		},
	}
}

// Find returns the table called name.
func Find(tables []Table, name string) (Table, bool) {
	for _, t := range tables {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

// OfKind returns the tables of the given kinds, preserving order.
func OfKind(tables []Table, kinds ...Kind) []Table {
	var out []Table
	for _, t := range tables {
		for _, k := range kinds {
			if t.Kind == k {
				out = append(out, t)
				break
			}
		}
	}
	return out
}
