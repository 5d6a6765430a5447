package etl

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig"

	"github.com/kube-reporting/warehouse-etl/pkg/redshift"
	"github.com/kube-reporting/warehouse-etl/pkg/schema"
)

// TransformTemplateContext is the data transform queries are rendered with.
type TransformTemplateContext struct {
	Target        string
	StagingEvents string
	StagingSongs  string
	Songplays     string
	// NextSongPage is the page value of events that represent a song play.
	NextSongPage string
}

const nextSongPage = "NextSong"

func newTransformTemplateContext(target string) *TransformTemplateContext {
	return &TransformTemplateContext{
		Target:        target,
		StagingEvents: schema.StagingEventsTable,
		StagingSongs:  schema.StagingSongsTable,
		Songplays:     schema.SongplaysTable,
		NextSongPage:  nextSongPage,
	}
}

// epochMillisToTimestamp converts a column holding milliseconds since the
// unix epoch to a TIMESTAMP expression.
func epochMillisToTimestamp(column string) string {
	return fmt.Sprintf("TIMESTAMP 'epoch' + %s / 1000 * INTERVAL '1 second'", column)
}

func newQueryTemplate(name, queryTemplate string) (*template.Template, error) {
	var templateFuncMap = template.FuncMap{
		"ident":                  redshift.QuoteIdentifier,
		"literal":                redshift.QuoteLiteral,
		"epochMillisToTimestamp": epochMillisToTimestamp,
	}

	tmpl, err := template.New(name).Delims("{|", "|}").Funcs(sprig.TxtFuncMap()).Funcs(templateFuncMap).Parse(queryTemplate)
	if err != nil {
		return nil, fmt.Errorf("error parsing query: %v", err)
	}
	return tmpl, nil
}

// RenderTransform renders the SELECT populating target.
func RenderTransform(target string) (string, error) {
	query, ok := transformQueries[target]
	if !ok {
		return "", fmt.Errorf("no transform query for table %s", target)
	}
	tmpl, err := newQueryTemplate(target, query)
	if err != nil {
		return "", fmt.Errorf("unable to render transform for %s: %v", target, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, newTransformTemplateContext(target)); err != nil {
		return "", fmt.Errorf("error executing template: %v", err)
	}
	return buf.String(), nil
}

// transformQueries select the rows inserted into each dimension and fact
// table. Dimensions group on the natural key plus descriptive attributes,
// and every query skips rows whose natural key is already present so reruns
// append nothing twice.
var transformQueries = map[string]string{
	schema.UsersTable: `
{|- $cols := list "user_id" "first_name" "last_name" "gender" "level" -|}
SELECT {| range $i, $c := $cols |}{| if $i |}, {| end |}e.{| $c |}{| end |}
FROM {| ident .StagingEvents |} e
WHERE e.user_id IS NOT NULL
	AND NOT EXISTS (SELECT 1 FROM {| ident .Target |} t WHERE t.user_id = e.user_id)
GROUP BY {| range $i, $c := $cols |}{| if $i |}, {| end |}e.{| $c |}{| end |}`,

	schema.ArtistsTable: `
{|- $cols := list "artist_id" "artist_name" "artist_location" "artist_latitude" "artist_longitude" -|}
SELECT {| range $i, $c := $cols |}{| if $i |}, {| end |}s.{| $c |}{| end |}
FROM {| ident .StagingSongs |} s
WHERE s.artist_id IS NOT NULL
	AND NOT EXISTS (SELECT 1 FROM {| ident .Target |} t WHERE t.artist_id = s.artist_id)
GROUP BY {| range $i, $c := $cols |}{| if $i |}, {| end |}s.{| $c |}{| end |}`,

	schema.SongsTable: `
{|- $cols := list "song_id" "title" "artist_id" "year" "duration" -|}
SELECT {| range $i, $c := $cols |}{| if $i |}, {| end |}s.{| $c |}{| end |}
FROM {| ident .StagingSongs |} s
WHERE s.song_id IS NOT NULL
	AND NOT EXISTS (SELECT 1 FROM {| ident .Target |} t WHERE t.song_id = s.song_id)
GROUP BY {| range $i, $c := $cols |}{| if $i |}, {| end |}s.{| $c |}{| end |}`,

	schema.SongplaysTable: `
{|- $startTime := epochMillisToTimestamp "e.ts" -|}
SELECT DISTINCT {| $startTime |} AS start_time,
	e.user_id, e.level, s.song_id, s.artist_id, e.session_id, e.location, e.user_agent
FROM {| ident .StagingEvents |} e
JOIN {| ident .StagingSongs |} s ON e.song = s.title AND e.artist = s.artist_name
WHERE e.page = {| literal .NextSongPage |}
	AND e.user_id IS NOT NULL
	AND NOT EXISTS (
		SELECT 1 FROM {| ident .Target |} t
		WHERE t.start_time = {| $startTime |}
			AND t.user_id = e.user_id
			AND t.session_id = e.session_id
			AND t.song_id = s.song_id
	)`,

	schema.TimeTable: `
{|- $parts := list "hour" "day" "week" "month" "year" "dow" -|}
SELECT DISTINCT sp.start_time{| range $parts |}, EXTRACT({| . |} FROM sp.start_time){| end |}
FROM {| ident .Songplays |} sp
WHERE NOT EXISTS (SELECT 1 FROM {| ident .Target |} t WHERE t.start_time = sp.start_time)`,
}
