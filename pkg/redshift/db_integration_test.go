package redshift_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kube-reporting/warehouse-etl/pkg/redshift"
	"github.com/kube-reporting/warehouse-etl/pkg/redshift/redshifttest"
)

func TestExecCommitsStatementsTogether(t *testing.T) {
	db := redshifttest.NewPostgres(t)
	ctx := context.Background()

	require.NoError(t, db.Exec(ctx,
		`CREATE TABLE "staging_songs" (song_id VARCHAR(32), year INTEGER NOT NULL)`,
		`INSERT INTO "staging_songs" (song_id, year) VALUES ('SOUPIRU12A6D4FA1E1', 0)`,
	))
	count, err := redshift.CountRows(ctx, db, "staging_songs")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// the failing insert rolls back the delete before it
	err = db.Exec(ctx,
		redshift.GenerateDeleteFromSQL("staging_songs"),
		`INSERT INTO "staging_songs" (song_id, year) VALUES ('SOZCTXZ12AB0182364', NULL)`,
	)
	require.Error(t, err)
	count, err = redshift.CountRows(ctx, db, "staging_songs")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	rows, err := redshift.GetRows(ctx, db, "staging_songs", []string{"song_id"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "SOUPIRU12A6D4FA1E1", fmt.Sprintf("%s", rows[0]["song_id"]))
}
