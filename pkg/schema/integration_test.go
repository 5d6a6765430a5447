package schema

import (
	"context"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kube-reporting/warehouse-etl/pkg/redshift"
	"github.com/kube-reporting/warehouse-etl/pkg/redshift/redshifttest"
)

const structureQuery = `
SELECT c.table_name, c.column_name, c.data_type, c.is_nullable,
	COALESCE(tc.constraint_type, '') AS constraint_type
FROM information_schema.columns c
LEFT JOIN information_schema.key_column_usage k
	ON k.table_schema = c.table_schema AND k.table_name = c.table_name AND k.column_name = c.column_name
LEFT JOIN information_schema.table_constraints tc
	ON tc.constraint_schema = k.constraint_schema AND tc.constraint_name = k.constraint_name
WHERE c.table_schema = 'public'
ORDER BY c.table_name, c.column_name, constraint_type`

func schemaStructure(t *testing.T, db redshift.Queryer) []string {
	rows, err := db.Query(context.Background(), structureQuery)
	require.NoError(t, err)
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = fmt.Sprintf("%s.%s %s nullable=%s %s", row["table_name"], row["column_name"], row["data_type"], row["is_nullable"], row["constraint_type"])
	}
	return out
}

func TestResetIsIdempotent(t *testing.T) {
	db := redshifttest.NewPostgres(t)
	ctx := context.Background()
	m := NewManager(logrus.New(), db, WithDialect(redshift.DialectPostgres))

	// nothing to drop on an empty database
	require.NoError(t, m.DropAll(ctx))
	assert.Empty(t, schemaStructure(t, db))

	require.NoError(t, m.Reset(ctx))
	first := schemaStructure(t, db)
	require.NotEmpty(t, first)

	tables, err := db.Query(ctx, "SELECT table_name FROM information_schema.tables WHERE table_schema = 'public' ORDER BY table_name")
	require.NoError(t, err)
	assert.Len(t, tables, 7)

	require.NoError(t, m.Reset(ctx))
	assert.Equal(t, first, schemaStructure(t, db))

	// referenced tables are dropped after the tables referencing them
	require.NoError(t, m.DropAll(ctx))
	assert.Empty(t, schemaStructure(t, db))
}
