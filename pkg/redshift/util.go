package redshift

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// Dialect selects the DDL flavour CreateTableSQL emits. The postgres dialect
// exists for local development and integration tests; it drops the
// distribution and sort clauses and uses standard identity columns.
type Dialect string

const (
	DialectRedshift Dialect = "redshift"
	DialectPostgres Dialect = "postgres"
)

func ParseDialect(s string) (Dialect, error) {
	switch d := Dialect(strings.ToLower(s)); d {
	case DialectRedshift, DialectPostgres:
		return d, nil
	case "":
		return DialectRedshift, nil
	default:
		return "", fmt.Errorf("unknown SQL dialect %q, must be one of %s, %s", s, DialectRedshift, DialectPostgres)
	}
}

type Row map[string]interface{}

type Column struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	NotNull    bool   `json:"notNull,omitempty"`
	PrimaryKey bool   `json:"primaryKey,omitempty"`
	// Identity columns are assigned monotonically increasing values by the
	// warehouse.
	Identity bool `json:"identity,omitempty"`
	// References names the table whose primary key this column refers to.
	// The referenced column has the same name.
	References string `json:"references,omitempty"`
}

type TableOptions struct {
	// DistStyle is one of EVEN, KEY, ALL or AUTO. Empty leaves it to the
	// warehouse, or KEY when DistKey is set.
	DistStyle string
	DistKey   string
	SortKey   []string
}

// CopyOptions configures a bulk COPY from S3.
type CopyOptions struct {
	Source  string
	IAMRole string
	// JSONPaths is the S3 location of a JSONPaths file. When empty, JSON
	// keys are matched to column names.
	JSONPaths string
	Region    string
}

func QuoteIdentifier(name string) string {
	return pq.QuoteIdentifier(name)
}

// QuoteLiteral quotes s as a standard SQL string literal.
func QuoteLiteral(s string) string {
	return "'" + strings.Replace(s, "'", "''", -1) + "'"
}

func GenerateCreateTableSQL(dialect Dialect, tableName string, columns []Column, opts TableOptions, ignoreExists bool) string {
	ifNotExists := ""
	if ignoreExists {
		ifNotExists = "IF NOT EXISTS "
	}

	columnsStr := generateColumnDefinitionListSQL(dialect, columns)

	var tableAttrs []string
	if dialect == DialectRedshift {
		switch {
		case opts.DistStyle != "":
			tableAttrs = append(tableAttrs, "DISTSTYLE "+strings.ToUpper(opts.DistStyle))
		case opts.DistKey != "":
			tableAttrs = append(tableAttrs, "DISTSTYLE KEY")
		}
		if opts.DistKey != "" {
			tableAttrs = append(tableAttrs, fmt.Sprintf("DISTKEY (%s)", QuoteIdentifier(opts.DistKey)))
		}
		if len(opts.SortKey) != 0 {
			tableAttrs = append(tableAttrs, fmt.Sprintf("SORTKEY (%s)", generateQuotedListSQL(opts.SortKey)))
		}
	}

	sqlStr := "CREATE TABLE %s%s (\n\t%s\n)"
	query := fmt.Sprintf(sqlStr, ifNotExists, QuoteIdentifier(tableName), columnsStr)
	if len(tableAttrs) != 0 {
		query += "\n" + strings.Join(tableAttrs, "\n")
	}
	return query
}

func generateColumnDefinitionListSQL(dialect Dialect, columns []Column) string {
	c := make([]string, len(columns))
	for i, col := range columns {
		def := QuoteIdentifier(col.Name) + " " + col.Type
		if col.Identity {
			if dialect == DialectRedshift {
				def += " IDENTITY(0,1)"
			} else {
				def += " GENERATED BY DEFAULT AS IDENTITY"
			}
		}
		if col.NotNull || col.PrimaryKey {
			def += " NOT NULL"
		}
		if col.PrimaryKey {
			def += " PRIMARY KEY"
		}
		if col.References != "" {
			def += fmt.Sprintf(" REFERENCES %s (%s)", QuoteIdentifier(col.References), QuoteIdentifier(col.Name))
		}
		c[i] = def
	}
	return strings.Join(c, ",\n\t")
}

func GenerateDropTableSQL(tableName string, ignoreNotExists bool) string {
	ifExists := ""
	if ignoreNotExists {
		ifExists = "IF EXISTS "
	}
	return fmt.Sprintf("DROP TABLE %s%s", ifExists, QuoteIdentifier(tableName))
}

func GenerateDeleteFromSQL(tableName string) string {
	return fmt.Sprintf("DELETE FROM %s", QuoteIdentifier(tableName))
}

func GenerateCountSQL(tableName string) string {
	return fmt.Sprintf("SELECT count(*) AS count FROM %s", QuoteIdentifier(tableName))
}

// FormatInsertQuery wraps query, a SELECT producing columns in order, in an
// INSERT into target.
func FormatInsertQuery(target string, columns []string, query string) string {
	return fmt.Sprintf("INSERT INTO %s (%s)\n%s", QuoteIdentifier(target), generateQuotedListSQL(columns), query)
}

func GenerateCopySQL(tableName string, columns []string, opts CopyOptions) string {
	format := "'auto'"
	if opts.JSONPaths != "" {
		format = QuoteLiteral(opts.JSONPaths)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "COPY %s (%s)\n", QuoteIdentifier(tableName), generateQuotedListSQL(columns))
	fmt.Fprintf(&b, "FROM %s\n", QuoteLiteral(opts.Source))
	fmt.Fprintf(&b, "IAM_ROLE %s\n", QuoteLiteral(opts.IAMRole))
	fmt.Fprintf(&b, "FORMAT AS JSON %s\n", format)
	if opts.Region != "" {
		fmt.Fprintf(&b, "REGION %s\n", QuoteLiteral(opts.Region))
	}
	b.WriteString("TRUNCATECOLUMNS EMPTYASNULL BLANKSASNULL")
	return b.String()
}

func GenerateGetRowsSQL(tableName string, columns []string) string {
	columnsSQL := generateQuotedListSQL(columns)
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY %s ASC", columnsSQL, QuoteIdentifier(tableName), columnsSQL)
}

func generateQuotedListSQL(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = QuoteIdentifier(name)
	}
	return strings.Join(quoted, ", ")
}

// ColumnNames returns the names of columns in order.
func ColumnNames(columns []Column) []string {
	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = col.Name
	}
	return names
}

func GetRows(ctx context.Context, queryer Queryer, tableName string, columns []string) ([]Row, error) {
	return queryer.Query(ctx, GenerateGetRowsSQL(tableName, columns))
}

// ExecuteSelect performs the query and returns each result row keyed by
// column name.
func ExecuteSelect(ctx context.Context, queryer SQLQueryer, query string) ([]Row, error) {
	rows, err := queryer.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var results []Row
	for rows.Next() {
		// Create a slice of interface{}'s to represent each column,
		// and a second slice to contain pointers to each item in the columns slice.
		columns := make([]interface{}, len(cols))
		columnPointers := make([]interface{}, len(cols))
		for i := range columns {
			columnPointers[i] = &columns[i]
		}

		if err := rows.Scan(columnPointers...); err != nil {
			return nil, err
		}

		m := make(map[string]interface{})
		for i, colName := range cols {
			val := columnPointers[i].(*interface{})
			m[colName] = *val
		}
		results = append(results, Row(m))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}
