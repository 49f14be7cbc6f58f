package drivers

import (
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"testing"

	"todbc/internal/core"

	"github.com/alexbrainman/odbc"
	mssql "github.com/denisenkom/go-mssqldb"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []core.DiagRecord
	}{
		{
			name: "odbc",
			err: &odbc.Error{APIName: "SQLDriverConnect", Diag: []odbc.DiagRecord{
				{State: "IM002", NativeError: 0, Message: "Data source name not found"},
				{State: "01000", NativeError: 7, Message: "General warning"},
			}},
			want: []core.DiagRecord{
				{SQLState: "IM002", NativeError: 0, Message: "Data source name not found"},
				{SQLState: "01000", NativeError: 7, Message: "General warning"},
			},
		},
		{
			name: "mysql",
			err:  &mysql.MySQLError{Number: 1045, SQLState: [5]byte{'2', '8', '0', '0', '0'}, Message: "Access denied"},
			want: []core.DiagRecord{{SQLState: "28000", NativeError: 1045, Message: "Access denied"}},
		},
		{
			name: "mysql without state",
			err:  &mysql.MySQLError{Number: 1105, Message: "unknown"},
			want: []core.DiagRecord{{SQLState: "HY000", NativeError: 1105, Message: "unknown"}},
		},
		{
			name: "pq",
			err:  &pq.Error{Code: "42P01", Message: `relation "your_table_name" does not exist`},
			want: []core.DiagRecord{{SQLState: "42P01", Message: `relation "your_table_name" does not exist`}},
		},
		{
			name: "pgx",
			err:  fmt.Errorf("query: %w", &pgconn.PgError{Code: "28P01", Message: "password authentication failed"}),
			want: []core.DiagRecord{{SQLState: "28P01", Message: "password authentication failed"}},
		},
		{
			name: "mssql",
			err:  mssql.Error{Number: 208, Message: "Invalid object name 'your_table_name'."},
			want: []core.DiagRecord{{SQLState: "HY000", NativeError: 208, Message: "Invalid object name 'your_table_name'."}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Translate(tt.err))
		})
	}
}

func TestTranslateUnknown(t *testing.T) {
	assert.Nil(t, Translate(nil))
	assert.Nil(t, Translate(errors.New("plain")))
}

func TestTranslateSQLite(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Query("SELECT * FROM your_table_name")
	require.Error(t, err)

	recs := Translate(err)
	require.Len(t, recs, 1)
	assert.Equal(t, "HY000", recs[0].SQLState)
	assert.Equal(t, int32(1), recs[0].NativeError) // SQLITE_ERROR
	assert.Contains(t, recs[0].Message, "your_table_name")
}

func TestRegistered(t *testing.T) {
	drivers := sql.Drivers()
	for _, name := range Registered() {
		assert.True(t, slices.Contains(drivers, name), name)
	}
}
