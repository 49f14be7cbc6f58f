// Package drivers links the database/sql drivers the bridge backend can
// reach and maps their error types to ODBC diagnostic records.
package drivers

import (
	"errors"

	"todbc/internal/core"

	"github.com/alexbrainman/odbc"
	mssql "github.com/denisenkom/go-mssqldb"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"modernc.org/sqlite"

	// Drivers
	_ "github.com/jackc/pgx/v5/stdlib"
)

// generalError is the SQLSTATE used when a driver reports no state of its own.
const generalError = "HY000"

// Translate returns the diagnostic records carried by a driver error, or
// nil when err does not come from a known driver.
func Translate(err error) []core.DiagRecord {
	if err == nil {
		return nil
	}

	var odbcErr *odbc.Error
	if errors.As(err, &odbcErr) {
		recs := make([]core.DiagRecord, 0, len(odbcErr.Diag))
		for _, d := range odbcErr.Diag {
			recs = append(recs, core.DiagRecord{
				SQLState:    d.State,
				NativeError: int32(d.NativeError),
				Message:     d.Message,
			})
		}
		if len(recs) == 0 {
			recs = append(recs, core.DiagRecord{SQLState: generalError, Message: odbcErr.Error()})
		}
		return recs
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		state := string(myErr.SQLState[:])
		if myErr.SQLState == [5]byte{} {
			state = generalError
		}
		return []core.DiagRecord{{SQLState: state, NativeError: int32(myErr.Number), Message: myErr.Message}}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return []core.DiagRecord{{SQLState: string(pqErr.Code), Message: pqErr.Message}}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return []core.DiagRecord{{SQLState: pgErr.Code, Message: pgErr.Message}}
	}

	var msErr mssql.Error
	if errors.As(err, &msErr) {
		return []core.DiagRecord{{SQLState: generalError, NativeError: msErr.Number, Message: msErr.Message}}
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return []core.DiagRecord{{SQLState: generalError, NativeError: int32(liteErr.Code()), Message: liteErr.Error()}}
	}

	return nil
}

// Registered lists the driver names this package makes available to sql.Open.
func Registered() []string {
	return []string{"odbc", "mssql", "sqlserver", "mysql", "postgres", "pgx", "sqlite"}
}
