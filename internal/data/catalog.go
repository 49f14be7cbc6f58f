package data

import (
	"runtime/debug"
	"strconv"

	"todbc/internal/core"
)

// typeInfoColumns is the width of a type catalog row: TYPE_NAME,
// DATA_TYPE, COLUMN_SIZE, LITERAL_PREFIX, LITERAL_SUFFIX.
const typeInfoColumns = 5

type typeInfo struct {
	name       string
	dataType   int16
	columnSize int64
	prefix     string
	suffix     string
}

var catalogs = map[string][]typeInfo{
	"sqlite": {
		{"INTEGER", core.TypeBigInt, 19, "", ""},
		{"REAL", core.TypeDouble, 15, "", ""},
		{"NUMERIC", core.TypeNumeric, 15, "", ""},
		{"TEXT", core.TypeLongVarChar, 1073741823, "'", "'"},
		{"BLOB", core.TypeLongVarBin, 1073741823, "X'", "'"},
	},
	"postgres": {
		{"bool", core.TypeBit, 1, "'", "'"},
		{"int2", core.TypeSmallInt, 5, "", ""},
		{"int4", core.TypeInteger, 10, "", ""},
		{"int8", core.TypeBigInt, 19, "", ""},
		{"float4", core.TypeReal, 8, "", ""},
		{"float8", core.TypeDouble, 17, "", ""},
		{"numeric", core.TypeNumeric, 1000, "", ""},
		{"varchar", core.TypeVarChar, 10485760, "'", "'"},
		{"text", core.TypeLongVarChar, 1073741823, "'", "'"},
		{"bytea", core.TypeVarBinary, 1073741823, "'\\x", "'"},
		{"date", core.TypeDate, 10, "'", "'"},
		{"timestamp", core.TypeTimestamp, 26, "'", "'"},
		{"uuid", core.TypeGUID, 36, "'", "'"},
	},
	"mysql": {
		{"tinyint", core.TypeTinyInt, 3, "", ""},
		{"smallint", core.TypeSmallInt, 5, "", ""},
		{"int", core.TypeInteger, 10, "", ""},
		{"bigint", core.TypeBigInt, 19, "", ""},
		{"double", core.TypeDouble, 15, "", ""},
		{"decimal", core.TypeDecimal, 65, "", ""},
		{"varchar", core.TypeVarChar, 65535, "'", "'"},
		{"text", core.TypeLongVarChar, 65535, "'", "'"},
		{"blob", core.TypeLongVarBin, 65535, "0x", ""},
		{"date", core.TypeDate, 10, "'", "'"},
		{"datetime", core.TypeTimestamp, 26, "'", "'"},
	},
	"mssql": {
		{"bit", core.TypeBit, 1, "", ""},
		{"tinyint", core.TypeTinyInt, 3, "", ""},
		{"smallint", core.TypeSmallInt, 5, "", ""},
		{"int", core.TypeInteger, 10, "", ""},
		{"bigint", core.TypeBigInt, 19, "", ""},
		{"real", core.TypeReal, 24, "", ""},
		{"float", core.TypeFloat, 53, "", ""},
		{"decimal", core.TypeDecimal, 38, "", ""},
		{"char", core.TypeChar, 8000, "'", "'"},
		{"varchar", core.TypeVarChar, 8000, "'", "'"},
		{"nvarchar", core.TypeWVarChar, 4000, "N'", "'"},
		{"varbinary", core.TypeVarBinary, 8000, "0x", ""},
		{"date", core.TypeDate, 10, "'", "'"},
		{"datetime2", core.TypeTimestamp, 27, "'", "'"},
		{"uniqueidentifier", core.TypeGUID, 36, "'", "'"},
	},
	"odbc": {
		{"CHAR", core.TypeChar, 255, "'", "'"},
		{"VARCHAR", core.TypeVarChar, 255, "'", "'"},
		{"INTEGER", core.TypeInteger, 10, "", ""},
		{"SMALLINT", core.TypeSmallInt, 5, "", ""},
		{"DECIMAL", core.TypeDecimal, 15, "", ""},
		{"FLOAT", core.TypeFloat, 15, "", ""},
		{"DOUBLE", core.TypeDouble, 15, "", ""},
		{"DATE", core.TypeDate, 10, "'", "'"},
		{"TIMESTAMP", core.TypeTimestamp, 26, "'", "'"},
		{"BINARY", core.TypeBinary, 255, "0x", ""},
	},
}

// family maps a database/sql driver name to its catalog and DBMS name.
func family(driver string) string {
	switch driver {
	case "sqlite", "sqlite3":
		return "sqlite"
	case "postgres", "pgx":
		return "postgres"
	case "mysql":
		return "mysql"
	case "mssql", "sqlserver", "azuresql":
		return "mssql"
	}
	return "odbc"
}

func dbmsName(driver string) string {
	switch family(driver) {
	case "sqlite":
		return "SQLite"
	case "postgres":
		return "PostgreSQL"
	case "mysql":
		return "MySQL"
	case "mssql":
		return "Microsoft SQL Server"
	}
	return "ODBC"
}

// catalogRows renders the catalog for driver. A non-zero dataType keeps
// only matching entries. Empty prefixes and suffixes are NULL.
func catalogRows(driver string, dataType int16) [][][]byte {
	rows := [][][]byte{}
	for _, t := range catalogs[family(driver)] {
		if dataType != core.AllTypes && t.dataType != dataType {
			continue
		}
		rows = append(rows, [][]byte{
			[]byte(t.name),
			[]byte(strconv.Itoa(int(t.dataType))),
			[]byte(strconv.FormatInt(t.columnSize, 10)),
			nullable(t.prefix),
			nullable(t.suffix),
		})
	}
	return rows
}

func nullable(s string) []byte {
	if s == "" {
		return nil
	}
	return []byte(s)
}

var driverModules = map[string]string{
	"odbc":      "github.com/alexbrainman/odbc",
	"mssql":     "github.com/denisenkom/go-mssqldb",
	"sqlserver": "github.com/denisenkom/go-mssqldb",
	"mysql":     "github.com/go-sql-driver/mysql",
	"postgres":  "github.com/lib/pq",
	"pgx":       "github.com/jackc/pgx/v5",
	"sqlite":    "modernc.org/sqlite",
	"sqlmock":   "github.com/DATA-DOG/go-sqlmock",
}

// driverVersion reports the module version of the Go driver linked in for
// driver, or "unknown" when the build carries no module information.
func driverVersion(driver string) string {
	path, ok := driverModules[driver]
	if !ok {
		return "unknown"
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, m := range info.Deps {
		if m.Path != path {
			continue
		}
		if m.Replace != nil && m.Replace.Version != "" {
			return m.Replace.Version
		}
		if m.Version != "" {
			return m.Version
		}
	}
	return "unknown"
}
