package core

import (
	"bytes"
	"fmt"
)

// Handle identifies an environment, connection or statement owned by a CallLevelAPI.
type Handle uintptr

// NullHandle marks a resource that has not been allocated.
const NullHandle Handle = 0

type HandleType int16

const (
	HandleEnv  HandleType = 1
	HandleDbc  HandleType = 2
	HandleStmt HandleType = 3
)

func (t HandleType) String() string {
	switch t {
	case HandleEnv:
		return "SQL_HANDLE_ENV"
	case HandleDbc:
		return "SQL_HANDLE_DBC"
	case HandleStmt:
		return "SQL_HANDLE_STMT"
	}
	return fmt.Sprintf("HandleType(%d)", int16(t))
}

// Return is the status code every call-level function reports.
type Return int16

const (
	Success         Return = 0
	SuccessWithInfo Return = 1
	NoData          Return = 100
	Error           Return = -1
	InvalidHandle   Return = -2
)

// Succeeded reports whether rc is SQL_SUCCESS or SQL_SUCCESS_WITH_INFO.
func (rc Return) Succeeded() bool {
	return rc == Success || rc == SuccessWithInfo
}

func (rc Return) String() string {
	switch rc {
	case Success:
		return "SQL_SUCCESS"
	case SuccessWithInfo:
		return "SQL_SUCCESS_WITH_INFO"
	case NoData:
		return "SQL_NO_DATA"
	case Error:
		return "SQL_ERROR"
	case InvalidHandle:
		return "SQL_INVALID_HANDLE"
	}
	return fmt.Sprintf("SQLRETURN(%d)", int16(rc))
}

// Attribute and option values understood by the backends.
const (
	AttrODBCVersion int32 = 200

	OVODBC2   uintptr = 2
	OVODBC3   uintptr = 3
	OVODBC380 uintptr = 380

	InfoDataSourceName uint16 = 2
	InfoDriverName     uint16 = 6
	InfoDriverVer      uint16 = 7
	InfoDBMSName       uint16 = 17

	// InfoBufferSize is the capacity of the buffer GetInfo strings are copied into.
	InfoBufferSize = 32

	MaxMessageLength = 512
)

// FreeStmt options.
const (
	Close       uint16 = 0
	Drop        uint16 = 1
	Unbind      uint16 = 2
	ResetParams uint16 = 3
)

// CType is the C data type a column is converted to when bound.
type CType int16

const CChar CType = 1

// SQL data type codes reported in the type catalog.
const (
	AllTypes        int16 = 0
	TypeChar        int16 = 1
	TypeNumeric     int16 = 2
	TypeDecimal     int16 = 3
	TypeInteger     int16 = 4
	TypeSmallInt    int16 = 5
	TypeFloat       int16 = 6
	TypeReal        int16 = 7
	TypeDouble      int16 = 8
	TypeVarChar     int16 = 12
	TypeDate        int16 = 91
	TypeTime        int16 = 92
	TypeTimestamp   int16 = 93
	TypeLongVarChar int16 = -1
	TypeBinary      int16 = -2
	TypeVarBinary   int16 = -3
	TypeLongVarBin  int16 = -4
	TypeBigInt      int16 = -5
	TypeTinyInt     int16 = -6
	TypeBit         int16 = -7
	TypeWChar       int16 = -8
	TypeWVarChar    int16 = -9
	TypeGUID        int16 = -11
)

// NullData is the indicator value a driver stores for a NULL column.
const NullData int64 = -1

// IndicatorSentinel is stored in every indicator before a fetch so an
// indicator the driver did not touch can be told apart from real data.
const IndicatorSentinel int64 = -1

const ColumnTextSize = 1024

// ColumnBuffer receives one bound column of the current row.
type ColumnBuffer struct {
	Data      [ColumnTextSize]byte
	Indicator int64
}

func (b *ColumnBuffer) Reset() {
	b.Indicator = IndicatorSentinel
}

// IsNull reports whether the indicator holds the null marker.
func (b *ColumnBuffer) IsNull() bool {
	return b.Indicator == NullData
}

// Text returns the NUL-terminated content of the buffer.
func (b *ColumnBuffer) Text() string {
	if i := bytes.IndexByte(b.Data[:], 0); i >= 0 {
		return string(b.Data[:i])
	}
	return string(b.Data[:])
}

type DiagRecord struct {
	SQLState    string
	NativeError int32
	Message     string
}

// CallError reports a call-level function that did not succeed.
type CallError struct {
	Op   string
	Code Return
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s returned %s (%d)", e.Op, e.Code, int16(e.Code))
}
