package core

// CallLevelAPI is the subset of the ODBC call-level interface the
// diagnostic procedure drives. Handles are created in the order
// environment, connection, statement and released in reverse.
type CallLevelAPI interface {
	AllocHandle(t HandleType, input Handle) (Handle, Return)
	SetEnvAttr(env Handle, attr int32, value uintptr) Return
	Connect(dbc Handle, dsn, uid, pwd string) Return
	GetInfo(dbc Handle, infoType uint16) (string, Return)
	GetTypeInfo(stmt Handle, dataType int16) Return
	ExecDirect(stmt Handle, query string) Return
	// BindCol binds column (1-based) of the result set to buf. The
	// buffer must stay valid until the statement is unbound or freed.
	BindCol(stmt Handle, column uint16, ctype CType, buf *ColumnBuffer) Return
	Fetch(stmt Handle) Return
	FreeStmt(stmt Handle, option uint16) Return
	// Error pops the next queued diagnostic record from the most
	// specific non-null handle. NoData means the queue is empty.
	Error(env, dbc, stmt Handle) (DiagRecord, Return)
	Disconnect(dbc Handle) Return
	FreeHandle(t HandleType, h Handle) Return
}
