package service

import (
	"time"

	"todbc/internal/core"
	"todbc/internal/logger"
)

// WithLogging wraps api so that every call is written to the log with its
// return code and duration.
func WithLogging(next core.CallLevelAPI) core.CallLevelAPI {
	return &loggingAPI{next: next}
}

type loggingAPI struct {
	next core.CallLevelAPI
}

func (l *loggingAPI) log(op string, rc core.Return, start time.Time) {
	duration := time.Since(start)
	if rc.Succeeded() || rc == core.NoData {
		logger.Info.Printf("%s %s %v", op, rc, duration)
		return
	}
	logger.Error.Printf("%s %s %v", op, rc, duration)
}

func (l *loggingAPI) AllocHandle(t core.HandleType, input core.Handle) (core.Handle, core.Return) {
	start := time.Now()
	h, rc := l.next.AllocHandle(t, input)
	l.log("SQLAllocHandle("+t.String()+")", rc, start)
	return h, rc
}

func (l *loggingAPI) SetEnvAttr(env core.Handle, attr int32, value uintptr) core.Return {
	start := time.Now()
	rc := l.next.SetEnvAttr(env, attr, value)
	l.log("SQLSetEnvAttr", rc, start)
	return rc
}

func (l *loggingAPI) Connect(dbc core.Handle, dsn, uid, pwd string) core.Return {
	start := time.Now()
	rc := l.next.Connect(dbc, dsn, uid, pwd)
	l.log("SQLConnect", rc, start)
	return rc
}

func (l *loggingAPI) GetInfo(dbc core.Handle, infoType uint16) (string, core.Return) {
	start := time.Now()
	s, rc := l.next.GetInfo(dbc, infoType)
	l.log("SQLGetInfo", rc, start)
	return s, rc
}

func (l *loggingAPI) GetTypeInfo(stmt core.Handle, dataType int16) core.Return {
	start := time.Now()
	rc := l.next.GetTypeInfo(stmt, dataType)
	l.log("SQLGetTypeInfo", rc, start)
	return rc
}

func (l *loggingAPI) ExecDirect(stmt core.Handle, query string) core.Return {
	start := time.Now()
	rc := l.next.ExecDirect(stmt, query)
	l.log("SQLExecDirect", rc, start)
	return rc
}

func (l *loggingAPI) BindCol(stmt core.Handle, column uint16, ctype core.CType, buf *core.ColumnBuffer) core.Return {
	start := time.Now()
	rc := l.next.BindCol(stmt, column, ctype, buf)
	l.log("SQLBindCol", rc, start)
	return rc
}

func (l *loggingAPI) Fetch(stmt core.Handle) core.Return {
	start := time.Now()
	rc := l.next.Fetch(stmt)
	l.log("SQLFetch", rc, start)
	return rc
}

func (l *loggingAPI) FreeStmt(stmt core.Handle, option uint16) core.Return {
	start := time.Now()
	rc := l.next.FreeStmt(stmt, option)
	l.log("SQLFreeStmt", rc, start)
	return rc
}

// Error is not logged; the reporter prints every record anyway.
func (l *loggingAPI) Error(env, dbc, stmt core.Handle) (core.DiagRecord, core.Return) {
	return l.next.Error(env, dbc, stmt)
}

func (l *loggingAPI) Disconnect(dbc core.Handle) core.Return {
	start := time.Now()
	rc := l.next.Disconnect(dbc)
	l.log("SQLDisconnect", rc, start)
	return rc
}

func (l *loggingAPI) FreeHandle(t core.HandleType, h core.Handle) core.Return {
	start := time.Now()
	rc := l.next.FreeHandle(t, h)
	l.log("SQLFreeHandle("+t.String()+")", rc, start)
	return rc
}
