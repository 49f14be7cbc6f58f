package service

import (
	"todbc/internal/core"
	"todbc/internal/logger"
)

// Session owns the three handles of one run. Handles are acquired in
// dependency order and Close releases whatever subset exists.
type Session struct {
	api       core.CallLevelAPI
	Env       core.Handle
	Dbc       core.Handle
	Stmt      core.Handle
	connected bool
}

func NewSession(api core.CallLevelAPI) *Session {
	return &Session{api: api}
}

func (s *Session) Connected() bool {
	return s.connected
}

// Close frees the statement, disconnects, frees the connection and then
// the environment. Release failures are logged and otherwise ignored.
// Each handle is released at most once, so Close may be called again.
func (s *Session) Close() {
	if s.Stmt != core.NullHandle {
		s.release("SQLFreeHandle(SQL_HANDLE_STMT)", s.api.FreeHandle(core.HandleStmt, s.Stmt))
		s.Stmt = core.NullHandle
	}
	if s.connected {
		s.release("SQLDisconnect", s.api.Disconnect(s.Dbc))
		s.connected = false
	}
	if s.Dbc != core.NullHandle {
		s.release("SQLFreeHandle(SQL_HANDLE_DBC)", s.api.FreeHandle(core.HandleDbc, s.Dbc))
		s.Dbc = core.NullHandle
	}
	if s.Env != core.NullHandle {
		s.release("SQLFreeHandle(SQL_HANDLE_ENV)", s.api.FreeHandle(core.HandleEnv, s.Env))
		s.Env = core.NullHandle
	}
}

func (s *Session) release(op string, rc core.Return) {
	if !rc.Succeeded() {
		logger.Error.Printf("teardown: %s returned %s", op, rc)
	}
}
