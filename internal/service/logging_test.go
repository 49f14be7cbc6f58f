package service

import (
	"bytes"
	"io"
	"testing"

	"todbc/internal/core"
	"todbc/internal/logger"

	"github.com/stretchr/testify/assert"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(io.Discard) })
	return &buf
}

func TestWithLogging(t *testing.T) {
	logs := captureLog(t)
	api := newFakeAPI()
	api.fail["Connect"] = core.Error
	wrapped := WithLogging(api)

	env, rc := wrapped.AllocHandle(core.HandleEnv, core.NullHandle)
	assert.Equal(t, fakeEnv, env)
	assert.Equal(t, core.Success, rc)
	assert.Equal(t, core.Error, wrapped.Connect(fakeDbc, "dsn", "uid", "pwd"))

	out := logs.String()
	assert.Contains(t, out, "INFO: ")
	assert.Contains(t, out, "SQLAllocHandle(SQL_HANDLE_ENV) SQL_SUCCESS")
	assert.Contains(t, out, "ERROR: ")
	assert.Contains(t, out, "SQLConnect SQL_ERROR")
	assert.NotContains(t, out, "pwd")
}

func TestWithLoggingNoDataIsInfo(t *testing.T) {
	logs := captureLog(t)
	wrapped := WithLogging(newFakeAPI())

	wrapped.ExecDirect(fakeStmt, testQuery)
	assert.Equal(t, core.NoData, wrapped.Fetch(fakeStmt))

	out := logs.String()
	assert.Contains(t, out, "SQLFetch SQL_NO_DATA")
	assert.NotContains(t, out, "ERROR: ")
}

func TestWithLoggingPassesErrorThrough(t *testing.T) {
	logs := captureLog(t)
	api := newFakeAPI()
	api.diags = []core.DiagRecord{{SQLState: "42S02", Message: "missing"}}

	rec, rc := WithLogging(api).Error(fakeEnv, fakeDbc, fakeStmt)
	assert.Equal(t, core.Success, rc)
	assert.Equal(t, "42S02", rec.SQLState)
	assert.Empty(t, logs.String())
}
