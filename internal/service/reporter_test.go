package service

import (
	"bytes"
	"testing"

	"todbc/internal/core"

	"github.com/stretchr/testify/assert"
)

func TestReportDiagnostics(t *testing.T) {
	api := newFakeAPI()
	api.diags = []core.DiagRecord{
		{SQLState: "08001", NativeError: 0, Message: "unable to connect"},
		{SQLState: "28000", NativeError: 18456, Message: "Login failed"},
	}

	var out bytes.Buffer
	n := ReportDiagnostics(&out, api, fakeEnv, fakeDbc, core.NullHandle)

	assert.Equal(t, 2, n)
	assert.Equal(t,
		"SQLSTATE = 08001\nNATIVE ERROR = 0\nMSG = unable to connect\n\n"+
			"SQLSTATE = 28000\nNATIVE ERROR = 18456\nMSG = Login failed\n\n",
		out.String())
	assert.Empty(t, api.diags)
}

func TestReportDiagnosticsEmpty(t *testing.T) {
	var out bytes.Buffer
	assert.Equal(t, 0, ReportDiagnostics(&out, newFakeAPI(), fakeEnv, core.NullHandle, core.NullHandle))
	assert.Empty(t, out.String())
}

func TestReportDiagnosticsNullHandles(t *testing.T) {
	api := newFakeAPI()
	api.diags = []core.DiagRecord{{SQLState: "HY000"}}

	var out bytes.Buffer
	assert.Equal(t, 0, ReportDiagnostics(&out, api, core.NullHandle, core.NullHandle, core.NullHandle))
	assert.Empty(t, out.String())
	assert.Len(t, api.diags, 1, "no record is consumed")
}

// errorAPI fails every SQLError call with rc.
type errorAPI struct {
	*fakeAPI
	rc core.Return
}

func (e errorAPI) Error(core.Handle, core.Handle, core.Handle) (core.DiagRecord, core.Return) {
	return core.DiagRecord{}, e.rc
}

func TestReportDiagnosticsErrorFails(t *testing.T) {
	for _, rc := range []core.Return{core.Error, core.InvalidHandle} {
		t.Run(rc.String(), func(t *testing.T) {
			var out bytes.Buffer
			n := ReportDiagnostics(&out, errorAPI{newFakeAPI(), rc}, fakeEnv, core.NullHandle, core.NullHandle)
			assert.Equal(t, 0, n)
			assert.Equal(t, "SQLError failed!\n", out.String())
		})
	}
}
