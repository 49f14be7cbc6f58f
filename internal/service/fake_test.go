package service

import (
	"fmt"
	"slices"

	"todbc/internal/core"
)

const (
	fakeEnv  core.Handle = 1
	fakeDbc  core.Handle = 2
	fakeStmt core.Handle = 3
)

// row maps a column ordinal to its value. A nil value is NULL; an absent
// ordinal leaves the bound buffer untouched.
type row map[uint16]*string

func val(s string) *string { return &s }

// fakeAPI is a scripted CallLevelAPI. Every call except Error is recorded
// by name; a name listed in fail returns that code and queues one
// diagnostic record.
type fakeAPI struct {
	version  string
	types    []row
	results  []row
	fail     map[string]core.Return
	diags    []core.DiagRecord
	calls    []string
	bindings map[uint16]*core.ColumnBuffer

	cursor   []row
	pos      int
	inResult bool

	// indicators holds the bound indicators seen at the start of each
	// result-set fetch, in ordinal order.
	indicators [][]int64
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		version: "03.52.0000",
		types: []row{
			{1: val("INTEGER"), 2: val("4")},
			{1: val("VARCHAR"), 2: val("12")},
		},
		fail:     make(map[string]core.Return),
		bindings: make(map[uint16]*core.ColumnBuffer),
	}
}

func (f *fakeAPI) call(name string) core.Return {
	f.calls = append(f.calls, name)
	if rc, ok := f.fail[name]; ok {
		f.diags = append(f.diags, core.DiagRecord{SQLState: "HY000", NativeError: 42, Message: "injected " + name})
		return rc
	}
	return core.Success
}

func (f *fakeAPI) called(name string) bool {
	return slices.Contains(f.calls, name)
}

func (f *fakeAPI) count(name string) int {
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeAPI) AllocHandle(t core.HandleType, input core.Handle) (core.Handle, core.Return) {
	var name string
	var h core.Handle
	switch t {
	case core.HandleEnv:
		name, h = "AllocEnv", fakeEnv
	case core.HandleDbc:
		name, h = "AllocDbc", fakeDbc
	case core.HandleStmt:
		name, h = "AllocStmt", fakeStmt
	}
	if rc := f.call(name); !rc.Succeeded() {
		return core.NullHandle, rc
	}
	return h, core.Success
}

func (f *fakeAPI) SetEnvAttr(core.Handle, int32, uintptr) core.Return {
	return f.call("SetEnvAttr")
}

func (f *fakeAPI) Connect(core.Handle, string, string, string) core.Return {
	return f.call("Connect")
}

func (f *fakeAPI) GetInfo(core.Handle, uint16) (string, core.Return) {
	if rc := f.call("GetInfo"); !rc.Succeeded() {
		return "", rc
	}
	return f.version, core.Success
}

func (f *fakeAPI) GetTypeInfo(core.Handle, int16) core.Return {
	if rc := f.call("GetTypeInfo"); !rc.Succeeded() {
		return rc
	}
	f.cursor, f.pos, f.inResult = f.types, 0, false
	return core.Success
}

func (f *fakeAPI) ExecDirect(core.Handle, string) core.Return {
	if rc := f.call("ExecDirect"); !rc.Succeeded() {
		return rc
	}
	f.cursor, f.pos, f.inResult = f.results, 0, true
	return core.Success
}

func (f *fakeAPI) BindCol(_ core.Handle, column uint16, _ core.CType, buf *core.ColumnBuffer) core.Return {
	if rc := f.call(fmt.Sprintf("BindCol(%d)", column)); !rc.Succeeded() {
		return rc
	}
	f.bindings[column] = buf
	return core.Success
}

func (f *fakeAPI) Fetch(core.Handle) core.Return {
	name := "FetchType"
	if f.inResult {
		name = "Fetch"
		ords := make([]uint16, 0, len(f.bindings))
		for ord := range f.bindings {
			ords = append(ords, ord)
		}
		slices.Sort(ords)
		seen := make([]int64, 0, len(ords))
		for _, ord := range ords {
			seen = append(seen, f.bindings[ord].Indicator)
		}
		f.indicators = append(f.indicators, seen)
	}
	if rc := f.call(name); !rc.Succeeded() {
		return rc
	}

	if f.pos >= len(f.cursor) {
		return core.NoData
	}
	r := f.cursor[f.pos]
	f.pos++
	for ord, buf := range f.bindings {
		v, ok := r[ord]
		if !ok {
			continue
		}
		if v == nil {
			buf.Indicator = core.NullData
			continue
		}
		n := copy(buf.Data[:core.ColumnTextSize-1], *v)
		buf.Data[n] = 0
		buf.Indicator = int64(len(*v))
	}
	return core.Success
}

func (f *fakeAPI) FreeStmt(_ core.Handle, option uint16) core.Return {
	if rc := f.call(fmt.Sprintf("FreeStmt(%d)", option)); !rc.Succeeded() {
		return rc
	}
	switch option {
	case core.Unbind:
		clear(f.bindings)
	case core.Close:
		f.cursor, f.pos = nil, 0
	}
	return core.Success
}

func (f *fakeAPI) Error(env, dbc, stmt core.Handle) (core.DiagRecord, core.Return) {
	if len(f.diags) == 0 {
		return core.DiagRecord{}, core.NoData
	}
	rec := f.diags[0]
	f.diags = f.diags[1:]
	return rec, core.Success
}

func (f *fakeAPI) Disconnect(core.Handle) core.Return {
	return f.call("Disconnect")
}

func (f *fakeAPI) FreeHandle(t core.HandleType, _ core.Handle) core.Return {
	switch t {
	case core.HandleEnv:
		return f.call("FreeEnv")
	case core.HandleDbc:
		return f.call("FreeDbc")
	}
	return f.call("FreeStmtHandle")
}

// teardown returns the release calls in the order they were made.
func (f *fakeAPI) teardown() []string {
	var out []string
	for _, c := range f.calls {
		switch c {
		case "FreeStmtHandle", "Disconnect", "FreeDbc", "FreeEnv":
			out = append(out, c)
		}
	}
	return out
}
