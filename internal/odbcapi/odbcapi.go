//go:build cgo

// Package odbcapi binds the call-level functions of the platform ODBC
// driver manager.
package odbcapi

/*
#cgo linux LDFLAGS: -lodbc
#cgo darwin LDFLAGS: -lodbc
#cgo freebsd LDFLAGS: -lodbc
#cgo windows LDFLAGS: -lodbc32

#ifdef _WIN32
#include <windows.h>
#endif
#include <stdlib.h>
#include <sql.h>
#include <sqlext.h>

// Integer attributes travel in the pointer argument.
static SQLRETURN todbc_set_env_attr(SQLHENV env, SQLINTEGER attr, SQLULEN value) {
	return SQLSetEnvAttr(env, attr, (SQLPOINTER)value, 0);
}
*/
import "C"

import (
	"strings"
	"sync"
	"unsafe"

	"todbc/internal/core"
)

// binding is one bound column. The driver writes into data and ind, which
// live in C memory; buf is the caller's view, synchronised around SQLFetch.
type binding struct {
	buf  *core.ColumnBuffer
	data unsafe.Pointer
	ind  *C.SQLLEN
}

func (b *binding) free() {
	C.free(b.data)
	C.free(unsafe.Pointer(b.ind))
}

type object struct {
	typ    core.HandleType
	h      C.SQLHANDLE
	parent core.Handle
}

// API drives the ODBC driver manager. The zero value is not usable; call Open.
type API struct {
	mu       sync.Mutex
	last     core.Handle
	objects  map[core.Handle]*object
	bindings map[core.Handle]map[uint16]*binding
}

// Open returns the native call-level API.
func Open() (core.CallLevelAPI, error) {
	return &API{
		objects:  make(map[core.Handle]*object),
		bindings: make(map[core.Handle]map[uint16]*binding),
	}, nil
}

// lookup resolves h. A null handle maps to SQL_NULL_HANDLE; an unknown one
// reports false.
func (a *API) lookup(h core.Handle, t core.HandleType) (C.SQLHANDLE, bool) {
	if h == core.NullHandle {
		return nil, true
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	o, ok := a.objects[h]
	if !ok || o.typ != t {
		return nil, false
	}
	return o.h, true
}

func (a *API) must(h core.Handle, t core.HandleType) (C.SQLHANDLE, bool) {
	if h == core.NullHandle {
		return nil, false
	}
	return a.lookup(h, t)
}

func (a *API) forget(h core.Handle) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.forgetLocked(h)
}

func (a *API) forgetLocked(h core.Handle) {
	for _, b := range a.bindings[h] {
		b.free()
	}
	delete(a.bindings, h)
	delete(a.objects, h)
}

func (a *API) unbindAll(stmt core.Handle) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, b := range a.bindings[stmt] {
		b.free()
	}
	delete(a.bindings, stmt)
}

func cstring(s string) (*C.SQLCHAR, func()) {
	p := C.CString(s)
	return (*C.SQLCHAR)(unsafe.Pointer(p)), func() { C.free(unsafe.Pointer(p)) }
}

func (a *API) AllocHandle(t core.HandleType, input core.Handle) (core.Handle, core.Return) {
	var parent C.SQLHANDLE
	switch t {
	case core.HandleEnv:
	case core.HandleDbc, core.HandleStmt:
		want := core.HandleEnv
		if t == core.HandleStmt {
			want = core.HandleDbc
		}
		h, ok := a.must(input, want)
		if !ok {
			return core.NullHandle, core.InvalidHandle
		}
		parent = h
	default:
		return core.NullHandle, core.Error
	}

	var out C.SQLHANDLE
	rc := core.Return(C.SQLAllocHandle(C.SQLSMALLINT(t), parent, &out))
	if !rc.Succeeded() {
		return core.NullHandle, rc
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.last++
	a.objects[a.last] = &object{typ: t, h: out, parent: input}
	return a.last, rc
}

func (a *API) SetEnvAttr(env core.Handle, attr int32, value uintptr) core.Return {
	h, ok := a.must(env, core.HandleEnv)
	if !ok {
		return core.InvalidHandle
	}
	return core.Return(C.todbc_set_env_attr(C.SQLHENV(h), C.SQLINTEGER(attr), C.SQLULEN(value)))
}

func (a *API) Connect(dbc core.Handle, dsn, uid, pwd string) core.Return {
	h, ok := a.must(dbc, core.HandleDbc)
	if !ok {
		return core.InvalidHandle
	}
	cdsn, freeDSN := cstring(dsn)
	defer freeDSN()
	cuid, freeUID := cstring(uid)
	defer freeUID()
	cpwd, freePWD := cstring(pwd)
	defer freePWD()

	return core.Return(C.SQLConnect(C.SQLHDBC(h),
		cdsn, C.SQLSMALLINT(C.SQL_NTS),
		cuid, C.SQLSMALLINT(C.SQL_NTS),
		cpwd, C.SQLSMALLINT(C.SQL_NTS)))
}

func (a *API) GetInfo(dbc core.Handle, infoType uint16) (string, core.Return) {
	h, ok := a.must(dbc, core.HandleDbc)
	if !ok {
		return "", core.InvalidHandle
	}
	var buf [core.InfoBufferSize]C.SQLCHAR
	var n C.SQLSMALLINT
	rc := core.Return(C.SQLGetInfo(C.SQLHDBC(h), C.SQLUSMALLINT(infoType),
		C.SQLPOINTER(unsafe.Pointer(&buf[0])), C.SQLSMALLINT(len(buf)), &n))
	if !rc.Succeeded() {
		return "", rc
	}
	return C.GoString((*C.char)(unsafe.Pointer(&buf[0]))), rc
}

func (a *API) GetTypeInfo(stmt core.Handle, dataType int16) core.Return {
	h, ok := a.must(stmt, core.HandleStmt)
	if !ok {
		return core.InvalidHandle
	}
	return core.Return(C.SQLGetTypeInfo(C.SQLHSTMT(h), C.SQLSMALLINT(dataType)))
}

func (a *API) ExecDirect(stmt core.Handle, query string) core.Return {
	h, ok := a.must(stmt, core.HandleStmt)
	if !ok {
		return core.InvalidHandle
	}
	cq, free := cstring(query)
	defer free()
	return core.Return(C.SQLExecDirect(C.SQLHSTMT(h), cq, C.SQLINTEGER(C.SQL_NTS)))
}

func (a *API) BindCol(stmt core.Handle, column uint16, ctype core.CType, buf *core.ColumnBuffer) core.Return {
	h, ok := a.must(stmt, core.HandleStmt)
	if !ok {
		return core.InvalidHandle
	}

	if buf == nil {
		rc := core.Return(C.SQLBindCol(C.SQLHSTMT(h), C.SQLUSMALLINT(column), C.SQLSMALLINT(ctype), nil, 0, nil))
		if rc.Succeeded() {
			a.mu.Lock()
			if b, ok := a.bindings[stmt][column]; ok {
				b.free()
				delete(a.bindings[stmt], column)
			}
			a.mu.Unlock()
		}
		return rc
	}

	b := &binding{
		buf:  buf,
		data: C.malloc(C.size_t(core.ColumnTextSize)),
		ind:  (*C.SQLLEN)(C.malloc(C.size_t(unsafe.Sizeof(C.SQLLEN(0))))),
	}
	*b.ind = C.SQLLEN(buf.Indicator)

	rc := core.Return(C.SQLBindCol(C.SQLHSTMT(h), C.SQLUSMALLINT(column), C.SQLSMALLINT(ctype),
		C.SQLPOINTER(b.data), C.SQLLEN(core.ColumnTextSize), b.ind))
	if !rc.Succeeded() {
		b.free()
		return rc
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	cols := a.bindings[stmt]
	if cols == nil {
		cols = make(map[uint16]*binding)
		a.bindings[stmt] = cols
	}
	if old, ok := cols[column]; ok {
		old.free()
	}
	cols[column] = b
	return rc
}

func (a *API) Fetch(stmt core.Handle) core.Return {
	h, ok := a.must(stmt, core.HandleStmt)
	if !ok {
		return core.InvalidHandle
	}

	a.mu.Lock()
	cols := a.bindings[stmt]
	a.mu.Unlock()

	for _, b := range cols {
		copy(unsafe.Slice((*byte)(b.data), core.ColumnTextSize), b.buf.Data[:])
		*b.ind = C.SQLLEN(b.buf.Indicator)
	}

	rc := core.Return(C.SQLFetch(C.SQLHSTMT(h)))

	for _, b := range cols {
		copy(b.buf.Data[:], unsafe.Slice((*byte)(b.data), core.ColumnTextSize))
		b.buf.Indicator = int64(*b.ind)
	}
	return rc
}

func (a *API) FreeStmt(stmt core.Handle, option uint16) core.Return {
	h, ok := a.must(stmt, core.HandleStmt)
	if !ok {
		return core.InvalidHandle
	}
	rc := core.Return(C.SQLFreeStmt(C.SQLHSTMT(h), C.SQLUSMALLINT(option)))
	if rc.Succeeded() {
		switch option {
		case core.Unbind:
			a.unbindAll(stmt)
		case core.Drop:
			a.forget(stmt)
		}
	}
	return rc
}

func (a *API) Error(env, dbc, stmt core.Handle) (core.DiagRecord, core.Return) {
	if env == core.NullHandle && dbc == core.NullHandle && stmt == core.NullHandle {
		return core.DiagRecord{}, core.InvalidHandle
	}
	henv, ok1 := a.lookup(env, core.HandleEnv)
	hdbc, ok2 := a.lookup(dbc, core.HandleDbc)
	hstmt, ok3 := a.lookup(stmt, core.HandleStmt)
	if !ok1 || !ok2 || !ok3 {
		return core.DiagRecord{}, core.InvalidHandle
	}

	var (
		state  [10]C.SQLCHAR
		msg    [core.MaxMessageLength]C.SQLCHAR
		native C.SQLINTEGER
		n      C.SQLSMALLINT
	)
	rc := core.Return(C.SQLError(C.SQLHENV(henv), C.SQLHDBC(hdbc), C.SQLHSTMT(hstmt),
		&state[0], &native, &msg[0], C.SQLSMALLINT(len(msg)), &n))
	if !rc.Succeeded() {
		return core.DiagRecord{}, rc
	}

	size := min(max(int(n), 0), len(msg)-1)
	text := C.GoStringN((*C.char)(unsafe.Pointer(&msg[0])), C.int(size))
	if i := strings.IndexByte(text, 0); i >= 0 {
		text = text[:i]
	}
	return core.DiagRecord{
		SQLState:    C.GoString((*C.char)(unsafe.Pointer(&state[0]))),
		NativeError: int32(native),
		Message:     text,
	}, rc
}

func (a *API) Disconnect(dbc core.Handle) core.Return {
	h, ok := a.must(dbc, core.HandleDbc)
	if !ok {
		return core.InvalidHandle
	}
	rc := core.Return(C.SQLDisconnect(C.SQLHDBC(h)))
	if rc.Succeeded() {
		// The driver manager releases the statements of the connection.
		a.mu.Lock()
		for sh, o := range a.objects {
			if o.typ == core.HandleStmt && o.parent == dbc {
				a.forgetLocked(sh)
			}
		}
		a.mu.Unlock()
	}
	return rc
}

func (a *API) FreeHandle(t core.HandleType, h core.Handle) core.Return {
	ch, ok := a.must(h, t)
	if !ok {
		return core.InvalidHandle
	}
	rc := core.Return(C.SQLFreeHandle(C.SQLSMALLINT(t), ch))
	if rc.Succeeded() {
		a.forget(h)
	}
	return rc
}
