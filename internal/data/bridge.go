package data

import (
	"context"
	"database/sql"
	"fmt"

	"todbc/internal/core"
)

// ErrorTranslator turns a driver error into diagnostic records. It returns
// nil for errors it does not recognise.
type ErrorTranslator func(err error) []core.DiagRecord

type Option func(*Bridge)

func WithTranslator(t ErrorTranslator) Option {
	return func(b *Bridge) { b.translate = t }
}

// Bridge implements core.CallLevelAPI on top of database/sql. Each
// connection handle pins a single sql.Conn; there is no pooling.
type Bridge struct {
	ctx       context.Context
	resolver  *SourceResolver
	translate ErrorTranslator

	last    core.Handle
	objects map[core.Handle]any
	diags   map[core.Handle][]core.DiagRecord
}

type environment struct {
	version uintptr
	conns   int
}

type connection struct {
	env    core.Handle
	dsn    string
	driver string
	db     *sql.DB
	conn   *sql.Conn
	stmts  map[core.Handle]struct{}
}

func NewBridge(ctx context.Context, resolver *SourceResolver, opts ...Option) *Bridge {
	b := &Bridge{
		ctx:      ctx,
		resolver: resolver,
		objects:  make(map[core.Handle]any),
		diags:    make(map[core.Handle][]core.DiagRecord),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Bridge) register(obj any) core.Handle {
	b.last++
	b.objects[b.last] = obj
	return b.last
}

func (b *Bridge) forget(h core.Handle) {
	delete(b.objects, h)
	delete(b.diags, h)
}

func (b *Bridge) environment(h core.Handle) (*environment, bool) {
	e, ok := b.objects[h].(*environment)
	return e, ok
}

func (b *Bridge) connection(h core.Handle) (*connection, bool) {
	c, ok := b.objects[h].(*connection)
	return c, ok
}

func (b *Bridge) statement(h core.Handle) (*statement, bool) {
	s, ok := b.objects[h].(*statement)
	return s, ok
}

// post queues a diagnostic record on h.
func (b *Bridge) post(h core.Handle, state, format string, args ...any) {
	b.diags[h] = append(b.diags[h], core.DiagRecord{
		SQLState: state,
		Message:  "[todbc][bridge]" + fmt.Sprintf(format, args...),
	})
}

// postErr queues the records for a driver error, falling back to a single
// record with defaultState when the translator does not know the error.
func (b *Bridge) postErr(h core.Handle, defaultState, driver string, err error) {
	if b.translate != nil {
		if recs := b.translate(err); len(recs) > 0 {
			for _, r := range recs {
				r.Message = fmt.Sprintf("[todbc][bridge][%s]%s", driver, r.Message)
				b.diags[h] = append(b.diags[h], r)
			}
			return
		}
	}
	b.diags[h] = append(b.diags[h], core.DiagRecord{
		SQLState: defaultState,
		Message:  fmt.Sprintf("[todbc][bridge][%s]%v", driver, err),
	})
}

// clear drops the records left by the previous call on h.
func (b *Bridge) clear(h core.Handle) {
	delete(b.diags, h)
}

func (b *Bridge) AllocHandle(t core.HandleType, input core.Handle) (core.Handle, core.Return) {
	switch t {
	case core.HandleEnv:
		return b.register(&environment{}), core.Success

	case core.HandleDbc:
		e, ok := b.environment(input)
		if !ok {
			return core.NullHandle, core.InvalidHandle
		}
		b.clear(input)
		if e.version == 0 {
			b.post(input, "HY010", "Function sequence error: SQL_ATTR_ODBC_VERSION not set")
			return core.NullHandle, core.Error
		}
		e.conns++
		return b.register(&connection{env: input, stmts: make(map[core.Handle]struct{})}), core.Success

	case core.HandleStmt:
		c, ok := b.connection(input)
		if !ok {
			return core.NullHandle, core.InvalidHandle
		}
		b.clear(input)
		if c.conn == nil {
			b.post(input, "08003", "Connection not open")
			return core.NullHandle, core.Error
		}
		h := b.register(&statement{dbc: input, bindings: make(map[uint16]*core.ColumnBuffer)})
		c.stmts[h] = struct{}{}
		return h, core.Success
	}

	if _, ok := b.objects[input]; ok {
		b.clear(input)
		b.post(input, "HY092", "Invalid attribute/option identifier: handle type %d", int16(t))
	}
	return core.NullHandle, core.Error
}

func (b *Bridge) SetEnvAttr(env core.Handle, attr int32, value uintptr) core.Return {
	e, ok := b.environment(env)
	if !ok {
		return core.InvalidHandle
	}
	b.clear(env)

	if attr != core.AttrODBCVersion {
		b.post(env, "HY092", "Invalid attribute/option identifier: %d", attr)
		return core.Error
	}
	switch value {
	case core.OVODBC2, core.OVODBC3, core.OVODBC380:
		e.version = value
		return core.Success
	}
	b.post(env, "HY024", "Invalid attribute value: %d", value)
	return core.Error
}

func (b *Bridge) Connect(dbc core.Handle, dsn, uid, pwd string) core.Return {
	c, ok := b.connection(dbc)
	if !ok {
		return core.InvalidHandle
	}
	b.clear(dbc)

	if c.conn != nil {
		b.post(dbc, "08002", "Connection name in use")
		return core.Error
	}

	driver, connStr, err := b.resolver.Resolve(dsn, uid, pwd)
	if err != nil {
		b.post(dbc, "IM002", "Data source name not found: %v", err)
		return core.Error
	}

	db, err := sql.Open(driver, connStr)
	if err != nil {
		b.post(dbc, "IM003", "Specified driver could not be loaded: %v", err)
		return core.Error
	}
	db.SetMaxOpenConns(1)

	conn, err := db.Conn(b.ctx)
	if err != nil {
		_ = db.Close()
		b.postErr(dbc, "08001", driver, err)
		return core.Error
	}
	if err := conn.PingContext(b.ctx); err != nil {
		_ = conn.Close()
		_ = db.Close()
		b.postErr(dbc, "08001", driver, err)
		return core.Error
	}

	c.dsn = dsn
	c.driver = driver
	c.db = db
	c.conn = conn
	return core.Success
}

func (b *Bridge) GetInfo(dbc core.Handle, infoType uint16) (string, core.Return) {
	c, ok := b.connection(dbc)
	if !ok {
		return "", core.InvalidHandle
	}
	b.clear(dbc)

	if c.conn == nil {
		b.post(dbc, "08003", "Connection not open")
		return "", core.Error
	}

	var s string
	switch infoType {
	case core.InfoDriverName:
		s = c.driver
	case core.InfoDriverVer:
		s = driverVersion(c.driver)
	case core.InfoDataSourceName:
		s = c.dsn
	case core.InfoDBMSName:
		s = dbmsName(c.driver)
	default:
		b.post(dbc, "HY096", "Invalid information type: %d", infoType)
		return "", core.Error
	}

	if len(s) > core.InfoBufferSize-1 {
		b.post(dbc, "01004", "String data, right truncated")
		return s[:core.InfoBufferSize-1], core.SuccessWithInfo
	}
	return s, core.Success
}

// Error pops the next record from the statement, then the connection, then
// the environment queue. Only non-null handles are consulted.
func (b *Bridge) Error(env, dbc, stmt core.Handle) (core.DiagRecord, core.Return) {
	if env == core.NullHandle && dbc == core.NullHandle && stmt == core.NullHandle {
		return core.DiagRecord{}, core.InvalidHandle
	}
	if env != core.NullHandle {
		if _, ok := b.environment(env); !ok {
			return core.DiagRecord{}, core.InvalidHandle
		}
	}
	if dbc != core.NullHandle {
		if _, ok := b.connection(dbc); !ok {
			return core.DiagRecord{}, core.InvalidHandle
		}
	}
	if stmt != core.NullHandle {
		if _, ok := b.statement(stmt); !ok {
			return core.DiagRecord{}, core.InvalidHandle
		}
	}

	for _, h := range []core.Handle{stmt, dbc, env} {
		if h == core.NullHandle {
			continue
		}
		if q := b.diags[h]; len(q) > 0 {
			b.diags[h] = q[1:]
			return q[0], core.Success
		}
	}
	return core.DiagRecord{}, core.NoData
}

// Disconnect closes the pinned connection and frees every statement
// still allocated on it.
func (b *Bridge) Disconnect(dbc core.Handle) core.Return {
	c, ok := b.connection(dbc)
	if !ok {
		return core.InvalidHandle
	}
	b.clear(dbc)

	if c.conn == nil {
		b.post(dbc, "08003", "Connection not open")
		return core.Error
	}

	for h := range c.stmts {
		if s, ok := b.statement(h); ok {
			s.closeCursor()
		}
		b.forget(h)
	}
	c.stmts = make(map[core.Handle]struct{})

	rc := core.Success
	if err := c.conn.Close(); err != nil {
		b.post(dbc, "01002", "Disconnect error: %v", err)
		rc = core.SuccessWithInfo
	}
	if err := c.db.Close(); err != nil {
		b.post(dbc, "01002", "Disconnect error: %v", err)
		rc = core.SuccessWithInfo
	}
	c.conn = nil
	c.db = nil
	return rc
}

func (b *Bridge) FreeHandle(t core.HandleType, h core.Handle) core.Return {
	switch t {
	case core.HandleEnv:
		e, ok := b.environment(h)
		if !ok {
			return core.InvalidHandle
		}
		b.clear(h)
		if e.conns > 0 {
			b.post(h, "HY010", "Function sequence error: %d connections still allocated", e.conns)
			return core.Error
		}
		b.forget(h)
		return core.Success

	case core.HandleDbc:
		c, ok := b.connection(h)
		if !ok {
			return core.InvalidHandle
		}
		b.clear(h)
		if c.conn != nil {
			b.post(h, "HY010", "Function sequence error: connection still open")
			return core.Error
		}
		if e, ok := b.environment(c.env); ok {
			e.conns--
		}
		b.forget(h)
		return core.Success

	case core.HandleStmt:
		s, ok := b.statement(h)
		if !ok {
			return core.InvalidHandle
		}
		s.closeCursor()
		if c, ok := b.connection(s.dbc); ok {
			delete(c.stmts, h)
		}
		b.forget(h)
		return core.Success
	}
	return core.InvalidHandle
}
