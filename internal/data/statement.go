package data

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"todbc/internal/core"
)

var errExhausted = errors.New("result set exhausted")

// cursor is the open result set of a statement. Next returns one value per
// column with nil for NULL, and errExhausted after the last row.
type cursor interface {
	Columns() int
	Next() ([][]byte, error)
	Close() error
}

type statement struct {
	dbc      core.Handle
	cur      cursor
	bindings map[uint16]*core.ColumnBuffer
}

func (s *statement) closeCursor() {
	if s.cur != nil {
		_ = s.cur.Close()
		s.cur = nil
	}
}

// stmtConn resolves a statement handle and the connection it belongs to.
func (b *Bridge) stmtConn(h core.Handle) (*statement, *connection, bool) {
	s, ok := b.statement(h)
	if !ok {
		return nil, nil, false
	}
	c, ok := b.connection(s.dbc)
	if !ok {
		return nil, nil, false
	}
	return s, c, true
}

func (b *Bridge) GetTypeInfo(stmt core.Handle, dataType int16) core.Return {
	s, c, ok := b.stmtConn(stmt)
	if !ok {
		return core.InvalidHandle
	}
	b.clear(stmt)

	if s.cur != nil {
		b.post(stmt, "24000", "Invalid cursor state")
		return core.Error
	}

	s.cur = newStaticCursor(typeInfoColumns, catalogRows(c.driver, dataType))
	return core.Success
}

func (b *Bridge) ExecDirect(stmt core.Handle, query string) core.Return {
	s, c, ok := b.stmtConn(stmt)
	if !ok {
		return core.InvalidHandle
	}
	b.clear(stmt)

	if s.cur != nil {
		b.post(stmt, "24000", "Invalid cursor state")
		return core.Error
	}

	rows, err := c.conn.QueryContext(b.ctx, query)
	if err != nil {
		b.postErr(stmt, "42000", c.driver, err)
		return core.Error
	}

	cols, err := rows.Columns()
	if err != nil {
		_ = rows.Close()
		b.postErr(stmt, "HY000", c.driver, err)
		return core.Error
	}

	s.cur = newRowsCursor(rows, len(cols))
	return core.Success
}

// BindCol binds column to buf. A nil buf unbinds the column.
func (b *Bridge) BindCol(stmt core.Handle, column uint16, ctype core.CType, buf *core.ColumnBuffer) core.Return {
	s, ok := b.statement(stmt)
	if !ok {
		return core.InvalidHandle
	}
	b.clear(stmt)

	if column == 0 {
		b.post(stmt, "07009", "Invalid descriptor index: bookmarks are not supported")
		return core.Error
	}
	if buf == nil {
		delete(s.bindings, column)
		return core.Success
	}
	if ctype != core.CChar {
		b.post(stmt, "HYC00", "Optional feature not implemented: C type %d", ctype)
		return core.Error
	}
	if s.cur != nil && int(column) > s.cur.Columns() {
		b.post(stmt, "07009", "Invalid descriptor index: column %d of %d", column, s.cur.Columns())
		return core.Error
	}

	s.bindings[column] = buf
	return core.Success
}

// Fetch advances the cursor and fills every bound buffer. NULL stores
// core.NullData in the indicator and leaves the text untouched. Longer
// values are truncated and report their full length.
func (b *Bridge) Fetch(stmt core.Handle) core.Return {
	s, c, ok := b.stmtConn(stmt)
	if !ok {
		return core.InvalidHandle
	}
	b.clear(stmt)

	if s.cur == nil {
		b.post(stmt, "HY010", "Function sequence error: no open cursor")
		return core.Error
	}

	vals, err := s.cur.Next()
	if err == errExhausted {
		return core.NoData
	}
	if err != nil {
		b.postErr(stmt, "HY000", c.driver, err)
		return core.Error
	}

	rc := core.Success
	for col, buf := range s.bindings {
		if int(col) > len(vals) {
			b.post(stmt, "07009", "Invalid descriptor index: column %d of %d", col, len(vals))
			return core.Error
		}

		v := vals[col-1]
		if v == nil {
			buf.Indicator = core.NullData
			continue
		}

		n := copy(buf.Data[:len(buf.Data)-1], v)
		buf.Data[n] = 0
		buf.Indicator = int64(len(v))
		if n < len(v) {
			b.post(stmt, "01004", "String data, right truncated: column %d", col)
			rc = core.SuccessWithInfo
		}
	}
	return rc
}

func (b *Bridge) FreeStmt(stmt core.Handle, option uint16) core.Return {
	s, ok := b.statement(stmt)
	if !ok {
		return core.InvalidHandle
	}
	b.clear(stmt)

	switch option {
	case core.Close:
		s.closeCursor()
	case core.Unbind:
		s.bindings = make(map[uint16]*core.ColumnBuffer)
	case core.ResetParams:
		// no parameters are ever bound
	case core.Drop:
		return b.FreeHandle(core.HandleStmt, stmt)
	default:
		b.post(stmt, "HY092", "Invalid attribute/option identifier: %d", option)
		return core.Error
	}
	return core.Success
}

type rowsCursor struct {
	rows *sql.Rows
	vals []any
	ptrs []any
}

func newRowsCursor(rows *sql.Rows, n int) *rowsCursor {
	c := &rowsCursor{rows: rows, vals: make([]any, n), ptrs: make([]any, n)}
	for i := range c.vals {
		c.ptrs[i] = &c.vals[i]
	}
	return c
}

func (c *rowsCursor) Columns() int { return len(c.vals) }

func (c *rowsCursor) Next() ([][]byte, error) {
	if !c.rows.Next() {
		if err := c.rows.Err(); err != nil {
			return nil, err
		}
		return nil, errExhausted
	}
	if err := c.rows.Scan(c.ptrs...); err != nil {
		return nil, err
	}

	out := make([][]byte, len(c.vals))
	for i, v := range c.vals {
		out[i] = textValue(v)
	}
	return out, nil
}

func (c *rowsCursor) Close() error { return c.rows.Close() }

// textValue renders a scanned value the way a driver converts it to
// SQL_C_CHAR. Only NULL yields a nil slice.
func textValue(v any) []byte {
	switch x := v.(type) {
	case nil:
		return nil
	case []byte:
		return append([]byte{}, x...)
	case string:
		return append([]byte{}, x...)
	case int64:
		return strconv.AppendInt([]byte{}, x, 10)
	case float64:
		return strconv.AppendFloat([]byte{}, x, 'g', -1, 64)
	case bool:
		if x {
			return []byte("1")
		}
		return []byte("0")
	case time.Time:
		return []byte(x.Format("2006-01-02 15:04:05.999999999"))
	}
	return []byte(fmt.Sprint(v))
}

type staticCursor struct {
	columns int
	rows    [][][]byte
	pos     int
}

func newStaticCursor(columns int, rows [][][]byte) *staticCursor {
	return &staticCursor{columns: columns, rows: rows}
}

func (c *staticCursor) Columns() int { return c.columns }

func (c *staticCursor) Next() ([][]byte, error) {
	if c.pos >= len(c.rows) {
		return nil, errExhausted
	}
	row := c.rows[c.pos]
	c.pos++
	return row, nil
}

func (c *staticCursor) Close() error { return nil }
