package service

import (
	"errors"
	"fmt"
	"io"

	"todbc/internal/core"
	"todbc/internal/logger"
)

// Process exit statuses.
const (
	ExitOK      = 0
	ExitUsage   = 1
	ExitFailure = 255
)

// credentialCapacity is a 32-byte buffer minus its terminator.
const credentialCapacity = 32 - 1

var ErrUsage = errors.New("unexpected arguments")

// ParseArgs rejects any positional argument after the program name.
func ParseArgs(w io.Writer, args []string) error {
	if len(args) > 1 {
		fmt.Fprintf(w, "Usage: %s \n", args[0])
		return ErrUsage
	}
	return nil
}

type Credentials struct {
	DSN string
	UID string
	PWD string
}

// resultColumn is a result-set ordinal bound during the fetch loop.
type resultColumn struct {
	ordinal uint16
	label   string
	buf     core.ColumnBuffer
}

// Diagnoser runs the fixed handle-lifecycle procedure against one data source.
type Diagnoser struct {
	api     core.CallLevelAPI
	console *Console
	out     io.Writer
	program string
	query   string
}

func NewDiagnoser(api core.CallLevelAPI, console *Console, out io.Writer, program, query string) *Diagnoser {
	return &Diagnoser{
		api:     api,
		console: console,
		out:     out,
		program: program,
		query:   query,
	}
}

// Run prompts for credentials and performs the whole procedure. Every
// allocated handle is released before it returns the exit status.
func (d *Diagnoser) Run() int {
	creds := d.ReadCredentials()

	s := NewSession(d.api)
	defer s.Close()

	if err := d.run(s, creds); err != nil {
		logger.Error.Printf("diagnostic run failed: %v", err)
		return ExitFailure
	}
	logger.Info.Println("diagnostic run completed")
	return ExitOK
}

func (d *Diagnoser) run(s *Session, creds Credentials) error {
	if err := d.open(s, creds); err != nil {
		return err
	}
	if err := d.driverVersion(s); err != nil {
		return err
	}
	if err := d.supportedTypes(s); err != nil {
		return err
	}
	if err := d.execute(s); err != nil {
		return err
	}

	cols := []*resultColumn{
		{ordinal: 1},
		{ordinal: 4, label: "LITERAL PREFIX"},
		{ordinal: 5, label: "LITERAL SUFFIX"},
	}
	if err := d.bind(s, cols); err != nil {
		return err
	}

	// the first row is dumped prefix, suffix, then column 1
	return d.fetchAll(s, cols, []*resultColumn{cols[1], cols[2], cols[0]})
}

// ReadCredentials prompts for the data source name, user and password.
// End of input leaves the field empty.
func (d *Diagnoser) ReadCredentials() Credentials {
	var creds Credentials

	d.console.Prompt("\nEnter the DSN : ")
	creds.DSN = d.readField("DSN", d.console.ReadLine)
	d.console.Prompt("\nEnter the UID : ")
	creds.UID = d.readField("UID", d.console.ReadLine)
	d.console.Prompt("\nEnter the PWD : ")
	creds.PWD = d.readField("PWD", d.console.ReadSecret)

	fmt.Fprintf(d.out, "%s: will connect to data source '%s' as user '%s/%s'.\n",
		d.program, creds.DSN, creds.UID, mask(creds.PWD))
	return creds
}

func (d *Diagnoser) readField(name string, read func(int) (string, error)) string {
	v, err := read(credentialCapacity)
	if err == io.EOF {
		logger.Info.Printf("no input for %s", name)
		return ""
	}
	if err != nil {
		logger.Error.Printf("reading %s: %v", name, err)
		return ""
	}
	return v
}

func mask(pwd string) string {
	if pwd == "" {
		return ""
	}
	return "********"
}

func (d *Diagnoser) open(s *Session, creds Credentials) error {
	env, rc := d.api.AllocHandle(core.HandleEnv, core.NullHandle)
	if !rc.Succeeded() {
		return d.fail(s, "SQLAllocHandle(SQL_HANDLE_ENV)", rc, "Unable to allocate environment\n")
	}
	s.Env = env

	if rc := d.api.SetEnvAttr(s.Env, core.AttrODBCVersion, core.OVODBC3); !rc.Succeeded() {
		return d.fail(s, "SQLSetEnvAttr", rc, "SQLSetEnvAttr: Failed...\n")
	}

	dbc, rc := d.api.AllocHandle(core.HandleDbc, s.Env)
	if !rc.Succeeded() {
		return d.fail(s, "SQLAllocHandle(SQL_HANDLE_DBC)", rc, "Unable to allocate connection handle\n")
	}
	s.Dbc = dbc

	if rc := d.api.Connect(s.Dbc, creds.DSN, creds.UID, creds.PWD); !rc.Succeeded() {
		return d.fail(s, "SQLConnect", rc, "SQLConnect: Failed...\n")
	}
	s.connected = true
	logger.Info.Printf("connected to data source %q as %q", creds.DSN, creds.UID)

	stmt, rc := d.api.AllocHandle(core.HandleStmt, s.Dbc)
	if !rc.Succeeded() {
		return d.fail(s, "SQLAllocHandle(SQL_HANDLE_STMT)", rc, "Unable to Allocate a SQLHANDLE:\n")
	}
	s.Stmt = stmt
	return nil
}

func (d *Diagnoser) driverVersion(s *Session) error {
	ver, rc := d.api.GetInfo(s.Dbc, core.InfoDriverVer)
	if !rc.Succeeded() {
		return d.fail(s, "SQLGetInfo", rc, "SQLGetInfo has Failed. RC=%d\n", int(rc))
	}
	fmt.Fprintf(d.out, "Driver version: %s\n", ver)
	return nil
}

// supportedTypes lists the type catalog and leaves the statement with no
// open cursor and no bindings.
func (d *Diagnoser) supportedTypes(s *Session) error {
	if rc := d.api.GetTypeInfo(s.Stmt, core.AllTypes); !rc.Succeeded() {
		return d.fail(s, "SQLGetTypeInfo", rc, "SQLGetTypeInfo has Failed. RC=%d\n", int(rc))
	}

	var name, dataType core.ColumnBuffer
	if err := d.bindColumn(s, 1, &name); err != nil {
		return err
	}
	if err := d.bindColumn(s, 2, &dataType); err != nil {
		return err
	}

	fmt.Fprintln(d.out, "Supported types:")
	count := 0
	for {
		name.Reset()
		dataType.Reset()

		rc := d.api.Fetch(s.Stmt)
		if rc == core.NoData {
			break
		}
		if !rc.Succeeded() {
			return d.fail(s, "SQLFetch", rc, "SQLFetch has Failed. RC=%d\n", int(rc))
		}
		fmt.Fprintf(d.out, "  %-32s %s\n", text(&name), text(&dataType))
		count++
	}
	logger.Info.Printf("type catalog lists %d types", count)

	if rc := d.api.FreeStmt(s.Stmt, core.Unbind); !rc.Succeeded() {
		return d.fail(s, "SQLFreeStmt", rc, "SQLFreeStmt(SQL_UNBIND) has Failed. RC=%d\n", int(rc))
	}
	if rc := d.api.FreeStmt(s.Stmt, core.Close); !rc.Succeeded() {
		return d.fail(s, "SQLFreeStmt", rc, "SQLFreeStmt(SQL_CLOSE) has Failed. RC=%d\n", int(rc))
	}
	return nil
}

func (d *Diagnoser) execute(s *Session) error {
	logger.Info.Printf("executing %q", d.query)
	if rc := d.api.ExecDirect(s.Stmt, d.query); !rc.Succeeded() {
		return d.fail(s, "SQLExecDirect", rc, "SQLExecDirect has Failed. RC=%d\n", int(rc))
	}
	return nil
}

func (d *Diagnoser) bind(s *Session, cols []*resultColumn) error {
	for _, c := range cols {
		if err := d.bindColumn(s, c.ordinal, &c.buf); err != nil {
			return err
		}
	}
	return nil
}

func (d *Diagnoser) bindColumn(s *Session, ordinal uint16, buf *core.ColumnBuffer) error {
	if rc := d.api.BindCol(s.Stmt, ordinal, core.CChar, buf); !rc.Succeeded() {
		return d.fail(s, fmt.Sprintf("SQLBindCol(%d)", ordinal), rc, "SQLBindCol(%d) has Failed. RC=%d\n", ordinal, int(rc))
	}
	return nil
}

// fetchAll advances the cursor to the end. Only the first row is dumped;
// later rows are fetched and discarded.
func (d *Diagnoser) fetchAll(s *Session, cols, dumpOrder []*resultColumn) error {
	resetAll(cols)
	fmt.Fprintln(d.out, "Fetching result set...")

	rows := 0
	for {
		rc := d.api.Fetch(s.Stmt)
		if rc == core.NoData {
			fmt.Fprintln(d.out, "SQLFetch returns: SQL_NO_DATA_FOUND")
			logger.Info.Printf("fetched %d rows", rows)
			return nil
		}
		if !rc.Succeeded() {
			return d.fail(s, "SQLFetch", rc, "SQLFetch has Failed. RC=%d\n", int(rc))
		}

		if rows == 0 {
			for _, c := range dumpOrder {
				dumpColumn(d.out, c.label, &c.buf)
			}
		}

		resetAll(cols)
		rows++
	}
}

func resetAll(cols []*resultColumn) {
	for _, c := range cols {
		c.buf.Reset()
	}
}

func text(b *core.ColumnBuffer) string {
	if b.IsNull() {
		return "NULL"
	}
	return b.Text()
}

// fail prints the step's failure line and the queued diagnostics, then
// returns the error that ends the run.
func (d *Diagnoser) fail(s *Session, op string, rc core.Return, format string, args ...any) error {
	fmt.Fprintf(d.out, format, args...)
	ReportDiagnostics(d.out, d.api, s.Env, s.Dbc, s.Stmt)
	return &core.CallError{Op: op, Code: rc}
}
