package service

import (
	"fmt"
	"io"

	"todbc/internal/core"
)

// ReportDiagnostics drains and prints every diagnostic record queued on the
// given handles. Pass core.NullHandle for handles not yet allocated. It
// returns the number of records printed.
func ReportDiagnostics(w io.Writer, api core.CallLevelAPI, env, dbc, stmt core.Handle) int {
	if env == core.NullHandle && dbc == core.NullHandle && stmt == core.NullHandle {
		return 0
	}

	n := 0
	for {
		rec, rc := api.Error(env, dbc, stmt)
		switch rc {
		case core.NoData:
			return n
		case core.Error, core.InvalidHandle:
			fmt.Fprintln(w, "SQLError failed!")
			return n
		}

		fmt.Fprintf(w, "SQLSTATE = %s\n", rec.SQLState)
		fmt.Fprintf(w, "NATIVE ERROR = %d\n", rec.NativeError)
		fmt.Fprintf(w, "MSG = %s\n\n", rec.Message)
		n++
	}
}
