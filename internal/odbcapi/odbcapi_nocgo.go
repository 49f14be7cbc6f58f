//go:build !cgo

package odbcapi

import (
	"errors"

	"todbc/internal/core"
)

// ErrUnavailable is returned by Open when the binary was built without cgo.
var ErrUnavailable = errors.New("odbcapi: native ODBC backend requires cgo; set ODBCDIAG_BACKEND=bridge")

func Open() (core.CallLevelAPI, error) {
	return nil, ErrUnavailable
}
