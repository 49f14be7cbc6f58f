package data

import (
	"errors"
	"fmt"
	"strings"

	"todbc/internal/config"
	"todbc/internal/core"
)

// EncryptedPrefix marks a source template stored as ciphertext.
const EncryptedPrefix = "enc:"

// DefaultDriver handles data source names that have no configured alias.
const DefaultDriver = "odbc"

// SourceResolver maps the DSN typed at the prompt to a database/sql driver
// and connection string.
type SourceResolver struct {
	sources   map[string]config.Source
	cryptoSvc *EncryptionService
}

// NewSourceResolver builds a resolver over the configured aliases.
// cryptoSvc may be nil when no template is encrypted.
func NewSourceResolver(sources map[string]config.Source, cryptoSvc *EncryptionService) *SourceResolver {
	if sources == nil {
		sources = map[string]config.Source{}
	}
	return &SourceResolver{sources: sources, cryptoSvc: cryptoSvc}
}

// Resolve expands the alias for dsn with the credentials. Unknown names go
// to the ODBC driver manager as DSN=..;UID=..;PWD=..
func (r *SourceResolver) Resolve(dsn, uid, pwd string) (driver, connStr string, err error) {
	src, ok := r.sources[core.SourceKey(dsn)]
	if !ok {
		return DefaultDriver, odbcConnString(dsn, uid, pwd), nil
	}

	tmpl := src.Template
	if strings.HasPrefix(tmpl, EncryptedPrefix) {
		if r.cryptoSvc == nil {
			return "", "", errors.New("source template is encrypted but ODBCDIAG_KEY is not set")
		}
		tmpl, err = r.cryptoSvc.Decrypt(strings.TrimPrefix(tmpl, EncryptedPrefix))
		if err != nil {
			return "", "", fmt.Errorf("failed to decrypt source template: %w", err)
		}
	}

	connStr, err = core.Expand(tmpl, map[string]string{
		"dsn": dsn,
		"uid": uid,
		"pwd": pwd,
	})
	if err != nil {
		return "", "", err
	}
	return src.Driver, connStr, nil
}

func odbcConnString(dsn, uid, pwd string) string {
	return fmt.Sprintf("DSN=%s;UID=%s;PWD=%s", quoteValue(dsn), quoteValue(uid), quoteValue(pwd))
}

// quoteValue braces a connection string attribute value that would
// otherwise end the attribute early.
func quoteValue(v string) string {
	if !strings.ContainsAny(v, ";{}") && strings.TrimSpace(v) == v {
		return v
	}
	return "{" + strings.ReplaceAll(v, "}", "}}") + "}"
}
