package core

import (
	"regexp"
	"strings"
)

var (
	nonKeyChars = regexp.MustCompile("[^A-Z0-9_]+")
	underscores = regexp.MustCompile("_+")
)

// SourceKey converts a data source name to the suffix used in
// ODBCDIAG_SOURCE_<KEY> variables, e.g. "my-db.prod" -> "MY_DB_PROD".
func SourceKey(name string) string {
	s := strings.ToUpper(strings.TrimSpace(name))
	s = nonKeyChars.ReplaceAllString(s, "_")
	s = underscores.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}
