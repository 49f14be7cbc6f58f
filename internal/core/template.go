package core

import (
	"fmt"
	"regexp"
	"strings"
)

var placeholder = regexp.MustCompile(`\{([a-zA-Z0-9_]+)\}`)

// Expand replaces every {name} in tmpl with values[name].
// All missing names are reported in a single error.
func Expand(tmpl string, values map[string]string) (string, error) {
	missing := []string{}

	out := placeholder.ReplaceAllStringFunc(tmpl, func(match string) string {
		name := match[1 : len(match)-1]
		val, ok := values[name]
		if !ok {
			missing = append(missing, name)
			return match
		}
		return val
	})

	if len(missing) > 0 {
		return "", fmt.Errorf("missing template values: %s", strings.Join(missing, ", "))
	}
	return out, nil
}

// Placeholders lists the placeholder names in tmpl in order of appearance.
func Placeholders(tmpl string) []string {
	names := []string{}
	for _, m := range placeholder.FindAllStringSubmatch(tmpl, -1) {
		names = append(names, m[1])
	}
	return names
}
