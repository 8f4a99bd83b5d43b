package store

import (
	"regexp"
	"strings"
)

// MatchGlob reports whether key matches a pattern containing "*" wildcards
// (the only wildcard §4.1 requires). Used by the in-memory backend; the
// SQLite backend delegates to SQLite's native GLOB operator instead, which
// already implements "*" the same way.
func MatchGlob(pattern, key string) bool {
	re := buildGlobRegexp(pattern)
	matched, err := regexp.MatchString(re, key)
	return err == nil && matched
}

func buildGlobRegexp(pattern string) string {
	parts := strings.Split(pattern, "*")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return "^" + strings.Join(parts, ".*") + "$"
}
