package backup

import "path"

// Matches reports whether a database name matches any of the exclusion
// patterns. Patterns use shell-glob semantics (*, ?, [...]), are matched
// case-sensitively against the full name, and combine with OR.
func Matches(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := path.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}
