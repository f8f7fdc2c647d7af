// Package envutil expands environment variables in configured paths,
// accepting both Windows %VAR% and Unix $VAR / ${VAR} spellings so the
// same config file works on either platform.
package envutil

import (
	"os"
	"strings"
)

// ExpandEnv resolves %VAR%, $VAR and ${VAR} references in path.
// Unknown variables expand to the empty string, matching os.ExpandEnv.
func ExpandEnv(path string) string {
	return os.ExpandEnv(expandWindowsStyle(path))
}

// expandWindowsStyle rewrites %VAR% segments to their values. A stray
// unmatched percent sign is kept as-is.
func expandWindowsStyle(path string) string {
	var b strings.Builder
	for {
		start := strings.IndexByte(path, '%')
		if start < 0 {
			b.WriteString(path)
			return b.String()
		}
		end := strings.IndexByte(path[start+1:], '%')
		if end < 0 {
			b.WriteString(path)
			return b.String()
		}
		end += start + 1

		b.WriteString(path[:start])
		name := path[start+1 : end]
		if name == "" {
			// "%%" is a literal percent.
			b.WriteByte('%')
		} else {
			b.WriteString(os.Getenv(name))
		}
		path = path[end+1:]
	}
}
