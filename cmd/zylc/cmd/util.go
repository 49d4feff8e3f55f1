package cmd

import (
	"path/filepath"
	"strings"
)

// stemOf returns the base name of path with its extension removed, used
// to name a promoted binary when the user supplies no explicit output
// path (O-3).
func stemOf(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
