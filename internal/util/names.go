package util

import (
	"path/filepath"
	"strings"
)

// IsPlainName reports whether name is a single path element that stays
// inside the directory it is joined onto.
func IsPlainName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) {
		return false
	}
	return filepath.Base(name) == name
}
