// Package pkgname canonicalizes Python package names so that equivalent
// spellings ("Calltree_Utils", "calltree-utils") compare equal.
package pkgname

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

var separatorRun = regexp.MustCompile(`[-_]+`)

// Normalize case-folds name and collapses every run of '-' or '_' into a
// single '-'.
func Normalize(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	folded := cases.Fold().String(name)
	return separatorRun.ReplaceAllString(folded, "-")
}

// Equal reports whether a and b normalize to the same name.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
