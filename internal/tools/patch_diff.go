package tools

import (
	"github.com/pmezard/go-difflib/difflib"
)

// UnifiedDiff renders the change from before to after for path, with three
// lines of context. Identical inputs yield an empty string.
func UnifiedDiff(path, before, after string) string {
	if before == after {
		return ""
	}
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return ""
	}
	return text
}
