package widget

import "strings"

// EscapeToString quotes str as an XPath string literal. XPath literals have
// no escape sequences, so a string holding both quote characters is built
// with concat().
func EscapeToString(str string) string {
	if !strings.Contains(str, "'") {
		return "'" + str + "'"
	}
	if !strings.Contains(str, `"`) {
		return `"` + str + `"`
	}
	return "concat('" + strings.ReplaceAll(str, "'", `',"'",'`) + "')"
}
