// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package browser

import (
	"fmt"
	"strings"
)

// EscapeID escapes value so that "#"+EscapeID(value) is a valid CSS id
// selector. It follows the CSSOM serialize-an-identifier algorithm.
func EscapeID(value string) string {
	var b strings.Builder
	runes := []rune(value)
	for i, r := range runes {
		switch {
		case r == 0:
			b.WriteRune('�')
		case (r >= 0x01 && r <= 0x1f) || r == 0x7f:
			fmt.Fprintf(&b, "\\%x ", r)
		case i == 0 && r >= '0' && r <= '9':
			fmt.Fprintf(&b, "\\%x ", r)
		case i == 1 && r >= '0' && r <= '9' && runes[0] == '-':
			fmt.Fprintf(&b, "\\%x ", r)
		case i == 0 && r == '-' && len(runes) == 1:
			b.WriteString("\\-")
		case r >= 0x80 || r == '-' || r == '_' ||
			(r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			b.WriteRune(r)
		default:
			b.WriteByte('\\')
			b.WriteRune(r)
		}
	}
	return b.String()
}

// roleSelectors maps ARIA roles to the CSS of elements carrying them
// implicitly or explicitly.
var roleSelectors = map[string]string{
	"button":   `button, [role="button"], input[type="button"], input[type="submit"]`,
	"link":     `a[href], [role="link"]`,
	"textbox":  `input:not([type]), input[type="text"], input[type="email"], textarea, [role="textbox"]`,
	"checkbox": `input[type="checkbox"], [role="checkbox"]`,
	"combobox": `select, [role="combobox"]`,
	"option":   `option, [role="option"]`,
	"heading":  `h1, h2, h3, h4, h5, h6, [role="heading"]`,
	"row":      `tr, [role="row"]`,
}

// RoleSelector returns the CSS selector matching elements with role.
func RoleSelector(role string) string {
	if selector, ok := roleSelectors[role]; ok {
		return selector
	}
	return fmt.Sprintf(`[role=%q]`, role)
}

// MatchText reports whether actual matches want the way accessible names and
// placeholders are matched: case-insensitive substring after whitespace
// normalization. An empty want matches everything.
func MatchText(actual, want string) bool {
	return strings.Contains(normalizeText(actual), normalizeText(want))
}

func normalizeText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
