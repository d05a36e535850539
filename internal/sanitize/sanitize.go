// ABOUTME: Strips markup from remote text before it is printed.
// ABOUTME: Uses a shared strict bluemonday policy.

package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict is read-only after construction and safe for concurrent use.
// Never call AllowElements or similar on it afterwards.
var strict = func() *bluemonday.Policy {
	p := bluemonday.StrictPolicy()
	p.AddSpaceWhenStrippingTag(true)
	return p
}()

// Clean removes all HTML, unescapes entities and collapses runs of spaces
// inside each line. Leading and trailing whitespace is trimmed.
//
//   - "<b>Shopping</b> list" -> "Shopping list"
//   - "  Milk &amp; Bread  " -> "Milk & Bread"
func Clean(s string) string {
	out := strings.TrimSpace(strict.Sanitize(s))
	out = html.UnescapeString(out)
	out = strings.ReplaceAll(out, "\u00a0", " ")

	lines := strings.Split(out, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
