package llm

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultCharBudget is the default character budget for text handed to
// the language-model backend.
const DefaultCharBudget = 10000

// TruncationMarker is appended to budgeted text so downstream consumers
// can detect lossy input.
const TruncationMarker = "\n…[truncated]"

var markerLen = utf8.RuneCountInString(TruncationMarker)

// Budget bounds text to at most limit characters. Text within budget is
// returned unchanged. Oversized text is hard-cut so that the output plus
// the truncation marker fits the limit, then backed off to the nearest
// preceding word boundary when that boundary falls within the last 20%
// of the budget. Re-budgeting budgeted output is a no-op.
func Budget(text string, limit int) string {
	if limit <= 0 {
		limit = DefaultCharBudget
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}

	cut := limit - markerLen
	if cut < 0 {
		cut = 0
	}
	head := string(runes[:cut])

	window := limit / 5
	if i := strings.LastIndexFunc(head, unicode.IsSpace); i > 0 {
		if utf8.RuneCountInString(head[:i]) >= cut-window {
			head = head[:i]
		}
	}
	return strings.TrimRight(head, " \t\r\n") + TruncationMarker
}
