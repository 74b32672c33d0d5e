package extract

import (
	"fmt"

	"docfusion/internal/gemini"
)

// PageState tracks one rasterized unit's completion against the vision
// backend. All states besides PagePending are terminal.
type PageState int

const (
	PagePending PageState = iota
	PageComplete
	PagePartial
	PageSkipped
	PageError
)

func (s PageState) String() string {
	switch s {
	case PagePending:
		return "pending"
	case PageComplete:
		return "complete"
	case PagePartial:
		return "partial"
	case PageSkipped:
		return "skipped"
	default:
		return "error"
	}
}

// pageOutcome is the resolved result for one rasterized unit.
type pageOutcome struct {
	Number  int
	State   PageState
	Text    string
	Warning string
}

// resolvePage applies the completion state machine to one generation
// result. A normal stop keeps all text. An output-ceiling stop keeps
// the partial text with a warning, since partial OCR beats none. A
// policy stop contributes no text at all. A transport error is recorded
// per page and never aborts the remaining pages.
func resolvePage(number int, c gemini.Completion, err error) pageOutcome {
	out := pageOutcome{Number: number, State: PagePending}
	switch {
	case err != nil:
		out.State = PageError
		out.Warning = fmt.Sprintf("page %d: vision call failed: %v", number, err)
	case c.Reason == gemini.StopNormal:
		out.State = PageComplete
		out.Text = c.Text
	case c.Reason == gemini.StopMaxTokens:
		out.State = PagePartial
		out.Text = c.Text
		out.Warning = fmt.Sprintf("page %d: output truncated at the model's token ceiling", number)
	default:
		out.State = PageSkipped
		out.Warning = fmt.Sprintf("page %d: generation blocked (%s), page skipped", number, c.Reason)
	}
	return out
}
