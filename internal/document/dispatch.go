package document

import (
	"fmt"

	"docfusion/constants"
	"docfusion/internal/common"
)

// Backend identifies one extraction capability.
type Backend string

const (
	BackendPDFText Backend = "pdf_text_layer"
	BackendOCR     Backend = "ocr"
	BackendVision  Backend = "vision"
	BackendTabular Backend = "tabular"
	BackendRawText Backend = "raw_text"
)

// capabilities is the fixed dispatch table keyed by detected format.
var capabilities = map[constants.Format][]Backend{
	constants.PDF:         {BackendPDFText, BackendOCR, BackendVision},
	constants.IMAGE:       {BackendOCR, BackendVision},
	constants.SPREADSHEET: {BackendTabular},
	constants.WORD:        {BackendTabular},
	constants.TEXT:        {BackendRawText},
}

// Dispatch returns the ordered backend list for a document. The order is
// the merge precedence order, so it must be stable. Unknown formats fall
// back to the vision backend (treat-as-image) with a recorded warning.
func Dispatch(doc Document) ([]Backend, []string) {
	if backends, ok := capabilities[doc.Format]; ok {
		out := make([]Backend, len(backends))
		copy(out, backends)
		return out, nil
	}
	warn := fmt.Sprintf("unknown format for %q, falling back to vision backend", doc.Filename)
	return []Backend{BackendVision}, []string{warn}
}

// Reject returns the fatal error for a document no backend could serve.
func Reject(doc Document) error {
	return common.NewAppError("UNSUPPORTED_FORMAT",
		fmt.Sprintf("no extraction backend for %q", doc.Filename),
		common.ErrUnsupportedFormat)
}
