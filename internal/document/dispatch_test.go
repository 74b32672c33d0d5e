package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docfusion/constants"
)

func TestDispatchCapabilityTable(t *testing.T) {
	tests := []struct {
		format   constants.Format
		backends []Backend
	}{
		{constants.PDF, []Backend{BackendPDFText, BackendOCR, BackendVision}},
		{constants.IMAGE, []Backend{BackendOCR, BackendVision}},
		{constants.SPREADSHEET, []Backend{BackendTabular}},
		{constants.WORD, []Backend{BackendTabular}},
		{constants.TEXT, []Backend{BackendRawText}},
	}
	for _, tt := range tests {
		backends, warnings := Dispatch(Document{Filename: "f", Format: tt.format})
		assert.Equal(t, tt.backends, backends, string(tt.format))
		assert.Empty(t, warnings)
	}
}

func TestDispatchUnknownFallsBackToVision(t *testing.T) {
	backends, warnings := Dispatch(Document{Filename: "blob.xyz", Format: constants.UNKNOWN})
	assert.Equal(t, []Backend{BackendVision}, backends)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "blob.xyz")
}

func TestMapExtToFormat(t *testing.T) {
	assert.Equal(t, constants.PDF, constants.MapExtToFormat(".PDF"))
	assert.Equal(t, constants.IMAGE, constants.MapExtToFormat("jpeg"))
	assert.Equal(t, constants.SPREADSHEET, constants.MapExtToFormat(".xlsx"))
	assert.Equal(t, constants.WORD, constants.MapExtToFormat("docx"))
	assert.Equal(t, constants.TEXT, constants.MapExtToFormat(".csv"))
	assert.Equal(t, constants.UNKNOWN, constants.MapExtToFormat(".xyz"))
}
