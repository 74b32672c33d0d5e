package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docfusion/constants"
)

func TestJobStoreRecordAndRecent(t *testing.T) {
	store, err := OpenJobStore(filepath.Join(t.TempDir(), "jobs.db"), nil)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Record(ctx, Job{
		Filename:  "a.pdf",
		Format:    "PDF",
		Status:    constants.JobStatusSucceeded,
		Backends:  []string{"pdf_text_layer", "ocr"},
		ElapsedMS: 1200,
		CreatedAt: time.Now().UTC().Add(-time.Minute),
	}))
	require.NoError(t, store.Record(ctx, Job{
		Filename: "b.txt",
		Format:   "TEXT",
		Status:   constants.JobStatusFailed,
		Backends: []string{"raw_text"},
		Error:    "no text extracted",
	}))

	jobs, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	// newest first
	assert.Equal(t, "b.txt", jobs[0].Filename)
	assert.Equal(t, constants.JobStatusFailed, jobs[0].Status)
	assert.NotEmpty(t, jobs[0].ID)
	assert.Equal(t, []string{"pdf_text_layer", "ocr"}, jobs[1].Backends)
}
