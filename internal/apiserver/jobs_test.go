package apiserver

import (
	"errors"
	"testing"
	"time"

	"github.com/mboros1/fast-pdf-parser/internal/chunker"
)

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Minute)
	job := newJob("doc.pdf")
	store.put(job)

	got := store.Get(job.ID)
	if got == nil {
		t.Fatal("expected job to be retrievable")
	}
	if got.Filename != "doc.pdf" {
		t.Errorf("Filename = %q, want doc.pdf", got.Filename)
	}
	if got.Status != StatusQueued {
		t.Errorf("Status = %q, want queued", got.Status)
	}
}

func TestJobStore_GetMissing(t *testing.T) {
	store := NewJobStore(time.Minute)
	if got := store.Get("does-not-exist"); got != nil {
		t.Errorf("expected nil for missing job, got %+v", got)
	}
}

func TestJob_SetResultAndError(t *testing.T) {
	job := newJob("doc.pdf")

	job.setResult(chunker.ChunkingResult{TotalChunks: 3, TotalPages: 2})
	snap := job.snapshot()
	if snap.Status != StatusComplete {
		t.Errorf("Status = %q, want complete", snap.Status)
	}
	if snap.Result.TotalChunks != 3 {
		t.Errorf("Result.TotalChunks = %d, want 3", snap.Result.TotalChunks)
	}

	job2 := newJob("other.pdf")
	job2.setError(errors.New("boom"))
	snap2 := job2.snapshot()
	if snap2.Status != StatusFailed {
		t.Errorf("Status = %q, want failed", snap2.Status)
	}
	if snap2.Error != "boom" {
		t.Errorf("Error = %q, want boom", snap2.Error)
	}
}

func TestJobStore_CleanupEvictsExpired(t *testing.T) {
	store := NewJobStore(0)
	job := newJob("doc.pdf")
	job.UpdatedAt = time.Now().Add(-time.Hour)
	store.put(job)

	store.Cleanup()

	if got := store.Get(job.ID); got != nil {
		t.Error("expected expired job to be evicted")
	}
}
