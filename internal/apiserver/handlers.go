package apiserver

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
)

func jsonError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	data, _ := sonic.Marshal(map[string]string{"error": msg})
	w.Write(data)
}

// handleCreateJob accepts a multipart PDF upload, enqueues a chunking
// job onto the server's shared Chunker, and returns immediately with
// the job id for polling.
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	maxBytes := s.cfg.MaxUploadBytes
	if maxBytes == 0 {
		maxBytes = 64 << 20
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+1<<20)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	tmp, err := os.CreateTemp("", "chunkpdfd-*.pdf")
	if err != nil {
		jsonError(w, "failed to stage upload", http.StatusInternalServerError)
		return
	}
	defer tmp.Close()

	if _, err := io.Copy(tmp, file); err != nil {
		jsonError(w, "failed to read upload", http.StatusInternalServerError)
		return
	}

	pageLimit := 0
	if v := r.FormValue("page_limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			pageLimit = n
		}
	}

	job := newJob(header.Filename)
	s.jobs.put(job)

	go s.runJob(job, tmp.Name(), pageLimit)

	data, err := sonic.Marshal(job.snapshot())
	if err != nil {
		jsonError(w, "failed to marshal job", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	w.Write(data)
}

func (s *Server) runJob(job *Job, path string, pageLimit int) {
	defer os.Remove(path)

	job.setStatus(StatusRunning)
	result, err := s.chunker.ChunkFile(path, pageLimit)
	if err != nil {
		job.setError(err)
		s.log.Error("job failed", "job_id", job.ID, "error", err)
		return
	}
	if result.Err != nil {
		job.setError(result.Err)
		s.log.Error("job failed", "job_id", job.ID, "error", result.Err)
		return
	}
	job.setResult(result)
	s.log.Info("job complete", "job_id", job.ID, "chunks", result.TotalChunks, "pages", result.TotalPages)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "jobID")
	job := s.jobs.Get(id)
	if job == nil {
		jsonError(w, fmt.Sprintf("job %s not found", id), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	data, err := sonic.Marshal(job.snapshot())
	if err != nil {
		jsonError(w, "failed to marshal job", http.StatusInternalServerError)
		return
	}
	w.Write(data)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := s.chunker.Stats()
	w.Header().Set("Content-Type", "application/json")
	data, err := sonic.Marshal(stats)
	if err != nil {
		jsonError(w, "failed to marshal stats", http.StatusInternalServerError)
		return
	}
	w.Write(data)
}
