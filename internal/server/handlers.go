package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cardops/modelcard"
	"github.com/cardops/modelcard/domain/model"
	"github.com/cardops/modelcard/internal/metrics"
)

// multipartMemory is how much of an upload is buffered in memory before
// the multipart reader spills to disk.
const multipartMemory = 1 << 20

// Messages returned by the upload route
const (
	msgNoFilePart     = "No file part in the request"
	msgNoSelectedFile = "No selected file"
	msgNotAllowed     = "File type not allowed. Please upload CSV or Excel files."
	msgTooLarge       = "File exceeds the upload size limit"
	msgParseFailed    = "Failed to parse spreadsheet data. Check file format and content."
	msgParseTimeout   = "Parsing the spreadsheet took too long"
	msgInternal       = "An internal error occurred"
)

const indexText = "Model Card Importer API is running!"

type errorResponse struct {
	Error string `json:"error"`
}

type saveResponse struct {
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
	Category string `json:"category,omitempty"`
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, indexText)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.pinger == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "storage": "disabled"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := s.pinger.Ping(ctx); err != nil {
		s.logger.Warn("storage ping failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "storage": "ok"})
}

type parseResult struct {
	records []*model.Record
	err     error
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > s.opts.MaxUploadBytes {
		s.uploadFailed(w, http.StatusRequestEntityTooLarge, msgTooLarge, metrics.OutcomeBadInput)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.uploadFailed(w, http.StatusRequestEntityTooLarge, msgTooLarge, metrics.OutcomeBadInput)
			return
		}
		s.logger.Warn("malformed upload", zap.Error(err))
		s.uploadFailed(w, http.StatusBadRequest, msgNoFilePart, metrics.OutcomeBadInput)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	part, header, err := r.FormFile("file")
	if err != nil {
		// an empty filename turns the part into a plain form value
		if _, ok := r.MultipartForm.Value["file"]; ok {
			s.uploadFailed(w, http.StatusBadRequest, msgNoSelectedFile, metrics.OutcomeBadInput)
			return
		}
		s.uploadFailed(w, http.StatusBadRequest, msgNoFilePart, metrics.OutcomeBadInput)
		return
	}
	defer part.Close() //nolint:errcheck

	name := filepath.Base(header.Filename)
	fileType := modelcard.DetectFileType(name)
	if fileType == modelcard.FileTypeUnsupported {
		s.logger.Warn("file type not allowed", zap.String("file", name))
		s.uploadFailed(w, http.StatusBadRequest, msgNotAllowed, metrics.OutcomeBadInput)
		return
	}

	path, err := s.store(part, tempName(name, fileType))
	if err != nil {
		s.logger.Error("saving upload failed", zap.String("file", name), zap.Error(err))
		s.uploadFailed(w, http.StatusInternalServerError, msgInternal, metrics.OutcomeInternal)
		return
	}

	// the parse goroutine owns the temp file from here on
	done := make(chan parseResult, 1)
	go func() {
		defer s.remove(path)
		start := time.Now()
		records, err := s.importer.Import(path)
		s.metrics.ObserveParse(fileType.String(), time.Since(start))
		done <- parseResult{records: records, err: err}
	}()

	ctx, cancel := context.WithTimeout(r.Context(), s.opts.ParseTimeout)
	defer cancel()

	select {
	case res := <-done:
		if errors.Is(res.err, modelcard.ErrEmptyInput) {
			// an upload with no header row carries no records
			res = parseResult{records: []*model.Record{}}
		}
		if res.err != nil {
			status, msg, outcome := uploadError(res.err)
			if status == http.StatusInternalServerError {
				s.logger.Error("parse failed", zap.String("file", name), zap.Error(res.err))
			}
			s.uploadFailed(w, status, msg, outcome)
			return
		}
		s.metrics.Upload(metrics.OutcomeOK, len(res.records))
		writeJSON(w, http.StatusOK, res.records)
	case <-ctx.Done():
		s.logger.Warn("parse timed out", zap.String("file", name), zap.Duration("timeout", s.opts.ParseTimeout))
		s.uploadFailed(w, http.StatusGatewayTimeout, msgParseTimeout, metrics.OutcomeTimeout)
	}
}

// uploadError maps an import failure onto a status, a message and a metric outcome.
func uploadError(err error) (int, string, string) {
	switch {
	case errors.Is(err, modelcard.ErrParse):
		return http.StatusUnprocessableEntity, msgParseFailed, metrics.OutcomeBadInput
	case errors.Is(err, modelcard.ErrUnsupportedFormat):
		return http.StatusBadRequest, msgNotAllowed, metrics.OutcomeBadInput
	default:
		return http.StatusInternalServerError, msgInternal, metrics.OutcomeInternal
	}
}

func (s *Server) uploadFailed(w http.ResponseWriter, status int, msg, outcome string) {
	s.metrics.Upload(outcome, 0)
	writeJSON(w, status, errorResponse{Error: msg})
}

// store copies the uploaded part into the upload directory.
func (s *Server) store(part multipart.File, name string) (string, error) {
	if err := os.MkdirAll(s.opts.UploadDir, 0o750); err != nil {
		return "", err
	}

	path := filepath.Join(s.opts.UploadDir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600) //nolint:gosec // name is generated
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, part); err != nil {
		_ = f.Close()
		s.remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		s.remove(path)
		return "", err
	}
	return path, nil
}

func (s *Server) remove(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Error("removing temporary file failed", zap.String("path", path), zap.Error(err))
	}
}

// tempName returns a collision free file name that keeps the format and
// compression suffix of name, e.g. "<uuid>.xlsx.gz".
func tempName(name string, fileType modelcard.FileType) string {
	lower := strings.ToLower(name)
	suffix := fileType.Extension()
	if i := strings.LastIndex(lower, suffix); i >= 0 {
		suffix = lower[i:]
	}
	return uuid.NewString() + suffix
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if s.saver == nil {
		s.saveFailed(w, http.StatusServiceUnavailable, "storage is not configured", modelcard.CategoryStorageUnavailable)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.saveFailed(w, http.StatusRequestEntityTooLarge, "payload too large", modelcard.CategoryBadInput)
			return
		}
		s.saveFailed(w, http.StatusBadRequest, "unreadable request body", modelcard.CategoryBadInput)
		return
	}

	if err := s.saver.SaveJSON(r.Context(), body); err != nil {
		category := modelcard.CategoryOf(err)
		status, msg := saveError(err, category)
		if category != modelcard.CategoryBadInput {
			s.logger.Error("save failed", zap.Stringer("category", category), zap.Error(err))
		}
		s.saveFailed(w, status, msg, category)
		return
	}

	s.metrics.Save(metrics.OutcomeOK)
	writeJSON(w, http.StatusCreated, saveResponse{Success: true})
}

// saveError maps a save failure onto a status and a client message.
// Engine details stay in the log.
func saveError(err error, category modelcard.Category) (int, string) {
	switch category {
	case modelcard.CategoryBadInput:
		if errors.Is(err, modelcard.ErrNoMappableFields) {
			return http.StatusUnprocessableEntity, "none of the submitted fields is known"
		}
		return http.StatusBadRequest, fmt.Sprintf("invalid model card: %v", err)
	case modelcard.CategoryStorageUnavailable:
		return http.StatusServiceUnavailable, "storage is unavailable, try again later"
	default:
		return http.StatusInternalServerError, "failed to save model card"
	}
}

func (s *Server) saveFailed(w http.ResponseWriter, status int, msg string, category modelcard.Category) {
	s.metrics.Save(category.String())
	writeJSON(w, status, saveResponse{Success: false, Error: msg, Category: category.String()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
