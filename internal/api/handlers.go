package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/papercheck/internal/apperr"
	"github.com/starford/papercheck/internal/checkservice"
	"github.com/starford/papercheck/internal/storage"
)

const maxUploadBytes = 50 << 20 // 50 MB

// Handler holds API route handlers.
type Handler struct {
	svc *checkservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *checkservice.Service) *Handler {
	return &Handler{svc: svc}
}

// ListDocuments handles GET /api/documents.
//
//	@Summary		List library documents
//	@Tags			documents
//	@Produce		json
//	@Success		200	{object}	DocumentListResponse
//	@Security		BearerAuth
//	@Router			/documents [get]
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.svc.Documents(r.Context())
	if err != nil {
		internalError(w, "list documents failed", slog.String("error", err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, DocumentListResponse{Documents: docs, Total: len(docs)})
}

// CheckDocument handles POST /api/documents/check.
//
//	@Summary		Check a library document and record the run
//	@Tags			documents
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CheckDocumentRequest	true	"Document to check"
//	@Success		200		{object}	models.Run
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents/check [post]
func (h *Handler) CheckDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req CheckDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	req.Path = strings.TrimPrefix(req.Path, "/")
	if req.Path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	if !storage.IsDocument(req.Path) {
		writeJSON(w, http.StatusBadRequest, errorBody("path must name a .docx file"))
		return
	}

	run, err := h.svc.CheckDocument(r.Context(), req.Path)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		case errors.Is(err, apperr.ErrInvalidPath):
			writeJSON(w, http.StatusBadRequest, errorBody("invalid path"))
		default:
			internalError(w, "check document failed", slog.String("path", req.Path), slog.String("error", err.Error()))
		}
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// CheckUpload handles POST /api/check (multipart/form-data, field "file").
//
//	@Summary		Check an uploaded document
//	@Tags			check
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"The .docx document"
//	@Success		200		{object}	models.Run
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/check [post]
func (h *Handler) CheckUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'file' field in multipart form"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read file"))
		return
	}

	run, err := h.svc.CheckUpload(r.Context(), header.Filename, data)
	if err != nil {
		internalError(w, "check upload failed", slog.String("filename", header.Filename), slog.String("error", err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// ListRuns handles GET /api/runs.
//
//	@Summary		List recorded runs, newest first
//	@Tags			runs
//	@Produce		json
//	@Param			limit	query		int		false	"Page size"
//	@Param			offset	query		int		false	"Page offset"
//	@Param			path	query		string	false	"Filter by document path"
//	@Success		200		{object}	RunListResponse
//	@Security		BearerAuth
//	@Router			/runs [get]
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	path := q.Get("path")

	runs, total, err := h.svc.Runs(r.Context(), limit, offset, path)
	if err != nil {
		internalError(w, "list runs failed", slog.String("error", err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, RunListResponse{Runs: runs, Total: total})
}

// GetRun handles GET /api/runs/{id}.
//
//	@Summary		Get a recorded run
//	@Tags			runs
//	@Produce		json
//	@Param			id	path		string	true	"Run ID"
//	@Success		200	{object}	models.Run
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/runs/{id} [get]
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	run, err := h.svc.Run(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			internalError(w, "get run failed", slog.String("id", id), slog.String("error", err.Error()))
		}
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// Rules handles GET /api/rules.
//
//	@Summary		Get the active format rules
//	@Tags			rules
//	@Produce		json
//	@Success		200	{object}	checker.Rules
//	@Security		BearerAuth
//	@Router			/rules [get]
func (h *Handler) Rules(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Rules())
}
