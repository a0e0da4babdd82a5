package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"pharmastore/m/domain"
	"pharmastore/m/internal/repository"
	"pharmastore/m/internal/transfer"
)

type storeRequest struct {
	Name string `json:"name"`
}

func (h *Handler) createStore(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleOwner) {
		return
	}
	var req storeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	id, err := h.app.Repo.InsertStore(r.Context(), h.app.DB, name)
	if errors.Is(err, repository.ErrDuplicate) {
		respondError(w, http.StatusConflict, "a store with this name already exists")
		return
	}
	if err != nil {
		h.logger.Error("create store", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "unable to create store")
		return
	}
	h.logger.Info("store created", zap.Int64("store_id", id), zap.String("name", name), zap.Int64("user_id", userID(r)))
	store, err := h.app.Repo.GetStore(r.Context(), h.app.DB, id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load store")
		return
	}
	respondJSON(w, http.StatusCreated, store)
}

func (h *Handler) listStores(w http.ResponseWriter, r *http.Request) {
	stores, err := h.app.Repo.ListStores(r.Context(), h.app.DB)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list stores")
		return
	}
	respondJSON(w, http.StatusOK, stores)
}

func (h *Handler) exportStore(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid store id")
		return
	}

	query := r.URL.Query()
	opts := transfer.ExportOptions{}
	if raw := strings.TrimSpace(query.Get("include_history")); raw != "" {
		opts.IncludeHistory, err = strconv.ParseBool(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "include_history must be true or false")
			return
		}
	}
	start := strings.TrimSpace(query.Get("start_date"))
	end := strings.TrimSpace(query.Get("end_date"))
	if start != "" || end != "" {
		opts.DateRange = &transfer.DateRange{StartDate: start, EndDate: end}
	}

	var buf bytes.Buffer
	doc, err := h.app.Exporter.Write(r.Context(), &buf, id, opts)
	switch {
	case errors.Is(err, transfer.ErrInvalidDateRange):
		respondError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, repository.ErrNotFound):
		respondError(w, http.StatusNotFound, "store not found")
		return
	case err != nil:
		h.logger.Error("export store", zap.Int64("store_id", id), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "unable to export store")
		return
	}

	filename := transfer.Filename(doc.Store.Name, time.Now())
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func readDocument(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "import file is too large")
			return nil, false
		}
		respondError(w, http.StatusBadRequest, "unable to read request body")
		return nil, false
	}
	return raw, true
}

type validationResponse struct {
	Error  string                `json:"error"`
	Errors []transfer.FieldError `json:"errors"`
}

func (h *Handler) importStore(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleOwner) {
		return
	}
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	raw, ok := readDocument(w, r)
	if !ok {
		return
	}
	log := h.logger.With(zap.Int64("user_id", userID(r)), zap.String("store_name", name))
	log.Info("store import requested", zap.Int("bytes", len(raw)))

	var result *transfer.ImportResult
	err := h.app.WithWriterLock(r.Context(), func() error {
		var err error
		result, err = h.app.Importer.ImportJSON(r.Context(), name, raw, nil)
		return err
	})

	var (
		parseErr      *transfer.ParseError
		validationErr *transfer.ValidationError
	)
	if err != nil {
		log.Warn("store import rejected", zap.Error(err))
	}
	switch {
	case err == nil:
		log.Info("store import finished", zap.Int64("store_id", result.StoreID))
		respondJSON(w, http.StatusCreated, result)
	case errors.As(err, &parseErr):
		respondError(w, http.StatusBadRequest, parseErr.Error())
	case errors.As(err, &validationErr):
		respondJSON(w, http.StatusUnprocessableEntity, validationResponse{Error: validationErr.Error(), Errors: validationErr.Errors})
	case errors.Is(err, repository.ErrDuplicate):
		respondError(w, http.StatusConflict, "a store with this name already exists")
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

type validateResponse struct {
	Valid   bool                  `json:"valid"`
	Summary *transfer.Summary     `json:"summary,omitempty"`
	Errors  []transfer.FieldError `json:"errors,omitempty"`
}

func (h *Handler) validateImport(w http.ResponseWriter, r *http.Request) {
	raw, ok := readDocument(w, r)
	if !ok {
		return
	}
	result := h.app.Validator.Validate(raw)
	if !result.OK() {
		respondJSON(w, http.StatusOK, validateResponse{Errors: result.Errors})
		return
	}
	summary, err := transfer.Summarize(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, validateResponse{Valid: true, Summary: &summary})
}

func (h *Handler) previewImport(w http.ResponseWriter, r *http.Request) {
	raw, ok := readDocument(w, r)
	if !ok {
		return
	}
	summary, err := transfer.Summarize(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, summary)
}
