package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/BerylCAtieno/dataset-summarizer-api/internal/models"
	"github.com/BerylCAtieno/dataset-summarizer-api/internal/services"
	"github.com/BerylCAtieno/dataset-summarizer-api/internal/utils"
	"github.com/gorilla/mux"
)

// formOverhead is the room left in the request body for multipart headers
// and the other form fields.
const formOverhead = 1 << 20

type DatasetHandler struct {
	service     services.DatasetService
	maxFileSize int64
	logger      *utils.Logger
}

func NewDatasetHandler(service services.DatasetService, maxFileSize int64, logger *utils.Logger) *DatasetHandler {
	return &DatasetHandler{
		service:     service,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

type upload struct {
	data        []byte
	filename    string
	contentType string
}

func (h *DatasetHandler) Upload(w http.ResponseWriter, r *http.Request) {
	f, err := h.readUpload(w, r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	resp, err := h.service.Preview(r.Context(), &models.UploadRequest{
		File:        f.data,
		Filename:    f.filename,
		ContentType: f.contentType,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	status := http.StatusOK
	if resp.DatasetID != "" {
		status = http.StatusCreated
	}
	h.respondJSON(w, status, resp)
}

func (h *DatasetHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	f, err := h.readUpload(w, r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	resp, err := h.service.Summarize(r.Context(), &models.SummarizeRequest{
		File:          f.data,
		Filename:      f.filename,
		IdentityToken: identityToken(r),
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, resp)
}

func (h *DatasetHandler) ListDatasets(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			h.respondError(w, utils.NewBadRequestError("limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	records, err := h.service.ListDatasets(r.Context(), limit)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, records)
}

func (h *DatasetHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		h.respondError(w, utils.NewBadRequestError("Dataset ID is required"))
		return
	}

	rec, err := h.service.GetDataset(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, rec)
}

func (h *DatasetHandler) SummarizeDataset(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		h.respondError(w, utils.NewBadRequestError("Dataset ID is required"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, formOverhead)
	if err := r.ParseMultipartForm(formOverhead); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.respondError(w, utils.NewBadRequestError("Invalid form data"))
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	resp, err := h.service.SummarizeDataset(r.Context(), id, identityToken(r))
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, resp)
}

func (h *DatasetHandler) DeleteDataset(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		h.respondError(w, utils.NewBadRequestError("Dataset ID is required"))
		return
	}

	if err := h.service.DeleteDataset(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *DatasetHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// readUpload parses the multipart form and reads the "file" field. On
// success the caller must release r.MultipartForm.
func (h *DatasetHandler) readUpload(w http.ResponseWriter, r *http.Request) (*upload, error) {
	tooLarge := utils.NewBadRequestError(fmt.Sprintf("File size exceeds %s limit", formatSize(h.maxFileSize)))

	if r.ContentLength > h.maxFileSize+formOverhead {
		return nil, tooLarge
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+formOverhead)

	if err := r.ParseMultipartForm(formOverhead); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, tooLarge
		}
		return nil, utils.NewBadRequestError("Invalid form data")
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		r.MultipartForm.RemoveAll()
		return nil, utils.NewBadRequestError("No file provided")
	}
	defer file.Close()

	h.logger.Info("File upload attempt",
		"filename", header.Filename,
		"size", header.Size,
		"content_type", header.Header.Get("Content-Type"))

	data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		r.MultipartForm.RemoveAll()
		return nil, utils.NewInternalError("Failed to read file")
	}

	if int64(len(data)) > h.maxFileSize {
		r.MultipartForm.RemoveAll()
		return nil, tooLarge
	}

	if len(data) == 0 {
		r.MultipartForm.RemoveAll()
		return nil, utils.NewBadRequestError("Uploaded file is empty")
	}

	return &upload{
		data:        data,
		filename:    header.Filename,
		contentType: header.Header.Get("Content-Type"),
	}, nil
}

// identityToken reads the optional GitHub token. api_key is the field name
// the web client sends.
func identityToken(r *http.Request) string {
	if token := r.FormValue("identity_token"); token != "" {
		return token
	}
	return r.FormValue("api_key")
}

func formatSize(n int64) string {
	if n >= 1<<20 && n%(1<<20) == 0 {
		return fmt.Sprintf("%dMB", n>>20)
	}
	return fmt.Sprintf("%d bytes", n)
}

func (h *DatasetHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", "error", err)
	}
}

func (h *DatasetHandler) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	if appErr, ok := utils.AsAppError(err); ok {
		status = appErr.StatusCode
		message = appErr.Message
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("Request error", "status", status, "error", err)
	} else {
		h.logger.Warn("Request rejected", "status", status, "error", message)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
