package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/betjuliano/sefa-dashboard/internal/service"
	"github.com/betjuliano/sefa-dashboard/internal/transport/rest/middleware"
)

// UploadHandler handles survey file upload endpoints
type UploadHandler struct {
	uploadSvc     *service.UploadService
	processingSvc *service.ProcessingService
	maxBytes      int64
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploadSvc *service.UploadService, processingSvc *service.ProcessingService, maxBytes int64) *UploadHandler {
	return &UploadHandler{uploadSvc: uploadSvc, processingSvc: processingSvc, maxBytes: maxBytes}
}

// Create handles POST /v1/uploads. The file arrives either as a multipart
// form (field "file") or as a raw CSV request body with an optional
// filename query param. It is processed immediately under the requested
// questionSet/goal/strict selection; the stored raw bytes allow later
// reprocessing.
func (h *UploadHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	var (
		raw      []byte
		filename string
	)
	delimiter := r.URL.Query().Get("delimiter")

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(h.maxBytes); err != nil {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large or malformed form")
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "missing file field")
			return
		}
		defer file.Close()

		raw, err = io.ReadAll(file)
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read file")
			return
		}
		filename = header.Filename
		if v := r.FormValue("delimiter"); v != "" {
			delimiter = v
		}
	} else {
		var err error
		raw, err = io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large or unreadable body")
			return
		}
		filename = r.URL.Query().Get("filename")
		if filename == "" {
			filename = "upload.csv"
		}
	}

	if delimiter != "" && delimiter != "," && delimiter != ";" {
		writeError(w, http.StatusBadRequest, "delimiter must be comma or semicolon")
		return
	}

	opts, err := parseProcessingOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	upload, err := h.uploadSvc.Store(r.Context(), userID, filename, raw, delimiter)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUploadEmpty):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrUploadTooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	data, err := h.processingSvc.Process(r.Context(), upload, opts)
	if err != nil {
		// The upload itself is kept so the file can be reprocessed after
		// the caller fixes the selection.
		writeProcessingError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"upload":  upload,
		"results": data,
	})
}

// List handles GET /v1/uploads
func (h *UploadHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	uploads, err := h.uploadSvc.List(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"uploads": uploads})
}

// Delete handles DELETE /v1/uploads/{uploadId}
func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	uploadID := mux.Vars(r)["uploadId"]

	if err := h.uploadSvc.Delete(r.Context(), userID, uploadID); err != nil {
		if errors.Is(err, service.ErrUploadNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
