package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/betjuliano/sefa-dashboard/internal/model"
	"github.com/betjuliano/sefa-dashboard/internal/pipeline"
	"github.com/betjuliano/sefa-dashboard/internal/service"
	"github.com/betjuliano/sefa-dashboard/internal/transport/rest/middleware"
)

// ResultHandler handles processed-result endpoints
type ResultHandler struct {
	uploadSvc     *service.UploadService
	processingSvc *service.ProcessingService
}

// NewResultHandler creates a new result handler
func NewResultHandler(uploadSvc *service.UploadService, processingSvc *service.ProcessingService) *ResultHandler {
	return &ResultHandler{uploadSvc: uploadSvc, processingSvc: processingSvc}
}

// Get handles GET /v1/uploads/{uploadId}/results.
// Query params: questionSet (base20|base8, default inferred), goal (float),
// strict (bool).
func (h *ResultHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	uploadID := mux.Vars(r)["uploadId"]

	opts, err := parseProcessingOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	upload, err := h.uploadSvc.Get(r.Context(), userID, uploadID)
	if err != nil {
		if errors.Is(err, service.ErrUploadNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	data, err := h.processingSvc.Process(r.Context(), upload, opts)
	if err != nil {
		writeProcessingError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, data)
}

// writeProcessingError maps pipeline failures to 422 and everything else
// to 500
func writeProcessingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pipeline.ErrNoQuestionsResolved),
		errors.Is(err, pipeline.ErrInvalidScaleValue),
		errors.Is(err, pipeline.ErrEncodingExhausted),
		errors.Is(err, pipeline.ErrEmptyInput):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func parseProcessingOptions(r *http.Request) (service.ProcessingOptions, error) {
	var opts service.ProcessingOptions

	if raw := r.URL.Query().Get("questionSet"); raw != "" {
		set := model.QuestionSet(raw)
		if !set.Valid() {
			return opts, errors.New("questionSet must be base20 or base8")
		}
		opts.QuestionSet = set
	}
	if raw := r.URL.Query().Get("goal"); raw != "" {
		goal, err := strconv.ParseFloat(raw, 64)
		if err != nil || goal < 1 || goal > 5 {
			return opts, errors.New("goal must be a number between 1 and 5")
		}
		opts.Goal = goal
	}
	if raw := r.URL.Query().Get("strict"); raw != "" {
		strict, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, errors.New("strict must be a boolean")
		}
		opts.Strict = strict
	}
	return opts, nil
}
