package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/betjuliano/sefa-dashboard/internal/model"
	"github.com/betjuliano/sefa-dashboard/internal/schema"
)

// SchemaHandler exposes the loaded questionnaire schemas so the dashboard
// can render question texts and dimension structure.
type SchemaHandler struct {
	schemas   map[model.QuestionSet]*model.Schema
	validator *schema.Validator
}

// NewSchemaHandler creates a new schema handler
func NewSchemaHandler(schemas map[model.QuestionSet]*model.Schema) *SchemaHandler {
	return &SchemaHandler{schemas: schemas, validator: schema.NewValidator()}
}

type schemaResponse struct {
	Schema *model.Schema          `json:"schema"`
	Report model.ValidationReport `json:"report"`
}

func (h *SchemaHandler) response(s *model.Schema) schemaResponse {
	return schemaResponse{Schema: s, Report: h.validator.Validate(s)}
}

// List handles GET /v1/schemas
func (h *SchemaHandler) List(w http.ResponseWriter, r *http.Request) {
	out := make([]schemaResponse, 0, len(h.schemas))
	for _, set := range []model.QuestionSet{model.QuestionSetBase20, model.QuestionSetBase8} {
		if s, ok := h.schemas[set]; ok {
			out = append(out, h.response(s))
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"schemas": out})
}

// Get handles GET /v1/schemas/{set}
func (h *SchemaHandler) Get(w http.ResponseWriter, r *http.Request) {
	set := model.QuestionSet(mux.Vars(r)["set"])
	s, ok := h.schemas[set]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown question set")
		return
	}
	writeJSON(w, http.StatusOK, h.response(s))
}
