package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/betjuliano/sefa-dashboard/internal/model"
	"github.com/betjuliano/sefa-dashboard/internal/pipeline"
)

// Prepare fills the derived fields of a schema in place and returns it.
// Normalized question texts are precomputed once here so header matching
// never normalizes catalog text per request.
func Prepare(s *model.Schema) *model.Schema {
	normalizer := pipeline.NewNormalizer()
	for di := range s.Dimensions {
		for qi := range s.Dimensions[di].Questions {
			q := &s.Dimensions[di].Questions[qi]
			q.NormalizedText = normalizer.Normalize(q.Text)
		}
	}
	return s
}

// LoadFile reads a schema override from a YAML file. The file replaces the
// built-in catalog for its question set entirely; partial overrides are not
// merged.
func LoadFile(path string) (*model.Schema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}
	var s model.Schema
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse schema file %s: %w", path, err)
	}
	if !s.Set.Valid() {
		return nil, fmt.Errorf("schema file %s: unknown question set %q", path, s.Set)
	}
	return Prepare(&s), nil
}

// Load builds the schema map from the built-in catalogs, replacing each
// variant with its override file when a path is given. Every loaded schema
// is validated; any error-level finding rejects the whole configuration so
// a broken override can never reach processing.
func Load(base20Path, base8Path string) (map[model.QuestionSet]*model.Schema, model.ValidationReport, error) {
	schemas := DefaultSchemas()

	for set, path := range map[model.QuestionSet]string{
		model.QuestionSetBase20: base20Path,
		model.QuestionSetBase8:  base8Path,
	} {
		if path == "" {
			continue
		}
		s, err := LoadFile(path)
		if err != nil {
			return nil, model.ValidationReport{}, err
		}
		if s.Set != set {
			return nil, model.ValidationReport{}, fmt.Errorf("schema file %s declares set %s, expected %s", path, s.Set, set)
		}
		schemas[set] = s
	}

	validator := NewValidator()
	var report model.ValidationReport
	for _, s := range schemas {
		r := validator.Validate(s)
		report.Merge(&r)
	}
	for _, m := range []model.ScaleMapping{pipeline.DefaultLikertMapping(), pipeline.DefaultSatisfactionMapping()} {
		r := validator.ValidateScale(m)
		report.Merge(&r)
	}
	if report.HasErrors() {
		return nil, report, pipeline.ErrConfigurationInvalid
	}
	return schemas, report, nil
}
