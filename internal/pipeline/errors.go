package pipeline

import "errors"

var (
	// ErrEncodingExhausted means no candidate encoding produced usable text
	ErrEncodingExhausted = errors.New("no candidate encoding produced usable text")

	// ErrNoQuestionsResolved means header mapping found nothing usable
	ErrNoQuestionsResolved = errors.New("no schema questions resolved from input headers")

	// ErrInvalidScaleValue is returned in strict mode for unknown tokens
	ErrInvalidScaleValue = errors.New("invalid scale value")

	// ErrConfigurationInvalid means the schema failed validation and must not be used
	ErrConfigurationInvalid = errors.New("schema configuration is invalid")

	// ErrEmptyInput means the input buffer held no data at all
	ErrEmptyInput = errors.New("input is empty")
)
