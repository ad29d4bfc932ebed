package catalog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/five82/snooze/internal/storyapi"
)

// FieldError describes one invalid submission field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every invalid field of a submission. It unwraps to
// storyapi.ErrValidation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "invalid story: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return storyapi.ErrValidation
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	return v
}

func normalize(story storyapi.NewStory) storyapi.NewStory {
	return storyapi.NewStory{
		Author: strings.TrimSpace(story.Author),
		Title:  strings.TrimSpace(story.Title),
		URL:    strings.TrimSpace(story.URL),
	}
}

func checkStory(v *validator.Validate, story storyapi.NewStory) error {
	err := v.Struct(story)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate story: %w", err)
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: messageFor(fe)})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "http_url":
		return "must be an http or https URL"
	default:
		return "is invalid"
	}
}
