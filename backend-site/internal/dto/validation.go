// Package dto holds request and response shapes for the site API and HTML forms.
package dto

import (
	"errors"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// FieldMessage maps a struct field to its JSON name and the message shown for any rule it breaks
type FieldMessage struct {
	JSON    string
	Message string
}

// FieldErrors is keyed by JSON field name
type FieldErrors map[string]string

// Add keeps the first message recorded for a field
func (fe FieldErrors) Add(field, message string) {
	if _, exists := fe[field]; !exists {
		fe[field] = message
	}
}

// OrNil returns nil when there are no errors
func (fe FieldErrors) OrNil() FieldErrors {
	if len(fe) == 0 {
		return nil
	}
	return fe
}

// IsValidationError reports whether err came from binding-tag validation rather than decoding
func IsValidationError(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs)
}

// validate runs the binding tags of obj and translates failures with messages
func validate(obj any, messages map[string]FieldMessage) FieldErrors {
	out := FieldErrors{}

	err := binding.Validator.ValidateStruct(obj)
	if err == nil {
		return out
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out.Add("_", err.Error())
		return out
	}

	for _, fe := range verrs {
		if m, ok := messages[fe.StructField()]; ok {
			out.Add(m.JSON, m.Message)
			continue
		}
		out.Add(fe.Field(), "Campo inválido")
	}
	return out
}
