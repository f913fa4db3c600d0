// Package validator provides validation infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package validator

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator for structured validation.
type Validator struct {
	v *validator.Validate
}

// New creates a Validator with the outreach rules registered:
// "channel" (whatsapp|email|both|entrambi), "sendchannel" (whatsapp|email) and
// "tone" (formal|cordial|urgent).
func New() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("channel", oneOfFold("whatsapp", "email", "both", "entrambi"))
	_ = v.RegisterValidation("sendchannel", oneOfFold("whatsapp", "email"))
	_ = v.RegisterValidation("tone", oneOfFold("formal", "cordial", "urgent"))
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return &Validator{v: v}
}

// Struct validates a struct based on validation tags.
func (val *Validator) Struct(s interface{}) error {
	return val.v.Struct(s)
}

// Var validates a single variable against a tag.
func (val *Validator) Var(field interface{}, tag string) error {
	return val.v.Var(field, tag)
}

// RegisterValidation registers a custom validation function.
func (val *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return val.v.RegisterValidation(tag, fn)
}

// FieldErrors flattens validator errors into field -> rule pairs for responses.
func FieldErrors(err error) map[string]string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}

func oneOfFold(values ...string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		raw := strings.TrimSpace(fl.Field().String())
		if raw == "" {
			return true
		}
		for _, v := range values {
			if strings.EqualFold(raw, v) {
				return true
			}
		}
		return false
	}
}
