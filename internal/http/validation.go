package http

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// FieldError es un error de validación por campo, con el formato
// {path, message} que espera el cliente.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

var phonePattern = regexp.MustCompile(`^\d{10,15}$`)

var registerValidatorsOnce sync.Once

// registerValidators instala el validador "phone" en el engine de binding.
func registerValidators() {
	registerValidatorsOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
				return phonePattern.MatchString(fl.Field().String())
			})
		}
	})
}

// bindingErrors traduce errores del validador a una lista de FieldError.
// Devuelve false cuando err no proviene del validador (JSON malformado).
func bindingErrors(err error) ([]FieldError, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}
	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Path:    strings.ToLower(fe.Field()),
			Message: validationMessage(fe),
		})
	}
	return fields, true
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required"
	case "email":
		return "Invalid email format"
	case "phone":
		return "Invalid phone number"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	default:
		return "Invalid value"
	}
}
