package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// maxBodyBytes bounds request bodies; a cart quote is a short list of ids
const maxBodyBytes = 1 << 20

var validate = newValidator()

// newValidator reports fields by their JSON names so errors match the
// payload the client sent.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// ValidateRequest validates a decoded body against its validate tags
func ValidateRequest(v interface{}) error {
	return validate.Struct(v)
}

// DecodeAndValidate decodes a JSON request body into v and validates it.
// Unknown fields and trailing data are rejected.
func DecodeAndValidate(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(v); err != nil {
		return err
	}
	if decoder.More() {
		return errors.New("unexpected data after JSON body")
	}
	return ValidateRequest(v)
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FormatValidationErrors converts validator errors into field paths such as
// "items[0].quantity" with a readable message.
func FormatValidationErrors(err error) []ValidationError {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	fieldErrors := make([]ValidationError, 0, len(validationErrors))
	for _, e := range validationErrors {
		fieldErrors = append(fieldErrors, ValidationError{
			Field:   fieldPath(e),
			Message: validationMessage(e),
		})
	}
	return fieldErrors
}

// fieldPath drops the root struct name from the namespace
func fieldPath(e validator.FieldError) string {
	_, path, found := strings.Cut(e.Namespace(), ".")
	if !found {
		return e.Field()
	}
	return path
}

// RespondWithDecodeError writes a 400 for a body that failed DecodeAndValidate,
// listing field errors when validation rather than decoding failed.
func RespondWithDecodeError(w http.ResponseWriter, err error) {
	if fieldErrors := FormatValidationErrors(err); len(fieldErrors) > 0 {
		RespondWithValidationErrors(w, fieldErrors)
		return
	}
	RespondWithError(w, http.StatusBadRequest, "invalid request body")
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "min":
		if e.Kind() == reflect.Slice {
			return "Must contain at least " + e.Param() + " item(s)"
		}
		return "Value must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.Slice {
			return "Must contain at most " + e.Param() + " item(s)"
		}
		return "Value must be at most " + e.Param()
	case "gte":
		return "Value must be at least " + e.Param()
	case "lte":
		return "Value must be at most " + e.Param()
	case "gt":
		return "Value must be greater than " + e.Param()
	case "lt":
		return "Value must be less than " + e.Param()
	default:
		return "Invalid value"
	}
}
