package handlers

import (
	"encoding/json"
	"errors"
	"reflect"

	"github.com/go-playground/validator/v10"

	"github.com/supportops/event-insights-service/internal/models"
)

// bindingDetails translates a ShouldBindJSON failure into per-field details
// for the VALIDATION_ERROR envelope. Field names use their json tags (see
// the tag-name registration in httpserver).
func bindingDetails(err error) []models.ErrorDetail {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]models.ErrorDetail, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, models.ErrorDetail{
				Path:    fe.Field(),
				Message: validationMessage(fe),
			})
		}
		return out
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		path := typeErr.Field
		if path == "" {
			path = "(root)"
		}
		return []models.ErrorDetail{{Path: path, Message: "must be " + jsonTypeName(typeErr.Type)}}
	}

	return []models.ErrorDetail{{Path: "(root)", Message: "invalid JSON body"}}
}

func validationMessage(fe validator.FieldError) string {
	if fe.Tag() == "required" {
		return "required"
	}
	return "failed constraint " + fe.Tag()
}

// jsonTypeName names the expected JSON type for a Go target type, so a
// payload sent as a list reads "must be an object" rather than a Go type
// dump.
func jsonTypeName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Map, reflect.Struct:
		return "an object"
	case reflect.Slice, reflect.Array:
		return "an array"
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "a number"
	default:
		return "of type " + t.String()
	}
}
