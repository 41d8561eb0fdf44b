package api

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/futureed/archive/internal/catalog"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// formatValidationErrors converts validator errors into a map of JSON field
// name to message.
func formatValidationErrors(err error) map[string]string {
	errs := make(map[string]string)
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return errs
	}
	for _, e := range ve {
		errs[e.Field()] = formatFieldError(e)
	}
	return errs
}

func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		return fmt.Sprintf("Minimum length is %s", e.Param())
	case "max":
		return fmt.Sprintf("Maximum length is %s", e.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s", e.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", e.Param())
	default:
		return fmt.Sprintf("Validation failed on '%s'", e.Tag())
	}
}

// decodeAndValidate decodes the JSON body into T and validates it. On
// failure it writes a 400 response and returns false.
func decodeAndValidate[T any](w http.ResponseWriter, r *http.Request) (*T, bool) {
	var req T
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, catalog.CodeInvalidInput, "invalid request body")
		return nil, false
	}
	if err := validate.Struct(&req); err != nil {
		jsonResponse(w, http.StatusBadRequest, errorBody{
			Error:  "validation failed",
			Code:   catalog.CodeInvalidInput,
			Fields: formatValidationErrors(err),
		})
		return nil, false
	}
	return &req, true
}
