// Package validation runs declarative field rules before handler bodies
// execute. Rules are validator struct tags on the request DTOs; violations
// are rejected with a 400 and a list of {field: message} pairs.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/taskboard/taskboard-api/internal/httputil"
)

// FieldErrors is the wire shape of validation failures:
// one single-key {field: message} object per violation.
type FieldErrors []map[string]string

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report violations under the json field name, not the Go field name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// Check validates the struct tags on a request DTO.
// Returns nil when the request is valid.
func Check(s any) FieldErrors {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{{"request": "invalid request"}}
	}

	out := make(FieldErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, map[string]string{fe.Field(): message(fe)})
	}
	return out
}

// DecodeValid decodes the JSON body into T and runs its validation
// tags. On failure the 400 response is already written and ok is false.
func DecodeValid[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, "Invalid request body", http.StatusBadRequest)
		return req, false
	}
	if errs := Check(req); errs != nil {
		Respond(w, errs)
		return req, false
	}
	return req, true
}

// Respond writes the 400 validation-failure envelope
func Respond(w http.ResponseWriter, errs FieldErrors) {
	httputil.RespondErrorPayload(w, http.StatusBadRequest, "Validation failed", map[string]any{
		"errors": errs,
	})
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Please include a valid email"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s cannot be more than %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s cannot be more than %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
