package server

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var configureBinding sync.Once

// useJSONFieldNames makes validator report the json name of a failing
// field instead of the Go struct field. Bodies carrying fields the request
// type does not declare are rejected.
func useJSONFieldNames() {
	configureBinding.Do(func() {
		binding.EnableDecoderDisallowUnknownFields = true

		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// bindJSON decodes the body into req and aborts with a validation error
// when decoding or a binding rule fails.
func bindJSON(c *gin.Context, req any) bool {
	useJSONFieldNames()

	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	if field, ok := unknownField(err); ok {
		AbortWithError(c, newValidationError(field, "unknown_field", "unknown field "+field))
		return false
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		AbortWithError(c, invalidRequestError())
		return false
	}

	out := ValidationErrors{Errors: make([]ValidationError, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Errors = append(out.Errors, ValidationError{
			Field:   fe.Field(),
			Code:    "invalid_" + fe.Field(),
			Message: bindingMessage(fe),
		})
	}
	AbortWithError(c, &out)
	return false
}

// unknownField extracts the field name from the decoder error raised for
// undeclared body fields.
func unknownField(err error) (string, bool) {
	rest, ok := strings.CutPrefix(err.Error(), `json: unknown field "`)
	if !ok {
		return "", false
	}
	return strings.TrimSuffix(rest, `"`), true
}

func bindingMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be an email address"
	case "max":
		return fe.Field() + " must be at most " + fe.Param() + " characters"
	default:
		return "invalid " + fe.Field()
	}
}
