package middleware

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"gemini-transcriber/internal/api/errors"
)

// Validator interface for domain validation
type Validator interface {
	Validate() error
}

// BindUpload binds a multipart form into req and checks its struct tags.
// A body cut off by MaxBodySize is reported as payload too large.
func BindUpload(c *gin.Context, req interface{}) error {
	err := c.ShouldBindWith(req, binding.FormMultipart)
	if err == nil {
		return nil
	}

	var maxErr *http.MaxBytesError
	if stderrors.As(err, &maxErr) {
		return errors.NewPayloadTooLargeError("Request body too large")
	}

	var validationErrs validator.ValidationErrors
	if stderrors.As(err, &validationErrs) {
		return errors.NewValidationError("Validation failed", fieldMessages(validationErrs))
	}

	return errors.NewBadRequestError("Invalid multipart form")
}

// ValidateUpload binds the form and then applies domain validation when req
// implements Validator.
func ValidateUpload(c *gin.Context, req interface{}) error {
	if err := BindUpload(c, req); err != nil {
		return err
	}

	if v, ok := req.(Validator); ok {
		if err := v.Validate(); err != nil {
			return err
		}
	}

	return nil
}

func fieldMessages(validationErrs validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(validationErrs))
	for _, fieldError := range validationErrs {
		field := strings.ToLower(fieldError.Field())

		switch fieldError.Tag() {
		case "required":
			fields[field] = "is required"
		case "max":
			fields[field] = "is too long"
		default:
			fields[field] = "is invalid"
		}
	}
	return fields
}
