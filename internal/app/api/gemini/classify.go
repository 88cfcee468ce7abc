package gemini

import (
	"errors"
	"net/http"
	"strings"

	"github.com/samber/lo"
	"google.golang.org/genai"

	apperrors "gemini-transcriber/internal/app/errors"
)

// failure is the part of a transport error the rules look at
type failure struct {
	code   int
	status string
	text   string
}

func failureOf(err error) failure {
	f := failure{text: strings.ToLower(err.Error())}

	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		f.code, f.status = apiErr.Code, apiErr.Status
	case errors.As(err, &apiErrPtr) && apiErrPtr != nil:
		f.code, f.status = apiErrPtr.Code, apiErrPtr.Status
	}
	return f
}

func (f failure) mentions(markers ...string) bool {
	return lo.SomeBy(markers, func(marker string) bool {
		return strings.Contains(f.text, strings.ToLower(marker))
	})
}

type rule struct {
	category apperrors.Category
	match    func(failure) bool
}

// rules are evaluated in order; the first match wins. Status codes come first,
// message markers are a best-effort fallback against Gemini's error surface.
var rules = []rule{
	{
		category: apperrors.CategoryAuth,
		match: func(f failure) bool {
			return f.code == http.StatusUnauthorized ||
				f.code == http.StatusForbidden ||
				lo.Contains([]string{"UNAUTHENTICATED", "PERMISSION_DENIED"}, f.status) ||
				f.mentions("API key not valid", "API_KEY_INVALID", "API key expired")
		},
	},
	{
		category: apperrors.CategoryPayloadTooLarge,
		match: func(f failure) bool {
			return f.code == http.StatusRequestEntityTooLarge ||
				f.mentions("request entity too large", "payload size exceeds", "too large")
		},
	},
}

// classify maps a GenerateContent failure to a category, defaulting to transport
func classify(err error) apperrors.Category {
	f := failureOf(err)
	for _, r := range rules {
		if r.match(f) {
			return r.category
		}
	}
	return apperrors.CategoryTransport
}
