package generator

import (
	"context"
	"errors"
	"fmt"

	"github.com/surveyforge/survey-service/internal/models"
)

// Generator produces a questionnaire from a generation request. The returned
// questionnaire satisfies all structural invariants (unique ids, type-derived
// options).
type Generator interface {
	Generate(ctx context.Context, req *models.GenerationRequest) (*models.Questionnaire, error)
}

var (
	ErrNotConfigured   = errors.New("generator not configured")
	ErrUnauthorized    = errors.New("generator rejected credentials")
	ErrMalformedOutput = errors.New("malformed generator output")
)

// TransportError reports a failed upstream call. The upstream response body
// is carried verbatim so callers can surface it as the failure message.
type TransportError struct {
	Status int
	Body   string
}

func (e *TransportError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("generator transport error: %s", e.Body)
	}
	return fmt.Sprintf("generator returned status %d: %s", e.Status, e.Body)
}
