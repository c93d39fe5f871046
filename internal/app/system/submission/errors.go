package submission

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	applicantstore "github.com/dalemusser/hackreg/internal/app/store/applicants"
)

var (
	// ErrDuplicateEmail means an application with the same email already
	// exists. It is the store's sentinel, so errors.Is matches either layer.
	ErrDuplicateEmail = applicantstore.ErrDuplicateEmail

	// ErrStoreUnavailable means the store could not be reached (or timed out)
	// while checking for a duplicate or inserting.
	ErrStoreUnavailable = errors.New("application store unavailable")

	// ErrStoreWriteFailed means the store rejected the insert.
	ErrStoreWriteFailed = errors.New("application could not be saved")

	// ErrSubmitInProgress is returned when Submit is called again on a
	// pipeline whose previous Submit has not returned.
	ErrSubmitInProgress = errors.New("submission already in progress")
)

// ValidationError lists the fields that block submission. Fields is empty
// when the draft validates but the wizard is not on the final step.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "application is not ready to submit"
	}
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return fmt.Sprintf("application has invalid fields: %s", strings.Join(names, ", "))
}

// UserMessage translates a Submit error into the text shown on the review step.
func UserMessage(err error) string {
	var verr *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return "Please fix the highlighted fields before submitting."
	case errors.Is(err, ErrDuplicateEmail):
		return "An application with this email already exists."
	case errors.Is(err, ErrSubmitInProgress):
		return "Your application is already being submitted."
	case errors.Is(err, ErrStoreUnavailable):
		return "We could not reach the application service. Please try again in a moment."
	default:
		return "Error submitting application. Please try again."
	}
}
