package usersync

import (
	"errors"
	"fmt"

	"github.com/satvik-sharma-05/movieBooking/internal/identity"
	"github.com/satvik-sharma-05/movieBooking/internal/repository"
)

// ValidationError reports a malformed or incomplete payload.  It is terminal.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Field + ": " + e.Message
}

// UpstreamFetchError reports a failed identity API call.
type UpstreamFetchError struct {
	ExternalID string
	Err        error
	temporary  bool
}

func (e *UpstreamFetchError) Error() string {
	return fmt.Sprintf("fetch profile %s: %v", e.ExternalID, e.Err)
}

func (e *UpstreamFetchError) Unwrap() error { return e.Err }

// PersistenceError reports a store failure.
type PersistenceError struct {
	Op         string
	ExternalID string
	Err        error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s user %s: %v", e.Op, e.ExternalID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Conflict reports a unique-key violation the upsert could not resolve.
func (e *PersistenceError) Conflict() bool {
	return errors.Is(e.Err, repository.ErrEmailTaken)
}

// NotFoundError reports a lookup for a subject with no local record.
type NotFoundError struct {
	ExternalID string
}

func (e *NotFoundError) Error() string {
	return "user " + e.ExternalID + " not found"
}

func newUpstreamError(id string, err error) *UpstreamFetchError {
	temporary := true
	var se *identity.StatusError
	if errors.As(err, &se) {
		// unknown subject or rejected credentials will not fix themselves
		temporary = se.Temporary()
	}
	return &UpstreamFetchError{ExternalID: id, Err: err, temporary: temporary}
}

// Retryable reports whether the same event may succeed if processed again.
// Validation and not-found errors are terminal, and so are unknown-subject
// responses from the identity API and email conflicts in the store.
func Retryable(err error) bool {
	var (
		up *UpstreamFetchError
		pe *PersistenceError
	)
	switch {
	case errors.As(err, &up):
		return up.temporary
	case errors.As(err, &pe):
		return !pe.Conflict()
	}
	return false
}
