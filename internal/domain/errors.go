package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by a service wraps one of these so that
// delivery code can map it to a status with errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
)

// Conflict errors.
var (
	ErrNotInitiator            = fmt.Errorf("%w: user is not the event initiator", ErrConflict)
	ErrParticipantLimitReached = fmt.Errorf("%w: participant limit reached", ErrConflict)
	ErrRequestNotPending       = fmt.Errorf("%w: request is not pending", ErrConflict)
	ErrDuplicateRequest        = fmt.Errorf("%w: participation request already exists", ErrConflict)
	ErrEventNotPublished       = fmt.Errorf("%w: event is not published", ErrConflict)
	ErrInitiatorRequest        = fmt.Errorf("%w: initiator cannot request participation in own event", ErrConflict)
	ErrEventPublished          = fmt.Errorf("%w: published event cannot be changed", ErrConflict)
	ErrInvalidStateTransition  = fmt.Errorf("%w: state transition not allowed", ErrConflict)
	ErrDuplicateEmail          = fmt.Errorf("%w: email already in use", ErrConflict)
	ErrDuplicateCategory       = fmt.Errorf("%w: category name already in use", ErrConflict)
	ErrCategoryInUse           = fmt.Errorf("%w: category has events", ErrConflict)
	ErrNotAuthor               = fmt.Errorf("%w: user is not the comment author", ErrConflict)
)

// Not found errors.
var (
	ErrUserNotFound        = fmt.Errorf("%w: user", ErrNotFound)
	ErrEventNotFound       = fmt.Errorf("%w: event", ErrNotFound)
	ErrCategoryNotFound    = fmt.Errorf("%w: category", ErrNotFound)
	ErrRequestNotFound     = fmt.Errorf("%w: participation request", ErrNotFound)
	ErrCompilationNotFound = fmt.Errorf("%w: compilation", ErrNotFound)
	ErrCommentNotFound     = fmt.Errorf("%w: comment", ErrNotFound)
)

// Validation errors.
var (
	ErrInvalidRange        = fmt.Errorf("%w: range start is after range end", ErrValidation)
	ErrInvalidTargetStatus = fmt.Errorf("%w: target status must be CONFIRMED or REJECTED", ErrValidation)
	ErrEventDateInPast     = fmt.Errorf("%w: event date must be in the future", ErrValidation)
	ErrInvalidStateAction  = fmt.Errorf("%w: unknown state action", ErrValidation)
	ErrInvalidEmail        = fmt.Errorf("%w: invalid email format", ErrValidation)
	ErrInvalidLoginCode    = fmt.Errorf("%w: invalid or expired code", ErrValidation)
)

// Validationf returns a validation error carrying a formatted message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
