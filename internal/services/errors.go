package services

import (
	"errors"
	"fmt"

	"eventmanager/internal/domain"
)

// wrapErr returns domain errors unchanged and wraps anything else with op.
func wrapErr(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrValidation) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
