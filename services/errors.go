package services

import (
	"fmt"

	"rsvp_server/models"
)

// ioFailure classifies a store error as models.ErrIOFailure while keeping the cause
func ioFailure(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, models.ErrIOFailure, err)
}
