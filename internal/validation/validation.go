package validation

import (
	"fmt"

	"github.com/google/uuid"
)

// ErrInvalidUUID is returned for any path or body ID that does not parse
// as a UUID.
var ErrInvalidUUID = fmt.Errorf("invalid UUID format")

// ValidateUUID checks that a string is a valid UUID.
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidUUID, id)
	}
	return nil
}
