// Package usecase implements the business logic for the auth feature.
package usecase

import (
	"fmt"

	"portal_backend/internal/feature/auth/domain"
)

// storeFailure wraps a persistence error so that callers can classify it as
// domain.ErrStoreUnavailable while keeping the driver error in the chain.
func storeFailure(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}
