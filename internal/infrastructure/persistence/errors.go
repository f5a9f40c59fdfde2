package persistence

import (
	"errors"

	"gorm.io/gorm"

	"github.com/bizops/backend/internal/domain/shared"
)

// storeErr classifies a database failure at the repository boundary. A
// missing record maps to the domain not-found sentinel; anything else is
// reported as a storage error carrying the driver's message.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return shared.NewStorageError(err)
}
