package ledger

import (
	"context"
	"time"

	"github.com/bizops/backend/internal/domain/shared"
)

// MaxInvoiceSize caps uploaded invoice files at 10 MiB.
const MaxInvoiceSize = 10 << 20

// DefaultSignedURLTTL is how long generated download links stay valid when
// the caller does not ask for a specific duration.
const DefaultSignedURLTTL = time.Minute

// InvoiceService wraps invoice object storage with upload validation and
// signed-URL generation.
type InvoiceService struct {
	storage InvoiceStorage
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(storage InvoiceStorage) *InvoiceService {
	return &InvoiceService{storage: storage}
}

// Upload validates and stores an invoice file, returning its storage key and
// public URL.
func (s *InvoiceService) Upload(ctx context.Context, fileName string, data []byte, contentType string) (*StoredObject, error) {
	if len(data) == 0 {
		return nil, shared.NewValidationError("Invoice file is empty")
	}
	if len(data) > MaxInvoiceSize {
		return nil, shared.NewValidationError("Invoice file exceeds the 10 MiB limit")
	}
	return s.storage.Upload(ctx, fileName, data, contentType)
}

// SignedURL generates a time-limited download URL for a stored invoice. A
// non-positive ttl falls back to the default.
func (s *InvoiceService) SignedURL(ctx context.Context, storageKey string, ttl time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, shared.NewValidationError("Missing storage path")
	}
	if ttl <= 0 {
		ttl = DefaultSignedURLTTL
	}
	return s.storage.DownloadURL(ctx, storageKey, ttl)
}

// Delete removes a stored invoice. Deleting a missing path succeeds.
func (s *InvoiceService) Delete(ctx context.Context, storageKey string) error {
	if storageKey == "" {
		return nil
	}
	return s.storage.Delete(ctx, storageKey)
}
