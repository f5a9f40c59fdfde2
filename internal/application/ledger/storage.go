package ledger

import (
	"context"
	"time"
)

// StoredObject identifies an uploaded invoice file: its storage key and the
// public URL it resolves to (empty when the bucket is private).
type StoredObject struct {
	Key       string `json:"path"`
	PublicURL string `json:"publicUrl"`
}

// InvoiceStorage defines the object-storage operations the ledger needs for
// invoice attachments. Implemented by the infrastructure layer (S3 or an
// in-memory stub for development).
type InvoiceStorage interface {
	// Upload stores the file under a collision-safe timestamped key and
	// returns the stored object.
	Upload(ctx context.Context, fileName string, data []byte, contentType string) (*StoredObject, error)

	// DownloadURL generates a time-limited signed URL for a stored object.
	DownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// Delete removes a stored object. Deleting a missing key succeeds.
	Delete(ctx context.Context, storageKey string) error

	// Exists reports whether an object is present under the key.
	Exists(ctx context.Context, storageKey string) (bool, error)
}
