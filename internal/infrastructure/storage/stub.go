// Package storage provides object storage implementations for invoice uploads.
package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	ledgerapp "github.com/bizops/backend/internal/application/ledger"
)

// StubInvoiceStorage is an in-memory implementation of InvoiceStorage.
// Use this for development and tests when no S3-compatible backend is
// available.
type StubInvoiceStorage struct {
	// BaseURL is the base URL for generated object links
	BaseURL string

	mu      sync.RWMutex
	objects map[string][]byte
	now     func() time.Time
}

// NewStubInvoiceStorage creates a new StubInvoiceStorage
func NewStubInvoiceStorage() *StubInvoiceStorage {
	return &StubInvoiceStorage{
		BaseURL: "https://storage.example.com",
		objects: make(map[string][]byte),
		now:     time.Now,
	}
}

// Ensure StubInvoiceStorage implements InvoiceStorage
var _ ledgerapp.InvoiceStorage = (*StubInvoiceStorage)(nil)

// Upload stores the file in memory under a sanitized timestamped key
func (s *StubInvoiceStorage) Upload(ctx context.Context, fileName string, data []byte, contentType string) (*ledgerapp.StoredObject, error) {
	key := fmt.Sprintf("%d_%s", s.now().UnixMilli(), SanitizeFileName(fileName))

	s.mu.Lock()
	s.objects[key] = data
	s.mu.Unlock()

	return &ledgerapp.StoredObject{
		Key:       key,
		PublicURL: s.BaseURL + "/" + key,
	}, nil
}

// DownloadURL generates a stub link for downloading a stored object
func (s *StubInvoiceStorage) DownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}

	expiresAt := time.Now().Add(expiresIn)
	url := s.BaseURL + "/download/" + storageKey + "?expires=" + expiresAt.Format(time.RFC3339)

	return url, expiresAt, nil
}

// Delete removes a stored object; deleting a missing key succeeds
func (s *StubInvoiceStorage) Delete(ctx context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	delete(s.objects, storageKey)
	s.mu.Unlock()
	return nil
}

// Exists reports whether a key was uploaded through this stub
func (s *StubInvoiceStorage) Exists(ctx context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}

	s.mu.RLock()
	_, ok := s.objects[storageKey]
	s.mu.RUnlock()
	return ok, nil
}
