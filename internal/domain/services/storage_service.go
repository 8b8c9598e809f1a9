package services

import (
	"context"
	"go-drive-dedup/internal/domain/entities"
)

// FileIterator is a lazy, single-pass view over a file listing snapshot.
// Next returns io.EOF once the listing is exhausted.
type FileIterator interface {
	Next(ctx context.Context) (*entities.RawFile, error)
}

// StorageProvider defines the interface for external storage providers (Google Drive, snapshots)
type StorageProvider interface {
	// RootFolderID returns the id of the account's root folder
	RootFolderID(ctx context.Context) (string, error)

	// ListFolders returns every folder owned by the account
	ListFolders(ctx context.Context) ([]*entities.RawFolder, error)

	// ListFiles returns an iterator over every owned, non-trashed file
	ListFiles(ctx context.Context) (FileIterator, error)

	// FolderURL returns a browser link for a folder
	FolderURL(folderID string) string

	GetProviderName() string
}
