// Package storage persists uploaded files and hands back store-relative
// paths for the database to reference.
package storage

import (
	"context"
	"mime/multipart"
)

type FileStore interface {
	// Save writes the uploaded file under dir and returns its
	// store-relative path.
	Save(ctx context.Context, dir string, fh *multipart.FileHeader) (string, error)
	// Delete removes a stored file. Deleting a path that no longer exists
	// is not an error.
	Delete(ctx context.Context, path string) error
}
