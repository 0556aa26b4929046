package catalog

import (
	"context"
	"io"

	"github.com/craftfolio/cms/internal/models"
)

// UploadRequest carries one file toward the asset store.
type UploadRequest struct {
	FileName    string
	MimeType    string
	Size        int64
	Content     io.Reader
	PageContext string
}

// Store is the asset-store contract the picker, uploader and gallery
// components consume. Client implements it over HTTP; tests substitute
// fakes.
type Store interface {
	List(ctx context.Context, pageContext string) ([]models.MediaAsset, error)
	Upload(ctx context.Context, req UploadRequest) (models.MediaAsset, error)
	Delete(ctx context.Context, id string) error
}
