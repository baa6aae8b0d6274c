package adapter

import (
	"context"
	"io"
)

// Upload is a file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// FileStorage persists uploads and returns the public URL they are served from.
type FileStorage interface {
	// Put stores up under folder with a generated name. Unsupported types and
	// oversized files fail with domain.ErrInvalidArgument.
	Put(ctx context.Context, folder string, up Upload) (string, error)
	Delete(ctx context.Context, url string) error
}
