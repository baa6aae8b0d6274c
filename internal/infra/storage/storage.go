// Package storage keeps uploaded images and videos on local disk or in an
// S3-compatible bucket (AWS S3, Cloudflare R2).
package storage

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"poster-commerce/internal/config"
	"poster-commerce/internal/domain"
	"poster-commerce/internal/domain/ports/adapter"

	"github.com/oklog/ulid/v2"
)

var _ adapter.FileStorage = (*Files)(nil)

const DefaultMaxBytes = 10 << 20

var allowedExt = map[string]string{
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
}

var errTooLarge = errors.New("upload exceeds size limit")

// backend stores opaque objects by key.
type backend interface {
	save(ctx context.Context, key string, r io.Reader, contentType string) error
	remove(ctx context.Context, key string) error
}

// Files validates uploads, names them and hands them to a backend.
type Files struct {
	be       backend
	baseURL  string
	maxBytes int64
	entropy  io.Reader
	now      func() time.Time
}

// New builds the storage selected by cfg.Type.
func New(cfg config.StorageConfig) (*Files, error) {
	var (
		be      backend
		baseURL = strings.TrimRight(cfg.BaseURL, "/")
		err     error
	)
	switch cfg.Type {
	case "", "local":
		be, err = newLocal(cfg.BasePath)
		if baseURL == "" {
			baseURL = "/uploads"
		}
	case "s3", "r2":
		var b *bucket
		b, err = newBucket(cfg)
		if baseURL == "" && b != nil {
			baseURL = b.defaultURL()
		}
		be = b
	default:
		return nil, fmt.Errorf("storage type %q not supported", cfg.Type)
	}
	if err != nil {
		return nil, err
	}
	return newFiles(be, baseURL, cfg.MaxBytes), nil
}

func newFiles(be backend, baseURL string, maxBytes int64) *Files {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Files{
		be:       be,
		baseURL:  baseURL,
		maxBytes: maxBytes,
		entropy:  ulid.Monotonic(rand.Reader, 0),
		now:      time.Now,
	}
}

// Put stores up as <folder>/<ULID><ext> and returns its public URL.
func (f *Files) Put(ctx context.Context, folder string, up adapter.Upload) (string, error) {
	if up.Body == nil {
		return "", fmt.Errorf("empty upload: %w", domain.ErrInvalidArgument)
	}
	ext := strings.ToLower(path.Ext(up.Filename))
	ct, ok := allowedExt[ext]
	if !ok {
		return "", fmt.Errorf("file type %q not allowed: %w", ext, domain.ErrInvalidArgument)
	}
	if up.Size > f.maxBytes {
		return "", fmt.Errorf("file of %d bytes: %w", up.Size, domain.ErrInvalidArgument)
	}
	if up.ContentType != "" && up.ContentType != "application/octet-stream" {
		ct = up.ContentType
	}

	id, err := ulid.New(ulid.Timestamp(f.now()), f.entropy)
	if err != nil {
		return "", fmt.Errorf("object key: %w", err)
	}
	key := path.Join(strings.Trim(folder, "/"), id.String()+ext)

	body := &capReader{r: up.Body, left: f.maxBytes}
	err = f.be.save(ctx, key, body, ct)
	if body.over {
		_ = f.be.remove(context.WithoutCancel(ctx), key)
		return "", fmt.Errorf("file larger than %d bytes: %w", f.maxBytes, domain.ErrInvalidArgument)
	}
	if err != nil {
		return "", fmt.Errorf("store %s: %w", key, err)
	}
	return f.baseURL + "/" + key, nil
}

// Delete removes the object behind url. URLs this storage did not issue are ignored.
func (f *Files) Delete(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, f.baseURL+"/")
	if !ok || key == "" || strings.Contains(key, "..") {
		return nil
	}
	return f.be.remove(ctx, key)
}

// capReader fails once more than left bytes have been read.
type capReader struct {
	r    io.Reader
	left int64
	over bool
}

func (c *capReader) Read(p []byte) (int, error) {
	if int64(len(p)) > c.left+1 {
		p = p[:c.left+1]
	}
	n, err := c.r.Read(p)
	c.left -= int64(n)
	if c.left < 0 {
		c.over = true
		return n, errTooLarge
	}
	return n, err
}
