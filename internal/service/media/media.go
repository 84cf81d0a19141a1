package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/gcerrors"
)

var (
	ErrNotImage = errors.New("file is not a supported image")
	ErrTooLarge = errors.New("file is too large")
	ErrNotFound = errors.New("file not found")
)

// sniffLen is how much of the upload is read to detect its type.
const sniffLen = 3072

var allowed = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type Store struct {
	bucket   *blob.Bucket
	maxBytes int64
}

func New(bucket *blob.Bucket, maxBytes int64) *Store {
	return &Store{bucket: bucket, maxBytes: maxBytes}
}

// OpenDir opens a bucket on a local directory, creating it when missing.
func OpenDir(dir string) (*blob.Bucket, error) {
	b, err := fileblob.OpenBucket(dir, &fileblob.Options{CreateDir: true})
	if err != nil {
		return nil, fmt.Errorf("open upload dir %s: %w", dir, err)
	}
	return b, nil
}

// Save stores an image read from r and returns its key.
func (s *Store) Save(ctx context.Context, r io.Reader) (string, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return "", ErrNotImage
	}

	contentType := mimetype.Detect(head).String()
	ext, ok := allowed[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotImage, contentType)
	}

	key := uuid.NewString() + ext

	// Cancelling the writer's context discards a partial object.
	wctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w, err := s.bucket.NewWriter(wctx, key, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("open object: %w", err)
	}

	body := io.LimitReader(io.MultiReader(bytes.NewReader(head), r), s.maxBytes+1)
	written, err := io.Copy(w, body)
	if err == nil && written > s.maxBytes {
		err = ErrTooLarge
	}
	if err != nil {
		cancel()
		_ = w.Close()
		if errors.Is(err, ErrTooLarge) {
			return "", err
		}
		return "", fmt.Errorf("write object: %w", err)
	}

	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close object: %w", err)
	}
	return key, nil
}

// ValidKey reports whether key has the shape Save produces.
func ValidKey(key string) bool {
	ext := path.Ext(key)
	if _, err := uuid.Parse(strings.TrimSuffix(key, ext)); err != nil {
		return false
	}
	for _, e := range allowed {
		if e == ext {
			return true
		}
	}
	return false
}

// Open returns a reader for a stored object. Callers close it.
func (s *Store) Open(ctx context.Context, key string) (*blob.Reader, error) {
	if !ValidKey(key) {
		return nil, ErrNotFound
	}
	rd, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open object %s: %w", key, err)
	}
	return rd, nil
}

func (s *Store) Close() error {
	return s.bucket.Close()
}
