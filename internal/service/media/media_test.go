package media_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"fsanano/coffee-shop/internal/service/media"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
)

// pngHeader is enough of a PNG for content sniffing.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func newStore(t *testing.T, maxBytes int64) *media.Store {
	t.Helper()
	s := media.New(memblob.OpenBucket(nil), maxBytes)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveAndOpen(t *testing.T) {
	s := newStore(t, 1<<20)
	ctx := context.Background()

	key, err := s.Save(ctx, bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.True(t, media.ValidKey(key))

	rd, err := s.Open(ctx, key)
	require.NoError(t, err)
	defer rd.Close()

	assert.Equal(t, "image/png", rd.ContentType())
	got, err := io.ReadAll(rd)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, got)
}

func TestSave_RejectsNonImages(t *testing.T) {
	s := newStore(t, 1<<20)

	_, err := s.Save(context.Background(), strings.NewReader("#!/bin/sh\necho hi\n"))
	assert.ErrorIs(t, err, media.ErrNotImage)

	_, err = s.Save(context.Background(), strings.NewReader(""))
	assert.ErrorIs(t, err, media.ErrNotImage)
}

func TestSave_TooLarge(t *testing.T) {
	s := newStore(t, 64)

	body := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 128)...)
	_, err := s.Save(context.Background(), bytes.NewReader(body))
	assert.ErrorIs(t, err, media.ErrTooLarge)
}

func TestOpen_NotFound(t *testing.T) {
	s := newStore(t, 1<<20)
	ctx := context.Background()

	_, err := s.Open(ctx, "0b9c6f5e-3d1a-4a63-9f59-6c1f5e0d2a11.png")
	assert.ErrorIs(t, err, media.ErrNotFound)

	_, err = s.Open(ctx, "../etc/passwd")
	assert.ErrorIs(t, err, media.ErrNotFound)
}

func TestValidKey(t *testing.T) {
	assert.True(t, media.ValidKey("0b9c6f5e-3d1a-4a63-9f59-6c1f5e0d2a11.webp"))
	assert.False(t, media.ValidKey("0b9c6f5e-3d1a-4a63-9f59-6c1f5e0d2a11.exe"))
	assert.False(t, media.ValidKey("photo.png"))
	assert.False(t, media.ValidKey(""))
}
