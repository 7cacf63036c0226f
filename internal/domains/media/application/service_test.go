package application

import (
	"bytes"
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/storefront-api/internal/domains/media/adapters/localdisk"
	"github.com/Apurer/storefront-api/internal/domains/media/application/types"
	"github.com/Apurer/storefront-api/internal/domains/media/domain"
)

// 1x1 transparent PNG.
const pixelPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="

func newTestService(t *testing.T) (*Service, string) {
	dir := t.TempDir()
	store, err := localdisk.NewStore(dir)
	require.NoError(t, err)
	svc := NewService(store, domain.URLResolver{BaseURL: "http://localhost:8080"})
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return svc, dir
}

func pngBytes(t *testing.T) []byte {
	raw, err := base64.StdEncoding.DecodeString(pixelPNG)
	require.NoError(t, err)
	return raw
}

func TestUpload_StoresSniffedImage(t *testing.T) {
	svc, dir := newTestService(t)
	raw := pngBytes(t)

	img, err := svc.Upload(context.Background(), types.UploadInput{Filename: "pixel.png", Size: int64(len(raw)), Content: bytes.NewReader(raw)})
	require.NoError(t, err)
	assert.Equal(t, "1700000000000_pixel.png", img.Filename)
	assert.Equal(t, "http://localhost:8080/images/1700000000000_pixel.png", img.URL)

	stored, err := os.ReadFile(filepath.Join(dir, img.Filename))
	require.NoError(t, err)
	assert.Equal(t, raw, stored)
}

func TestUpload_RejectsMismatchedContent(t *testing.T) {
	svc, dir := newTestService(t)
	payload := []byte("#!/bin/sh\necho not an image\n")

	_, err := svc.Upload(context.Background(), types.UploadInput{Filename: "fake.jpg", Size: int64(len(payload)), Content: bytes.NewReader(payload)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUpload_RejectsExtensionAndSize(t *testing.T) {
	svc, _ := newTestService(t)
	raw := pngBytes(t)

	_, err := svc.Upload(context.Background(), types.UploadInput{Filename: "pixel.bmp", Size: int64(len(raw)), Content: bytes.NewReader(raw)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Upload(context.Background(), types.UploadInput{Filename: "pixel.png", Size: domain.MaxImageBytes + 1, Content: bytes.NewReader(raw)})
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = svc.Upload(context.Background(), types.UploadInput{Filename: "pixel.png"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpload_UndeclaredOversizeIsRemoved(t *testing.T) {
	svc, dir := newTestService(t)
	big := append(pngBytes(t), bytes.Repeat([]byte{0}, int(domain.MaxImageBytes))...)

	_, err := svc.Upload(context.Background(), types.UploadInput{Filename: "big.png", Size: 10, Content: bytes.NewReader(big)})
	assert.ErrorIs(t, err, ErrTooLarge)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
