package application

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/Apurer/storefront-api/internal/domains/media/application/types"
	"github.com/Apurer/storefront-api/internal/domains/media/domain"
	"github.com/Apurer/storefront-api/internal/domains/media/ports"
)

// sniffLen is how many leading bytes are inspected to detect the content type.
const sniffLen = 3072

// Service accepts image uploads after checking both the extension and the sniffed content type.
type Service struct {
	store    ports.ImageStore
	resolver domain.URLResolver
	now      func() time.Time
}

func NewService(store ports.ImageStore, resolver domain.URLResolver) *Service {
	return &Service{store: store, resolver: resolver, now: time.Now}
}

func (s *Service) Upload(ctx context.Context, input types.UploadInput) (*domain.Image, error) {
	if input.Content == nil {
		return nil, mapError(domain.ErrNoFile)
	}
	if err := domain.CheckUpload(input.Filename, input.Size); err != nil {
		return nil, mapError(err)
	}

	buffered := bufio.NewReaderSize(input.Content, sniffLen)
	head, err := buffered.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if !allowedType(mimetype.Detect(head)) {
		return nil, mapError(domain.ErrUnsupportedType)
	}

	name := domain.StoredName(input.Filename, s.now().UnixMilli())
	if err := s.store.Save(ctx, name, &capReader{r: buffered, remaining: domain.MaxImageBytes}); err != nil {
		return nil, mapError(err)
	}
	return &domain.Image{Filename: name, URL: s.resolver.Resolve(name)}, nil
}

func allowedType(detected *mimetype.MIME) bool {
	for _, allowed := range domain.AllowedMIMETypes {
		if detected.Is(allowed) {
			return true
		}
	}
	return false
}

// capReader fails with ErrTooLarge once more than remaining bytes are read, since the declared
// multipart size is client supplied.
type capReader struct {
	r         io.Reader
	remaining int64
}

func (c *capReader) Read(p []byte) (int, error) {
	if c.remaining < 0 {
		return 0, domain.ErrTooLarge
	}
	if int64(len(p)) > c.remaining+1 {
		p = p[:c.remaining+1]
	}
	n, err := c.r.Read(p)
	c.remaining -= int64(n)
	if c.remaining < 0 {
		return n, domain.ErrTooLarge
	}
	return n, err
}

var _ ports.Service = (*Service)(nil)
