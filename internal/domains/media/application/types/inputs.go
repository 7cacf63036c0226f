package types

import "io"

// UploadInput is one multipart file part.
type UploadInput struct {
	Filename string
	Size     int64
	Content  io.Reader
}
