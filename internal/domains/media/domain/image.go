package domain

import (
	"errors"
	"path/filepath"
	"strconv"
	"strings"
)

// MaxImageBytes caps a single upload at 5 MB.
const MaxImageBytes int64 = 5 << 20

var (
	ErrNoFile          = errors.New("no image file was uploaded")
	ErrUnsupportedType = errors.New("only jpeg, jpg, png and gif images are allowed")
	ErrTooLarge        = errors.New("image exceeds the 5 MB limit")
)

var allowedExtensions = map[string]bool{".jpeg": true, ".jpg": true, ".png": true, ".gif": true}

// AllowedMIMETypes lists the content types accepted after sniffing.
var AllowedMIMETypes = []string{"image/jpeg", "image/png", "image/gif"}

// CheckUpload validates the client file name and declared size before any bytes are read.
func CheckUpload(filename string, size int64) error {
	if strings.TrimSpace(filename) == "" || size == 0 {
		return ErrNoFile
	}
	if size > MaxImageBytes {
		return ErrTooLarge
	}
	if !allowedExtensions[strings.ToLower(filepath.Ext(filename))] {
		return ErrUnsupportedType
	}
	return nil
}

// StoredName keeps only the base of the client file name and prefixes the upload time so names
// do not collide.
func StoredName(filename string, unixMillis int64) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	base = strings.ReplaceAll(base, " ", "_")
	return strconv.FormatInt(unixMillis, 10) + "_" + base
}

// Image is an uploaded file and the URL it is served from.
type Image struct {
	Filename string
	URL      string
}
