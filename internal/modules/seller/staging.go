package seller

import (
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrUnsupportedImage = errors.New("unsupported image file")
	ErrImageTooLarge    = errors.New("image file too large")
)

var allowedImageExts = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".webp": true,
}

// ImageFile is a candidate file offered by a picker or a drop.
type ImageFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// checkImage returns the sniffed MIME type of an acceptable image.
func checkImage(f ImageFile, maxBytes int64) (string, error) {
	ext := strings.ToLower(filepath.Ext(f.Name))
	if !allowedImageExts[ext] {
		return "", fmt.Errorf("%w: extension %q", ErrUnsupportedImage, ext)
	}
	if maxBytes > 0 && int64(len(f.Data)) > maxBytes {
		return "", fmt.Errorf("%w: %d bytes, limit %d", ErrImageTooLarge, len(f.Data), maxBytes)
	}
	// browsers and multipart writers fall back to octet-stream when unsure
	declared := f.ContentType
	if declared != "" && declared != "application/octet-stream" && !strings.HasPrefix(declared, "image/") {
		return "", fmt.Errorf("%w: declared type %q", ErrUnsupportedImage, f.ContentType)
	}
	detected := mimetype.Detect(f.Data).String()
	if !strings.HasPrefix(detected, "image/") {
		return "", fmt.Errorf("%w: content is %q", ErrUnsupportedImage, detected)
	}
	return detected, nil
}

// dataURL renders data as a base64 data URL for previews.
func dataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
