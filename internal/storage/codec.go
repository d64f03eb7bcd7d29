package storage

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedFormat indicates an output encoding that is not available
var ErrUnsupportedFormat = errors.New("unsupported image format")

const jpegQuality = 95

// Decode reads any registered image format (png, jpeg, gif, bmp, tiff, webp)
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return img, format, nil
}

// Encode writes img in the named format
func Encode(w io.Writer, img image.Image, format string) error {
	switch NormalizeFormat(format) {
	case "png":
		return png.Encode(w, img)
	case "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
	case "bmp":
		return bmp.Encode(w, img)
	case "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// NormalizeFormat maps aliases such as "jpg" or "tif" onto canonical names
func NormalizeFormat(format string) string {
	switch f := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), ".")); f {
	case "jpg", "jpeg":
		return "jpeg"
	case "tif", "tiff":
		return "tiff"
	default:
		return f
	}
}

// FormatFromPath derives the encoding from a file extension, or fallback
// when the extension is missing or unknown
func FormatFromPath(path, fallback string) string {
	switch f := NormalizeFormat(filepath.Ext(path)); f {
	case "png", "jpeg", "bmp", "tiff":
		return f
	default:
		return NormalizeFormat(fallback)
	}
}

// ContentType returns the MIME type for a canonical format name
func ContentType(format string) string {
	switch NormalizeFormat(format) {
	case "png":
		return "image/png"
	case "jpeg":
		return "image/jpeg"
	case "bmp":
		return "image/bmp"
	case "tiff":
		return "image/tiff"
	default:
		return "application/octet-stream"
	}
}
