package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// ErrInvalidImage is returned when the payload is not a decodable image.
var ErrInvalidImage = errors.New("upload a valid image. The file you uploaded was either not an image or a corrupted image")

// MaxImagePixels bounds the decoded size of an upload.
const MaxImagePixels = 40_000_000

var extensions = map[string]string{
	"jpeg": ".jpg",
	"png":  ".png",
	"gif":  ".gif",
	"webp": ".webp",
	"bmp":  ".bmp",
	"tiff": ".tiff",
}

// ImageInfo describes a validated upload.
type ImageInfo struct {
	Format      string
	Ext         string
	ContentType string
	Width       int
	Height      int
}

// ValidateImage checks that data is a complete image in a supported format.
// The header is inspected first so oversized images are rejected before
// the full decode.
func ValidateImage(data []byte) (*ImageInfo, error) {
	if len(data) == 0 {
		return nil, ErrInvalidImage
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidImage
	}
	ext, ok := extensions[format]
	if !ok {
		return nil, ErrInvalidImage
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > MaxImagePixels {
		return nil, fmt.Errorf("%w: unsupported dimensions %dx%d", ErrInvalidImage, cfg.Width, cfg.Height)
	}

	// A truncated body can still carry a valid header.
	if _, err := imaging.Decode(bytes.NewReader(data)); err != nil {
		return nil, ErrInvalidImage
	}

	return &ImageInfo{
		Format:      format,
		Ext:         ext,
		ContentType: "image/" + format,
		Width:       cfg.Width,
		Height:      cfg.Height,
	}, nil
}
