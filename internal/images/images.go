package images

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/tiff"
)

// ThumbnailMaxDimension is the longest edge of the gallery thumbnail variant
const ThumbnailMaxDimension = 400

// AcceptedFormats are the image formats allowed for submissions, as
// reported by image.DecodeConfig.
var AcceptedFormats = map[string]bool{
	"jpeg": true,
	"png":  true,
	"tiff": true,
}

// Info describes a validated upload
type Info struct {
	Format    string
	Width     int
	Height    int
	SizeBytes int64
}

// Limits are the constraints an upload is validated against
type Limits struct {
	MinDimension  int
	MaxDimension  int
	MaxFileSizeMB int
}

// Validate checks an uploaded file against the submission constraints:
// accepted format, longest edge within bounds, size within the cap.
func Validate(data []byte, limits Limits) (*Info, error) {
	maxBytes := int64(limits.MaxFileSizeMB) * 1024 * 1024
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("file exceeds %dMB limit", limits.MaxFileSizeMB)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unrecognized image data: %w", err)
	}

	if !AcceptedFormats[format] {
		return nil, fmt.Errorf("format %q not accepted", format)
	}

	longest := cfg.Width
	if cfg.Height > longest {
		longest = cfg.Height
	}
	if longest < limits.MinDimension {
		return nil, fmt.Errorf("longest edge %dpx below %dpx minimum", longest, limits.MinDimension)
	}
	if longest > limits.MaxDimension {
		return nil, fmt.Errorf("longest edge %dpx above %dpx maximum", longest, limits.MaxDimension)
	}

	return &Info{
		Format:    format,
		Width:     cfg.Width,
		Height:    cfg.Height,
		SizeBytes: int64(len(data)),
	}, nil
}

// Thumbnail renders the gallery thumbnail variant as JPEG bytes.
func Thumbnail(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	thumb := resize.Thumbnail(ThumbnailMaxDimension, ThumbnailMaxDimension, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 80}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	return buf.Bytes(), nil
}
