package processor

import (
	"bytes"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// Prepare recompresses uploads above the configured threshold so large
// phone photos don't burn the hosted service's free-tier quota. Small
// uploads pass through untouched. The returned filename matches the
// returned bytes: a re-encoded upload gets a .jpg extension.
func (p *Intake) Prepare(data []byte, filename string) ([]byte, string, error) {
	if int64(len(data)) <= p.cfg.CompressThreshold {
		return data, filename, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > p.cfg.MaxDimension || bounds.Dy() > p.cfg.MaxDimension {
		img = imaging.Fit(img, p.cfg.MaxDimension, p.cfg.MaxDimension, imaging.Lanczos)
	}

	buffer := &bytes.Buffer{}
	if err := imaging.Encode(buffer, img, imaging.JPEG, imaging.JPEGQuality(p.cfg.CompressQuality)); err != nil {
		return nil, "", fmt.Errorf("failed to encode image: %w", err)
	}

	// Recompression can lose against an already well-compressed original.
	if buffer.Len() >= len(data) {
		return data, filename, nil
	}

	return buffer.Bytes(), jpegFilename(filename), nil
}

func jpegFilename(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename)) + ".jpg"
}
