// Package processor validates crop photos before they leave for the hosted
// service and recompresses oversized ones. Nothing here analyzes the image.
package processor

import (
	"bytes"
	"fmt"
	"image"
	"net/http"
	"strings"

	// Decoders for the accepted upload formats.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/cropcheckai/cropcheck/internal/config"
)

type Intake struct {
	cfg config.UploadConfig
}

func NewIntake(cfg config.UploadConfig) *Intake {
	return &Intake{cfg: cfg}
}

// Validate rejects anything the hosted service would choke on: empty or
// oversized payloads, disallowed MIME types, bytes that do not decode as an
// image. Returns the detected content type.
func (p *Intake) Validate(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty image data")
	}

	if int64(len(data)) > p.cfg.MaxFileSize {
		return "", fmt.Errorf("file size %d exceeds maximum allowed size %d", len(data), p.cfg.MaxFileSize)
	}

	contentType := http.DetectContentType(data)
	if !p.isAllowedType(contentType) {
		return "", fmt.Errorf("unsupported content type: %s", contentType)
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("invalid image format: %w", err)
	}

	return contentType, nil
}

func (p *Intake) isAllowedType(contentType string) bool {
	ct := strings.ToLower(contentType)
	for _, allowed := range p.cfg.AllowedTypes {
		if strings.Contains(ct, allowed) {
			return true
		}
	}
	return false
}
