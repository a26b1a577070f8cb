package processor

import (
	"bytes"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntake_Prepare_PassesThroughSmallUploads(t *testing.T) {
	intake := NewIntake(testUploadConfig())
	data := encodeTestImage(t, "jpeg", 50, 50)

	got, name, err := intake.Prepare(data, "leaf.jpg")

	require.NoError(t, err)
	assert.Equal(t, data, got)
	assert.Equal(t, "leaf.jpg", name)
}

func TestIntake_Prepare_DownscalesLargeImages(t *testing.T) {
	cfg := testUploadConfig()
	cfg.CompressThreshold = 1
	cfg.MaxDimension = 40
	intake := NewIntake(cfg)

	data := encodeTestImage(t, "png", 100, 50)

	got, name, err := intake.Prepare(data, "leaf.png")

	require.NoError(t, err)
	img, format, err := image.Decode(bytes.NewReader(got))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, "leaf.jpg", name, "filename extension follows the re-encoded bytes")
	assert.LessOrEqual(t, img.Bounds().Dx(), 40)
	assert.LessOrEqual(t, img.Bounds().Dy(), 40)
}

func TestIntake_Prepare_KeepsOriginalWhenRecompressionLoses(t *testing.T) {
	cfg := testUploadConfig()
	cfg.CompressThreshold = 1
	intake := NewIntake(cfg)

	// A tiny flat PNG beats any JPEG re-encode of itself.
	data := encodeTestImage(t, "png", 10, 10)

	got, name, err := intake.Prepare(data, "leaf.png")

	require.NoError(t, err)
	assert.Equal(t, data, got)
	assert.Equal(t, "leaf.png", name)
}

func TestIntake_Prepare_RejectsUndecodableData(t *testing.T) {
	cfg := testUploadConfig()
	cfg.CompressThreshold = 1
	intake := NewIntake(cfg)

	_, _, err := intake.Prepare([]byte("not an image at all"), "notes.txt")

	assert.Error(t, err)
}
