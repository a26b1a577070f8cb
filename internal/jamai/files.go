package jamai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"

	"go.uber.org/zap"
)

type fileUploadResponse struct {
	URI string `json:"uri"`
}

// UploadFile stores image bytes in the project file store and returns the
// URI that action table rows reference.
func (c *Client) UploadFile(ctx context.Context, data []byte, filename string) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("jamai: failed to build upload form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("jamai: failed to write upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("jamai: failed to close upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/files/upload", body)
	if err != nil {
		return "", fmt.Errorf("jamai: failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var uploaded fileUploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if uploaded.URI == "" {
		return "", fmt.Errorf("%w: upload response missing uri", ErrBadResponse)
	}

	c.logger.Info("Uploaded file to JamAI store",
		zap.String("filename", filename),
		zap.Int("size", len(data)))

	return uploaded.URI, nil
}
