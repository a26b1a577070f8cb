// Package jamai is a minimal consumer of the JamAI Base REST API: file
// uploads into the project file store and single-row runs of action tables.
// The wire contract is owned by the service; this client only covers the
// calls CropCheck makes.
package jamai

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cropcheckai/cropcheck/internal/config"
	"go.uber.org/zap"
)

type Client struct {
	baseURL    string
	projectID  string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(cfg config.JamAIConfig, logger *zap.Logger) (*Client, error) {
	if cfg.ProjectID == "" || cfg.Token == "" {
		return nil, fmt.Errorf("jamai: project ID and token are required")
	}

	return &Client{
		baseURL:   cfg.BaseURL,
		projectID: cfg.ProjectID,
		token:     cfg.Token,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}, nil
}

// do attaches credentials, executes the request and maps the failure
// classes. The caller owns the response body on success.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-PROJECT-ID", c.projectID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jamai: request failed: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		resp.Body.Close()
		return nil, fmt.Errorf("%w (status %d)", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		resp.Body.Close()
		return nil, fmt.Errorf("%w (status %d)", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode >= 400:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, fmt.Errorf("%w: status %d: %s", ErrBadResponse, resp.StatusCode, string(body))
	}

	return resp, nil
}

// Health probes the service with an authenticated request. Used by the
// health endpoint only.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	c.logger.Debug("JamAI health probe",
		zap.Duration("latency", time.Since(start)),
		zap.Int("status", resp.StatusCode))
	return nil
}
