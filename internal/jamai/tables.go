package jamai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

type rowAddRequest struct {
	TableID string              `json:"table_id"`
	Data    []map[string]string `json:"data"`
	Stream  bool                `json:"stream"`
}

// Non-stream responses carry one generated row; every output column has a
// text payload.
type rowAddResponse struct {
	Rows []struct {
		Columns map[string]columnValue `json:"columns"`
	} `json:"rows"`
}

type columnValue struct {
	Text string `json:"text"`
}

// AddActionRow runs one row through an action table and returns the output
// columns as a plain name→text map.
func (c *Client) AddActionRow(ctx context.Context, tableID string, data map[string]string) (map[string]string, error) {
	payload, err := json.Marshal(rowAddRequest{
		TableID: tableID,
		Data:    []map[string]string{data},
		Stream:  false,
	})
	if err != nil {
		return nil, fmt.Errorf("jamai: failed to marshal row request: %w", err)
	}

	url := c.baseURL + "/api/v1/gen_tables/action/rows/add"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("jamai: failed to create row request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var decoded rowAddResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if len(decoded.Rows) == 0 {
		return nil, fmt.Errorf("%w: no rows returned for table %q", ErrBadResponse, tableID)
	}

	out := make(map[string]string)
	for name, col := range decoded.Rows[0].Columns {
		if col.Text != "" {
			out[name] = col.Text
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty row returned for table %q", ErrBadResponse, tableID)
	}

	c.logger.Info("Action table row completed",
		zap.String("table_id", tableID),
		zap.Int("columns", len(out)))

	return out, nil
}
