package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ethosnet/ethosnet/internal/domain/vector"
)

// Client talks to Qdrant over its REST API and implements vector.Index.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Ping verifies the Qdrant instance is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/collections", nil, nil)
}

// Ensure creates the collection with cosine distance if it does not exist.
func (c *Client) Ensure(ctx context.Context, collection string, dim int) error {
	err := c.do(ctx, http.MethodGet, "/collections/"+collection, nil, nil)
	if err == nil {
		return nil
	}
	body := map[string]any{
		"vectors": map[string]any{"size": dim, "distance": "Cosine"},
	}
	if cerr := c.do(ctx, http.MethodPut, "/collections/"+collection, body, nil); cerr != nil {
		return fmt.Errorf("create collection %s: %w", collection, cerr)
	}
	return nil
}

// Upsert writes points, waiting for the operation to be applied.
func (c *Client) Upsert(ctx context.Context, collection string, points ...vector.Point) error {
	if len(points) == 0 {
		return nil
	}
	type point struct {
		ID      string         `json:"id"`
		Vector  []float32      `json:"vector"`
		Payload map[string]any `json:"payload,omitempty"`
	}
	ps := make([]point, len(points))
	for i, p := range points {
		ps[i] = point{ID: p.ID, Vector: p.Vector, Payload: p.Payload}
	}
	path := fmt.Sprintf("/collections/%s/points?wait=true", collection)
	if err := c.do(ctx, http.MethodPut, path, map[string]any{"points": ps}, nil); err != nil {
		return fmt.Errorf("upsert points: %w", err)
	}
	return nil
}

// Search returns the nearest points by cosine similarity. A zero threshold
// disables score filtering.
func (c *Client) Search(ctx context.Context, collection string, vec []float32, limit int, threshold float64) ([]vector.Hit, error) {
	if limit <= 0 {
		limit = 10
	}
	body := map[string]any{
		"vector": vec,
		"limit":  limit,
	}
	if threshold > 0 {
		body["score_threshold"] = threshold
	}
	var out struct {
		Result []struct {
			ID    string  `json:"id"`
			Score float64 `json:"score"`
		} `json:"result"`
	}
	path := fmt.Sprintf("/collections/%s/points/search", collection)
	if err := c.do(ctx, http.MethodPost, path, body, &out); err != nil {
		return nil, fmt.Errorf("search points: %w", err)
	}
	hits := make([]vector.Hit, len(out.Result))
	for i, r := range out.Result {
		hits[i] = vector.Hit{ID: r.ID, Score: r.Score}
	}
	return hits, nil
}

// Delete removes points by id.
func (c *Client) Delete(ctx context.Context, collection string, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	path := fmt.Sprintf("/collections/%s/points/delete?wait=true", collection)
	if err := c.do(ctx, http.MethodPost, path, map[string]any{"points": ids}, nil); err != nil {
		return fmt.Errorf("delete points: %w", err)
	}
	return nil
}

// do performs one REST call, decoding the response into out when non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("qdrant error (status %d): %s", resp.StatusCode, string(data))
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}
