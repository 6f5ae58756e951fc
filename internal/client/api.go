package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds each request when the caller does not set one.
const DefaultTimeout = 30 * time.Second

// API is a thin JSON client for the EthosNet REST surface.
type API struct {
	BaseURL string
	Token   string
	Timeout time.Duration

	HTTPClient *http.Client
}

func NewAPI(baseURL, token string, timeout time.Duration) *API {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &API{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Token:      token,
		Timeout:    timeout,
		HTTPClient: &http.Client{},
	}
}

// Evaluate submits a decision for ethical evaluation.
func (a *API) Evaluate(ctx context.Context, decision string) (*EvaluationResult, error) {
	var out EvaluationResult
	if err := a.do(ctx, http.MethodPost, "/ethics/evaluate", EvaluationRequest{Decision: decision}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Search queries the knowledge base.
func (a *API) Search(ctx context.Context, query string) ([]KnowledgeEntry, error) {
	path := "/knowledge/search?query=" + url.QueryEscape(query)
	var out []KnowledgeEntry
	if err := a.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddEntry creates a knowledge entry and returns the server-populated record.
func (a *API) AddEntry(ctx context.Context, entry KnowledgeEntry) (*KnowledgeEntry, error) {
	var out KnowledgeEntry
	if err := a.do(ctx, http.MethodPost, "/knowledge/add", entry, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Guidelines fetches the current ethical guideline texts.
func (a *API) Guidelines(ctx context.Context) ([]string, error) {
	var out []string
	if err := a.do(ctx, http.MethodGet, "/ethics/guidelines", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *API) do(ctx context.Context, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, a.Timeout)
	defer cancel()

	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.BaseURL+"/api/v1"+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.Token != "" {
		req.Header.Set("Authorization", "Bearer "+a.Token)
	}

	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return &TimeoutError{Err: err}
		}
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return &TimeoutError{Err: err}
		}
		return &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var payload struct {
			Error string `json:"error"`
		}
		msg := ""
		if json.Unmarshal(raw, &payload) == nil {
			msg = payload.Error
		}
		return &ServerError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &ParseError{Err: fmt.Errorf("decode %s %s: %w", method, path, err)}
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
