package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

const retrievalPath = "/copilot/retrieval"

// Client calls the retrieval endpoint over HTTP.
type Client struct {
	baseURL    string
	token      string
	userAgent  string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a retrieval API client for the given base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		logger:     zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Retrieve executes POST /copilot/retrieval.
// A non-2xx status is returned as *APIError. The endpoint's deprecation
// headers, when present, are logged once per call at Warn level.
func (c *Client) Retrieve(ctx context.Context, req *RetrievalRequest) (*RetrievalResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("retrieval request is required")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal retrieval request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+retrievalPath, bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute retrieval request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	c.warnDeprecation(httpResp)

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, parseErrorEnvelope(httpResp.StatusCode, data)
	}

	var resp RetrievalResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode retrieval response: %w", err)
	}
	return &resp, nil
}

// warnDeprecation surfaces the endpoint deprecation notice to the caller.
func (c *Client) warnDeprecation(resp *http.Response) {
	dep := resp.Header.Get("Deprecation")
	if dep == "" {
		return
	}
	c.logger.Warn("retrieval endpoint is deprecated",
		zap.String("deprecated_since", dep),
		zap.String("sunset", resp.Header.Get("Sunset")),
		zap.String("version", resp.Header.Get("Api-Deprecated-Version")),
	)
}

func parseErrorEnvelope(status int, data []byte) error {
	var envelope ErrorResponse
	if err := json.Unmarshal(data, &envelope); err != nil || envelope.Error.Code == "" {
		return &APIError{
			StatusCode: status,
			Code:       ErrorCodeGeneralException,
			Message:    strings.TrimSpace(string(data)),
		}
	}
	return &APIError{
		StatusCode: status,
		Code:       envelope.Error.Code,
		Message:    envelope.Error.Message,
	}
}
