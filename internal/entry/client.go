package entry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

// Client queries the entry GraphQL API.
type Client struct {
	endpoint    string
	httpClient  *http.Client
	maxAttempts int
	retryDelay  time.Duration
	log         *slog.Logger

	// Stats records attempts, retries and failures per operation.
	Stats *UpstreamStats
}

// NewClient creates a client for the GraphQL endpoint (e.g.
// "https://blog.example.com/graphql").
func NewClient(endpoint string, timeout time.Duration, maxAttempts int, log *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxAttempts: maxAttempts,
		retryDelay:  500 * time.Millisecond,
		log:         log,
		Stats:       NewUpstreamStats(time.Hour),
	}
}

type gqlRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

// GetEntries returns one page of entries matching q. Content is not included.
func (c *Client) GetEntries(ctx context.Context, q EntriesQuery) (*EntryConnection, error) {
	vars := map[string]any{}
	if q.First > 0 {
		vars["first"] = q.First
	}
	if q.After != "" {
		vars["after"] = q.After
	}
	if q.Tag != "" {
		vars["tag"] = q.Tag
	}
	if len(q.Categories) > 0 {
		vars["categories"] = q.Categories
	}

	var data struct {
		GetEntries *EntryConnection `json:"getEntries"`
	}
	if err := c.execute(ctx, "GetEntries", getEntriesQuery, vars, &data); err != nil {
		return nil, fmt.Errorf("get entries: %w", err)
	}
	if data.GetEntries == nil {
		return &EntryConnection{Edges: []EntryEdge{}}, nil
	}
	if data.GetEntries.Edges == nil {
		data.GetEntries.Edges = []EntryEdge{}
	}
	return data.GetEntries, nil
}

// GetEntry fetches a single entry including its markdown content.
func (c *Client) GetEntry(ctx context.Context, entryID string) (*Entry, error) {
	var data struct {
		GetEntry *Entry `json:"getEntry"`
	}
	vars := map[string]any{"entryId": entryID}
	if err := c.execute(ctx, "GetEntry", getEntryQuery, vars, &data); err != nil {
		return nil, fmt.Errorf("get entry %s: %w", entryID, err)
	}
	if data.GetEntry == nil {
		return nil, fmt.Errorf("get entry %s: %w", entryID, ErrNotFound)
	}
	return data.GetEntry, nil
}

// execute runs a query with retries and decodes the "data" member into out.
// Any error it returns is counted as a failure of op.
func (c *Client) execute(ctx context.Context, op, query string, vars map[string]any, out any) error {
	err := c.do(ctx, op, query, vars, out)
	if err != nil {
		c.Stats.Failure(op)
	}
	return err
}

func (c *Client) do(ctx context.Context, op, query string, vars map[string]any, out any) error {
	body, err := json.Marshal(gqlRequest{Query: query, OperationName: op, Variables: vars})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	attempt := 0
	resp, err := retry.DoWithData(
		func() (*gqlResponse, error) {
			attempt++
			if attempt > 1 {
				c.Stats.Retry(op)
			}
			start := time.Now()
			resp, err := c.post(ctx, body)
			c.Stats.Attempt(op, time.Since(start))
			return resp, err
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.maxAttempts)),
		retry.Delay(c.retryDelay),
		retry.MaxDelay(30*time.Second),
		retry.MaxJitter(max(c.retryDelay/2, time.Millisecond)),
		retry.DelayType(retry.CombineDelay(retry.BackOffDelay, retry.RandomDelay)),
		retry.RetryIf(IsRetryable),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.log.Warn("upstream attempt failed", "operation", op, "attempt", n+1, "max_attempts", c.maxAttempts, "error", err)
		}),
	)
	if err != nil {
		return err
	}

	if len(resp.Errors) > 0 {
		gqlErr := resp.Errors[0]
		return &gqlErr
	}
	if len(resp.Data) == 0 || string(resp.Data) == "null" {
		return errors.New("empty data in response")
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, body []byte) (*gqlResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &RetryableError{Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, &RetryableError{StatusCode: resp.StatusCode, Message: "read response: " + err.Error()}
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, &RetryableError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstream status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var gqlResp gqlResponse
	if err := json.Unmarshal(respBody, &gqlResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &gqlResp, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
