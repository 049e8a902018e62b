package entry

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(url string, attempts int) *Client {
	c := NewClient(url, time.Second, attempts, slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.retryDelay = time.Millisecond
	return c
}

func decodeRequest(t *testing.T, r *http.Request) gqlRequest {
	t.Helper()
	var req gqlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		t.Fatalf("decode request: %v", err)
	}
	return req
}

func TestClient_GetEntries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		req := decodeRequest(t, r)
		if req.OperationName != "GetEntries" {
			t.Errorf("expected operation GetEntries, got %q", req.OperationName)
		}
		if req.Variables["first"] != float64(5) {
			t.Errorf("expected first=5, got %v", req.Variables["first"])
		}
		if req.Variables["after"] != "cur-1" {
			t.Errorf("expected after=cur-1, got %v", req.Variables["after"])
		}
		if req.Variables["tag"] != "go" {
			t.Errorf("expected tag=go, got %v", req.Variables["tag"])
		}
		if _, ok := req.Variables["categories"]; ok {
			t.Errorf("expected no categories variable, got %v", req.Variables["categories"])
		}
		w.Write([]byte(`{"data":{"getEntries":{
			"edges":[{"node":{"entryId":"e1","frontMatter":{"title":"First","categories":[{"name":"Dev"},{"name":"Go"}],"tags":[{"name":"go"}]},
				"created":{"name":"ann","date":"2024-01-02T00:00:00Z"},"updated":{"name":"ann","date":"2024-01-03T00:00:00Z"}},"cursor":"cur-2"}],
			"pageInfo":{"endCursor":"cur-2","hasNextPage":true}}}}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL, 1)
	conn, err := c.GetEntries(context.Background(), EntriesQuery{First: 5, After: "cur-1", Tag: "go"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(conn.Edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(conn.Edges))
	}
	e := conn.Edges[0]
	if e.Node.EntryID != "e1" || e.Cursor != "cur-2" {
		t.Errorf("expected e1 at cur-2, got %q at %q", e.Node.EntryID, e.Cursor)
	}
	if got := e.Node.FrontMatter.CategoryPath(); got != "Dev > Go" {
		t.Errorf("expected category path %q, got %q", "Dev > Go", got)
	}
	if !conn.PageInfo.HasNextPage || conn.PageInfo.EndCursor != "cur-2" {
		t.Errorf("unexpected page info: %+v", conn.PageInfo)
	}
	if st := c.Stats.Snapshot()["GetEntries"]; st.Attempts != 1 || st.Failures != 0 {
		t.Errorf("expected 1 clean attempt, got %+v", st)
	}
}

func TestClient_GetEntry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := decodeRequest(t, r)
		if req.Variables["entryId"] != "abc" {
			t.Errorf("expected entryId=abc, got %v", req.Variables["entryId"])
		}
		w.Write([]byte(`{"data":{"getEntry":{"entryId":"abc","content":"# Hi\n<!-- toc -->\n## One","frontMatter":{"title":"Hi","categories":[],"tags":[{"name":"a"},{"name":"b"}]},"created":{"name":"x","date":"d"},"updated":{"name":"x","date":"d"}}}}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL, 1)
	e, err := c.GetEntry(context.Background(), "abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Content != "# Hi\n<!-- toc -->\n## One" {
		t.Errorf("unexpected content %q", e.Content)
	}
	if tags := e.FrontMatter.TagNames(); len(tags) != 2 || tags[1] != "b" {
		t.Errorf("expected tags [a b], got %v", tags)
	}
}

func TestClient_GetEntryNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"getEntry":null}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, 1).GetEntry(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_GraphQLError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":null,"errors":[{"message":"bad cursor","path":["getEntries"]}]}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, 3).GetEntries(context.Background(), EntriesQuery{After: "zzz"})
	var gqlErr *GraphQLError
	if !errors.As(err, &gqlErr) {
		t.Fatalf("expected GraphQLError, got %v", err)
	}
	if gqlErr.Message != "bad cursor" {
		t.Errorf("expected message %q, got %q", "bad cursor", gqlErr.Message)
	}
}

func TestClient_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"data":{"getEntries":{"edges":[],"pageInfo":{"endCursor":"","hasNextPage":false}}}}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL, 3)
	conn, err := c.GetEntries(context.Background(), EntriesQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(conn.Edges) != 0 {
		t.Errorf("expected no edges, got %d", len(conn.Edges))
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("expected 3 calls, got %d", got)
	}

	st := c.Stats.Snapshot()["GetEntries"]
	if st.Attempts != 3 || st.Retries != 2 || st.Failures != 0 {
		t.Errorf("expected 3 attempts, 2 retries, 0 failures; got %+v", st)
	}
}

func TestClient_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := newTestClient(server.URL, 2)
	_, err := c.GetEntry(context.Background(), "x")
	if !IsRetryable(err) {
		t.Fatalf("expected retryable error, got %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("expected 2 calls, got %d", got)
	}

	st := c.Stats.Snapshot()["GetEntry"]
	if st.Attempts != 2 || st.Retries != 1 || st.Failures != 1 {
		t.Errorf("expected 2 attempts, 1 retry, 1 failure; got %+v", st)
	}
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("bad query"))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, 3).GetEntry(context.Background(), "x")
	if err == nil || IsRetryable(err) {
		t.Fatalf("expected non-retryable error, got %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 call, got %d", got)
	}
}

func TestClient_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.Write([]byte(`{"data":{}}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newTestClient(server.URL, 3).GetEntry(ctx, "x"); err == nil {
		t.Error("expected error from cancelled context")
	}
}

func TestClient_NotFoundIsNotAFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"getEntry":null}}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL, 3)
	if _, err := c.GetEntry(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	st := c.Stats.Snapshot()["GetEntry"]
	if st.Attempts != 1 || st.Failures != 0 {
		t.Errorf("expected 1 attempt and no failures, got %+v", st)
	}
}

func TestClient_GraphQLErrorCountsAsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"boom"}]}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL, 3)
	if _, err := c.GetEntries(context.Background(), EntriesQuery{}); err == nil {
		t.Fatal("expected error")
	}
	st := c.Stats.Snapshot()["GetEntries"]
	if st.Attempts != 1 || st.Retries != 0 || st.Failures != 1 {
		t.Errorf("expected 1 attempt, 0 retries, 1 failure; got %+v", st)
	}
}
