package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"aurelia/internal/types"
)

func TestQueryStreamParsesEvents(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/qa/stream" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Accept"); got != "text/event-stream" {
			t.Errorf("Accept = %q", got)
		}
		flusher, ok := w.(http.Flusher)
		if !ok {
			t.Error("response writer is not a flusher")
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		events := []string{
			`{"type":"reasoning","text":"thinking"}`,
			`{"type":"answer","text":"hello"}`,
			`{"type":"answer","text":" world"}`,
			`{"type":"done"}`,
		}
		for _, event := range events {
			fmt.Fprintf(w, "data: %s\n\n", event)
			flusher.Flush()
		}
	}))
	defer server.Close()

	c := NewWithBaseURL(server.URL, "tok-1")
	ch, cancel, err := c.QueryStream(context.Background(), QueryRequest{SessionID: "s1", Query: "hi"})
	if err != nil {
		t.Fatalf("QueryStream: %v", err)
	}
	defer cancel()

	var got []types.StreamIncrement
	for inc := range ch {
		got = append(got, inc)
	}
	if len(got) != 4 {
		t.Fatalf("increments = %d, want 4", len(got))
	}
	if got[0].Kind != types.IncrementReasoning || got[0].Text != "thinking" {
		t.Fatalf("first = %+v", got[0])
	}
	if got[1].Text+got[2].Text != "hello world" {
		t.Fatalf("answer fragments = %q %q", got[1].Text, got[2].Text)
	}
	if got[3].Kind != types.IncrementDone {
		t.Fatalf("last = %+v", got[3])
	}
}

func TestQueryStreamIgnoresMalformedEvents(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: not json\n\n")
		fmt.Fprint(w, ": heartbeat comment\n\n")
		fmt.Fprint(w, "data: {\"type\":\"done\"}\n\n")
	}))
	defer server.Close()

	c := NewWithBaseURL(server.URL, "tok-1")
	ch, cancel, err := c.QueryStream(context.Background(), QueryRequest{SessionID: "s1", Query: "hi"})
	if err != nil {
		t.Fatalf("QueryStream: %v", err)
	}
	defer cancel()

	var got []types.StreamIncrement
	for inc := range ch {
		got = append(got, inc)
	}
	if len(got) != 1 || got[0].Kind != types.IncrementDone {
		t.Fatalf("increments = %+v, want single done", got)
	}
}

func TestQueryStreamRejectedBeforeBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		fmt.Fprint(w, `{"code":1,"data":null,"message":"a stream is already open","trace_id":"t-3"}`)
	}))
	defer server.Close()

	c := NewWithBaseURL(server.URL, "tok-1")
	_, _, err := c.QueryStream(context.Background(), QueryRequest{SessionID: "s1", Query: "hi"})
	apiErr := AsAPIError(err)
	if apiErr == nil || apiErr.Kind != KindConflict {
		t.Fatalf("err = %v, want conflict", err)
	}
}

func TestQueryStreamCancelStopsDelivery(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"type\":\"answer\",\"text\":\"partial\"}\n\n")
		flusher.Flush()
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	c := NewWithBaseURL(server.URL, "tok-1")
	ch, cancel, err := c.QueryStream(context.Background(), QueryRequest{SessionID: "s1", Query: "hi"})
	if err != nil {
		t.Fatalf("QueryStream: %v", err)
	}

	select {
	case inc := <-ch:
		if inc.Text != "partial" {
			t.Fatalf("first increment = %+v", inc)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for first increment")
	}

	cancel()
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-time.After(2 * time.Second):
			t.Fatal("channel not closed after cancel")
		}
	}
}

func TestQueryStreamRequiresToken(t *testing.T) {
	t.Parallel()

	c := NewWithBaseURL("http://127.0.0.1:0", "")
	_, _, err := c.QueryStream(context.Background(), QueryRequest{SessionID: "s1", Query: "hi"})
	if !IsUnauthorized(err) {
		t.Fatalf("err = %v, want unauthorized", err)
	}
}
