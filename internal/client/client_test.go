package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"aurelia/internal/types"
)

func writeEnvelope(t *testing.T, w http.ResponseWriter, data any) {
	t.Helper()
	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal envelope data: %v", err)
	}
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"code":0,"data":%s,"message":"","trace_id":"t-1"}`, payload)
}

func TestListSessionsUnwrapsEnvelope(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/sessions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("Authorization = %q", got)
		}
		if r.Header.Get("X-Trace-Id") == "" {
			t.Error("missing X-Trace-Id header")
		}
		writeEnvelope(t, w, map[string]any{
			"items": []*types.Session{{ID: "s1", Title: "first"}, {ID: "s2", Title: "second"}},
		})
	}))
	defer server.Close()

	c := NewWithBaseURL(server.URL, "tok-1")
	sessions, err := c.ListSessions(context.Background())
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(sessions) != 2 || sessions[0].ID != "s1" {
		t.Fatalf("sessions = %+v", sessions)
	}
}

func TestErrorTaxonomyFromStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		kind   ErrorKind
	}{
		{http.StatusUnauthorized, KindUnauthorized},
		{http.StatusBadRequest, KindValidation},
		{http.StatusUnprocessableEntity, KindValidation},
		{http.StatusNotFound, KindNotFound},
		{http.StatusConflict, KindConflict},
		{http.StatusInternalServerError, KindServerError},
		{http.StatusBadGateway, KindServerError},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d", tt.status), func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, `{"code":1,"data":null,"message":"boom","trace_id":"t-err"}`)
			}))
			defer server.Close()

			c := NewWithBaseURL(server.URL, "tok-1")
			_, err := c.ListSessions(context.Background())
			apiErr := AsAPIError(err)
			if apiErr == nil {
				t.Fatalf("err = %v, want APIError", err)
			}
			if apiErr.Kind != tt.kind {
				t.Fatalf("kind = %q, want %q", apiErr.Kind, tt.kind)
			}
			if apiErr.Message != "boom" {
				t.Fatalf("message = %q, want boom", apiErr.Message)
			}
			if apiErr.TraceID != "t-err" {
				t.Fatalf("trace id = %q, want t-err", apiErr.TraceID)
			}
		})
	}
}

func TestBusinessCodeMapsToServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":5001,"data":null,"message":"agent unavailable","trace_id":"t-2"}`)
	}))
	defer server.Close()

	c := NewWithBaseURL(server.URL, "tok-1")
	_, err := c.ListSessions(context.Background())
	apiErr := AsAPIError(err)
	if apiErr == nil || apiErr.Kind != KindServerError {
		t.Fatalf("err = %v, want server error", err)
	}
	if apiErr.Message != "agent unavailable" {
		t.Fatalf("message = %q", apiErr.Message)
	}
}

func TestMissingTokenFailsBeforeRequest(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should never reach the server")
	}))
	defer server.Close()

	c := NewWithBaseURL(server.URL, "")
	_, err := c.ListSessions(context.Background())
	if !IsUnauthorized(err) {
		t.Fatalf("err = %v, want unauthorized", err)
	}
}

func TestLoginPersistsToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/auth/login" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode login request: %v", err)
		}
		if req.Username != "ada" {
			t.Errorf("username = %q", req.Username)
		}
		writeEnvelope(t, w, types.UserSession{Token: "tok-fresh", Role: "member"})
	}))
	defer server.Close()

	home := t.TempDir()
	t.Setenv("HOME", home)

	addr := strings.TrimPrefix(server.URL, "http://")
	configDir := filepath.Join(home, ".aurelia")
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	configBody := fmt.Sprintf("[server]\naddress = %q\n", addr)
	if err := os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(configBody), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	c, err := New(nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	session, err := c.Login(context.Background(), "ada", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if session.Token != "tok-fresh" {
		t.Fatalf("token = %q", session.Token)
	}

	saved, err := os.ReadFile(filepath.Join(configDir, "token"))
	if err != nil {
		t.Fatalf("read token: %v", err)
	}
	if got := strings.TrimSpace(string(saved)); got != "tok-fresh" {
		t.Fatalf("saved token = %q", got)
	}

	if err := c.Logout(); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := os.Stat(filepath.Join(configDir, "token")); !os.IsNotExist(err) {
		t.Fatalf("token file should be removed, stat err = %v", err)
	}
}

func TestUploadAttachmentSendsMultipart(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/sessions/s1/attachments" {
			t.Errorf("path = %q", r.URL.Path)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		if header.Filename != "report.pdf" {
			t.Errorf("filename = %q", header.Filename)
		}
		writeEnvelope(t, w, types.AttachmentRef{ID: "a1", FileName: header.Filename})
	}))
	defer server.Close()

	c := NewWithBaseURL(server.URL, "tok-1")
	ref, err := c.UploadAttachment(context.Background(), "s1", "report.pdf", strings.NewReader("%PDF-1.7"))
	if err != nil {
		t.Fatalf("UploadAttachment: %v", err)
	}
	if ref.ID != "a1" || ref.FileName != "report.pdf" {
		t.Fatalf("ref = %+v", ref)
	}
}

func TestExportSessionReturnsRawPayload(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("format"); got != "md" {
			t.Errorf("format = %q", got)
		}
		fmt.Fprint(w, "# exported\n")
	}))
	defer server.Close()

	c := NewWithBaseURL(server.URL, "tok-1")
	data, err := c.ExportSession(context.Background(), "s1", "md")
	if err != nil {
		t.Fatalf("ExportSession: %v", err)
	}
	if string(data) != "# exported\n" {
		t.Fatalf("data = %q", data)
	}
}

func TestBulkExportRequiresSelection(t *testing.T) {
	t.Parallel()

	c := NewWithBaseURL("http://127.0.0.1:0", "tok-1")
	_, err := c.BulkExportSessions(context.Background(), nil)
	apiErr := AsAPIError(err)
	if apiErr == nil || apiErr.Kind != KindValidation {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestDeleteSessionsReturnsPerIDOutcomes(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/sessions/batch-delete" {
			t.Errorf("path = %q", r.URL.Path)
		}
		writeEnvelope(t, w, BatchDeleteResult{
			Deleted: []string{"s1"},
			Failed:  []BatchDeleteFailure{{ID: "s2", Message: "locked"}},
		})
	}))
	defer server.Close()

	c := NewWithBaseURL(server.URL, "tok-1")
	result, err := c.DeleteSessions(context.Background(), []string{"s1", "s2"})
	if err != nil {
		t.Fatalf("DeleteSessions: %v", err)
	}
	if len(result.Deleted) != 1 || result.Deleted[0] != "s1" {
		t.Fatalf("deleted = %v", result.Deleted)
	}
	if len(result.Failed) != 1 || result.Failed[0].ID != "s2" {
		t.Fatalf("failed = %+v", result.Failed)
	}
}
