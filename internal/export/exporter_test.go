package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"aurelia/internal/types"
)

func sampleSession() (*types.Session, []*types.Message) {
	session := &types.Session{ID: "s1", Title: "Morning check-in", RoleID: "cardio"}
	messages := []*types.Message{
		{ID: "m1", SessionID: "s1", Role: types.MessageRoleUser, Content: "How did I sleep?", Seq: 1},
		{ID: "m2", SessionID: "s1", Role: types.MessageRoleAssistant, Content: "Looks like 7 hours.", Seq: 2},
	}
	return session, messages
}

func TestNewExporterRejectsUnknownFormat(t *testing.T) {
	t.Parallel()
	if _, err := NewExporter("pdf"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestJSONExportRoundTrips(t *testing.T) {
	t.Parallel()
	session, messages := sampleSession()
	var buf bytes.Buffer
	exporter, err := NewExporter("json")
	if err != nil {
		t.Fatalf("NewExporter: %v", err)
	}
	if err := exporter.Export(session, messages, &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}

	var doc jsonDocument
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if doc.Session.ID != "s1" || len(doc.Messages) != 2 {
		t.Fatalf("unexpected document: %+v", doc)
	}
}

func TestMarkdownExportLayout(t *testing.T) {
	t.Parallel()
	session, messages := sampleSession()
	var buf bytes.Buffer
	if err := (&MarkdownExporter{}).Export(session, messages, &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "# Morning check-in\n") {
		t.Fatalf("missing title header:\n%s", out)
	}
	if !strings.Contains(out, "**user:**") || !strings.Contains(out, "**assistant:**") {
		t.Fatalf("missing role headers:\n%s", out)
	}
	if !strings.Contains(out, "Looks like 7 hours.") {
		t.Fatalf("missing message content:\n%s", out)
	}
}

func TestYAMLExportRoundTrips(t *testing.T) {
	t.Parallel()
	session, messages := sampleSession()
	var buf bytes.Buffer
	if err := (&YAMLExporter{}).Export(session, messages, &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}

	var doc yamlDocument
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if doc.Session.ID != "s1" || len(doc.Messages) != 2 {
		t.Fatalf("unexpected document: %+v", doc)
	}
}

func TestExtensionPerFormat(t *testing.T) {
	t.Parallel()
	for format, want := range map[string]string{"json": "json", "md": "md", "yaml": "yaml"} {
		exporter, err := NewExporter(format)
		if err != nil {
			t.Fatalf("NewExporter(%s): %v", format, err)
		}
		if got := exporter.Extension(); got != want {
			t.Fatalf("extension for %s: got %q want %q", format, got, want)
		}
	}
}
