package export

import (
	"fmt"
	"io"
	"time"

	"aurelia/internal/types"
)

type MarkdownExporter struct{}

func (e *MarkdownExporter) Export(session *types.Session, messages []*types.Message, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "# %s\n\n", title(session))
	_, _ = fmt.Fprintf(w, "**Session:** %s  \n", session.ID)
	if session.RoleID != "" {
		_, _ = fmt.Fprintf(w, "**Role:** %s  \n", session.RoleID)
	}
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(messages))
	_, _ = fmt.Fprintf(w, "---\n\n")

	for i, msg := range messages {
		stamp := ""
		if !msg.CreatedAt.IsZero() {
			stamp = fmt.Sprintf(" (%s)", msg.CreatedAt.Format(time.RFC3339))
		}
		_, _ = fmt.Fprintf(w, "**%s:**%s\n\n%s\n\n", msg.Role, stamp, msg.Content)
		if i < len(messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}
	return nil
}

func (e *MarkdownExporter) Extension() string {
	return "md"
}

func title(session *types.Session) string {
	if session.Title != "" {
		return session.Title
	}
	return "Session " + session.ID
}
