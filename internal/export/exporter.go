package export

import (
	"fmt"
	"io"

	"aurelia/internal/types"
)

// Exporter renders a session and its message timeline to a writer.
type Exporter interface {
	Export(session *types.Session, messages []*types.Message, w io.Writer) error
	Extension() string
}

func NewExporter(format string) (Exporter, error) {
	switch format {
	case "json":
		return &JSONExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml":
		return &YAMLExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: json, md, yaml)", format)
	}
}
