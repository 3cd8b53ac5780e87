package export

import (
	"encoding/json"
	"io"

	"aurelia/internal/types"
)

type JSONExporter struct{}

type jsonDocument struct {
	Session  *types.Session   `json:"session"`
	Messages []*types.Message `json:"messages"`
}

func (e *JSONExporter) Export(session *types.Session, messages []*types.Message, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonDocument{Session: session, Messages: messages})
}

func (e *JSONExporter) Extension() string {
	return "json"
}
