package export

import (
	"io"

	"gopkg.in/yaml.v3"

	"aurelia/internal/types"
)

type YAMLExporter struct{}

type yamlDocument struct {
	Session  *types.Session   `yaml:"session"`
	Messages []*types.Message `yaml:"messages"`
}

func (e *YAMLExporter) Export(session *types.Session, messages []*types.Message, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()
	return enc.Encode(yamlDocument{Session: session, Messages: messages})
}

func (e *YAMLExporter) Extension() string {
	return "yaml"
}
