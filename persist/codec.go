package persist

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/phanxgames/tether"
)

// Marshal encodes tips as a YAML or JSON document.
func Marshal(tips []tether.StoredTip, format string) ([]byte, error) {
	doc := newDocument(tips)
	switch format {
	case "yaml":
		return yaml.Marshal(doc)
	case "json":
		return json.MarshalIndent(doc, "", "  ")
	}
	return nil, fmt.Errorf("format %q: %w", format, ErrUnsupported)
}

// Unmarshal decodes a YAML or JSON document.
func Unmarshal(data []byte, format string) ([]tether.StoredTip, error) {
	var doc Document
	var err error
	switch format {
	case "yaml":
		err = yaml.Unmarshal(data, &doc)
	case "json":
		err = json.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("format %q: %w", format, ErrUnsupported)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s document: %w", format, err)
	}
	if err := doc.check(); err != nil {
		return nil, err
	}
	return doc.Tips, nil
}
