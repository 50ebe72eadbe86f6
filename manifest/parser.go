package manifest

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Parser parses raw manifest bytes into a Document.
type Parser interface {
	// Parse unmarshals manifest bytes into a Document struct.
	Parse(data []byte) (*Document, error)
}

// YAMLParser implements Parser for YAML.
type YAMLParser struct{}

// NewYAMLParser creates a new YAMLParser.
func NewYAMLParser() Parser {
	return &YAMLParser{}
}

// Parse unmarshals YAML bytes into a Document struct.
func (p *YAMLParser) Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding manifest YAML: %w", err)
	}
	return &doc, nil
}
