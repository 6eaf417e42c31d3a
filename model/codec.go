package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format represents output document format
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnsupportedFormat is returned for unknown document formats
var ErrUnsupportedFormat = errors.New("unsupported format")

// ParseFormat parses format name, yml is accepted as yaml
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
}

// Marshal encodes project in the given format
func Marshal(project *Project, format Format) ([]byte, error) {
	buffer := &bytes.Buffer{}
	if err := Encode(buffer, project, format); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// Unmarshal decodes project from the given format
func Unmarshal(data []byte, format Format) (*Project, error) {
	return Decode(bytes.NewReader(data), format)
}

// Encode writes project document
func Encode(w io.Writer, project *Project, format Format) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		encoder.SetEscapeHTML(false)
		if err := encoder.Encode(project); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(project); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return encoder.Close()
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}

// Decode reads project document, the result is normalized
func Decode(r io.Reader, format Format) (*Project, error) {
	project := &Project{}
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(project); err != nil {
			return nil, fmt.Errorf("failed to decode json: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(project); err != nil {
			return nil, fmt.Errorf("failed to decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	return project.Normalize(), nil
}
