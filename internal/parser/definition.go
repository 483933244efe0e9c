// Package parser loads request definitions and environments from TOML or
// YAML files.
package parser

import (
	"fmt"
	"os"

	"github.com/studiowebux/rhc/internal/config"
	"github.com/studiowebux/rhc/internal/types"
)

type rawDefinition struct {
	Metadata *rawMetadata `toml:"metadata" yaml:"metadata"`
	Request  *rawRequest  `toml:"request" yaml:"request"`
	Query    *rawQuery    `toml:"query" yaml:"query"`
	Headers  *rawHeaders  `toml:"headers" yaml:"headers"`
	Body     *rawBody     `toml:"body" yaml:"body"`
}

type rawMetadata struct {
	Description string `toml:"description" yaml:"description"`
}

type rawRequest struct {
	URL    string `toml:"url" yaml:"url"`
	Method string `toml:"method" yaml:"method"`
}

type rawQuery struct {
	Params []types.KeyValue `toml:"params" yaml:"params"`
}

type rawHeaders struct {
	Headers []types.KeyValue `toml:"headers" yaml:"headers"`
}

// rawBody.Content is a string for text and json bodies, a list of
// {name, value} tables for urlencoded ones
type rawBody struct {
	Type    string `toml:"type" yaml:"type"`
	Content any    `toml:"content" yaml:"content"`
}

// LoadDefinition reads and parses the definition file at path
func LoadDefinition(path string) (*types.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	def, err := ParseDefinition(path, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return def, nil
}

// ParseDefinition parses definition data, using path only to pick the format
func ParseDefinition(path string, data []byte) (*types.Definition, error) {
	var raw rawDefinition
	if err := config.DecodeFile(path, data, &raw); err != nil {
		return nil, err
	}

	if raw.Request == nil {
		return nil, fmt.Errorf("missing request section")
	}
	if raw.Request.URL == "" {
		return nil, fmt.Errorf("missing request url")
	}

	method := types.MethodGet
	if raw.Request.Method != "" {
		m, err := types.ParseMethod(raw.Request.Method)
		if err != nil {
			return nil, err
		}
		method = m
	}

	def := &types.Definition{
		Request: types.Request{URL: raw.Request.URL, Method: method},
	}

	if raw.Metadata != nil {
		def.Metadata = &types.Metadata{Description: raw.Metadata.Description}
	}
	if raw.Query != nil {
		def.Query = raw.Query.Params
	}
	if raw.Headers != nil {
		def.Headers = raw.Headers.Headers
	}

	if raw.Body != nil {
		body, err := parseBody(raw.Body)
		if err != nil {
			return nil, err
		}
		def.Body = body
	}

	return def, nil
}

func parseBody(raw *rawBody) (*types.Body, error) {
	switch raw.Type {
	case "text", "json":
		content, ok := raw.Content.(string)
		if !ok {
			return nil, fmt.Errorf("%s body content must be a string", raw.Type)
		}
		kind := types.BodyText
		if raw.Type == "json" {
			kind = types.BodyJSON
		}
		return &types.Body{Kind: kind, Content: content}, nil

	case "urlencoded":
		form, err := parseForm(raw.Content)
		if err != nil {
			return nil, err
		}
		return &types.Body{Kind: types.BodyURLEncoded, Form: form}, nil

	default:
		return nil, fmt.Errorf("unknown body type %q", raw.Type)
	}
}

// parseForm converts a decoded list of {name, value} tables
func parseForm(content any) ([]types.KeyValue, error) {
	if content == nil {
		return nil, nil
	}

	items, ok := content.([]any)
	if !ok {
		return nil, fmt.Errorf("urlencoded body content must be a list of name/value pairs")
	}

	form := make([]types.KeyValue, 0, len(items))
	for i, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("urlencoded body entry %d is not a table", i)
		}
		name, nameOK := fields["name"].(string)
		value, valueOK := fields["value"].(string)
		if !nameOK || !valueOK {
			return nil, fmt.Errorf("urlencoded body entry %d needs string name and value", i)
		}
		form = append(form, types.NewKeyValue(name, value))
	}
	return form, nil
}

// Extensions lists the definition and environment file extensions
func Extensions() []string {
	return config.Extensions()
}
