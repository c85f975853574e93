package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"tinyserve/internal/content"
	"tinyserve/internal/errors"
)

// Document is the structured config file passed with -c.
// Unknown keys are ignored and missing keys are absent.
type Document struct {
	Port  *int        `yaml:"port" toml:"port"`
	Files []FileEntry `yaml:"files" toml:"files"`
	Raw   []RawEntry  `yaml:"raw" toml:"raw"`
	HTML  string      `yaml:"html" toml:"html"`
}

// FileEntry maps a route to a file on disk.
type FileEntry struct {
	Route string `yaml:"route" toml:"route"`
	File  string `yaml:"file" toml:"file"`
	Type  string `yaml:"type" toml:"type"`
}

// RawEntry maps a route to literal content.
type RawEntry struct {
	Route   string `yaml:"route" toml:"route"`
	Content string `yaml:"content" toml:"content"`
	Type    string `yaml:"type" toml:"type"`
	Status  int    `yaml:"status" toml:"status"`
}

// Format is the syntax of a config document.
type Format string

const (
	// FormatYAML also covers JSON documents.
	FormatYAML Format = "yaml"
	// FormatTOML selects the TOML decoder.
	FormatTOML Format = "toml"
)

// FormatForPath picks the decoder from the file extension.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// LoadDocument reads and parses the config document at path.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewServeError(errors.ConfigFileNotFound,
			fmt.Sprintf("cannot read config document %s", path), err)
	}

	doc, err := ParseDocument(data, FormatForPath(path))
	if err != nil {
		return nil, errors.NewServeError(errors.ConfigParseError,
			fmt.Sprintf("cannot parse config document %s", path), err)
	}
	return doc, nil
}

// ParseDocument decodes data in the given format.
func ParseDocument(data []byte, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatTOML:
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, err
		}
	default:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	}
	return &doc, nil
}

// Spec validates the document and converts it into a content spec.
// File routes come first, then raw routes, each in document order.
func (d *Document) Spec() (content.Spec, []string, error) {
	var warnings []string

	routes := make([]content.Route, 0, len(d.Files)+len(d.Raw))
	for i, f := range d.Files {
		if f.Route == "" {
			return content.Spec{}, nil, invalidEntry("files", i, "route is required")
		}
		if f.File == "" && f.Route != content.Wildcard {
			return content.Spec{}, nil, invalidEntry("files", i, "file is required")
		}
		routes = append(routes, content.File(f.Route, f.File, f.Type))
	}
	for i, r := range d.Raw {
		if r.Route == "" {
			return content.Spec{}, nil, invalidEntry("raw", i, "route is required")
		}
		// 1xx codes are informational in net/http and would be followed by an implicit 200.
		if r.Status != 0 && (r.Status < 200 || r.Status > 999) {
			return content.Spec{}, nil, invalidEntry("raw", i, fmt.Sprintf("status %d is not a valid final HTTP status", r.Status))
		}
		routes = append(routes, content.Literal(r.Route, r.Content, r.Type, r.Status))
	}

	if len(routes) == 0 {
		if d.HTML != "" {
			return content.HTML(d.HTML), nil, nil
		}
		warnings = append(warnings, "config document declares no routes; every request will be answered with 404")
		return content.Routed(), warnings, nil
	}

	if d.HTML != "" {
		warnings = append(warnings, "config document declares routes; the html key is ignored")
	}
	return content.Routed(routes...), warnings, nil
}

func invalidEntry(list string, index int, msg string) error {
	field := fmt.Sprintf("%s[%d]", list, index)
	return errors.NewServeError(errors.ConfigParseError, field+": "+msg, nil).
		WithDetails(map[string]interface{}{"field": field})
}
