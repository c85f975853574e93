package config

import (
	"strconv"
	"strings"

	"tinyserve/internal/content"
	"tinyserve/internal/errors"
)

// DefaultPort is used when neither -p nor the config document sets a port.
const DefaultPort uint16 = 3000

// Source tells which input governed the resolved content.
type Source string

const (
	// SourceText means positional tokens joined into raw text.
	SourceText Source = "text"
	// SourceFiles means -f with positional filenames.
	SourceFiles Source = "files"
	// SourceDocument means a -c config document.
	SourceDocument Source = "document"
)

// Resolved is the startup configuration: what to serve and where.
type Resolved struct {
	Spec         content.Spec
	Port         uint16
	Source       Source
	DocumentPath string
	Warnings     []string
}

// Resolve scans CLI tokens (without the program name) left to right.
//
// Precedence: -c > -f > raw text. A successful -c returns immediately with the
// document-derived spec only; positional tokens and -p values seen before it
// are dropped and tokens after it are never scanned.
func Resolve(tokens []string) (*Resolved, error) {
	port := DefaultPort
	serveFiles := false
	var contents []string

	for i := 0; i < len(tokens); i++ {
		switch tok := tokens[i]; tok {
		case "-p":
			if i+1 >= len(tokens) {
				return nil, errors.NewServeError(errors.MissingPortValue, "No port specified.", nil)
			}
			i++
			p, err := ParsePort(tokens[i])
			if err != nil {
				return nil, err
			}
			port = p
		case "-f":
			serveFiles = true
		case "-c":
			if i+1 >= len(tokens) {
				return nil, errors.NewServeError(errors.MissingConfigPath, "No config document specified.", nil)
			}
			return ResolveDocument(tokens[i+1])
		default:
			contents = append(contents, tok)
		}
	}

	if len(contents) == 0 {
		return nil, errors.NewServeError(errors.NoContentProvided, errors.UsageLine, nil)
	}

	if serveFiles {
		return &Resolved{Spec: filesSpec(contents), Port: port, Source: SourceFiles}, nil
	}
	return &Resolved{
		Spec:   content.Raw(strings.Join(contents, "\n")),
		Port:   port,
		Source: SourceText,
	}, nil
}

// ResolveDocument loads the config document at path and resolves it alone.
func ResolveDocument(path string) (*Resolved, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}

	spec, warnings, err := doc.Spec()
	if err != nil {
		return nil, err
	}

	port := DefaultPort
	if doc.Port != nil {
		if port, err = portFromInt(*doc.Port); err != nil {
			return nil, err
		}
	}

	return &Resolved{
		Spec:         spec,
		Port:         port,
		Source:       SourceDocument,
		DocumentPath: path,
		Warnings:     warnings,
	}, nil
}

// filesSpec maps each filename to an exact route "/"+name serving that file.
// A filename equal to the wildcard marker becomes the wildcard route.
func filesSpec(names []string) content.Spec {
	routes := make([]content.Route, 0, len(names))
	for _, name := range names {
		if name == content.Wildcard {
			routes = append(routes, content.File(content.Wildcard, "", ""))
			continue
		}
		routes = append(routes, content.File("/"+name, name, ""))
	}
	return content.Routed(routes...)
}

// ParsePort parses an unsigned 16-bit port number.
func ParsePort(value string) (uint16, error) {
	n, err := strconv.ParseUint(value, 10, 16)
	if err != nil {
		return 0, errors.NewServeError(errors.InvalidPort, "Given port is invalid", err).
			WithDetails(map[string]interface{}{"value": value})
	}
	return uint16(n), nil
}

func portFromInt(n int) (uint16, error) {
	if n < 0 || n > 65535 {
		return 0, errors.NewServeError(errors.InvalidPort, "Given port is invalid: "+strconv.Itoa(n), nil)
	}
	return uint16(n), nil
}
