package config

import (
	"fmt"
	"strings"
	"testing"

	"tinyserve/internal/content"
	"tinyserve/internal/errors"
)

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"cfg.yml", FormatYAML},
		{"cfg.yaml", FormatYAML},
		{"cfg.json", FormatYAML},
		{"cfg", FormatYAML},
		{"cfg.toml", FormatTOML},
		{"dir/CFG.TOML", FormatTOML},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := FormatForPath(tt.path); got != tt.want {
				t.Errorf("FormatForPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestParseDocument_Formats(t *testing.T) {
	yamlDoc := `
port: 8081
unknown_key: ignored
files:
  - route: /
    file: index.html
  - route: /style.css
    file: assets/style.css
    type: text/css
raw:
  - route: /health
    content: ok
    type: text/plain
    status: 200
`
	jsonDoc := `{
  "port": 8081,
  "unknown_key": "ignored",
  "files": [
    {"route": "/", "file": "index.html"},
    {"route": "/style.css", "file": "assets/style.css", "type": "text/css"}
  ],
  "raw": [{"route": "/health", "content": "ok", "type": "text/plain", "status": 200}]
}`
	tomlDoc := `
port = 8081
unknown_key = "ignored"

[[files]]
route = "/"
file = "index.html"

[[files]]
route = "/style.css"
file = "assets/style.css"
type = "text/css"

[[raw]]
route = "/health"
content = "ok"
type = "text/plain"
status = 200
`

	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{"yaml", yamlDoc, FormatYAML},
		{"json via yaml", jsonDoc, FormatYAML},
		{"toml", tomlDoc, FormatTOML},
	}

	want := []content.Route{
		content.File("/", "index.html", ""),
		content.File("/style.css", "assets/style.css", "text/css"),
		content.Literal("/health", "ok", "text/plain", 200),
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseDocument([]byte(tt.data), tt.format)
			if err != nil {
				t.Fatalf("ParseDocument() error = %v", err)
			}
			if doc.Port == nil || *doc.Port != 8081 {
				t.Errorf("Port = %v, want 8081", doc.Port)
			}

			spec, warnings, err := doc.Spec()
			if err != nil {
				t.Fatalf("Spec() error = %v", err)
			}
			if len(warnings) != 0 {
				t.Errorf("warnings = %v, want none", warnings)
			}

			got := spec.Routes()
			if len(got) != len(want) {
				t.Fatalf("len(routes) = %d, want %d", len(got), len(want))
			}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("routes[%d] = %+v, want %+v", i, got[i], want[i])
				}
			}
		})
	}
}

func TestDocument_MissingKeysAreAbsent(t *testing.T) {
	doc, err := ParseDocument([]byte("raw:\n  - route: /\n    content: hi\n"), FormatYAML)
	if err != nil {
		t.Fatalf("ParseDocument() error = %v", err)
	}
	if doc.Port != nil {
		t.Errorf("Port = %v, want absent", *doc.Port)
	}

	spec, _, err := doc.Spec()
	if err != nil {
		t.Fatalf("Spec() error = %v", err)
	}
	r := spec.Routes()[0]
	if r.ContentType != "" || r.Status != 0 {
		t.Errorf("route = %+v, want no type and no status", r)
	}
}

func TestDocument_FilesBeforeRaw(t *testing.T) {
	doc, err := ParseDocument([]byte(`
raw:
  - route: /x
    content: raw
files:
  - route: /x
    file: x.html
`), FormatYAML)
	if err != nil {
		t.Fatalf("ParseDocument() error = %v", err)
	}

	spec, _, err := doc.Spec()
	if err != nil {
		t.Fatalf("Spec() error = %v", err)
	}
	if m := content.Match(spec, "/x"); m.Kind != content.FileMatch {
		t.Errorf("Match(/x).Kind = %v, want file route to come first", m.Kind)
	}
}

func TestDocument_WildcardFileRoute(t *testing.T) {
	doc := &Document{Files: []FileEntry{{Route: "."}}}

	spec, _, err := doc.Spec()
	if err != nil {
		t.Fatalf("Spec() error = %v", err)
	}
	if m := content.Match(spec, "/any.html"); m.Path != "any.html" {
		t.Errorf("Match(/any.html).Path = %q", m.Path)
	}
}

func TestDocument_Warnings(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		spec, warnings, err := (&Document{}).Spec()
		if err != nil {
			t.Fatal(err)
		}
		if spec.Kind() != content.KindRouted || spec.Len() != 0 {
			t.Errorf("Spec = %v with %d routes", spec.Kind(), spec.Len())
		}
		if len(warnings) != 1 || !strings.Contains(warnings[0], "404") {
			t.Errorf("warnings = %v", warnings)
		}
	})

	t.Run("html shadowed by routes", func(t *testing.T) {
		doc := &Document{HTML: "<p/>", Raw: []RawEntry{{Route: "/", Content: "x"}}}
		spec, warnings, err := doc.Spec()
		if err != nil {
			t.Fatal(err)
		}
		if spec.Kind() != content.KindRouted {
			t.Errorf("Kind = %v, want routed", spec.Kind())
		}
		if len(warnings) != 1 || !strings.Contains(warnings[0], "html") {
			t.Errorf("warnings = %v", warnings)
		}
	})
}

func TestDocument_RawStatusRange(t *testing.T) {
	tests := []struct {
		status  int
		wantErr bool
	}{
		{0, false},
		{99, true},
		{100, true},
		{103, true},
		{199, true},
		{200, false},
		{204, false},
		{418, false},
		{999, false},
		{1000, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			yml := fmt.Sprintf("raw:\n  - route: /\n    content: hi\n  - route: /s\n    content: hi\n    status: %d\n", tt.status)
			doc, err := ParseDocument([]byte(yml), FormatYAML)
			if err != nil {
				t.Fatalf("ParseDocument() error = %v", err)
			}

			spec, _, err := doc.Spec()
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Spec() error = %v", err)
				}
				if got := spec.Routes()[1].Status; got != tt.status {
					t.Errorf("Status = %d, want %d", got, tt.status)
				}
				return
			}

			if !errors.HasCode(err, errors.ConfigParseError) {
				t.Fatalf("Spec() error = %v, want %s", err, errors.ConfigParseError)
			}
			se, ok := err.(*errors.ServeError)
			if !ok {
				t.Fatalf("error %T is not a ServeError", err)
			}
			details, _ := se.Details.(map[string]interface{})
			if details["field"] != "raw[1]" {
				t.Errorf("Details = %v, want field raw[1]", se.Details)
			}
		})
	}
}
