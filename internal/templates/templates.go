package templates

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"text/template"

	"github.com/vango-dev/velement/internal/config"
	"github.com/vango-dev/velement/internal/errors"
)

// Config contains template configuration.
type Config struct {
	// Title is the page title.
	Title string

	// Addr is the preview server listen address.
	Addr string

	// Live enables the websocket route.
	Live bool
}

// Template represents a starter manifest.
type Template struct {
	// Name is the template name.
	Name string

	// Description describes the template.
	Description string

	// Files is a map of relative paths to file contents.
	Files map[string]string
}

var templates = map[string]*Template{
	"minimal":  minimalTemplate(),
	"showcase": showcaseTemplate(),
}

// Get returns a template by name.
func Get(name string) (*Template, error) {
	tmpl, ok := templates[name]
	if !ok {
		return nil, errors.New("E302").
			WithDetail("Template '" + name + "' not found").
			WithSuggestion("Available templates: minimal, showcase")
	}
	return tmpl, nil
}

// List returns all template names in sorted order.
func List() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create writes the template into dir. Existing files are never
// overwritten; nothing is written when any target exists.
func (t *Template) Create(dir string, cfg Config) error {
	if cfg.Title == "" {
		cfg.Title = config.DefaultTitle
	}
	if cfg.Addr == "" {
		cfg.Addr = config.DefaultAddr
	}

	rendered := make(map[string][]byte, len(t.Files))
	for relPath, content := range t.Files {
		tmpl, err := template.New(relPath).Parse(content)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, cfg); err != nil {
			return err
		}

		fullPath := filepath.Join(dir, relPath)
		if _, err := os.Stat(fullPath); err == nil {
			return errors.New("E303").
				WithDetail(fullPath).
				WithSuggestion("Choose another directory or remove the file")
		}
		rendered[fullPath] = buf.Bytes()
	}

	for fullPath, data := range rendered {
		if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(fullPath, data, 0o644); err != nil {
			return err
		}
	}
	return nil
}

func minimalTemplate() *Template {
	return &Template{
		Name:        "minimal",
		Description: "A single counter",
		Files: map[string]string{
			config.DefaultFileName: `title: {{printf "%q" .Title}}

server:
  addr: {{printf "%q" .Addr}}
  live: {{.Live}}

components:
  - tag: x-counter
    id: counter
    attributes:
      label: Clicks
`,
		},
	}
}

func showcaseTemplate() *Template {
	return &Template{
		Name:        "showcase",
		Description: "Every built-in element",
		Files: map[string]string{
			config.DefaultFileName: `title: {{printf "%q" .Title}}
batch_render: true

server:
  addr: {{printf "%q" .Addr}}
  live: {{.Live}}

components:
  - tag: x-badge
    id: status
    attributes:
      tone: ok
    slot: Ready

  - tag: x-counter
    id: counter
    attributes:
      label: Clicks
      step: "5"

  - tag: x-clock
    id: clock
    attributes:
      format: "15:04"
      chime: "0 * * * *"
`,
		},
	}
}
