package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/velement/internal/errors"
)

const (
	// DefaultFileName is the manifest looked up when no file is given.
	DefaultFileName = "page.yaml"

	// DefaultAddr is the preview server listen address.
	DefaultAddr = ":8080"

	// DefaultTitle is the page title when the manifest has none.
	DefaultTitle = "velement preview"
)

// Manifest describes a preview page.
type Manifest struct {
	Title string `yaml:"title"`

	// BatchRender coalesces renders per loop task (default: true).
	BatchRender *bool `yaml:"batch_render"`

	Server ServerConfig `yaml:"server"`

	Components []Component `yaml:"components"`

	path string
}

// ServerConfig configures the preview server.
type ServerConfig struct {
	Addr string `yaml:"addr"`

	// Live enables the websocket live route (default: true).
	Live *bool `yaml:"live"`
}

// Component is one element instance on the page.
type Component struct {
	Tag        string            `yaml:"tag"`
	ID         string            `yaml:"id"`
	Attributes map[string]string `yaml:"attributes"`

	// Slot is text passed to the element as child content.
	Slot string `yaml:"slot"`

	line int
}

// Line returns the manifest line of the component entry, or 0.
func (c Component) Line() int {
	return c.line
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E202").
				WithDetail("No manifest found at " + path).
				WithSuggestion("Pass the manifest with -f or create " + DefaultFileName)
		}
		return nil, errors.New("E202").Wrap(err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, err
	}
	m.path = path
	return m, nil
}

// Parse parses manifest YAML and applies defaults.
func Parse(data []byte) (*Manifest, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.New("E202").
			WithDetail("Failed to parse manifest: " + err.Error()).
			WithSuggestion("Check that the manifest is valid YAML")
	}

	m := &Manifest{}
	if len(doc.Content) > 0 {
		if err := doc.Content[0].Decode(m); err != nil {
			return nil, errors.New("E202").
				WithDetail("Failed to decode manifest: " + err.Error())
		}
		recordLines(doc.Content[0], m)
	}
	m.applyDefaults()
	return m, nil
}

// recordLines stores the line of each component entry.
func recordLines(root *yaml.Node, m *Manifest) {
	if root.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "components" {
			continue
		}
		seq := root.Content[i+1]
		for j, item := range seq.Content {
			if j < len(m.Components) {
				m.Components[j].line = item.Line
			}
		}
	}
}

func (m *Manifest) applyDefaults() {
	if m.Title == "" {
		m.Title = DefaultTitle
	}
	if m.Server.Addr == "" {
		m.Server.Addr = DefaultAddr
	}
}

// Path returns the file the manifest was loaded from.
func (m *Manifest) Path() string {
	return m.path
}

// Batch reports whether renders are batched.
func (m *Manifest) Batch() bool {
	return m.BatchRender == nil || *m.BatchRender
}

// LiveEnabled reports whether the websocket live route is served.
func (m *Manifest) LiveEnabled() bool {
	return m.Server.Live == nil || *m.Server.Live
}

// Component returns the component with the given id.
func (m *Manifest) Component(id string) (Component, bool) {
	for _, c := range m.Components {
		if c.ID == id {
			return c, true
		}
	}
	return Component{}, false
}

// Validate checks the manifest. known reports whether a tag has a
// registered component; nil skips that check.
func (m *Manifest) Validate(known func(tag string) bool) error {
	if len(m.Components) == 0 {
		return errors.New("E201").
			WithDetail("The manifest declares no components").
			WithSuggestion("Add at least one entry under components:")
	}

	seen := make(map[string]bool, len(m.Components))
	for _, c := range m.Components {
		switch {
		case c.Tag == "":
			return m.locate(errors.New("E201").WithDetail("component has no tag"), c)
		case !strings.Contains(c.Tag, "-"):
			return m.locate(errors.New("E201").
				WithDetail("tag "+c.Tag+" is not a custom element name").
				WithSuggestion("Custom element tags contain a hyphen, e.g. x-"+c.Tag), c)
		case c.ID == "":
			return m.locate(errors.New("E201").WithDetail("component "+c.Tag+" has no id"), c)
		case seen[c.ID]:
			return m.locate(errors.New("E201").WithDetail("duplicate component id "+c.ID), c)
		case known != nil && !known(c.Tag):
			return m.locate(errors.New("E203").WithDetail(c.Tag), c)
		}
		seen[c.ID] = true
	}
	return nil
}

func (m *Manifest) locate(err *errors.CodedError, c Component) *errors.CodedError {
	if m.path != "" && c.line > 0 {
		return err.WithLocation(m.path, c.line, 0)
	}
	if c.line > 0 {
		err.Location = &errors.Location{Line: c.line}
	}
	return err
}
