package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vango-dev/velement/internal/errors"
)

const sample = `title: Demo
batch_render: false
components:
  - tag: x-counter
    id: counter
    attributes:
      count: 3
      label: Clicks
  - tag: x-badge
    id: status
    slot: Ready
`

func TestParse(t *testing.T) {
	m, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.Title != "Demo" {
		t.Errorf("Title = %q", m.Title)
	}
	if m.Batch() {
		t.Error("Batch() = true, want false")
	}
	if m.Server.Addr != DefaultAddr || !m.LiveEnabled() {
		t.Errorf("server defaults = %+v", m.Server)
	}
	if len(m.Components) != 2 {
		t.Fatalf("components = %d", len(m.Components))
	}
	c := m.Components[0]
	if c.Attributes["count"] != "3" || c.Attributes["label"] != "Clicks" {
		t.Errorf("attributes = %v", c.Attributes)
	}
	if c.Line() != 4 || m.Components[1].Line() != 9 {
		t.Errorf("lines = %d, %d", c.Line(), m.Components[1].Line())
	}
	if got, ok := m.Component("status"); !ok || got.Slot != "Ready" {
		t.Errorf("Component(status) = %+v, %v", got, ok)
	}
}

func TestDefaults(t *testing.T) {
	m, err := Parse([]byte("components: []\n"))
	if err != nil {
		t.Fatal(err)
	}
	if m.Title != DefaultTitle || !m.Batch() {
		t.Errorf("defaults not applied: %+v", m)
	}
}

func TestValidate(t *testing.T) {
	known := func(tag string) bool { return tag == "x-counter" }

	tests := []struct {
		name string
		yaml string
		code string
		line int
	}{
		{"empty", "title: x\n", "E201", 0},
		{"no tag", "components:\n  - id: a\n", "E201", 2},
		{"no hyphen", "components:\n  - tag: counter\n    id: a\n", "E201", 2},
		{"no id", "components:\n  - tag: x-counter\n", "E201", 2},
		{"duplicate id", "components:\n  - tag: x-counter\n    id: a\n  - tag: x-counter\n    id: a\n", "E201", 4},
		{"unknown tag", "components:\n  - tag: x-nope\n    id: a\n", "E203", 2},
		{"valid", "components:\n  - tag: x-counter\n    id: a\n", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse([]byte(tt.yaml))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			err = m.Validate(known)
			if tt.code == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			var ce *errors.CodedError
			if !stderrors.As(err, &ce) {
				t.Fatalf("err = %v, want *CodedError", err)
			}
			if ce.Code != tt.code {
				t.Errorf("Code = %s, want %s", ce.Code, tt.code)
			}
			if tt.line > 0 && (ce.Location == nil || ce.Location.Line != tt.line) {
				t.Errorf("Location = %v, want line %d", ce.Location, tt.line)
			}
		})
	}
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("components: [\n"))
	var ce *errors.CodedError
	if !stderrors.As(err, &ce) || ce.Code != "E202" {
		t.Errorf("err = %v, want E202", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Path() != path {
		t.Errorf("Path = %q", m.Path())
	}

	m.Components[1].ID = "counter"
	err = m.Validate(nil)
	var ce *errors.CodedError
	if !stderrors.As(err, &ce) || ce.Location == nil || ce.Location.File != path {
		t.Fatalf("err = %v, want located error", err)
	}
	if len(ce.Context) == 0 {
		t.Error("expected context lines from the manifest")
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
