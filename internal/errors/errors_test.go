package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "unknown property",
			code:    "E101",
			wantMsg: "Unknown property",
			wantCat: CategoryProperty,
		},
		{
			name:    "coercion",
			code:    "E102",
			wantMsg: "Malformed attribute value",
			wantCat: CategoryCoercion,
		},
		{
			name:    "config",
			code:    "E201",
			wantMsg: "Invalid page manifest",
			wantCat: CategoryConfig,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryCLI, "file %q not found", "page.yaml")
	if err.Message != `file "page.yaml" not found` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Category != CategoryCLI {
		t.Errorf("Category = %q, want %q", err.Category, CategoryCLI)
	}
}

func TestCodedError_Error(t *testing.T) {
	err := New("E105").WithDetail("x-counter")
	want := "E105: Render failed (x-counter)"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	plain := &CodedError{Message: "test error"}
	if plain.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", plain.Error(), "test error")
	}
}

func TestCodedError_Wrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := New("E202").Wrap(cause)
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if !strings.HasSuffix(err.Error(), ": boom") {
		t.Errorf("Error() = %q, want cause suffix", err.Error())
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E201") != nil {
		t.Error("FromError(nil) should be nil")
	}

	orig := New("E203")
	if FromError(orig, "E201") != orig {
		t.Error("FromError should return an existing CodedError unchanged")
	}

	wrapped := FromError(stderrors.New("io"), "E202")
	if wrapped.Code != "E202" || wrapped.Wrapped == nil {
		t.Errorf("FromError = %+v", wrapped)
	}
}

func TestLocation_String(t *testing.T) {
	tests := []struct {
		name string
		loc  *Location
		want string
	}{
		{"nil", nil, ""},
		{"with column", &Location{File: "page.yaml", Line: 10, Column: 5}, "page.yaml:10:5"},
		{"without column", &Location{File: "page.yaml", Line: 10}, "page.yaml:10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.loc.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	tmpFile := filepath.Join(t.TempDir(), "page.yaml")
	content := "title: demo\ncomponents:\n  - tag: x-counter\n    id: a\n  - tag: x-counter\n    id: a\n"
	if err := os.WriteFile(tmpFile, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	err := New("E201").
		WithLocation(tmpFile, 6, 9).
		WithDetail(`duplicate component id "a"`).
		WithSuggestion("give every component a unique id")

	formatted := err.Format()
	for _, want := range []string{"E201", "Invalid page manifest", tmpFile, "id: a", "Hint:", "Learn more:"} {
		if !strings.Contains(formatted, want) {
			t.Errorf("Format() missing %q:\n%s", want, formatted)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("E201")
	err.Location = &Location{File: "page.yaml", Line: 10, Column: 5}

	want := "page.yaml:10:5: E201: Invalid page manifest"
	if got := err.FormatCompact(); got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestFormatJSON(t *testing.T) {
	err := New("E102").Wrap(stderrors.New("bad json"))
	json := err.FormatJSON()

	for _, want := range []string{`"code":"E102"`, `"category":"coercion"`, `"cause":"bad json"`} {
		if !strings.Contains(json, want) {
			t.Errorf("FormatJSON() missing %s: %s", want, json)
		}
	}
}

func TestRegistry(t *testing.T) {
	if len(GetAllCodes()) == 0 {
		t.Fatal("GetAllCodes() should return codes")
	}
	if _, ok := GetTemplate("E101"); !ok {
		t.Error("E101 should exist")
	}

	Register("E999", ErrorTemplate{Category: CategoryPlugin, Message: "Custom test error"})
	defer delete(registry, "E999")
	if New("E999").Message != "Custom test error" {
		t.Error("registered template not used")
	}
}

func TestWrapText(t *testing.T) {
	if got := wrapText("short text", 100); len(got) != 1 || got[0] != "short text" {
		t.Errorf("wrapText short text: got %v", got)
	}
	if got := wrapText("this is a longer text that should be wrapped", 20); len(got) != 3 {
		t.Errorf("wrapText long text: expected 3 lines, got %d: %v", len(got), got)
	}
	if got := wrapText("", 10); len(got) != 0 {
		t.Errorf("wrapText empty: expected empty, got %v", got)
	}
}

func TestColors(t *testing.T) {
	EnableColors()
	if got := styleMark.paint("test"); got != "\033[31mtest\033[0m" {
		t.Errorf("paint with colors = %q", got)
	}

	DisableColors()
	if got := styleMark.paint("test"); got != "test" {
		t.Errorf("paint without colors = %q", got)
	}
	EnableColors()
}

func TestFprint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var b strings.Builder
	Fprint(&b, fmt.Errorf("loading: %w", New("E202")))
	if !strings.Contains(b.String(), "E202: Cannot read page manifest") {
		t.Errorf("coded = %q", b.String())
	}

	b.Reset()
	Fprint(&b, stderrors.New("plain"))
	if got := b.String(); got != "\nERROR: plain\n\n" {
		t.Errorf("plain = %q", got)
	}
}

func TestContextLinesClampToFileStart(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "page.yaml")
	if err := os.WriteFile(tmpFile, []byte("a\nb\nc\nd\ne\nf\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		line      int
		wantStart int
		want      string
	}{
		{1, 1, "a,b,c"},
		{2, 1, "a,b,c,d"},
		{4, 2, "b,c,d,e,f"},
		{6, 4, "d,e,f"},
	}
	for _, tt := range tests {
		err := New("E201").WithLocation(tmpFile, tt.line, 0)
		if err.ContextStart != tt.wantStart || strings.Join(err.Context, ",") != tt.want {
			t.Errorf("line %d: start %d context %v, want %d %s", tt.line, err.ContextStart, err.Context, tt.wantStart, tt.want)
		}
	}
}
