package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// style is an ANSI SGR sequence.
type style string

const (
	reset     style = "\033[0m"
	styleErr  style = "\033[1;31m"
	styleHead style = "\033[1;37m"
	styleLoc  style = "\033[36m"
	styleDim  style = "\033[90m"
	styleLink style = "\033[34m"
	styleMark style = "\033[31m"
)

var colorEnabled = true

// DisableColors disables ANSI color output.
func DisableColors() {
	colorEnabled = false
}

// EnableColors enables ANSI color output.
func EnableColors() {
	colorEnabled = true
}

func (s style) paint(text string) string {
	if !colorEnabled {
		return text
	}
	return string(s) + text + string(reset)
}

// Format returns a multi-line error message for terminal display.
func (e *CodedError) Format() string {
	var b strings.Builder

	b.WriteString("\n")
	if e.Code != "" {
		fmt.Fprintf(&b, "%s %s\n\n", styleErr.paint("ERROR"), styleHead.paint(e.Code+": "+e.Message))
	} else {
		fmt.Fprintf(&b, "%s %s\n\n", styleErr.paint("ERROR:"), styleHead.paint(e.Message))
	}

	if e.Location != nil {
		fmt.Fprintf(&b, "  %s\n\n", styleLoc.paint(e.Location.String()))
		e.writeSource(&b)
	}
	if e.Wrapped != nil {
		fmt.Fprintf(&b, "  %s%s\n\n", styleDim.paint("Cause: "), e.Wrapped.Error())
	}
	if lines := wrapText(e.Detail, 70); len(lines) > 0 {
		for _, line := range lines {
			fmt.Fprintf(&b, "  %s\n", line)
		}
		b.WriteString("\n")
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "  %s%s\n\n", styleLoc.paint("Hint: "), e.Suggestion)
	}
	if e.DocURL != "" {
		fmt.Fprintf(&b, "  %s%s\n", styleDim.paint("Learn more: "), styleLink.paint(e.DocURL))
	}
	return b.String()
}

// writeSource prints the context lines with the offending one marked.
func (e *CodedError) writeSource(b *strings.Builder) {
	if len(e.Context) == 0 {
		return
	}
	bar := styleDim.paint(" │ ")
	for i, line := range e.Context {
		n := e.ContextStart + i
		if n != e.Location.Line {
			fmt.Fprintf(b, "    %4d%s%s\n", n, bar, line)
			continue
		}
		fmt.Fprintf(b, "  %s%4d%s%s\n", styleMark.paint("→ "), n, bar, line)
		if e.Location.Column > 0 {
			fmt.Fprintf(b, "       %s%s%s\n", styleDim.paint("│ "), strings.Repeat(" ", e.Location.Column-1), styleMark.paint("^"))
		}
	}
	b.WriteString("\n")
}

// FormatCompact returns a single-line form: location, code, message, cause.
func (e *CodedError) FormatCompact() string {
	parts := make([]string, 0, 4)
	if e.Location != nil {
		parts = append(parts, e.Location.String())
	}
	if e.Code != "" {
		parts = append(parts, e.Code)
	}
	parts = append(parts, e.Message)
	if e.Wrapped != nil {
		parts = append(parts, e.Wrapped.Error())
	}
	return strings.Join(parts, ": ")
}

type jsonLocation struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

type jsonError struct {
	Code       string        `json:"code,omitempty"`
	Category   Category      `json:"category"`
	Message    string        `json:"message"`
	Detail     string        `json:"detail,omitempty"`
	Location   *jsonLocation `json:"location,omitempty"`
	Suggestion string        `json:"suggestion,omitempty"`
	Cause      string        `json:"cause,omitempty"`
	DocURL     string        `json:"docUrl,omitempty"`
}

// FormatJSON returns the error as a JSON object.
func (e *CodedError) FormatJSON() string {
	out := jsonError{
		Code:       e.Code,
		Category:   e.Category,
		Message:    e.Message,
		Detail:     e.Detail,
		Suggestion: e.Suggestion,
		DocURL:     e.DocURL,
	}
	if e.Location != nil {
		out.Location = &jsonLocation{File: e.Location.File, Line: e.Location.Line, Column: e.Location.Column}
	}
	if e.Wrapped != nil {
		out.Cause = e.Wrapped.Error()
	}
	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Sprintf(`{"message":%q}`, e.Message)
	}
	return string(data)
}

// wrapText greedily breaks text into lines of at most width bytes. A word
// longer than width gets a line of its own.
func wrapText(text string, width int) []string {
	var lines []string
	line := ""
	for _, word := range strings.Fields(text) {
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) > width:
			lines = append(lines, line)
			line = word
		default:
			line += " " + word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// Fprint writes err to w, formatted when it is a CodedError.
func Fprint(w io.Writer, err error) {
	var ce *CodedError
	if stderrors.As(err, &ce) {
		io.WriteString(w, ce.Format())
		return
	}
	fmt.Fprintf(w, "\n%s %s\n\n", styleErr.paint("ERROR:"), err.Error())
}

// PrintError prints a formatted error to stderr.
func PrintError(err error) {
	Fprint(os.Stderr, err)
}
