package errors

import (
	"bufio"
	"fmt"
	"os"
)

// Category represents the type of error.
type Category string

const (
	CategoryProperty  Category = "property"
	CategoryCoercion  Category = "coercion"
	CategoryLifecycle Category = "lifecycle"
	CategoryPlugin    Category = "plugin"
	CategoryConfig    Category = "config"
	CategoryCLI       Category = "cli"
)

// Location represents a position in a source or manifest file.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// CodedError is a structured error with a registry code, an optional file
// location and a fix suggestion.
type CodedError struct {
	// Code is a unique error identifier (e.g., "E101").
	Code string

	Category Category
	Message  string
	Detail   string

	// Location and Context point into the offending file, if any.
	// Context[0] is line ContextStart.
	Location     *Location
	Context      []string
	ContextStart int

	Suggestion string
	DocURL     string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *CodedError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *CodedError) Unwrap() error {
	return e.Wrapped
}

// WithLocation adds a file location and reads the surrounding lines.
func (e *CodedError) WithLocation(file string, line, column int) *CodedError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.ContextStart, e.Context = readContextLines(file, line, 2)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *CodedError) WithSuggestion(s string) *CodedError {
	e.Suggestion = s
	return e
}

// WithDetail replaces the registry detail with a specific explanation.
func (e *CodedError) WithDetail(d string) *CodedError {
	e.Detail = d
	return e
}

// Wrap sets the underlying error.
func (e *CodedError) Wrap(err error) *CodedError {
	e.Wrapped = err
	return e
}

// readContextLines returns up to radius lines on each side of target,
// clamped to the file, and the number of the first returned line.
func readContextLines(filename string, target, radius int) (int, []string) {
	file, err := os.Open(filename)
	if err != nil {
		return 0, nil
	}
	defer file.Close()

	first := max(target-radius, 1)
	var lines []string
	scanner := bufio.NewScanner(file)
	for n := 1; scanner.Scan() && n <= target+radius; n++ {
		if n >= first {
			lines = append(lines, scanner.Text())
		}
	}
	return first, lines
}

// New creates a CodedError from a registered error code.
func New(code string) *CodedError {
	template, ok := registry[code]
	if !ok {
		return &CodedError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &CodedError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new CodedError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *CodedError {
	return &CodedError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a CodedError.
func FromError(err error, code string) *CodedError {
	if err == nil {
		return nil
	}
	if ce, ok := err.(*CodedError); ok {
		return ce
	}
	return New(code).Wrap(err)
}
