package errors

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"os"
)

// Category groups related error codes.
type Category string

const (
	CategoryConfig  Category = "config"
	CategoryCLI     Category = "cli"
	CategoryServer  Category = "server"
	CategoryPref    Category = "pref"
	CategoryPublish Category = "publish"
	CategoryAudit   Category = "audit"
	CategoryBuild   Category = "build"
)

// Location points into a file, usually a config file.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns file:line[:column].
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Error is a coded error with optional location and hint.
type Error struct {
	Code     string
	Category Category
	Message  string
	Detail   string
	Hint     string
	Location *Location

	// Context holds the file lines around Location.
	Context []string

	Err error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code != "" && t.Code == e.Code
}

// WithLocation attaches a file position and reads the lines around it.
func (e *Error) WithLocation(file string, line, column int) *Error {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = readLines(file, line, 2)
	return e
}

// WithHint sets a suggestion for fixing the error.
func (e *Error) WithHint(hint string) *Error {
	e.Hint = hint
	return e
}

// WithDetail replaces the registered explanation.
func (e *Error) WithDetail(detail string) *Error {
	e.Detail = detail
	return e
}

// Wrap sets the underlying cause.
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

// readLines returns lines target-radius..target+radius of file.
func readLines(file string, target, radius int) []string {
	f, err := os.Open(file)
	if err != nil {
		return nil
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for n := 1; sc.Scan(); n++ {
		if n > target+radius {
			break
		}
		if n >= target-radius {
			lines = append(lines, sc.Text())
		}
	}
	return lines
}

// New creates an error from a registered code. Unknown codes produce a
// generic message.
func New(code string) *Error {
	t, ok := registry[code]
	if !ok {
		return &Error{Code: code, Message: "Unknown error"}
	}
	return &Error{
		Code:     code,
		Category: t.Category,
		Message:  t.Message,
		Detail:   t.Detail,
		Hint:     t.Hint,
	}
}

// Newf creates an uncoded error.
func Newf(category Category, format string, args ...any) *Error {
	return &Error{Category: category, Message: fmt.Sprintf(format, args...)}
}

// From wraps err under code unless it already is an *Error.
func From(err error, code string) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e
	}
	return New(code).Wrap(err)
}

// Code returns the code of the first *Error in err's chain.
func Code(err error) string {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return ""
}
