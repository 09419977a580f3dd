package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	ansiReset = "\033[0m"
	ansiRed   = "\033[31m"
	ansiBlue  = "\033[34m"
	ansiCyan  = "\033[36m"
	ansiGray  = "\033[90m"
	ansiBold  = "\033[1m"
)

// Colors toggles ANSI output for Format and Print.
var Colors = true

func paint(code, s string) string {
	if !Colors {
		return s
	}
	return code + s + ansiReset
}

// Format renders e for a terminal.
func (e *Error) Format() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(paint(ansiRed+ansiBold, "ERROR"))
	if e.Code != "" {
		b.WriteString(paint(ansiBold, " "+e.Code))
	}
	b.WriteString(": " + e.Message + "\n\n")

	if e.Location != nil {
		b.WriteString("  " + paint(ansiCyan, e.Location.String()) + "\n\n")
		first := e.Location.Line - 2
		if first < 1 {
			first = 1
		}
		for i, line := range e.Context {
			n := first + i
			marker := "    "
			if n == e.Location.Line {
				marker = "  " + paint(ansiRed, "> ")
			}
			fmt.Fprintf(&b, "%s%4d %s %s\n", marker, n, paint(ansiGray, "|"), line)
		}
		if len(e.Context) > 0 {
			b.WriteString("\n")
		}
	}

	if e.Detail != "" {
		for _, line := range wrap(e.Detail, 72) {
			b.WriteString("  " + line + "\n")
		}
		b.WriteString("\n")
	}
	if e.Err != nil {
		b.WriteString("  " + paint(ansiGray, "cause: ") + e.Err.Error() + "\n\n")
	}
	if e.Hint != "" {
		b.WriteString("  " + paint(ansiBlue, "Hint: ") + e.Hint + "\n")
	}
	return b.String()
}

// Compact renders e on one line.
func (e *Error) Compact() string {
	if e.Location != nil {
		return e.Location.String() + ": " + e.Error()
	}
	return e.Error()
}

type jsonError struct {
	Code     string    `json:"code,omitempty"`
	Category Category  `json:"category,omitempty"`
	Message  string    `json:"message"`
	Detail   string    `json:"detail,omitempty"`
	Hint     string    `json:"hint,omitempty"`
	Cause    string    `json:"cause,omitempty"`
	Location *Location `json:"location,omitempty"`
}

// MarshalJSON encodes e for machine-readable CLI output.
func (e *Error) MarshalJSON() ([]byte, error) {
	je := jsonError{
		Code:     e.Code,
		Category: e.Category,
		Message:  e.Message,
		Detail:   e.Detail,
		Hint:     e.Hint,
		Location: e.Location,
	}
	if e.Err != nil {
		je.Cause = e.Err.Error()
	}
	return json.Marshal(je)
}

func wrap(text string, width int) []string {
	var lines []string
	var cur strings.Builder
	for _, word := range strings.Fields(text) {
		if cur.Len() > 0 && cur.Len()+1+len(word) > width {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(word)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

// Fprint writes err to w, using Format for *Error values.
func Fprint(w io.Writer, err error) {
	var e *Error
	if stderrors.As(err, &e) {
		fmt.Fprint(w, e.Format())
		return
	}
	fmt.Fprintf(w, "\n%s: %s\n", paint(ansiRed+ansiBold, "ERROR"), err)
}

// Print writes err to stderr.
func Print(err error) {
	Fprint(os.Stderr, err)
}
