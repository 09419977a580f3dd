// Package validate holds the form field rules shared by the browser blur
// handler and the server's contact form handler.
package validate

import (
	"regexp"
	"strings"
)

// emailPattern accepts local@domain.tld shapes with no whitespace and a
// single @.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Required reports whether value is non-empty after trimming whitespace.
func Required(value string) bool {
	return strings.TrimSpace(value) != ""
}

// Email reports whether value looks like an email address.
func Email(value string) bool {
	return emailPattern.MatchString(value)
}

// Field describes one form control for Check.
type Field struct {
	Name     string
	Type     string
	Value    string
	Required bool
}

// Check applies the blur rules to a field and reports whether it is
// valid. An empty required field is invalid. A non-empty email field is
// then judged by Email alone, overriding the required result.
func Check(f Field) bool {
	valid := !f.Required || Required(f.Value)
	if strings.EqualFold(f.Type, "email") && f.Value != "" {
		valid = Email(f.Value)
	}
	return valid
}

// Errors checks every field and returns the names of invalid ones in
// input order.
func Errors(fields ...Field) []string {
	var invalid []string
	for _, f := range fields {
		if !Check(f) {
			invalid = append(invalid, f.Name)
		}
	}
	return invalid
}
