package ocrimport

import (
	"fmt"
	"strings"
)

// Field error codes
const (
	ErrCodeRequiredField = "ERR_OCR_REQUIRED_FIELD"
	ErrCodeInvalidNumber = "ERR_OCR_INVALID_NUMBER"
	ErrCodeNotPositive   = "ERR_OCR_NOT_POSITIVE"
	ErrCodeInvalidRange  = "ERR_OCR_INVALID_RANGE"
	ErrCodeInvalidValue  = "ERR_OCR_INVALID_VALUE"
	ErrCodeNoLines       = "ERR_OCR_NO_LINES"
)

// Issue is a problem with one field of one OCR record. Line 0 is the static
// (header) section; dynamic lines are numbered from 1.
type Issue struct {
	Line    int    `json:"line"`
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// Error implements the error interface
func (i Issue) Error() string {
	if i.Line > 0 {
		return fmt.Sprintf("line %d: %s", i.Line, i.Message)
	}
	return i.Message
}

// ErrorCollection accumulates issues across all records of one invoice
type ErrorCollection struct {
	issues []Issue
}

// NewErrorCollection creates an empty collection
func NewErrorCollection() *ErrorCollection {
	return &ErrorCollection{}
}

// Add appends an issue
func (ec *ErrorCollection) Add(issue Issue) {
	ec.issues = append(ec.issues, issue)
}

// AddRequired records a missing required field
func (ec *ErrorCollection) AddRequired(line int, field string) {
	ec.Add(Issue{Line: line, Field: field, Code: ErrCodeRequiredField,
		Message: fmt.Sprintf("%s is required", field)})
}

// AddInvalidNumber records a value that is not a number
func (ec *ErrorCollection) AddInvalidNumber(line int, field, value string) {
	ec.Add(Issue{Line: line, Field: field, Code: ErrCodeInvalidNumber, Value: value,
		Message: fmt.Sprintf("%s must be numeric, got %q", field, value)})
}

// AddNotPositive records a number that must be greater than zero
func (ec *ErrorCollection) AddNotPositive(line int, field, value string) {
	ec.Add(Issue{Line: line, Field: field, Code: ErrCodeNotPositive, Value: value,
		Message: fmt.Sprintf("%s must be greater than 0, got %s", field, value)})
}

// Issues returns the collected issues in the order they were added
func (ec *ErrorCollection) Issues() []Issue {
	return ec.issues
}

// Len returns the number of collected issues
func (ec *ErrorCollection) Len() int {
	return len(ec.issues)
}

// HasErrors reports whether any issue was collected
func (ec *ErrorCollection) HasErrors() bool {
	return len(ec.issues) > 0
}

// Messages returns one human-readable message per issue
func (ec *ErrorCollection) Messages() []string {
	msgs := make([]string, len(ec.issues))
	for i, issue := range ec.issues {
		msgs[i] = issue.Error()
	}
	return msgs
}

// String returns all messages joined with "; "
func (ec *ErrorCollection) String() string {
	return strings.Join(ec.Messages(), "; ")
}
