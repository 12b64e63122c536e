package invoice

import (
	"fmt"
	"strings"
)

// FieldError describes one offending field. Line 0 refers to the static section.
type FieldError struct {
	Line    int    `json:"line"`
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

func (e FieldError) String() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// ValidationError lists every field of the raw input that failed validation
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed: " + joinFields(e.Fields)
}

// Messages returns one message per offending field
func (e *ValidationError) Messages() []string {
	return fieldMessages(e.Fields)
}

// MappingError reports values that passed validation but could not be coerced
// while building records
type MappingError struct {
	Fields []FieldError
}

func (e *MappingError) Error() string {
	return "mapping failed: " + joinFields(e.Fields)
}

// Messages returns one message per offending field
func (e *MappingError) Messages() []string {
	return fieldMessages(e.Fields)
}

func fieldMessages(fields []FieldError) []string {
	msgs := make([]string, len(fields))
	for i, f := range fields {
		msgs[i] = f.String()
	}
	return msgs
}

func joinFields(fields []FieldError) string {
	return strings.Join(fieldMessages(fields), "; ")
}
