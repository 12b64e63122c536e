package ocrimport

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// FieldRule defines how one canonical field is checked
type FieldRule struct {
	Field      string
	Required   bool
	Numeric    bool
	Positive   bool
	CustomFunc func(value string) *Issue
}

// FieldRuleBuilder helps build field rules fluently
type FieldRuleBuilder struct {
	rule FieldRule
}

// Field starts a rule for a canonical field name
func Field(name string) *FieldRuleBuilder {
	return &FieldRuleBuilder{rule: FieldRule{Field: name}}
}

// Required marks the field as required
func (b *FieldRuleBuilder) Required() *FieldRuleBuilder {
	b.rule.Required = true
	return b
}

// Numeric requires the value to parse as a decimal (thousands separators allowed)
func (b *FieldRuleBuilder) Numeric() *FieldRuleBuilder {
	b.rule.Numeric = true
	return b
}

// Positive requires a numeric value strictly greater than zero
func (b *FieldRuleBuilder) Positive() *FieldRuleBuilder {
	b.rule.Numeric = true
	b.rule.Positive = true
	return b
}

// Custom adds a check run after the built-in ones
func (b *FieldRuleBuilder) Custom(fn func(value string) *Issue) *FieldRuleBuilder {
	b.rule.CustomFunc = fn
	return b
}

// Build returns the built field rule
func (b *FieldRuleBuilder) Build() FieldRule {
	return b.rule
}

// FieldValidator applies an ordered set of rules to records
type FieldValidator struct {
	rules []FieldRule
}

// NewFieldValidator creates a validator; issues are reported in rule order
func NewFieldValidator(rules ...FieldRule) *FieldValidator {
	return &FieldValidator{rules: rules}
}

// Validate checks rec against every rule, adding one issue per failing field to
// errs. It returns false when rec produced at least one issue.
func (v *FieldValidator) Validate(rec Record, errs *ErrorCollection) bool {
	before := errs.Len()
	for _, rule := range v.rules {
		value := rec.Get(rule.Field)
		if value == "" {
			if rule.Required {
				errs.AddRequired(rec.Line, rule.Field)
			}
			continue
		}

		if rule.Numeric {
			d, err := ParseNumber(value)
			if err != nil {
				errs.AddInvalidNumber(rec.Line, rule.Field, value)
				continue
			}
			if rule.Positive && !d.IsPositive() {
				errs.AddNotPositive(rec.Line, rule.Field, value)
				continue
			}
		}

		if rule.CustomFunc != nil {
			if issue := rule.CustomFunc(value); issue != nil {
				issue.Line = rec.Line
				if issue.Field == "" {
					issue.Field = rule.Field
				}
				errs.Add(*issue)
			}
		}
	}
	return errs.Len() == before
}

// Bounds on parsed numbers. Stored columns are DECIMAL(18,x).
const (
	MaxExponent = 30
	MaxDigits   = 38
)

// ErrNumberOutOfRange is returned for values beyond MaxDigits or MaxExponent
var ErrNumberOutOfRange = errors.New("number out of range")

// ParseNumber parses an OCR numeric string. Thousands separators and
// surrounding whitespace are ignored. Scientific notation is accepted within
// MaxExponent.
func ParseNumber(s string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if len(cleaned) > MaxDigits+MaxExponent {
		return decimal.Zero, ErrNumberOutOfRange
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, err
	}
	if exp := d.Exponent(); exp > MaxExponent || exp < -MaxExponent {
		return decimal.Zero, ErrNumberOutOfRange
	}
	if d.NumDigits() > MaxDigits {
		return decimal.Zero, ErrNumberOutOfRange
	}
	return d, nil
}

// ParseRate parses a percentage such as "18", "18%" or "18.00 %".
func ParseRate(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	return ParseNumber(cleaned)
}
