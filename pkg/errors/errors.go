// Package errors provides structured error types for cplx.
//
// This package defines MathError, a single error type used by the numeric
// core and by the calculator front end. Errors are created from a catalog of
// coded message templates so that callers can branch on the class or code
// and front ends can render them consistently.
package errors

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
	"text/template"
)

// ErrorClass categorizes errors for filtering and templating.
type ErrorClass string

const (
	ClassArgument  ErrorClass = "argument"  // Absent or out-of-contract operand
	ClassDivision  ErrorClass = "division"  // Division by the additive identity
	ClassArity     ErrorClass = "arity"     // Wrong operand count
	ClassFormat    ErrorClass = "format"    // Invalid number literal
	ClassUndefined ErrorClass = "undefined" // Unknown operation or topic
	ClassState     ErrorClass = "state"     // Invalid session state
)

// MathError represents any error raised by an operation or the calculator.
type MathError struct {
	Class   ErrorClass     `json:"class"`           // Error category
	Code    string         `json:"code"`            // Error code (e.g., "DIV-0001")
	Message string         `json:"message"`         // Human-readable message
	Hints   []string       `json:"hints,omitempty"` // Suggestions for fixing
	Op      string         `json:"op,omitempty"`    // Operation that failed (if known)
	Data    map[string]any `json:"data,omitempty"`  // Template variables
}

// Error implements the error interface.
func (e *MathError) Error() string {
	return e.String()
}

// String returns a formatted string representation of the error.
func (e *MathError) String() string {
	var sb strings.Builder

	if e.Op != "" {
		sb.WriteString(e.Op)
		sb.WriteString(": ")
	}

	sb.WriteString(e.Message)

	for _, hint := range e.Hints {
		sb.WriteString("\n  ")
		sb.WriteString(hint)
	}

	return sb.String()
}

// PrettyString returns a multi-line formatted string for display.
func (e *MathError) PrettyString() string {
	var sb strings.Builder

	switch e.Class {
	case ClassArgument, ClassDivision:
		sb.WriteString("Math error")
	default:
		sb.WriteString("Input error")
	}

	if e.Op != "" {
		sb.WriteString(" in ")
		sb.WriteString(e.Op)
	}
	sb.WriteString(":\n  ")

	sb.WriteString(e.Message)

	for i, hint := range e.Hints {
		sb.WriteString("\n  ")
		if i == 0 {
			sb.WriteString("Use: ")
		} else {
			sb.WriteString(" or: ")
		}
		sb.WriteString(hint)
	}

	return sb.String()
}

// ToJSON returns the error as JSON bytes.
func (e *MathError) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// WithOp returns a copy of the error with the operation name set.
func (e *MathError) WithOp(op string) *MathError {
	copy := *e
	copy.Op = op
	return &copy
}

// Is reports whether target is a MathError sentinel matching e.
// A sentinel with only a Class matches every error of that class; a sentinel
// with a Code must match the code as well.
func (e *MathError) Is(target error) bool {
	t, ok := target.(*MathError)
	if !ok {
		return false
	}
	if t.Class != e.Class {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

// IsMathError returns true if this error comes from a numeric operation
// rather than from calculator input handling.
func (e *MathError) IsMathError() bool {
	return e.Class == ClassArgument || e.Class == ClassDivision
}

// ErrorDef defines an error in the catalog.
type ErrorDef struct {
	Class    ErrorClass // Error category
	Template string     // Message template with {{.placeholders}}
	Hints    []string   // Hint templates (may use {{.placeholders}})
}

// ErrorCatalog maps error codes to their definitions.
var ErrorCatalog = map[string]ErrorDef{
	// Argument errors (ARG-0xxx)
	"ARG-0001": {
		Class:    ClassArgument,
		Template: "missing operand{{if .Name}} `{{.Name}}`{{end}}",
	},
	"ARG-0002": {
		Class:    ClassArgument,
		Template: "logarithm base must be a positive real number, got {{.Base}}",
	},
	"ARG-0003": {
		Class:    ClassArgument,
		Template: "exponent {{.N}} is out of range",
		Hints:    []string{"integer powers are limited to ±{{.Max}}"},
	},

	// Division errors (DIV-0xxx)
	"DIV-0001": {
		Class:    ClassDivision,
		Template: "division by zero",
		Hints:    []string{"the divisor's real and imaginary parts are both 0"},
	},

	// Arity errors (ARITY-0xxx)
	"ARITY-0001": {
		Class:    ClassArity,
		Template: "wrong number of operands to `{{.Op}}`. got={{.Got}}, want={{.Want}}",
		Hints:    []string{"{{.Op}} {{.Params}}"},
	},

	// Format errors (FORMAT-0xxx)
	"FORMAT-0001": {
		Class:    ClassFormat,
		Template: "invalid number literal: {{.Literal}}",
	},
	"FORMAT-0002": {
		Class:    ClassFormat,
		Template: "invalid integer literal: {{.Literal}}",
	},
	"FORMAT-0003": {
		Class:    ClassFormat,
		Template: "empty command",
		Hints:    []string{"type an operation followed by its operands, e.g. sum 1 2 3 4"},
	},

	// Undefined errors (UNDEF-0xxx)
	"UNDEF-0001": {
		Class:    ClassUndefined,
		Template: "unknown operation: {{.Name}}",
	},
	"UNDEF-0002": {
		Class:    ClassUndefined,
		Template: "unknown help topic: {{.Name}}",
		Hints:    []string{"try: operations, or an operation name such as sin"},
	},

	// State errors (STATE-0xxx)
	"STATE-0001": {
		Class:    ClassState,
		Template: "`ans` has no value yet",
		Hints:    []string{"evaluate an operation that returns a complex number first"},
	},
	"STATE-0002": {
		Class:    ClassState,
		Template: "`ans` holds a real result and cannot be used as a complex operand",
	},
}

// New creates a MathError from a catalog code and template data.
func New(code string, data map[string]any) *MathError {
	def, ok := ErrorCatalog[code]
	if !ok {
		// Unknown code - create a generic error
		msg := code
		if data != nil {
			if m, ok := data["message"].(string); ok {
				msg = m
			}
		}
		return &MathError{
			Class:   ClassState,
			Code:    code,
			Message: msg,
			Data:    data,
		}
	}

	msg := renderTemplate(def.Template, data)

	var hints []string
	for _, hintTmpl := range def.Hints {
		rendered := renderTemplate(hintTmpl, data)
		if rendered != "" {
			hints = append(hints, rendered)
		}
	}

	return &MathError{
		Class:   def.Class,
		Code:    code,
		Message: msg,
		Hints:   hints,
		Data:    data,
	}
}

// NewForOp creates a catalog error and records the failing operation.
func NewForOp(code, op string, data map[string]any) *MathError {
	return New(code, data).WithOp(op)
}

// renderTemplate renders a Go template with the given data.
func renderTemplate(tmplStr string, data map[string]any) string {
	tmpl, err := template.New("").Option("missingkey=zero").Parse(tmplStr)
	if err != nil {
		return tmplStr
	}

	if data == nil {
		data = map[string]any{}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return tmplStr
	}

	return strings.ReplaceAll(buf.String(), "<no value>", "")
}

// ============================================================================
// Fuzzy Matching - "Did you mean?" suggestions
// ============================================================================

// levenshteinDistance computes the edit distance between two strings.
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}

// FuzzyMatch represents a fuzzy match result with its distance.
type FuzzyMatch struct {
	Value    string
	Distance int
}

// suggestionThreshold returns the maximum edit distance worth suggesting.
// Short words (1-3): 1 edit, medium (4-6): 2 edits, longer: 3 edits.
func suggestionThreshold(input string) int {
	switch {
	case len(input) >= 7:
		return 3
	case len(input) >= 4:
		return 2
	default:
		return 1
	}
}

// FindClosestMatch returns the candidate closest to input, or "" when
// nothing is within the suggestion threshold.
func FindClosestMatch(input string, candidates []string) string {
	if len(input) == 0 || len(candidates) == 0 {
		return ""
	}

	inputLower := strings.ToLower(input)

	var bestMatch string
	bestDistance := -1

	for _, candidate := range candidates {
		dist := levenshteinDistance(inputLower, strings.ToLower(candidate))
		if bestDistance == -1 || dist < bestDistance {
			bestDistance = dist
			bestMatch = candidate
		}
	}

	// Don't suggest if distance is 0 (exact match) or over threshold
	if bestDistance <= 0 || bestDistance > suggestionThreshold(input) {
		return ""
	}

	return bestMatch
}

// FindTopMatches returns up to n closest matches to the input.
func FindTopMatches(input string, candidates []string, n int) []string {
	if len(input) == 0 || len(candidates) == 0 || n <= 0 {
		return nil
	}

	inputLower := strings.ToLower(input)

	var matches []FuzzyMatch
	for _, candidate := range candidates {
		dist := levenshteinDistance(inputLower, strings.ToLower(candidate))
		if dist > 0 {
			matches = append(matches, FuzzyMatch{Value: candidate, Distance: dist})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	threshold := suggestionThreshold(input)

	var result []string
	for i := 0; i < len(matches) && i < n; i++ {
		if matches[i].Distance <= threshold {
			result = append(result, matches[i].Value)
		}
	}

	return result
}

// NewUndefinedOperation creates an unknown-operation error with a
// "Did you mean?" hint when a close operation name exists.
func NewUndefinedOperation(name string, available []string) *MathError {
	err := New("UNDEF-0001", map[string]any{"Name": name})

	if suggestion := FindClosestMatch(name, available); suggestion != "" {
		err.Hints = append(err.Hints, "Did you mean `"+suggestion+"`?")
	}

	return err
}

// NewUndefinedTopic creates an unknown-help-topic error with suggestions.
func NewUndefinedTopic(name string, available []string) *MathError {
	err := New("UNDEF-0002", map[string]any{"Name": name})

	for _, m := range FindTopMatches(name, available, 3) {
		err.Hints = append(err.Hints, "Did you mean `"+m+"`?")
	}

	return err
}
