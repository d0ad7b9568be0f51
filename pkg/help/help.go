// Package help describes the calculator's operations and constants,
// accessible via the CLI (`cplx describe`) and the REPL (`:describe`).
package help

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sambeau/cplx/pkg/calc"
	perrors "github.com/sambeau/cplx/pkg/errors"
)

// TopicResult represents the help output for a topic
type TopicResult struct {
	Kind        string           `json:"kind"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Usage       string           `json:"usage,omitempty"`
	Params      []string         `json:"params,omitempty"`
	Aliases     []string         `json:"aliases,omitempty"`
	Category    string           `json:"category,omitempty"`
	Operations  []OperationEntry `json:"operations,omitempty"`
	Constants   []ConstantEntry  `json:"constants,omitempty"`
}

// OperationEntry is one row of an operation listing
type OperationEntry struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Params      []string `json:"params"`
	Aliases     []string `json:"aliases,omitempty"`
	Description string   `json:"description"`
}

// ConstantEntry is a named value usable as an operand
type ConstantEntry struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Result kinds
const (
	KindOperation     = "operation"
	KindOperationList = "operation-list"
	KindConstantList  = "constant-list"
)

// DescribeTopic returns help information for the given topic.
// Topics can be: an operation name or alias (sin, add), a category
// (arithmetic), or one of the keywords operations and constants.
func DescribeTopic(topic string) (*TopicResult, error) {
	topic = strings.ToLower(strings.TrimSpace(topic))
	if topic == "" {
		return nil, fmt.Errorf("no topic specified (try: operations, constants, arithmetic, sin)")
	}

	switch topic {
	case "operations":
		return describeOperations("operations", ""), nil
	case "constants":
		return describeConstants(), nil
	}

	if slices.Contains(calc.Categories(), topic) {
		return describeOperations(topic, topic), nil
	}

	if op, ok := calc.Lookup(topic); ok {
		return describeOperation(op), nil
	}

	return nil, perrors.NewUndefinedTopic(topic, Topics())
}

// Topics returns every topic DescribeTopic accepts.
func Topics() []string {
	topics := []string{"operations", "constants"}
	topics = append(topics, calc.Categories()...)
	return append(topics, calc.AllNames()...)
}

func describeOperation(op *calc.Operation) *TopicResult {
	return &TopicResult{
		Kind:        KindOperation,
		Name:        op.Name,
		Description: op.Meta.Description,
		Usage:       op.Meta.Usage(op.Name),
		Params:      op.Meta.Params,
		Aliases:     op.Meta.Aliases,
		Category:    op.Meta.Category,
	}
}

// describeOperations lists operations, optionally limited to a category
func describeOperations(name, category string) *TopicResult {
	var entries []OperationEntry
	for _, op := range calc.Operations() {
		if category != "" && op.Meta.Category != category {
			continue
		}
		entries = append(entries, OperationEntry{
			Name:        op.Name,
			Category:    op.Meta.Category,
			Params:      op.Meta.Params,
			Aliases:     op.Meta.Aliases,
			Description: op.Meta.Description,
		})
	}

	return &TopicResult{
		Kind:       KindOperationList,
		Name:       name,
		Category:   category,
		Operations: entries,
	}
}

func describeConstants() *TopicResult {
	values := calc.Constants()
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	slices.Sort(names)

	entries := make([]ConstantEntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, ConstantEntry{Name: name, Value: values[name]})
	}

	return &TopicResult{
		Kind:        KindConstantList,
		Name:        "constants",
		Description: "Names accepted in place of a number, optionally negated (-pi). `ans` expands to the previous complex result.",
		Constants:   entries,
	}
}
