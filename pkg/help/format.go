package help

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Category display names
var categoryNames = map[string]string{
	"construction":  "Construction",
	"arithmetic":    "Arithmetic",
	"complex":       "Complex",
	"exponential":   "Exponential & Logarithmic",
	"trigonometric": "Trigonometric",
	"comparison":    "Comparison",
}

func categoryTitle(cat string) string {
	if name, ok := categoryNames[cat]; ok {
		return name
	}
	if cat == "" {
		return "Other"
	}
	return strings.ToUpper(cat[:1]) + cat[1:]
}

// FormatText formats a TopicResult for terminal output with the given width
func FormatText(result *TopicResult, width int) string {
	if width <= 0 {
		width = 80
	}

	var sb strings.Builder

	switch result.Kind {
	case KindOperation:
		formatOperationText(&sb, result)
	case KindOperationList:
		formatOperationListText(&sb, result, width)
	case KindConstantList:
		formatConstantListText(&sb, result)
	default:
		fmt.Fprintf(&sb, "Unknown result kind: %s\n", result.Kind)
	}

	return sb.String()
}

// FormatJSON formats a TopicResult as JSON
func FormatJSON(result *TopicResult) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}

// formatOperationText formats a single operation's help output
func formatOperationText(sb *strings.Builder, result *TopicResult) {
	fmt.Fprintf(sb, "%s\n\n", result.Usage)
	fmt.Fprintf(sb, "%s\n\n", result.Description)
	fmt.Fprintf(sb, "Operands: %d\n", len(result.Params))
	fmt.Fprintf(sb, "Category: %s\n", result.Category)
	if len(result.Aliases) > 0 {
		fmt.Fprintf(sb, "Aliases: %s\n", strings.Join(result.Aliases, ", "))
	}
}

// formatOperationListText groups operations by category, aligning
// descriptions and truncating them to width
func formatOperationListText(sb *strings.Builder, result *TopicResult, width int) {
	title := "Operations"
	if result.Category != "" {
		title = categoryTitle(result.Category) + " Operations"
	}
	fmt.Fprintf(sb, "%s\n%s\n\n", title, strings.Repeat("=", len(title)))

	maxLen := 0
	for _, op := range result.Operations {
		if n := len(usage(op)); n > maxLen {
			maxLen = n
		}
	}

	current := ""
	for i, op := range result.Operations {
		if i == 0 || op.Category != current {
			if i > 0 {
				sb.WriteString("\n")
			}
			current = op.Category
			fmt.Fprintf(sb, "%s:\n", categoryTitle(current))
		}

		display := usage(op)
		padding := strings.Repeat(" ", maxLen-len(display)+2)
		desc := op.Description
		if len(op.Aliases) > 0 {
			desc += " (" + strings.Join(op.Aliases, ", ") + ")"
		}
		if room := width - 2 - maxLen - 2; room > 3 && len([]rune(desc)) > room {
			desc = string([]rune(desc)[:room-3]) + "..."
		}
		fmt.Fprintf(sb, "  %s%s%s\n", display, padding, desc)
	}

	sb.WriteString("\nUse 'cplx describe <operation>' for details on a specific operation.\n")
}

func formatConstantListText(sb *strings.Builder, result *TopicResult) {
	sb.WriteString("Constants\n=========\n\n")
	for _, c := range result.Constants {
		fmt.Fprintf(sb, "  %-4s %s\n", c.Name, formatValue(c.Value))
	}
	if result.Description != "" {
		fmt.Fprintf(sb, "\n%s\n", result.Description)
	}
}

func usage(op OperationEntry) string {
	if len(op.Params) == 0 {
		return op.Name
	}
	return op.Name + " " + strings.Join(op.Params, " ")
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// FormatMarkdown renders a TopicResult as GitHub-flavoured Markdown
func FormatMarkdown(result *TopicResult) string {
	var sb strings.Builder

	switch result.Kind {
	case KindOperation:
		fmt.Fprintf(&sb, "# %s\n\n", result.Name)
		fmt.Fprintf(&sb, "```\n%s\n```\n\n", result.Usage)
		fmt.Fprintf(&sb, "%s\n\n", result.Description)
		fmt.Fprintf(&sb, "- **Category:** %s\n", categoryTitle(result.Category))
		if len(result.Aliases) > 0 {
			fmt.Fprintf(&sb, "- **Aliases:** %s\n", codeList(result.Aliases))
		}

	case KindOperationList:
		title := "Operations"
		if result.Category != "" {
			title = categoryTitle(result.Category) + " Operations"
		}
		fmt.Fprintf(&sb, "# %s\n", title)

		current := ""
		for i, op := range result.Operations {
			if i == 0 || op.Category != current {
				current = op.Category
				fmt.Fprintf(&sb, "\n## %s\n\n", categoryTitle(current))
				sb.WriteString("| Operation | Operands | Aliases | Description |\n")
				sb.WriteString("|-----------|----------|---------|-------------|\n")
			}
			fmt.Fprintf(&sb, "| `%s` | %s | %s | %s |\n",
				op.Name, strings.Join(op.Params, " "), codeList(op.Aliases), escapeCell(op.Description))
		}

	case KindConstantList:
		sb.WriteString("# Constants\n\n")
		sb.WriteString("| Name | Value |\n")
		sb.WriteString("|------|-------|\n")
		for _, c := range result.Constants {
			fmt.Fprintf(&sb, "| `%s` | %s |\n", c.Name, formatValue(c.Value))
		}
		if result.Description != "" {
			fmt.Fprintf(&sb, "\n%s\n", result.Description)
		}

	default:
		fmt.Fprintf(&sb, "Unknown result kind: %s\n", result.Kind)
	}

	return sb.String()
}

// FormatHTML renders the Markdown form of a TopicResult to HTML
func FormatHTML(result *TopicResult) ([]byte, error) {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
		),
	)

	var buf bytes.Buffer
	if err := md.Convert([]byte(FormatMarkdown(result)), &buf); err != nil {
		return nil, fmt.Errorf("rendering help: %w", err)
	}
	return buf.Bytes(), nil
}

func codeList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = "`" + s + "`"
	}
	return strings.Join(quoted, ", ")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
