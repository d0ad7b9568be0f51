package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"github.com/sambeau/cplx/config"
	"github.com/sambeau/cplx/pkg/calc"
	perrors "github.com/sambeau/cplx/pkg/errors"
	"github.com/sambeau/cplx/pkg/help"
)

// handleLine evaluates one line of input. quit is true for exit and quit;
// ok is false when the line failed.
func (r *REPL) handleLine(ctx context.Context, input string, out io.Writer) (quit, ok bool) {
	trimmed := strings.TrimSpace(input)
	switch {
	case trimmed == "":
		return false, true
	case trimmed == "exit" || trimmed == "quit":
		return true, true
	case strings.HasPrefix(trimmed, ":"):
		return false, r.handleCommand(ctx, trimmed, out)
	}

	result, err := r.session.EvalString(ctx, trimmed)
	if err != nil {
		printError(out, err)
		return false, false
	}
	fmt.Fprintln(out, result)
	return false, true
}

// handleCommand handles REPL meta-commands that start with ':'
func (r *REPL) handleCommand(ctx context.Context, cmd string, out io.Writer) bool {
	fields := strings.Fields(cmd)
	name, args := fields[0], fields[1:]

	switch name {
	case ":help", ":h", ":?":
		fmt.Fprintln(out, "REPL Commands:")
		fmt.Fprintln(out, "  :help, :h, :?         Show this help")
		fmt.Fprintln(out, "  :describe [topic]     Describe an operation, category, or 'constants'")
		fmt.Fprintln(out, "  :history [n]          Show the last n journal entries")
		fmt.Fprintln(out, "  :precision n          Set fraction digits (-1 for as many as needed)")
		fmt.Fprintln(out, "  :locale tag           Set the number locale (en, de, fr-CH, ...)")
		fmt.Fprintln(out, "  :style s              Set the output style (plain, fixed, locale)")
		fmt.Fprintln(out, "  :settings             Show the display settings")
		fmt.Fprintln(out, "  :ans                  Show the previous result")
		fmt.Fprintln(out, "  exit, quit            Exit the REPL")
		fmt.Fprintln(out, "")
		fmt.Fprintln(out, "Commands:")
		fmt.Fprintln(out, "  <operation> <operands...>, e.g. sum 1 2 3 4, sin ans, pow 1 1 8")
		return true

	case ":describe", ":d":
		topic := "operations"
		if len(args) > 0 {
			topic = strings.Join(args, " ")
		}
		result, err := help.DescribeTopic(topic)
		if err != nil {
			printError(out, err)
			return false
		}
		io.WriteString(out, help.FormatText(result, 80))
		return true

	case ":history":
		return r.showHistory(ctx, args, out)

	case ":precision":
		if len(args) != 1 {
			fmt.Fprintln(out, "Usage: :precision n")
			return false
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < -1 || n > config.MaxPrecision {
			fmt.Fprintf(out, "Invalid precision: %s (must be -1 to %d)\n", args[0], config.MaxPrecision)
			return false
		}
		d := r.session.Display()
		d.Precision = n
		// Plain output ignores precision
		if d.Style == calc.StylePlain && n >= 0 {
			d.Style = calc.StyleFixed
		}
		r.session.SetDisplay(d)
		printSettings(out, d)
		return true

	case ":locale":
		if len(args) != 1 {
			fmt.Fprintln(out, "Usage: :locale tag")
			return false
		}
		tag, err := language.Parse(args[0])
		if err != nil {
			fmt.Fprintf(out, "Invalid locale: %s\n", args[0])
			return false
		}
		d := r.session.Display()
		d.Locale = tag
		d.Style = calc.StyleLocale
		r.session.SetDisplay(d)
		printSettings(out, d)
		return true

	case ":style":
		if len(args) != 1 {
			fmt.Fprintln(out, "Usage: :style plain|fixed|locale")
			return false
		}
		style, err := calc.ParseStyle(args[0])
		if err != nil {
			fmt.Fprintln(out, err)
			return false
		}
		d := r.session.Display()
		d.Style = style
		r.session.SetDisplay(d)
		printSettings(out, d)
		return true

	case ":settings":
		printSettings(out, r.session.Display())
		return true

	case ":ans":
		ans, ok := r.session.Ans()
		if !ok {
			fmt.Fprintln(out, "(no result yet)")
			return true
		}
		fmt.Fprintln(out, r.session.Display().Format(ans))
		return true

	default:
		fmt.Fprintf(out, "Unknown command: %s (type :help for commands)\n", name)
		return false
	}
}

func (r *REPL) showHistory(ctx context.Context, args []string, out io.Writer) bool {
	if r.history == nil {
		fmt.Fprintln(out, "The journal is disabled (set journal.enabled in cplx.yaml)")
		return false
	}

	limit := DefaultHistoryLimit
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			fmt.Fprintln(out, "Usage: :history [n]")
			return false
		}
		limit = n
	}

	entries, err := r.history.Recent(ctx, limit)
	if err != nil {
		fmt.Fprintf(out, "Error reading journal: %v\n", err)
		return false
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "(journal is empty)")
		return true
	}

	// Oldest first, like a terminal scrollback
	slices.Reverse(entries)
	for _, e := range entries {
		marker := "="
		if e.Failed {
			marker = "!"
		}
		output, _, _ := strings.Cut(e.Output, "\n")
		fmt.Fprintf(out, "  %s  %s %s %s\n", e.Time.Format("2006-01-02 15:04:05"), e.Input, marker, output)
	}
	return true
}

func printSettings(out io.Writer, d calc.Display) {
	fmt.Fprintf(out, "Style: %s, locale: %s, precision: %d\n", d.Style, d.Locale, d.Precision)
}

// printError prints calculator errors with structured formatting
func printError(out io.Writer, err error) {
	var me *perrors.MathError
	if errors.As(err, &me) {
		io.WriteString(out, me.PrettyString())
		io.WriteString(out, "\n")
		return
	}
	fmt.Fprintf(out, "Error: %v\n", err)
}

// ApplyConfig replaces the display settings with those in cfg. The
// current settings are kept when cfg's display section is invalid.
func (r *REPL) ApplyConfig(cfg *config.Config) error {
	d, err := calc.DisplayFromConfig(cfg.Display)
	if err != nil {
		r.log.Warn("ignoring display settings:", err)
		return err
	}
	r.session.SetDisplay(d)
	r.log.Info("display settings applied:", d.Style, d.Locale, d.Precision)
	return nil
}

// filterCompletions completes the word under the cursor: operation names
// first, then constants and ans for operands, and REPL commands after ':'.
func filterCompletions(line string) []string {
	// Don't complete if line is empty or only whitespace
	if strings.TrimSpace(line) == "" {
		return nil
	}

	// Don't complete if line ends with whitespace (including tabs from pasting)
	if line[len(line)-1] == ' ' || line[len(line)-1] == '\t' {
		return nil
	}

	words := strings.Fields(line)
	lastWord := words[len(words)-1]
	prefix := line[:len(line)-len(lastWord)]

	var candidates []string
	switch {
	case len(words) == 1 && strings.HasPrefix(lastWord, ":"):
		candidates = commandWords
	case len(words) == 1:
		candidates = append(calc.AllNames(), "exit", "quit")
		slices.Sort(candidates)
	default:
		for name := range calc.Constants() {
			candidates = append(candidates, name)
		}
		candidates = append(candidates, calc.AnsToken)
		slices.Sort(candidates)
	}

	var matches []string
	for _, word := range candidates {
		if strings.HasPrefix(word, strings.ToLower(lastWord)) {
			matches = append(matches, prefix+word)
		}
	}
	return matches
}
