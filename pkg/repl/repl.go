// Package repl is the interactive calculator loop.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/sambeau/cplx/pkg/calc"
	"github.com/sambeau/cplx/pkg/journal"
	"github.com/sambeau/cplx/pkg/logging"
)

const PROMPT = "ℂ> "

const LOGO = `
█▀▀ █▀█ █░░ ▀▄▀
█▄▄ █▀▀ █▄▄ █░█ `

// DefaultHistoryLimit is the number of journal entries :history shows.
const DefaultHistoryLimit = 10

// REPL commands for tab completion
var commandWords = []string{
	":help", ":describe", ":history", ":precision", ":locale", ":style", ":settings", ":ans",
}

// History reads back evaluated commands.
type History interface {
	Recent(ctx context.Context, limit int) ([]journal.Entry, error)
}

// REPL evaluates calculator commands from a terminal or a reader.
type REPL struct {
	session     *calc.Session
	history     History
	historyFile string
	version     string
	log         *logging.Leveled
}

// Option configures a REPL.
type Option func(*REPL)

// WithHistory enables :history.
func WithHistory(h History) Option {
	return func(r *REPL) { r.history = h }
}

// WithHistoryFile persists line-editing history. An empty path disables it.
func WithHistoryFile(path string) Option {
	return func(r *REPL) { r.historyFile = path }
}

// WithVersion sets the version shown in the banner.
func WithVersion(v string) Option {
	return func(r *REPL) { r.version = v }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *logging.Leveled) Option {
	return func(r *REPL) {
		if l != nil {
			r.log = l
		}
	}
}

// New creates a REPL around session.
func New(session *calc.Session, opts ...Option) *REPL {
	r := &REPL{session: session, log: logging.Discard()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start runs the REPL with line editing, history, and tab completion
// until exit, Ctrl+D, or ctx is done.
func (r *REPL) Start(ctx context.Context, out io.Writer) error {
	line := liner.NewLiner()
	defer line.Close()

	// Enable Ctrl+C to abort current line
	line.SetCtrlCAborts(true)
	line.SetCompleter(filterCompletions)

	if r.historyFile != "" {
		if f, err := os.Open(r.historyFile); err == nil {
			line.ReadHistory(f)
			f.Close()
		}

		// Save history on exit
		defer func() {
			f, err := os.Create(r.historyFile)
			if err != nil {
				r.log.Warn("saving history:", err)
				return
			}
			line.WriteHistory(f)
			f.Close()
		}()
	}

	fmt.Fprintf(out, "%s", LOGO)
	if r.version != "" {
		fmt.Fprintln(out, "v", r.version)
	}
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Type 'exit' or Ctrl+D to quit")
	fmt.Fprintln(out, "Use Tab for completion, ↑↓ for history")
	fmt.Fprintln(out, "Type ':help' for REPL commands")
	fmt.Fprintln(out, "")

	for {
		if ctx.Err() != nil {
			return nil
		}

		input, err := line.Prompt(PROMPT)
		if err != nil {
			if err == liner.ErrPromptAborted {
				fmt.Fprintln(out, "^C")
				continue
			}
			if err == io.EOF {
				// Ctrl+D - exit
				fmt.Fprintln(out, "\nGoodbye!")
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		}

		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}

		if quit, _ := r.handleLine(ctx, input, out); quit {
			fmt.Fprintln(out, "Goodbye!")
			return nil
		}
	}
}

// Run evaluates one command per line from in, without prompts, until EOF
// or exit. It returns an error only when reading fails; the number of
// lines that failed to evaluate is reported through failed.
func (r *REPL) Run(ctx context.Context, in io.Reader, out io.Writer) (failed int, err error) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return failed, ctx.Err()
		}
		text := scanner.Text()
		if isComment(text) {
			continue
		}
		quit, ok := r.handleLine(ctx, text, out)
		if !ok {
			failed++
		}
		if quit {
			break
		}
	}
	return failed, scanner.Err()
}

// isComment reports whether a scripted line should be skipped.
func isComment(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "#")
}
