package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/sambeau/cplx/config"
	"github.com/sambeau/cplx/pkg/calc"
	perrors "github.com/sambeau/cplx/pkg/errors"
	"github.com/sambeau/cplx/pkg/help"
	"github.com/sambeau/cplx/pkg/journal"
	"github.com/sambeau/cplx/pkg/logging"
	"github.com/sambeau/cplx/pkg/repl"
)

// Version is set at build time via -ldflags
var Version = "0.1.0-dev"

// unsetPrecision marks the -precision flag as not given.
const unsetPrecision = -2

func main() {
	ctx := context.Background()
	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, os.Getenv); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main entry point, designed for testability (Mat Ryer pattern)
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, getenv func(string) string) error {
	// Check for subcommands first (before flag parsing)
	if len(args) > 0 {
		switch args[0] {
		case "describe":
			return describeCommand(args[1:], stdout, stderr)
		case "journal":
			return journalCommand(ctx, args[1:], stdout, stderr, getenv)
		}
	}

	flags := flag.NewFlagSet("cplx", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() { printUsage(stderr) }

	var (
		configPath  = flags.String("config", "", "Path to config file")
		evalLine    = flags.String("e", "", "Evaluate one command")
		evalLong    = flags.String("eval", "", "Evaluate one command")
		locale      = flags.String("locale", "", "Number locale (en, de, fr-CH, ...)")
		precision   = flags.Int("precision", unsetPrecision, "Fraction digits (-1 for as many as needed)")
		style       = flags.String("style", "", "Output style: plain, fixed, or locale")
		profile     = flags.String("profile", "", "Display profile from the config file")
		jsonOutput  = flags.Bool("json", false, "Print -e results and errors as JSON")
		showVersion = flags.Bool("version", false, "Show version")
		showHelp    = flags.Bool("help", false, "Show help")
	)

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if *showHelp {
		printUsage(stdout)
		return nil
	}

	if *showVersion {
		fmt.Fprintf(stdout, "cplx version %s\n", Version)
		return nil
	}

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, configFile, err := config.LoadWithPath(*configPath, getenv)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	overrides := displayOverrides{profile: *profile, locale: *locale, precision: *precision, style: *style}
	if err := overrides.apply(cfg); err != nil {
		return err
	}

	// Full validation after CLI overrides applied
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	log, closeLog, err := openLogger(cfg.Logging, stdout, stderr)
	if err != nil {
		return err
	}
	defer closeLog.Close()

	for _, w := range config.Warnings(cfg) {
		log.Warn(w)
	}

	display, err := calc.DisplayFromConfig(cfg.Display)
	if err != nil {
		return err
	}

	opts := []calc.Option{calc.WithDisplay(display), calc.WithLogger(log)}
	var replOpts []repl.Option

	if cfg.Journal.Enabled {
		j, err := openJournal(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer j.Close()
		opts = append(opts, calc.WithRecorder(j))
		replOpts = append(replOpts, repl.WithHistory(j))
	}

	session := calc.NewSession(opts...)

	// Inline evaluation mode
	line := *evalLine
	if line == "" {
		line = *evalLong
	}
	if line != "" {
		if *jsonOutput {
			return evalJSON(ctx, session, line, stdout)
		}
		result, err := session.EvalString(ctx, line)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, result)
		return nil
	}

	replOpts = append(replOpts,
		repl.WithHistoryFile(cfg.HistoryPath()),
		repl.WithVersion(Version),
		repl.WithLogger(log),
	)
	r := repl.New(session, replOpts...)

	// Script files, then piped input, then the interactive REPL
	if files := flags.Args(); len(files) > 0 {
		return runScripts(ctx, r, files, stdout)
	}

	if f, ok := stdin.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		return reportFailures(r.Run(ctx, stdin, stdout))
	}

	if configFile != "" {
		w, err := config.Watch(ctx, configFile, getenv, func(c *config.Config) {
			// Reloads keep the profile and flags given on the command line
			if err := overrides.apply(c); err != nil {
				log.Warn("config reload:", err)
				return
			}
			r.ApplyConfig(c)
		}, log)
		if err != nil {
			log.Warn("not watching config:", err)
		} else {
			defer w.Close()
		}
	}

	return r.Start(ctx, stdout)
}

// evalOutput is the --json form of a single evaluation.
type evalOutput struct {
	Input  string          `json:"input"`
	Result string          `json:"result,omitempty"`
	Error  json.RawMessage `json:"error,omitempty"`
}

// evalJSON evaluates line and writes one JSON object to stdout. A failed
// evaluation is still written, and its error is returned for the exit status.
func evalJSON(ctx context.Context, session *calc.Session, line string, stdout io.Writer) error {
	out := evalOutput{Input: line}
	result, evalErr := session.EvalString(ctx, line)
	if evalErr != nil {
		var mathErr *perrors.MathError
		if !errors.As(evalErr, &mathErr) {
			return evalErr
		}
		data, err := mathErr.ToJSON()
		if err != nil {
			return err
		}
		out.Error = data
	} else {
		out.Result = result
	}

	data, err := json.Marshal(out)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, string(data))
	return evalErr
}

// displayOverrides are the display settings given on the command line.
type displayOverrides struct {
	profile   string
	locale    string
	precision int
	style     string
}

func (o displayOverrides) apply(cfg *config.Config) error {
	if o.profile != "" {
		if err := config.ApplyProfile(cfg, o.profile); err != nil {
			return err
		}
	}
	if o.locale != "" {
		cfg.Display.Locale = o.locale
	}
	if o.precision != unsetPrecision {
		p := o.precision
		cfg.Display.Precision = &p
	}
	if o.style != "" {
		cfg.Display.Style = o.style
	}
	return nil
}

func openLogger(lc config.LoggingConfig, stdout, stderr io.Writer) (*logging.Leveled, io.Closer, error) {
	level, err := logging.ParseLevel(lc.Level)
	if err != nil {
		return nil, nil, err
	}

	var out logging.Logger
	var closer io.Closer = nopCloser{}
	switch lc.Output {
	case "", "stderr":
		out = logging.WriterLogger(stderr)
	case "stdout":
		out = logging.WriterLogger(stdout)
	default:
		out, closer, err = logging.Open(lc.Output)
		if err != nil {
			return nil, nil, err
		}
	}
	return logging.NewLeveled(out, level), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func openJournal(ctx context.Context, cfg *config.Config, log *logging.Leveled) (*journal.Journal, error) {
	j, err := journal.Open(ctx, journal.Config{
		Driver:     cfg.Journal.Driver,
		DSN:        cfg.JournalDSN(),
		MaxEntries: cfg.Journal.MaxEntries,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	return j, nil
}

func runScripts(ctx context.Context, r *repl.REPL, files []string, stdout io.Writer) error {
	total := 0
	for _, name := range files {
		f, err := os.Open(name)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		failed, err := r.Run(ctx, f, stdout)
		f.Close()
		if err != nil {
			return fmt.Errorf("reading %s: %w", name, err)
		}
		total += failed
	}
	return reportFailures(total, nil)
}

func reportFailures(failed int, err error) error {
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d command(s) failed", failed)
	}
	return nil
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `cplx - A complex number calculator

Usage:
  cplx [options]                      Start the interactive REPL
  cplx [options] <script>...          Run commands from files, one per line
  cplx -e "<operation> <operands>"    Evaluate one command
  cplx describe [--json|--md|--html] <topic>
  cplx journal [--config PATH] [-n N] [--json] [--clear]

Options:
  --config PATH      Path to config file (default: auto-detect)
  -e, --eval CMD     Evaluate one command and print the result
  --locale TAG       Number locale (en, de, fr-CH, ...)
  --precision N      Fraction digits; -1 prints as many as needed
  --style STYLE      Output style: plain, fixed, or locale
  --profile NAME     Use a display profile from the config file
  --json             With -e, print the result or error as JSON
  --version          Show version
  --help             Show this help

Config Resolution:
  1. --config flag
  2. %s environment variable
  3. ./cplx.yaml
  4. ~/.config/cplx/cplx.yaml

Examples:
  cplx -e "sum 1 2 3 4"                 4.0+6.0i
  cplx -e "divide 4 3 2 2"              1.75-0.25i
  cplx --style fixed --precision 3 -e "sqrt -1 0"
  cplx --locale de --style locale -e "new 1234.5 -2"
  cplx describe trigonometric
  cplx journal -n 20

`, config.EnvConfigPath)
}

// describeCommand implements the 'cplx describe <topic>' subcommand
func describeCommand(args []string, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("describe", flag.ContinueOnError)
	flags.SetOutput(stderr)
	var (
		jsonOutput = flags.Bool("json", false, "Output JSON")
		mdOutput   = flags.Bool("md", false, "Output Markdown")
		htmlOutput = flags.Bool("html", false, "Output HTML")
	)
	if err := flags.Parse(args); err != nil {
		return err
	}

	topic := strings.Join(flags.Args(), " ")
	if topic == "" {
		fmt.Fprintln(stderr, `Usage: cplx describe [--json|--md|--html] <topic>

Topics:
  operations         List all operations by category
  constants          List the named constants
  <category>         List one category (arithmetic, trigonometric, ...)
  <operation>        Help for a specific operation (sin, divide, pow, ...)`)
		return errors.New("no topic specified")
	}

	result, err := help.DescribeTopic(topic)
	if err != nil {
		return err
	}

	switch {
	case *jsonOutput:
		data, err := help.FormatJSON(result)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, string(data))
	case *mdOutput:
		io.WriteString(stdout, help.FormatMarkdown(result))
	case *htmlOutput:
		data, err := help.FormatHTML(result)
		if err != nil {
			return err
		}
		stdout.Write(data)
	default:
		io.WriteString(stdout, help.FormatText(result, 80))
	}
	return nil
}

// journalCommand implements the 'cplx journal' subcommand
func journalCommand(ctx context.Context, args []string, stdout, stderr io.Writer, getenv func(string) string) error {
	flags := flag.NewFlagSet("journal", flag.ContinueOnError)
	flags.SetOutput(stderr)
	var (
		configPath = flags.String("config", "", "Path to config file")
		limit      = flags.Int("n", 20, "Number of entries to show")
		jsonOutput = flags.Bool("json", false, "Output JSON")
		clearAll   = flags.Bool("clear", false, "Delete all entries")
	)
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath, getenv)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if !cfg.Journal.Enabled {
		return errors.New("the journal is disabled (set journal.enabled in cplx.yaml)")
	}

	log, closeLog, err := openLogger(cfg.Logging, stdout, stderr)
	if err != nil {
		return err
	}
	defer closeLog.Close()

	j, err := openJournal(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer j.Close()

	if *clearAll {
		n, err := j.Count(ctx)
		if err != nil {
			return err
		}
		if err := j.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Cleared %d entries\n", n)
		return nil
	}

	entries, err := j.Recent(ctx, *limit)
	if err != nil {
		return err
	}

	if *jsonOutput {
		if entries == nil {
			entries = []journal.Entry{}
		}
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, string(data))
		return nil
	}

	// Oldest first
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		marker := "="
		if e.Failed {
			marker = "!"
		}
		output, _, _ := strings.Cut(e.Output, "\n")
		fmt.Fprintf(stdout, "%4d  %s  %s %s %s\n", e.ID, e.Time.Format("2006-01-02 15:04:05"), e.Input, marker, output)
	}
	return nil
}
