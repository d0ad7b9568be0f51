package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sambeau/cplx/pkg/cplx"
	"github.com/sambeau/cplx/pkg/journal"
)

func noEnv(string) string { return "" }

func runCmd(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	err := run(context.Background(), args, strings.NewReader(stdin), stdout, stderr, noEnv)
	return stdout.String(), stderr.String(), err
}

// writeConfig writes a config that keeps the test away from the user's
// history and journal files.
func writeConfig(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "cplx.yaml")
	content := "history:\n  file: none\n" + extra
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestRunVersion(t *testing.T) {
	out, _, err := runCmd(t, "", "--version")
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "cplx version") {
		t.Errorf("expected version output, got %q", out)
	}
}

func TestRunHelp(t *testing.T) {
	out, _, err := runCmd(t, "", "--help")
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	for _, want := range []string{"cplx - A complex number calculator", "--config", "--precision", "describe"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in help, got %q", want, out)
		}
	}
}

func TestRunInvalidFlag(t *testing.T) {
	if _, _, err := runCmd(t, "", "--invalid-flag"); err == nil {
		t.Error("expected error for invalid flag")
	}
}

func TestRunMissingConfig(t *testing.T) {
	_, _, err := runCmd(t, "", "--config", "/nonexistent/cplx.yaml")
	if err == nil {
		t.Fatal("expected error for missing config")
	}
	if !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("expected 'config file not found' error, got %q", err.Error())
	}
}

func TestRunEval(t *testing.T) {
	configPath := writeConfig(t, `
profiles:
  money:
    style: fixed
    precision: 2
`)

	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"sum", []string{"-e", "sum 1 2 3 4"}, "4.0+6.0i\n"},
		{"long flag", []string{"--eval", "divide 4 3 2 2"}, "1.75-0.25i\n"},
		{"real result", []string{"-e", "magnitude 3 4"}, "5.0\n"},
		{"bool result", []string{"-e", "equals 1 2 1 2"}, "true\n"},
		{"fixed", []string{"--style", "fixed", "--precision", "2", "-e", "divide 1 0 3 0"}, "0.33\n"},
		{"locale", []string{"--locale", "de", "--style", "locale", "--precision", "2", "-e", "new 1234.5 0"}, "1.234,5\n"},
		{"profile", []string{"--profile", "money", "-e", "divide 2 0 3 0"}, "0.67\n"},
		{"flag beats profile", []string{"--profile", "money", "--precision", "0", "-e", "real 2.25"}, "2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--config", configPath}, tt.args...)
			out, stderr, err := runCmd(t, "", args...)
			if err != nil {
				t.Fatalf("run failed: %v\nstderr: %s", err, stderr)
			}
			if out != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, out)
			}
		})
	}
}

func TestRunEvalErrors(t *testing.T) {
	configPath := writeConfig(t, "")

	_, _, err := runCmd(t, "", "--config", configPath, "-e", "divide 1 0 0 0")
	if !errors.Is(err, cplx.ErrDivisionByZero) {
		t.Errorf("expected division error, got %v", err)
	}

	_, _, err = runCmd(t, "", "--config", configPath, "--profile", "nope", "-e", "real 1")
	if err == nil || !strings.Contains(err.Error(), "no display profiles") {
		t.Errorf("expected profile error, got %v", err)
	}

	_, _, err = runCmd(t, "", "--config", configPath, "--style", "fancy", "-e", "real 1")
	if err == nil || !strings.Contains(err.Error(), "invalid style: fancy") {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestRunEvalJSON(t *testing.T) {
	configPath := writeConfig(t, "")

	type output struct {
		Input  string `json:"input"`
		Result string `json:"result"`
		Error  *struct {
			Class string `json:"class"`
			Code  string `json:"code"`
			Op    string `json:"op"`
		} `json:"error"`
	}
	decode := func(t *testing.T, s string) output {
		t.Helper()
		var o output
		if err := json.Unmarshal([]byte(s), &o); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, s)
		}
		return o
	}

	out, _, err := runCmd(t, "", "--config", configPath, "--json", "-e", "sum 1 2 3 4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o := decode(t, out); o.Input != "sum 1 2 3 4" || o.Result != "4.0+6.0i" || o.Error != nil {
		t.Errorf("output = %+v", o)
	}

	tests := []struct {
		line      string
		code, op  string
		wantClass string
	}{
		{"divide 1 0 0 0", "DIV-0001", "divide", "division"},
		{"pow 0 0 -2", "DIV-0001", "pow", "division"},
		{"logbase 5 0 1", "DIV-0001", "log", "division"},
		{"sum 1 x 3 4", "FORMAT-0001", "", "format"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			out, _, err := runCmd(t, "", "--config", configPath, "--json", "-e", tt.line)
			if err == nil {
				t.Fatal("expected error exit")
			}
			o := decode(t, out)
			if o.Error == nil {
				t.Fatalf("missing error object: %s", out)
			}
			if o.Error.Code != tt.code || o.Error.Op != tt.op || o.Error.Class != tt.wantClass {
				t.Errorf("error = %+v, want %s/%s/%s", *o.Error, tt.code, tt.op, tt.wantClass)
			}
		})
	}
}

func TestRunPiped(t *testing.T) {
	configPath := writeConfig(t, "")

	out, _, err := runCmd(t, "sum 1 2 3 4\n# comment\nconj ans\n", "--config", configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "4.0+6.0i\n4.0-6.0i\n" {
		t.Errorf("unexpected output %q", out)
	}

	out, _, err = runCmd(t, "real 1\nbogus\nreal 2\n", "--config", configPath)
	if err == nil || err.Error() != "1 command(s) failed" {
		t.Errorf("expected failure count, got %v", err)
	}
	if !strings.HasPrefix(out, "1.0\n") || !strings.HasSuffix(out, "2.0\n") {
		t.Errorf("evaluation should continue after a failure, got %q", out)
	}
}

func TestRunScript(t *testing.T) {
	configPath := writeConfig(t, "")
	script := filepath.Join(t.TempDir(), "calc.txt")
	if err := os.WriteFile(script, []byte("new 0 1\nprod ans ans\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCmd(t, "", "--config", configPath, script)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "1.0i\n-1.0\n" {
		t.Errorf("unexpected output %q", out)
	}

	if _, _, err := runCmd(t, "", "--config", configPath, "/nonexistent/script"); err == nil {
		t.Error("expected error for missing script")
	}
}

func TestJournalCommand(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "journal.db")
	configPath := writeConfig(t, fmt.Sprintf(`
journal:
  enabled: true
  dsn: %s
`, dsn))

	for _, line := range []string{"real 1", "real 2"} {
		if _, _, err := runCmd(t, "", "--config", configPath, "-e", line); err != nil {
			t.Fatalf("eval %q: %v", line, err)
		}
	}
	runCmd(t, "", "--config", configPath, "-e", "foo 1")

	out, _, err := runCmd(t, "", "journal", "--config", configPath, "-n", "2")
	if err != nil {
		t.Fatalf("journal failed: %v", err)
	}
	if !strings.Contains(out, "real 2 = 2.0") || !strings.Contains(out, "foo 1 ! unknown operation: foo") {
		t.Errorf("unexpected journal output:\n%s", out)
	}
	if strings.Contains(out, "real 1") {
		t.Errorf("-n 2 should limit the output:\n%s", out)
	}
	if strings.Index(out, "real 2") > strings.Index(out, "foo 1") {
		t.Errorf("entries should be oldest first:\n%s", out)
	}

	out, _, err = runCmd(t, "", "journal", "--config", configPath, "--json")
	if err != nil {
		t.Fatal(err)
	}
	var entries []journal.Entry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if len(entries) != 3 || entries[0].Input != "foo 1" || !entries[0].Failed {
		t.Errorf("entries = %+v", entries)
	}

	out, _, err = runCmd(t, "", "journal", "--config", configPath, "--clear")
	if err != nil || out != "Cleared 3 entries\n" {
		t.Errorf("clear = %q, %v", out, err)
	}

	out, _, _ = runCmd(t, "", "journal", "--config", configPath)
	if out != "" {
		t.Errorf("journal should be empty, got %q", out)
	}
}

func TestJournalCommandDisabled(t *testing.T) {
	configPath := writeConfig(t, "")
	_, _, err := runCmd(t, "", "journal", "--config", configPath)
	if err == nil || !strings.Contains(err.Error(), "journal is disabled") {
		t.Errorf("expected disabled error, got %v", err)
	}
}

func TestDescribeCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"text", []string{"sin"}, "sin re im"},
		{"json", []string{"--json", "sin"}, `"kind": "operation"`},
		{"markdown", []string{"--md", "arithmetic"}, "| `sum` |"},
		{"html", []string{"--html", "arithmetic"}, "<table>"},
		{"alias", []string{"div"}, "divide re1 im1 re2 im2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := runCmd(t, "", append([]string{"describe"}, tt.args...)...)
			if err != nil {
				t.Fatalf("describe failed: %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("expected %q in output:\n%s", tt.want, out)
			}
		})
	}

	_, stderr, err := runCmd(t, "", "describe")
	if err == nil || !strings.Contains(stderr, "Usage: cplx describe") {
		t.Errorf("expected usage error, got %v / %q", err, stderr)
	}

	if _, _, err := runCmd(t, "", "describe", "sinn"); err == nil || !strings.Contains(err.Error(), "unknown help topic") {
		t.Errorf("expected unknown topic error, got %v", err)
	}
}
