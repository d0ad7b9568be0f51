package calc

import (
	"context"
	"errors"
	"maps"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/sambeau/cplx/pkg/cplx"
	perrors "github.com/sambeau/cplx/pkg/errors"
	"github.com/sambeau/cplx/pkg/journal"
	"github.com/sambeau/cplx/pkg/logging"
)

// MaxExponent bounds the integer exponent accepted by pow, which is
// evaluated by repeated multiplication.
const MaxExponent = 1 << 20

// AnsToken names the previous complex result in an operand list.
const AnsToken = "ans"

var constants = map[string]float64{
	"pi":  math.Pi,
	"e":   math.E,
	"tau": 2 * math.Pi,
}

// Constants returns the named values accepted in place of a number.
func Constants() map[string]float64 {
	return maps.Clone(constants)
}

// Recorder persists evaluated commands.
type Recorder interface {
	Record(ctx context.Context, e journal.Entry) error
}

// Session evaluates command lines and remembers the last result as `ans`.
// It is safe for concurrent use.
type Session struct {
	mu      sync.Mutex
	display Display
	ans     *Result
	rec     Recorder
	log     *logging.Leveled
}

// Option configures a Session.
type Option func(*Session)

// WithDisplay sets the initial output settings.
func WithDisplay(d Display) Option {
	return func(s *Session) { s.display = d }
}

// WithRecorder records every evaluation, successful or not.
func WithRecorder(r Recorder) Option {
	return func(s *Session) { s.rec = r }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *logging.Leveled) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// NewSession creates a session with the default display and no recorder.
func NewSession(opts ...Option) *Session {
	s := &Session{
		display: DefaultDisplay(),
		log:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Display returns the current output settings.
func (s *Session) Display() Display {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.display
}

// SetDisplay replaces the output settings.
func (s *Session) SetDisplay(d Display) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.display = d
}

// Ans returns the last successful result.
func (s *Session) Ans() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ans == nil {
		return Result{}, false
	}
	return *s.ans, true
}

// Eval parses and runs one command line such as "sum 1 2 3 4". Operands
// are float literals, the constants pi, e and tau (optionally negated), or
// `ans`, which expands to the real and imaginary parts of the previous
// complex result. A failed evaluation leaves `ans` unchanged.
func (s *Session) Eval(ctx context.Context, line string) (Result, error) {
	s.mu.Lock()
	r, err := s.eval(line)
	display := s.display
	s.mu.Unlock()

	s.record(ctx, line, r, err, display)
	return r, err
}

// EvalString is Eval followed by formatting with the session display.
func (s *Session) EvalString(ctx context.Context, line string) (string, error) {
	r, err := s.Eval(ctx, line)
	if err != nil {
		return "", err
	}
	return s.Display().Format(r), nil
}

func (s *Session) eval(line string) (Result, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Result{}, perrors.New("FORMAT-0003", nil)
	}

	op, ok := Lookup(fields[0])
	if !ok {
		return Result{}, perrors.NewUndefinedOperation(fields[0], AllNames())
	}

	args, err := s.operands(fields[1:])
	if err != nil {
		return Result{}, err
	}
	if len(args) != op.Meta.Arity() {
		return Result{}, perrors.New("ARITY-0001", map[string]any{
			"Op":     op.Name,
			"Got":    len(args),
			"Want":   op.Meta.Arity(),
			"Params": strings.Join(op.Meta.Params, " "),
		})
	}

	r, err := op.call(args)
	if err != nil {
		s.log.Debug("eval", op.Name, "failed:", err)
		return Result{}, err
	}
	s.ans = &r
	return r, nil
}

func (s *Session) operands(tokens []string) ([]float64, error) {
	args := make([]float64, 0, len(tokens)+1)
	for _, tok := range tokens {
		if strings.EqualFold(tok, AnsToken) {
			if s.ans == nil {
				return nil, perrors.New("STATE-0001", nil)
			}
			if s.ans.Kind != KindComplex {
				return nil, perrors.New("STATE-0002", nil)
			}
			args = append(args, s.ans.Complex.Real(), s.ans.Complex.Imag())
			continue
		}

		x, err := parseOperand(tok)
		if err != nil {
			return nil, err
		}
		args = append(args, x)
	}
	return args, nil
}

func parseOperand(tok string) (float64, error) {
	name, neg := strings.ToLower(tok), false
	if rest, ok := strings.CutPrefix(name, "-"); ok {
		name, neg = rest, true
	}
	if c, ok := constants[name]; ok {
		if neg {
			return -c, nil
		}
		return c, nil
	}

	x, err := strconv.ParseFloat(tok, 64)
	// Out-of-range literals round to ±Inf or ±0 as in IEEE arithmetic.
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, perrors.New("FORMAT-0001", map[string]any{"Literal": tok})
	}
	return x, nil
}

func callPow(a []float64) (Result, error) {
	n := a[2]
	if n != math.Trunc(n) || math.IsInf(n, 0) {
		return Result{}, perrors.New("FORMAT-0002", map[string]any{
			"Literal": strconv.FormatFloat(n, 'g', -1, 64),
		})
	}
	if math.Abs(n) > MaxExponent {
		return Result{}, perrors.NewForOp("ARG-0003", "pow", map[string]any{
			"N":   strconv.FormatFloat(n, 'f', -1, 64),
			"Max": MaxExponent,
		})
	}
	return complexResult(cplx.Pow(cplx.New(a[0], a[1]), int(n)))
}

func (s *Session) record(ctx context.Context, line string, r Result, err error, d Display) {
	if s.rec == nil {
		return
	}

	e := journal.Entry{Input: strings.TrimSpace(line)}
	if err != nil {
		e.Output = err.Error()
		e.Failed = true
	} else {
		e.Output = d.Format(r)
	}

	if rerr := s.rec.Record(ctx, e); rerr != nil {
		s.log.Warn("journal:", rerr)
	}
}
