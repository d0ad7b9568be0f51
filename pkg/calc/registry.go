// Package calc exposes the complex-number operations as named commands.
//
// Each operation is registered with metadata (category, operand names,
// description) used by the help system and the REPL, and a call adapter
// that receives the already-parsed float64 operands.
package calc

import (
	"slices"
	"strings"

	"github.com/sambeau/cplx/pkg/cplx"
)

// OperationMeta describes an operation for help and introspection.
type OperationMeta struct {
	Category    string   `json:"category"`
	Params      []string `json:"params"`
	Description string   `json:"description"`
	Aliases     []string `json:"aliases,omitempty"`
}

// Arity is the number of float operands the operation takes.
func (m OperationMeta) Arity() int {
	return len(m.Params)
}

// Usage returns "name p1 p2 ...".
func (m OperationMeta) Usage(name string) string {
	if len(m.Params) == 0 {
		return name
	}
	return name + " " + strings.Join(m.Params, " ")
}

// Operation is a registered calculator command.
type Operation struct {
	Name string
	Meta OperationMeta
	call func(args []float64) (Result, error)
}

// Category display order.
var categoryOrder = []string{
	"construction",
	"arithmetic",
	"complex",
	"exponential",
	"trigonometric",
	"comparison",
}

var (
	operations = map[string]*Operation{}
	aliases    = map[string]string{}
)

func register(name string, meta OperationMeta, call func([]float64) (Result, error)) {
	operations[name] = &Operation{Name: name, Meta: meta, call: call}
	for _, a := range meta.Aliases {
		aliases[a] = name
	}
}

// Lookup finds an operation by name or alias, ignoring case.
func Lookup(name string) (*Operation, bool) {
	name = strings.ToLower(name)
	if op, ok := operations[name]; ok {
		return op, true
	}
	if canonical, ok := aliases[name]; ok {
		return operations[canonical], true
	}
	return nil, false
}

// Operations returns every operation ordered by category, then name.
func Operations() []*Operation {
	ops := make([]*Operation, 0, len(operations))
	for _, op := range operations {
		ops = append(ops, op)
	}
	slices.SortFunc(ops, func(a, b *Operation) int {
		if c := categoryRank(a.Meta.Category) - categoryRank(b.Meta.Category); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return ops
}

// Categories returns the category names in display order.
func Categories() []string {
	return slices.Clone(categoryOrder)
}

// Names returns the sorted canonical operation names.
func Names() []string {
	names := make([]string, 0, len(operations))
	for name := range operations {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// AllNames returns canonical names and aliases, sorted.
func AllNames() []string {
	names := Names()
	for a := range aliases {
		names = append(names, a)
	}
	slices.Sort(names)
	return names
}

func categoryRank(c string) int {
	if i := slices.Index(categoryOrder, c); i >= 0 {
		return i
	}
	return len(categoryOrder)
}

func init() {
	z := []string{"re", "im"}
	zw := []string{"re1", "im1", "re2", "im2"}

	// Construction
	register("new", OperationMeta{Category: "construction", Params: z,
		Description: "Complex number from real and imaginary parts"},
		func(a []float64) (Result, error) { return complexResult(cplx.New(a[0], a[1]), nil) })
	register("real", OperationMeta{Category: "construction", Params: []string{"x"},
		Description: "Complex number with a zero imaginary part"},
		func(a []float64) (Result, error) { return complexResult(cplx.FromReal(a[0]), nil) })
	register("random", OperationMeta{Category: "construction",
		Description: "Complex number with uniformly random components"},
		func([]float64) (Result, error) { return complexResult(cplx.Random(), nil) })

	// Arithmetic
	register("sum", OperationMeta{Category: "arithmetic", Params: zw, Aliases: []string{"add"},
		Description: "Sum of two complex numbers"}, binary(cplx.Sum))
	register("diff", OperationMeta{Category: "arithmetic", Params: zw, Aliases: []string{"sub"},
		Description: "Difference of two complex numbers"}, binary(cplx.Diff))
	register("prod", OperationMeta{Category: "arithmetic", Params: zw, Aliases: []string{"mul"},
		Description: "Product of two complex numbers"}, binary(cplx.Prod))
	register("divide", OperationMeta{Category: "arithmetic", Params: zw, Aliases: []string{"div"},
		Description: "Quotient of two complex numbers; fails when the divisor is 0"}, binary(cplx.Divide))

	// Complex-specific
	register("conjugate", OperationMeta{Category: "complex", Params: z, Aliases: []string{"conj"},
		Description: "Negate the imaginary part"}, unary(cplx.Conjugate))
	register("magnitude", OperationMeta{Category: "complex", Params: z, Aliases: []string{"abs"},
		Description: "Modulus sqrt(re² + im²)"}, realUnary(cplx.Magnitude))
	register("argument", OperationMeta{Category: "complex", Params: z, Aliases: []string{"arg", "phase"},
		Description: "Phase angle atan2(im, re) in (-π, π]"}, realUnary(cplx.Argument))
	register("reciprocal", OperationMeta{Category: "complex", Params: z, Aliases: []string{"recip"},
		Description: "1/z; 0 is returned unchanged"}, unary(cplx.Reciprocal))

	// Exponential & logarithmic
	register("exp", OperationMeta{Category: "exponential", Params: z,
		Description: "e raised to z"}, unary(cplx.Exp))
	register("log", OperationMeta{Category: "exponential", Params: z, Aliases: []string{"ln"},
		Description: "Principal natural logarithm"}, unary(cplx.Log))
	register("logbase", OperationMeta{Category: "exponential", Params: []string{"re", "im", "base"},
		Description: "Principal logarithm to a positive real base"},
		func(a []float64) (Result, error) { return complexResult(cplx.LogBase(cplx.New(a[0], a[1]), a[2])) })
	register("log10", OperationMeta{Category: "exponential", Params: z,
		Description: "Principal base-10 logarithm"}, unary(cplx.Log10))
	register("pow", OperationMeta{Category: "exponential", Params: []string{"re", "im", "n"},
		Description: "z raised to an integer power"}, callPow)
	register("sqrt", OperationMeta{Category: "exponential", Params: z,
		Description: "Principal square root"}, unary(cplx.Sqrt))

	// Trigonometric
	register("sin", OperationMeta{Category: "trigonometric", Params: z,
		Description: "Sine"}, unary(cplx.Sin))
	register("cos", OperationMeta{Category: "trigonometric", Params: z,
		Description: "Cosine"}, unary(cplx.Cos))
	register("tan", OperationMeta{Category: "trigonometric", Params: z,
		Description: "Tangent; fails where cos z is 0"}, unary(cplx.Tan))
	register("asin", OperationMeta{Category: "trigonometric", Params: z,
		Description: "Principal arc sine"}, unary(cplx.Asin))
	register("acos", OperationMeta{Category: "trigonometric", Params: z,
		Description: "Principal arc cosine"}, unary(cplx.Acos))
	register("atan", OperationMeta{Category: "trigonometric", Params: z,
		Description: "Principal arc tangent; fails at ±i"}, unary(cplx.Atan))

	// Comparison
	register("compare", OperationMeta{Category: "comparison", Params: zw, Aliases: []string{"cmp"},
		Description: "Order by magnitude: -1, 0 or 1"},
		func(a []float64) (Result, error) {
			c, err := cplx.Compare(cplx.New(a[0], a[1]), cplx.New(a[2], a[3]))
			if err != nil {
				return Result{}, err
			}
			return Result{Kind: KindReal, Real: float64(c)}, nil
		})
	register("equals", OperationMeta{Category: "comparison", Params: zw, Aliases: []string{"eq"},
		Description: "Component-wise equality"},
		func(a []float64) (Result, error) {
			eq, err := cplx.New(a[0], a[1]).Equals(cplx.New(a[2], a[3]))
			if err != nil {
				return Result{}, err
			}
			return Result{Kind: KindBool, Bool: eq}, nil
		})
}

func unary(fn func(*cplx.Complex) (*cplx.Complex, error)) func([]float64) (Result, error) {
	return func(a []float64) (Result, error) {
		return complexResult(fn(cplx.New(a[0], a[1])))
	}
}

func binary(fn func(a, b *cplx.Complex) (*cplx.Complex, error)) func([]float64) (Result, error) {
	return func(a []float64) (Result, error) {
		return complexResult(fn(cplx.New(a[0], a[1]), cplx.New(a[2], a[3])))
	}
}

func realUnary(fn func(*cplx.Complex) (float64, error)) func([]float64) (Result, error) {
	return func(a []float64) (Result, error) {
		x, err := fn(cplx.New(a[0], a[1]))
		if err != nil {
			return Result{}, err
		}
		return Result{Kind: KindReal, Real: x}, nil
	}
}

func complexResult(z *cplx.Complex, err error) (Result, error) {
	if err != nil {
		return Result{}, err
	}
	return Result{Kind: KindComplex, Complex: z}, nil
}
