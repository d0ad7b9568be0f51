package cplx

import (
	"math"

	"github.com/sambeau/cplx/pkg/errors"
)

// Exp returns e^z = e^re · (cos im + i·sin im).
func Exp(z *Complex) (*Complex, error) {
	if err := checkOperands("exp", z); err != nil {
		return nil, err
	}
	return box(exp(*z)), nil
}

// Log returns the principal natural logarithm (ln|z|, arg z). Log of 0+0i
// is (-Inf, 0).
func Log(z *Complex) (*Complex, error) {
	if err := checkOperands("log", z); err != nil {
		return nil, err
	}
	return box(logPrincipal(*z)), nil
}

// LogBase returns Log(z) / Log(base). The base must be a positive real;
// zero, negative and NaN bases fail with ARG-0002. A base of 1 has a zero
// logarithm and fails with DIV-0001.
func LogBase(z *Complex, base float64) (*Complex, error) {
	if err := checkOperands("log", z); err != nil {
		return nil, err
	}
	r, err := logBase(*z, base)
	if err != nil {
		return nil, renameOp(err, "log")
	}
	return box(r), nil
}

// Log10 returns LogBase(z, 10).
func Log10(z *Complex) (*Complex, error) {
	if err := checkOperands("log10", z); err != nil {
		return nil, err
	}
	r, err := logBase(*z, 10)
	if err != nil {
		return nil, renameOp(err, "log10")
	}
	return box(r), nil
}

// Pow returns z raised to the integer power n by repeated multiplication.
// The cost is linear in |n|; callers taking exponents from input should
// bound them first.
//
// Pow(z, 1) is z and Pow(z, 0) is 1+0i for every z, including 0+0i. A
// negative n yields 1 / Pow(z, -n), so a zero base with a negative exponent
// fails with DIV-0001. z itself is never modified.
func Pow(z *Complex, n int) (*Complex, error) {
	if err := checkOperands("pow", z); err != nil {
		return nil, err
	}
	r, err := pow(*z, n)
	if err != nil {
		return nil, renameOp(err, "pow")
	}
	return box(r), nil
}

// Sqrt returns the principal square root
// sqrt(|z|) · (cos(arg z / 2) + i·sin(arg z / 2)).
func Sqrt(z *Complex) (*Complex, error) {
	if err := checkOperands("sqrt", z); err != nil {
		return nil, err
	}
	return box(sqrt(*z)), nil
}

func exp(z Complex) Complex {
	r := math.Exp(z.re)
	s, c := math.Sincos(z.im)
	return Complex{r * c, r * s}
}

func logPrincipal(z Complex) Complex {
	return Complex{math.Log(magnitude(z)), argument(z)}
}

func logBase(z Complex, base float64) (Complex, error) {
	if !(base > 0) {
		return Complex{}, errors.NewForOp("ARG-0002", "log", map[string]any{"Base": base})
	}
	return divide(logPrincipal(z), logPrincipal(Complex{re: base}))
}

func pow(z Complex, n int) (Complex, error) {
	if n < 0 {
		p := powUnsigned(z, uint(-(n + 1))+1)
		return divide(Complex{re: 1}, p)
	}
	return powUnsigned(z, uint(n)), nil
}

func powUnsigned(z Complex, n uint) Complex {
	if n == 0 {
		return Complex{re: 1}
	}
	r := z
	for i := uint(1); i < n; i++ {
		r = prod(r, z)
	}
	return r
}

// renameOp reports a failure from an internal step under the public
// operation's name.
func renameOp(err error, op string) error {
	if me, ok := err.(*errors.MathError); ok {
		return me.WithOp(op)
	}
	return err
}

func sqrt(z Complex) Complex {
	m := math.Sqrt(magnitude(z))
	s, c := math.Sincos(argument(z) / 2)
	return Complex{m * c, m * s}
}
