// Package cplx implements a complex number value type with arithmetic,
// ordering, and the exponential, logarithmic and trigonometric function
// family.
//
// Every operation exists as a pure function returning a new *Complex. The
// four arithmetic operations also have in-place forms (Add, Sub, Mul, Div)
// that assign the pure result back into the receiver, so both forms always
// agree bit for bit.
//
// A nil *Complex is an absent operand and is rejected with an error matching
// ErrInvalidArgument. Dividing by (0, 0) fails with an error matching
// ErrDivisionByZero. Use errors.Is to branch on either.
//
// Multi-valued functions (Log, Sqrt, Asin, Acos, Atan) always return the
// principal branch.
//
// A *Complex is not safe for concurrent mutation. Concurrent readers of a
// value nobody mutates are fine.
package cplx

import (
	"math"
	"math/rand/v2"
	"slices"

	"github.com/sambeau/cplx/pkg/errors"
)

// Sentinels for errors.Is. They match by error class only.
var (
	ErrInvalidArgument error = &errors.MathError{Class: errors.ClassArgument, Message: "invalid argument"}
	ErrDivisionByZero  error = &errors.MathError{Class: errors.ClassDivision, Message: "division by zero"}
)

// Complex is a point (re, im) in the complex plane. The zero value is 0+0i.
// No normalization is applied: -0.0, NaN and infinities are stored as given.
type Complex struct {
	re, im float64
}

// New returns re + im·i.
func New(re, im float64) *Complex {
	return &Complex{re: re, im: im}
}

// Zero returns the additive identity 0+0i.
func Zero() *Complex {
	return &Complex{}
}

// FromReal returns the purely real number x+0i.
func FromReal(x float64) *Complex {
	return &Complex{re: x}
}

// FromComplex128 converts a builtin complex128.
func FromComplex128(c complex128) *Complex {
	return &Complex{re: real(c), im: imag(c)}
}

// Copy returns an independent copy of z.
func Copy(z *Complex) (*Complex, error) {
	if z == nil {
		return nil, missing("copy")
	}
	c := *z
	return &c, nil
}

// Random returns a number whose components are independent uniform draws
// from [0, math.MaxFloat64). It is non-deterministic and intended only as a
// convenience generator.
func Random() *Complex {
	return &Complex{
		re: rand.Float64() * math.MaxFloat64,
		im: rand.Float64() * math.MaxFloat64,
	}
}

// Real returns the real component.
func (z *Complex) Real() float64 { return z.re }

// Imag returns the imaginary component.
func (z *Complex) Imag() float64 { return z.im }

// SetReal sets the real component and returns z.
func (z *Complex) SetReal(x float64) *Complex {
	z.re = x
	return z
}

// SetImag sets the imaginary component and returns z.
func (z *Complex) SetImag(x float64) *Complex {
	z.im = x
	return z
}

// Set overwrites both components and returns z.
func (z *Complex) Set(re, im float64) *Complex {
	z.re, z.im = re, im
	return z
}

// SetComplex copies both components of x into z.
func (z *Complex) SetComplex(x *Complex) error {
	if z == nil || x == nil {
		return missing("set")
	}
	*z = *x
	return nil
}

// Complex128 converts z to the builtin complex128 type.
func (z *Complex) Complex128() complex128 {
	return complex(z.re, z.im)
}

// Float64 returns the real component; the imaginary part is discarded.
func (z *Complex) Float64() float64 {
	return z.re
}

// Int64 returns the real component truncated toward zero; the imaginary part
// and the fraction are discarded.
func (z *Complex) Int64() int64 {
	return int64(z.re)
}

// IsZero reports whether both components are exactly zero.
func (z *Complex) IsZero() bool {
	return z.re == 0 && z.im == 0
}

// Equals reports whether other is a Complex with both components equal to
// z's under float64 ==, so NaN never equals itself. An absent other (nil
// interface or nil *Complex) is an error; any other type is simply unequal.
func (z *Complex) Equals(other any) (bool, error) {
	if z == nil {
		return false, missing("equals")
	}
	switch w := other.(type) {
	case nil:
		return false, missing("equals")
	case *Complex:
		if w == nil {
			return false, missing("equals")
		}
		return z.re == w.re && z.im == w.im, nil
	case Complex:
		return z.re == w.re && z.im == w.im, nil
	default:
		return false, nil
	}
}

// Compare orders a and b by magnitude only, returning -1, 0 or +1 from the
// sign of Magnitude(a) - Magnitude(b). Numbers with equal magnitude compare
// 0 even when they differ in phase, so this order is deliberately coarser
// than Equals. A NaN magnitude compares as +1.
func Compare(a, b *Complex) (int, error) {
	if a == nil || b == nil {
		return 0, missing("compare")
	}
	t := magnitude(*a) - magnitude(*b)
	switch {
	case t == 0:
		return 0, nil
	case t < 0:
		return -1, nil
	default:
		return 1, nil
	}
}

// CompareTo is Compare(z, w).
func (z *Complex) CompareTo(w *Complex) (int, error) {
	return Compare(z, w)
}

// SortByMagnitude sorts zs in ascending magnitude, keeping the input order
// of numbers that compare equal. It fails without sorting if any element is
// nil.
func SortByMagnitude(zs []*Complex) error {
	for _, z := range zs {
		if z == nil {
			return missing("sort")
		}
	}
	slices.SortStableFunc(zs, func(a, b *Complex) int {
		c, _ := Compare(a, b)
		return c
	})
	return nil
}

func missing(op string) error {
	return errors.NewForOp("ARG-0001", op, nil)
}

func divisionByZero(op string) error {
	return errors.NewForOp("DIV-0001", op, nil)
}

// checkOperands fails with ARG-0001 on the first nil operand.
func checkOperands(op string, zs ...*Complex) error {
	for _, z := range zs {
		if z == nil {
			return missing(op)
		}
	}
	return nil
}

func box(c Complex) *Complex {
	return &c
}
