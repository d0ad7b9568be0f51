package cplx

import "math"

// Sum returns a + b.
func Sum(a, b *Complex) (*Complex, error) {
	if err := checkOperands("sum", a, b); err != nil {
		return nil, err
	}
	return box(sum(*a, *b)), nil
}

// Diff returns a - b.
func Diff(a, b *Complex) (*Complex, error) {
	if err := checkOperands("diff", a, b); err != nil {
		return nil, err
	}
	return box(diff(*a, *b)), nil
}

// Prod returns a · b.
func Prod(a, b *Complex) (*Complex, error) {
	if err := checkOperands("prod", a, b); err != nil {
		return nil, err
	}
	return box(prod(*a, *b)), nil
}

// Divide returns a / b. It fails with DIV-0001 when both components of b
// are exactly zero. A denominator that only underflows to zero is not
// checked and yields Inf or NaN components.
func Divide(a, b *Complex) (*Complex, error) {
	if err := checkOperands("divide", a, b); err != nil {
		return nil, err
	}
	q, err := divide(*a, *b)
	if err != nil {
		return nil, err
	}
	return box(q), nil
}

// Add sets z to z + w.
func (z *Complex) Add(w *Complex) error {
	return z.assign(Sum(z, w))
}

// Sub sets z to z - w.
func (z *Complex) Sub(w *Complex) error {
	return z.assign(Diff(z, w))
}

// Mul sets z to z · w.
func (z *Complex) Mul(w *Complex) error {
	return z.assign(Prod(z, w))
}

// Div sets z to z / w. On failure z is left unchanged.
func (z *Complex) Div(w *Complex) error {
	return z.assign(Divide(z, w))
}

// assign stores the result of a pure operation in z.
func (z *Complex) assign(r *Complex, err error) error {
	if err != nil {
		return err
	}
	*z = *r
	return nil
}

// Conjugate returns re - im·i.
func Conjugate(z *Complex) (*Complex, error) {
	if err := checkOperands("conjugate", z); err != nil {
		return nil, err
	}
	return box(conjugate(*z)), nil
}

// Magnitude returns the modulus sqrt(re² + im²).
func Magnitude(z *Complex) (float64, error) {
	if err := checkOperands("magnitude", z); err != nil {
		return 0, err
	}
	return magnitude(*z), nil
}

// Argument returns the phase atan2(im, re) in (-π, π].
func Argument(z *Complex) (float64, error) {
	if err := checkOperands("argument", z); err != nil {
		return 0, err
	}
	return argument(*z), nil
}

// Reciprocal returns 1 / z.
//
// Unlike Divide, the reciprocal of 0+0i does not fail: it returns a copy of
// z. Formulas built on reciprocal steps therefore keep a finite result at
// the origin instead of aborting.
func Reciprocal(z *Complex) (*Complex, error) {
	if err := checkOperands("reciprocal", z); err != nil {
		return nil, err
	}
	return box(reciprocal(*z)), nil
}

func sum(a, b Complex) Complex {
	return Complex{a.re + b.re, a.im + b.im}
}

func diff(a, b Complex) Complex {
	return Complex{a.re - b.re, a.im - b.im}
}

func prod(a, b Complex) Complex {
	return Complex{
		a.re*b.re - a.im*b.im,
		a.re*b.im + a.im*b.re,
	}
}

func divide(a, b Complex) (Complex, error) {
	if b.re == 0 && b.im == 0 {
		return Complex{}, divisionByZero("divide")
	}
	den := b.re*b.re + b.im*b.im
	return Complex{
		(a.re*b.re + a.im*b.im) / den,
		(a.im*b.re - a.re*b.im) / den,
	}, nil
}

func conjugate(z Complex) Complex {
	return Complex{z.re, -z.im}
}

// magnitude is sqrt(re² + im²) without overflow or underflow in the
// intermediate squares.
func magnitude(z Complex) float64 {
	return math.Hypot(z.re, z.im)
}

func argument(z Complex) float64 {
	return math.Atan2(z.im, z.re)
}

func reciprocal(z Complex) Complex {
	r, err := divide(Complex{re: 1}, z)
	if err != nil {
		return z
	}
	return r
}
