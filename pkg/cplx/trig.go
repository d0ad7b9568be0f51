package cplx

import "math"

var (
	one      = Complex{re: 1}
	imagUnit = Complex{im: 1}
	negI     = Complex{im: -1}
	negHalfI = Complex{im: -0.5} // 1 / 2i
)

// Sin returns sin re · cosh im + i·cos re · sinh im.
func Sin(z *Complex) (*Complex, error) {
	if err := checkOperands("sin", z); err != nil {
		return nil, err
	}
	return box(sin(*z)), nil
}

// Cos returns cos re · cosh im - i·sin re · sinh im.
func Cos(z *Complex) (*Complex, error) {
	if err := checkOperands("cos", z); err != nil {
		return nil, err
	}
	return box(cos(*z)), nil
}

// Tan returns Sin(z) / Cos(z), failing with DIV-0001 if Cos(z) is exactly
// 0+0i.
func Tan(z *Complex) (*Complex, error) {
	if err := checkOperands("tan", z); err != nil {
		return nil, err
	}
	r, err := divide(sin(*z), cos(*z))
	if err != nil {
		return nil, err
	}
	return box(r), nil
}

// Asin returns the principal arcsine -i·log(i·z + sqrt(1 - z²)).
func Asin(z *Complex) (*Complex, error) {
	if err := checkOperands("asin", z); err != nil {
		return nil, err
	}
	return box(asin(*z)), nil
}

// Acos returns the principal arccosine.
//
// For Re z > 0 it is atan(sqrt(1 - z²) / z). For Re z < 0 that identity
// lands on the wrong branch, so the result is reflected with
// acos(z) = π - acos(-z). On the imaginary axis, including z = 0 where the
// identity would divide by zero, π/2 - asin(z) is used; Acos(0) is π/2.
func Acos(z *Complex) (*Complex, error) {
	if err := checkOperands("acos", z); err != nil {
		return nil, err
	}
	r, err := acos(*z)
	if err != nil {
		return nil, err
	}
	return box(r), nil
}

// Atan returns the principal arctangent (1/2i)·log((1 + iz) / (1 - iz)).
// At z = -i the inner division fails with DIV-0001.
func Atan(z *Complex) (*Complex, error) {
	if err := checkOperands("atan", z); err != nil {
		return nil, err
	}
	r, err := atan(*z)
	if err != nil {
		return nil, err
	}
	return box(r), nil
}

func sin(z Complex) Complex {
	s, c := math.Sincos(z.re)
	return Complex{s * math.Cosh(z.im), c * math.Sinh(z.im)}
}

func cos(z Complex) Complex {
	s, c := math.Sincos(z.re)
	return Complex{c * math.Cosh(z.im), -s * math.Sinh(z.im)}
}

func asin(z Complex) Complex {
	w := sum(prod(imagUnit, z), sqrt(diff(one, prod(z, z))))
	return prod(negI, logPrincipal(w))
}

func acos(z Complex) (Complex, error) {
	if z.re == 0 {
		return diff(Complex{re: math.Pi / 2}, asin(z)), nil
	}
	q, err := divide(sqrt(diff(one, prod(z, z))), z)
	if err != nil {
		return Complex{}, err
	}
	r, err := atan(q)
	if err != nil {
		return Complex{}, err
	}
	if z.re < 0 {
		r = sum(Complex{re: math.Pi}, r)
	}
	return r, nil
}

func atan(z Complex) (Complex, error) {
	iz := prod(imagUnit, z)
	q, err := divide(sum(one, iz), diff(one, iz))
	if err != nil {
		return Complex{}, err
	}
	return prod(negHalfI, logPrincipal(q)), nil
}
