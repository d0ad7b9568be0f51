package cplx

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// String renders z as "<re>" when im is 0, "<im>i" when re is 0, and
// "<re>+<im>i" otherwise. A negative imaginary part supplies its own sign,
// giving "<re>-<|im|>i". Components use the shortest decimal that round
// trips and always carry a fraction ("5.0", not "5").
func (z *Complex) String() string {
	if z == nil {
		return "<nil>"
	}
	return layout(z.re, z.im, formatComponent)
}

// FormatLocale renders z like String, but formats each component with the
// number conventions of tag (digit grouping, decimal separator). precision
// caps the fraction digits; a negative precision keeps up to 15.
func FormatLocale(z *Complex, tag language.Tag, precision int) string {
	if z == nil {
		return "<nil>"
	}
	p := message.NewPrinter(tag)
	return layout(z.re, z.im, func(x float64) string {
		return formatLocaleComponent(p, x, precision)
	})
}

// FormatPrecision renders z like String with each component rounded to
// precision fraction digits. A negative precision is the same as String.
func FormatPrecision(z *Complex, precision int) string {
	if z == nil {
		return "<nil>"
	}
	if precision < 0 {
		return z.String()
	}
	return layout(z.re, z.im, func(x float64) string {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return formatComponent(x)
		}
		return strconv.FormatFloat(x, 'f', precision, 64)
	})
}

func layout(re, im float64, format func(float64) string) string {
	if im == 0 {
		return format(re)
	}
	if re == 0 {
		return format(im) + "i"
	}
	if im < 0 {
		return format(re) + "-" + format(-im) + "i"
	}
	return format(re) + "+" + format(im) + "i"
}

// formatComponent returns the shortest round-trip form of x with a
// guaranteed fraction. Magnitudes outside [1e-3, 1e7) use exponent form.
func formatComponent(x float64) string {
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "Inf"
	case math.IsInf(x, -1):
		return "-Inf"
	}

	abs := math.Abs(x)
	if abs != 0 && (abs < 1e-3 || abs >= 1e7) {
		s := strconv.FormatFloat(x, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		if !strings.Contains(mant, ".") {
			mant += ".0"
		}
		return mant + "e" + exp
	}

	s := strconv.FormatFloat(x, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func formatLocaleComponent(p *message.Printer, x float64, precision int) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return formatComponent(x)
	}
	if precision < 0 {
		precision = 15
	}
	return p.Sprint(number.Decimal(x,
		number.MinFractionDigits(min(1, precision)),
		number.MaxFractionDigits(precision),
	))
}
