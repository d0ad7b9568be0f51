package calc

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/sambeau/cplx/config"
	"github.com/sambeau/cplx/pkg/cplx"
)

// Kind is the shape of an operation's result.
type Kind int

const (
	KindComplex Kind = iota
	KindReal
	KindBool
)

// Result is the value produced by an operation. Only the field matching
// Kind is meaningful.
type Result struct {
	Kind    Kind
	Complex *cplx.Complex
	Real    float64
	Bool    bool
}

// Style selects how numbers are rendered.
type Style string

const (
	StylePlain  Style = "plain"  // shortest round-trip decimal
	StyleFixed  Style = "fixed"  // fixed fraction digits
	StyleLocale Style = "locale" // locale separators and grouping
)

// ParseStyle validates a style name.
func ParseStyle(s string) (Style, error) {
	switch st := Style(strings.ToLower(s)); st {
	case StylePlain, StyleFixed, StyleLocale:
		return st, nil
	case "":
		return StylePlain, nil
	}
	return StylePlain, fmt.Errorf("unknown display style %q (valid: plain, fixed, locale)", s)
}

// Display holds the output settings of a session.
type Display struct {
	Style     Style
	Locale    language.Tag
	Precision int // fraction digits; negative means as many as needed
}

// DefaultDisplay renders like (*cplx.Complex).String.
func DefaultDisplay() Display {
	return Display{Style: StylePlain, Locale: language.English, Precision: -1}
}

// DisplayFromConfig converts a config display section. An empty locale
// means English.
func DisplayFromConfig(c config.DisplayConfig) (Display, error) {
	d := DefaultDisplay()

	style, err := ParseStyle(c.Style)
	if err != nil {
		return d, err
	}
	d.Style = style

	if c.Locale != "" {
		tag, err := language.Parse(c.Locale)
		if err != nil {
			return d, fmt.Errorf("invalid locale %q: %w", c.Locale, err)
		}
		d.Locale = tag
	}

	d.Precision = c.PrecisionOr(config.DefaultPrecision)
	return d, nil
}

// FormatComplex renders z according to d.
func (d Display) FormatComplex(z *cplx.Complex) string {
	switch d.Style {
	case StyleFixed:
		return cplx.FormatPrecision(z, d.Precision)
	case StyleLocale:
		return cplx.FormatLocale(z, d.Locale, d.Precision)
	default:
		return z.String()
	}
}

// Format renders any result. Real results use the same number format as
// the components of a complex one.
func (d Display) Format(r Result) string {
	switch r.Kind {
	case KindReal:
		return d.FormatComplex(cplx.FromReal(r.Real))
	case KindBool:
		if r.Bool {
			return "true"
		}
		return "false"
	default:
		return d.FormatComplex(r.Complex)
	}
}
