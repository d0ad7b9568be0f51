package cplx

import (
	"math"
	"testing"

	"golang.org/x/text/language"
)

func TestString(t *testing.T) {
	tests := []struct {
		name string
		z    *Complex
		want string
	}{
		{"zero", Zero(), "0.0"},
		{"real only", New(5, 0), "5.0"},
		{"imaginary only", New(0, -5), "-5.0i"},
		{"negative imaginary", New(5, -3), "5.0-3.0i"},
		{"negative real", New(-5, 3), "-5.0+3.0i"},
		{"fractions", New(3.35, 4.5), "3.35+4.5i"},
		{"shortest round trip", New(0.1, 0.2), "0.1+0.2i"},
		{"large", New(1e7, 0), "1.0e+07"},
		{"small", New(0, 1.5e-4), "1.5e-04i"},
		{"large imaginary", New(1, 12345678.9), "1.0+1.23456789e+07i"},
		{"nan", New(math.NaN(), 1), "NaN+1.0i"},
		{"infinities", New(math.Inf(1), math.Inf(-1)), "Inf-Infi"},
		{"nil", nil, "<nil>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.z.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestString_NoDoubledSign(t *testing.T) {
	for _, z := range []*Complex{New(1, -1), New(-1, -1), New(2.5, -1e-9), New(1, math.Inf(-1))} {
		s := z.String()
		for i := 0; i+1 < len(s); i++ {
			if s[i] == '+' && s[i+1] == '-' {
				t.Errorf("String() = %q contains \"+-\"", s)
			}
		}
	}
}

func TestFormatPrecision(t *testing.T) {
	tests := []struct {
		z         *Complex
		precision int
		want      string
	}{
		{New(1.23456, -2), 2, "1.23-2.00i"},
		{New(math.Pi, 0), 4, "3.1416"},
		{New(0, 2.75), 0, "3i"},
		{New(3.35, 4.5), -1, "3.35+4.5i"},
		{New(math.NaN(), 1), 1, "NaN+1.0i"},
	}

	for _, tt := range tests {
		if got := FormatPrecision(tt.z, tt.precision); got != tt.want {
			t.Errorf("FormatPrecision(%v, %d) = %q, want %q", tt.z, tt.precision, got, tt.want)
		}
	}
}

func TestFormatLocale(t *testing.T) {
	tests := []struct {
		name      string
		tag       language.Tag
		z         *Complex
		precision int
		want      string
	}{
		{"english grouping", language.English, New(1234.5, 0), 2, "1,234.5"},
		{"english complex", language.English, New(1234.5, -2), 2, "1,234.5-2.0i"},
		{"german separators", language.German, New(1234.5, 0), 2, "1.234,5"},
		{"german imaginary", language.German, New(0, 0.25), 2, "0,25i"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatLocale(tt.z, tt.tag, tt.precision); got != tt.want {
				t.Errorf("FormatLocale() = %q, want %q", got, tt.want)
			}
		})
	}

	if got := FormatLocale(New(math.Inf(1), 0), language.German, 2); got != "Inf" {
		t.Errorf("FormatLocale(Inf) = %q, want %q", got, "Inf")
	}
}
