package cplx

import (
	"errors"
	"math"
	"testing"
)

func TestSin(t *testing.T) {
	got, err := Sin(New(1, 2))
	if err != nil {
		t.Fatalf("Sin() error = %v", err)
	}
	// sin(1)cosh(2) + i·cos(1)sinh(2)
	assertNear(t, "Sin(1+2i)", got, 3.165778513216168, 1.9596010414216063)

	got, _ = Sin(New(math.Pi/2, 0))
	assertNear(t, "Sin(π/2)", got, 1, 0)
}

func TestCos(t *testing.T) {
	got, err := Cos(New(1, 2))
	if err != nil {
		t.Fatalf("Cos() error = %v", err)
	}
	assertNear(t, "Cos(1+2i)", got, 2.0327230070196656, -3.0518977991518)
}

func TestSinCos_PythagoreanIdentity(t *testing.T) {
	for _, z := range []*Complex{New(1, 2), New(-0.5, 0.25), New(3, -1)} {
		s, _ := Sin(z)
		c, _ := Cos(z)
		s2, _ := Prod(s, s)
		c2, _ := Prod(c, c)
		total, _ := Sum(s2, c2)
		assertNear(t, "sin²+cos²", total, 1, 0)
	}
}

func TestTan(t *testing.T) {
	got, err := Tan(New(1, 1))
	if err != nil {
		t.Fatalf("Tan() error = %v", err)
	}
	assertNear(t, "Tan(1+i)", got, 0.2717525853195117, 1.0839233273386946)

	got, _ = Tan(Zero())
	assertExact(t, "Tan(0)", got, 0, 0)
}

func TestAsin(t *testing.T) {
	tests := []struct {
		name           string
		z              *Complex
		wantRe, wantIm float64
	}{
		{"zero", Zero(), 0, 0},
		{"half", New(0.5, 0), math.Pi / 6, 0},
		{"one", New(1, 0), math.Pi / 2, 0},
		{"1+i", New(1, 1), 0.6662394324925153, 1.0612750619050357},
		{"2i", New(0, 2), 0, 1.4436354751788103},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Asin(tt.z)
			if err != nil {
				t.Fatalf("Asin() error = %v", err)
			}
			assertNear(t, "Asin("+tt.name+")", got, tt.wantRe, tt.wantIm)
		})
	}
}

func TestAcos(t *testing.T) {
	tests := []struct {
		name           string
		z              *Complex
		wantRe, wantIm float64
	}{
		{"zero", Zero(), math.Pi / 2, 0},
		{"half", New(0.5, 0), math.Pi / 3, 0},
		{"minus half", New(-0.5, 0), 2 * math.Pi / 3, 0},
		{"minus one", New(-1, 0), math.Pi, 0},
		{"1+i", New(1, 1), 0.9045568943023814, -1.0612750619050357},
		{"-1+i", New(-1, 1), 2.2370357592874117, -1.0612750619050357},
		{"2i", New(0, 2), math.Pi / 2, -1.4436354751788103},
		{"-2i", New(0, -2), math.Pi / 2, 1.4436354751788103},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Acos(tt.z)
			if err != nil {
				t.Fatalf("Acos() error = %v", err)
			}
			assertNear(t, "Acos("+tt.name+")", got, tt.wantRe, tt.wantIm)
		})
	}
}

func TestAtan(t *testing.T) {
	tests := []struct {
		name           string
		z              *Complex
		wantRe, wantIm float64
	}{
		{"zero", Zero(), 0, 0},
		{"one", New(1, 0), math.Pi / 4, 0},
		{"minus one", New(-1, 0), -math.Pi / 4, 0},
		{"1+i", New(1, 1), 1.0172219678978514, 0.40235947810852507},
		{"half i", New(0, 0.5), 0, 0.5493061443340549},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Atan(tt.z)
			if err != nil {
				t.Fatalf("Atan() error = %v", err)
			}
			assertNear(t, "Atan("+tt.name+")", got, tt.wantRe, tt.wantIm)
		})
	}
}

func TestAtan_Singularity(t *testing.T) {
	// 1 - i·(-i) is 0+0i.
	if _, err := Atan(New(0, -1)); !errors.Is(err, ErrDivisionByZero) {
		t.Errorf("Atan(-i) error = %v, want ErrDivisionByZero", err)
	}
}

func TestTrig_Absent(t *testing.T) {
	for name, fn := range map[string]func(*Complex) (*Complex, error){
		"sin":  Sin,
		"cos":  Cos,
		"tan":  Tan,
		"asin": Asin,
		"acos": Acos,
		"atan": Atan,
	} {
		if _, err := fn(nil); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("%s(nil) error = %v, want ErrInvalidArgument", name, err)
		}
	}
}

func TestTrig_InverseRoundTrip(t *testing.T) {
	for _, z := range []*Complex{New(0.3, 0.2), New(-0.4, 0.1), New(0.2, -0.6)} {
		s, _ := Sin(z)
		back, err := Asin(s)
		if err != nil {
			t.Fatalf("Asin() error = %v", err)
		}
		assertNear(t, "Asin(Sin(z))", back, z.Real(), z.Imag())

		c, _ := Cos(z)
		if z.Real() > 0 {
			back, _ = Acos(c)
			assertNear(t, "Acos(Cos(z))", back, z.Real(), z.Imag())
		}

		tn, _ := Tan(z)
		back, _ = Atan(tn)
		assertNear(t, "Atan(Tan(z))", back, z.Real(), z.Imag())
	}
}
