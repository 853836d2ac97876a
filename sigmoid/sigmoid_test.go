package sigmoid

import (
	"math"
	"testing"
)

var allFamilies = []Family{FamilyHard, FamilyLinear, FamilyHermite, FamilySin, FamilySmooth}

func TestFamilies_RangeAndMonotone(t *testing.T) {
	for _, fam := range allFamilies {
		t.Run(fam.String(), func(t *testing.T) {
			f := ByFamily(fam)
			prev := -1.0
			for i := 0; i <= 1000; i++ {
				x := -1 + float64(i)*0.003
				v := f(x, 0.5, 0.2)
				if v < 0 || v > 1 || math.IsNaN(v) {
					t.Fatalf("f(%v) = %v, want value in [0,1]", x, v)
				}
				if v < prev-1e-12 {
					t.Fatalf("not monotone at x=%v: %v < %v", x, v, prev)
				}
				prev = v
			}
		})
	}
}

func TestFamilies_MidpointIsHalf(t *testing.T) {
	for _, fam := range allFamilies {
		if fam == FamilyHard {
			continue
		}
		if got := ByFamily(fam)(0.3, 0.3, 0.1); math.Abs(got-0.5) > 1e-12 {
			t.Errorf("%s: f(a,a,w) = %v, want 0.5", fam, got)
		}
	}
	if got := Hard(0.3, 0.3, 0.1); got != 1 {
		t.Errorf("hard: f(a,a,w) = %v, want 1", got)
	}
}

func TestLinear_Endpoints(t *testing.T) {
	tests := []struct {
		x, want float64
	}{
		{0.0, 0},
		{1.49, 0},
		{2.0, 0.5},
		{2.25, 0.75},
		{2.51, 1},
		{10, 1},
	}
	for _, tt := range tests {
		if got := Linear(tt.x, 2, 1); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Linear(%v, 2, 1) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestZeroWidth_FallsBackToHard(t *testing.T) {
	for _, fam := range allFamilies {
		f := ByFamily(fam)
		for _, x := range []float64{0.49, 0.5, 0.51} {
			got := f(x, 0.5, 0)
			if math.IsNaN(got) {
				t.Fatalf("%s: NaN at zero width", fam)
			}
			if got != Hard(x, 0.5, 0) {
				t.Errorf("%s: f(%v,0.5,0) = %v, want hard step", fam, x, got)
			}
		}
	}
}

func TestBetween(t *testing.T) {
	if got := Between(Hard, 0.3, 0.2, 0.4, 0); got != 1 {
		t.Errorf("Between inside = %v, want 1", got)
	}
	if got := Between(Hard, 0.5, 0.2, 0.4, 0); got != 0 {
		t.Errorf("Between above = %v, want 0", got)
	}
	if got := Between(Hard, 0.1, 0.2, 0.4, 0); got != 0 {
		t.Errorf("Between below = %v, want 0", got)
	}
}

func TestBlend(t *testing.T) {
	if got := Blend(Linear, 0.2, 0.8, 0.5, 0.1); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("Blend at midpoint = %v, want 0.5", got)
	}
	if got := Blend(Linear, 0.2, 0.8, 1, 0.1); math.Abs(got-0.8) > 1e-12 {
		t.Errorf("Blend at m=1 = %v, want 0.8", got)
	}
}

func TestParseFamily(t *testing.T) {
	tests := []struct {
		in   string
		want Family
		ok   bool
	}{
		{"smooth", FamilySmooth, true},
		{"hermite", FamilyHermite, true},
		{"2", FamilyHermite, true},
		{"9", 0, false},
		{"cubic", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseFamily(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseFamily(%q) err = %v, want ok=%v", tt.in, err, tt.ok)
			continue
		}
		if tt.ok && got != tt.want {
			t.Errorf("ParseFamily(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
