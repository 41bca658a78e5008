package proth

import (
	"errors"
	"math/big"
	"testing"

	apperrors "github.com/agbru/prothcalc/internal/errors"
)

func TestParse(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want Number
	}{
		{"943*2^3442990+1", Number{T: 943, E: 3442990}},
		{"5x2^7+1", Number{T: 5, E: 7}},
		{"5.2e7+1", Number{T: 5, E: 7}},
		{"5*2e7+1", Number{T: 5, E: 7}},
		{"  31 * 2 ^ 60 + 1\n", Number{T: 31, E: 60}},
		{"4294967295*2^4294967295+1", Number{T: 4294967295, E: 4294967295}},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Errorf("Parse(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestParseRejects(t *testing.T) {
	t.Parallel()
	for _, in := range []string{
		"",
		"943",
		"943*3^5+1",
		"943*2^5-1",
		"943*2^5+2",
		"-5*2^7+1",
		"5*2^7+1 junk",
		"0*2^7+1",
		"5*2^0+1",
		"4294967296*2^7+1",
		"5*2^4294967296+1",
	} {
		_, err := Parse(in)
		var ve apperrors.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("Parse(%q) = %v, want ValidationError", in, err)
		}
	}
}

func TestNumberValues(t *testing.T) {
	t.Parallel()
	n := Number{T: 5, E: 7}
	if n.String() != "5*2^7+1" {
		t.Errorf("String() = %q", n.String())
	}
	if n.Int().Cmp(big.NewInt(641)) != 0 {
		t.Errorf("Int() = %s, want 641", n.Int())
	}
	if n.HalfExponent().Cmp(big.NewInt(320)) != 0 {
		t.Errorf("HalfExponent() = %s, want 320", n.HalfExponent())
	}
	if n.Bits() != 10 {
		t.Errorf("Bits() = %d, want 10", n.Bits())
	}
	for _, m := range []Number{{1, 1}, {1, 64}, {4294967295, 100}, {553, 1100}} {
		if got, want := m.Bits(), m.Int().BitLen(); got != want {
			t.Errorf("%s: Bits() = %d, want %d", m, got, want)
		}
	}
}
