package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestParseNonNegativeCents(t *testing.T) {
	if got, err := ParseNonNegativeCents("0"); err != nil || got != 0 {
		t.Fatalf("zero should parse, got %d (err=%v)", got, err)
	}
	if _, err := ParseNonNegativeCents("-3"); err == nil {
		t.Fatalf("negative should fail")
	}
}

func TestMoneyDecimalRoundTrip(t *testing.T) {
	for _, cents := range []int64{1, 10, 99, 100, 1234, 500000} {
		s := Money{Cents: cents}.Decimal()
		back, err := ParseDecimalToCents(s)
		if err != nil || back != cents {
			t.Fatalf("%d -> %q -> %d (err=%v)", cents, s, back, err)
		}
	}
	if got := (Money{Cents: 5}).Decimal(); got != "0.05" {
		t.Fatalf("got %q", got)
	}
}
