package money

import (
	"encoding/json"
	"math"
	"testing"
)

func TestFromFloat_Rounding(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{1.005, "1.01"},  // half rounds up
		{1.004, "1.00"},
		{2.675, "2.68"},  // classic float trap, must not round down
		{-1.005, "-1.01"}, // halves move away from zero
		{999999.999, "1000000.00"},
	}
	for _, c := range cases {
		got := FromFloat(c.in).String()
		if got != c.want {
			t.Errorf("FromFloat(%v) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestFromFloat_NonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if got := FromFloat(v); !got.IsZero() {
			t.Errorf("FromFloat(%v) = %s, want 0.00", v, got)
		}
	}
}

func TestRound_Idempotent(t *testing.T) {
	for _, v := range []float64{0, 0.005, 1.23456, 99.999, -3.141} {
		once := FromFloat(v)
		twice := FromFloat(once.Float64())
		if once.Cmp(twice) != 0 {
			t.Errorf("rounding not idempotent for %v: %s vs %s", v, once, twice)
		}
	}
}

func TestArithmetic(t *testing.T) {
	a := FromFloat(10.10)
	b := FromFloat(0.2)
	if got := a.Add(b).String(); got != "10.30" {
		t.Errorf("Add = %s, want 10.30", got)
	}
	if got := a.Sub(b).String(); got != "9.90" {
		t.Errorf("Sub = %s, want 9.90", got)
	}
	if got := FromFloat(1000).MulScalar(0.15).String(); got != "150.00" {
		t.Errorf("MulScalar = %s, want 150.00", got)
	}
	if got := FromFloat(33.33).MulInt(3).String(); got != "99.99" {
		t.Errorf("MulInt = %s, want 99.99", got)
	}
	// 10% of 0.05 rounds to 0.01, not 0.00
	if got := FromFloat(0.05).MulScalar(0.1).String(); got != "0.01" {
		t.Errorf("MulScalar half-up = %s, want 0.01", got)
	}
}

func TestJSON(t *testing.T) {
	b, err := json.Marshal(FromFloat(700))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "700.00" {
		t.Fatalf("marshal = %s, want 700.00", b)
	}

	var m Money
	if err := json.Unmarshal([]byte("123.456"), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m.String() != "123.46" {
		t.Fatalf("unmarshal rounded = %s, want 123.46", m)
	}
	var fromString Money
	if err := json.Unmarshal([]byte(`"42.5"`), &fromString); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	if fromString.String() != "42.50" {
		t.Fatalf("unmarshal string = %s, want 42.50", fromString)
	}
}

func TestComparisons(t *testing.T) {
	if !Zero().IsZero() {
		t.Error("Zero() should be zero")
	}
	if FromFloat(-1).Cmp(Zero()) >= 0 {
		t.Error("negative should compare below zero")
	}
	if !FromFloat(-0.01).IsNegative() {
		t.Error("-0.01 should be negative")
	}
	if !FromFloat(0.01).IsPositive() {
		t.Error("0.01 should be positive")
	}
}
