package main

import (
	"errors"
	"testing"

	"qgrover/internal/circuit"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		in   string
		bits int
		want int
		ok   bool
	}{
		{"65", 7, 65, true},
		{"0x41", 7, 65, true},
		{"0X41", 7, 65, true},
		{"0b1000001", 7, 65, true},
		{"0o101", 7, 65, true},
		{" 'A' ", 7, 65, true},
		{"'~'", 7, 126, true},
		{"0", 1, 0, true},
		{"'A'", 40, 65, true},
		{"'A'", 62, 65, true},
		{"128", 7, 0, false},
		{"-1", 7, 0, false},
		{"'AB'", 7, 0, false},
		{"'é'", 7, 0, false},
		{"pi", 7, 0, false},
		{"", 7, 0, false},
	}

	for _, tt := range tests {
		got, err := parseTarget(tt.in, tt.bits)
		if tt.ok {
			if err != nil {
				t.Errorf("parseTarget(%q): unexpected error %v", tt.in, err)
				continue
			}
			if got != tt.want {
				t.Errorf("parseTarget(%q) = %d, want %d", tt.in, got, tt.want)
			}
		} else if err == nil {
			t.Errorf("parseTarget(%q) = %d, want error", tt.in, got)
		}
	}
}

func TestParseTargetRangeError(t *testing.T) {
	_, err := parseTarget("200", 7)
	if !errors.Is(err, circuit.ErrPatternRange) {
		t.Fatalf("expected ErrPatternRange, got %v", err)
	}
}

func TestParseSymbol(t *testing.T) {
	p, err := parseSymbol("A", 7)
	if err != nil || p != 65 {
		t.Fatalf("parseSymbol(A) = %d, %v", p, err)
	}
	if p, err := parseSymbol("A", 48); err != nil || p != 65 {
		t.Errorf("parseSymbol(A) on 48 bits = %d, %v", p, err)
	}
	if _, err := parseSymbol("", 7); err == nil {
		t.Error("empty symbol accepted")
	}
	if _, err := parseSymbol("λ", 7); !errors.Is(err, circuit.ErrPatternRange) {
		t.Errorf("expected ErrPatternRange for λ, got %v", err)
	}
}

func TestFormatPattern(t *testing.T) {
	if got, want := formatPattern(65, 7), "0b1000001 (65 'A')"; got != want {
		t.Errorf("formatPattern(65) = %q, want %q", got, want)
	}
	if got, want := formatPattern(3, 7), "0b0000011 (3)"; got != want {
		t.Errorf("formatPattern(3) = %q, want %q", got, want)
	}
}
