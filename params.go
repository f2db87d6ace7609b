package main

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"qgrover/internal/circuit"
)

// maxSymbolBits covers every code point; wider registers still encode a
// symbol in their low bits.
const maxSymbolBits = 31

// parseTarget parses a target pattern over dataBits bits. Accepted forms:
//   - Integers: "65", "0x41", "0o101", "0b1000001"
//   - Quoted symbols: "'A'", mapped through the character's code point
func parseTarget(s string, dataBits int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty target")
	}

	if len(s) >= 3 && s[0] == '\'' && s[len(s)-1] == '\'' {
		inner := s[1 : len(s)-1]
		if utf8.RuneCountInString(inner) != 1 {
			return 0, fmt.Errorf("target %s: quote exactly one character", s)
		}
		r, _ := utf8.DecodeRuneInString(inner)
		return circuit.PatternFromSymbol(r, min(dataBits, maxSymbolBits))
	}

	v, err := strconv.ParseInt(strings.ToLower(s), 0, 64)
	if err != nil {
		return 0, fmt.Errorf("target %q: %w", s, err)
	}
	if v < 0 || v >= 1<<dataBits {
		return 0, fmt.Errorf("%w: %d outside [0, %d)", circuit.ErrPatternRange, v, int64(1)<<dataBits)
	}
	return int(v), nil
}

// parseSymbol maps a one-character string to its pattern.
func parseSymbol(s string, dataBits int) (int, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("symbol %q: need exactly one character", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return circuit.PatternFromSymbol(r, min(dataBits, maxSymbolBits))
}

// formatPattern shows a pattern in binary, decimal and, when printable, as
// the character it encodes.
func formatPattern(p, dataBits int) string {
	out := fmt.Sprintf("0b%0*b (%d", dataBits, p, p)
	if r := rune(p); r != printable(r) {
		return out + ")"
	}
	return fmt.Sprintf("%s %q)", out, rune(p))
}
