package main

import (
	"math/rand"
	"strings"
	"time"
	"unicode"
)

// Animation timing: the amplification step advances every iterationEvery and
// the displayed text is re-sampled every flickerEvery.
const (
	iterationEvery = 250 * time.Millisecond
	flickerEvery   = 20 * time.Millisecond
)

// flickerer renders a word as seen through a partially amplified search.
type flickerer struct {
	rng      *rand.Rand
	alphabet int
}

func newFlickerer(seed int64, alphabet int) *flickerer {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &flickerer{rng: rand.New(rand.NewSource(seed)), alphabet: alphabet}
}

// frame samples every character of word independently with probability high
// of landing on itself. Characters outside the alphabet cannot be searched
// for and are shown as they are.
func (f *flickerer) frame(word string, high float64) string {
	var sb strings.Builder
	for _, r := range word {
		target := int(r)
		if target >= f.alphabet {
			sb.WriteRune(r)
			continue
		}
		sb.WriteRune(printable(rune(f.draw(target, high))))
	}
	return sb.String()
}

// draw measures one symbol: target with probability high, otherwise one of the
// other alphabet-1 symbols uniformly. It runs in constant time whatever the
// alphabet size.
func (f *flickerer) draw(target int, high float64) int {
	if f.alphabet <= 1 {
		return 0
	}
	if f.rng.Float64() < high {
		return target
	}
	other := f.rng.Intn(f.alphabet - 1)
	if other >= target {
		other++
	}
	return other
}

func printable(r rune) rune {
	if unicode.IsPrint(r) {
		return r
	}
	return placeholder
}
