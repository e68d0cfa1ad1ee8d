// softmax.go - Numerisch stabilisierte Softmax und Argmax
// Hauptfunktionen: Softmax, Argmax
package ml

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Softmax wandelt einen nicht-leeren Score-Vektor in eine
// Wahrscheinlichkeitsverteilung um. Vor dem Exponenzieren wird das
// Maximum abgezogen, damit auch sehr grosse oder sehr negative
// Scores weder ueberlaufen noch NaN erzeugen.
func Softmax(v []float64) []float64 {
	max := floats.Max(v)

	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = math.Exp(x - max)
	}

	floats.Scale(1/floats.Sum(out), out)
	return out
}

// Argmax gibt den Index des groessten Eintrags zurueck.
// Bei mehreren gleichen Maxima gewinnt der erste Index (greedy decoding).
func Argmax(v []float64) int {
	return floats.MaxIdx(v)
}
