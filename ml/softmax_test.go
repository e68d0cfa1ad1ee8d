// softmax_test.go - Tests fuer Softmax und Argmax
package ml

import (
	"math"
	"testing"
)

func TestSoftmaxSumsToOne(t *testing.T) {
	cases := [][]float64{
		{0, 0, 0, 0},
		{1, 2, 3},
		{-1000, -1000, -1000},
		{1e6, 1e6 - 1, 0},
		{-1e6, 1e6},
		{42},
	}

	for _, v := range cases {
		p := Softmax(v)
		if len(p) != len(v) {
			t.Fatalf("Softmax Laenge = %d, erwartet %d", len(p), len(v))
		}

		sum := 0.0
		for _, x := range p {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				t.Fatalf("Softmax(%v) enthaelt %f", v, x)
			}
			// exp von stark negativen Differenzen laeuft auf exakt 0
			// unter, 0 ist also ein gueltiger Eintrag
			if x < 0 || x > 1 {
				t.Errorf("Softmax(%v) Eintrag %f ausserhalb [0,1]", v, x)
			}
			sum += x
		}

		if math.Abs(sum-1) > 1e-6 {
			t.Errorf("Softmax(%v) Summe = %f, erwartet 1", v, sum)
		}
	}
}

func TestSoftmaxUniformOnEqualInput(t *testing.T) {
	p := Softmax([]float64{3, 3, 3, 3})
	for i, x := range p {
		if math.Abs(x-0.25) > 1e-12 {
			t.Errorf("p[%d] = %f, erwartet 0.25", i, x)
		}
	}
}

func TestArgmaxFirstMax(t *testing.T) {
	if got := Argmax([]float64{0, 5, 2, 5}); got != 1 {
		t.Errorf("Argmax = %d, erwartet 1 (erster von zwei Maxima)", got)
	}

	if got := Argmax([]float64{-3, -1, -2}); got != 1 {
		t.Errorf("Argmax = %d, erwartet 1", got)
	}
}
