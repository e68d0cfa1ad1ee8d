// random.go - Zufaellige Matrix-Initialisierung
// Hauptfunktionen: Uniform
package ml

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Uniform erzeugt eine rows x cols Matrix mit unabhaengig
// gleichverteilten Eintraegen in [-scale, scale)
func Uniform(rows, cols int, scale float64, rng *rand.Rand) *mat.Dense {
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = (rng.Float64()*2 - 1) * scale
	}
	return mat.NewDense(rows, cols, data)
}
