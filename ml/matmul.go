// Package ml - Dichte Matrix-Arithmetik fuer den Decoder
//
// Dieses Modul enthaelt:
// - MatMul: Dichte Matrix-Multiplikation mit Shape-Pruefung
// - MulRow: Zeilenvektor mal Matrix (der Ein-Token-Fall des Decoders)
//
// Shape-Fehler sind Programmierfehler und brechen die laufende
// Generierung ab, siehe ErrShapeMismatch.
package ml

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrShapeMismatch meldet unvertraegliche Matrix-Dimensionen
var ErrShapeMismatch = errors.New("shape mismatch")

// MatMul multipliziert a (m x k) mit b (k x n) zu einer neuen m x n Matrix
func MatMul(a, b *mat.Dense) (*mat.Dense, error) {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ac != br {
		return nil, fmt.Errorf("%w: %dx%d * %dx%d", ErrShapeMismatch, ar, ac, br, bc)
	}

	var c mat.Dense
	c.Mul(a, b)
	return &c, nil
}

// MulRow multipliziert den Zeilenvektor x (1 x r) mit w (r x c)
// und gibt das Ergebnis als neuen Slice der Laenge c zurueck
func MulRow(x []float64, w *mat.Dense) ([]float64, error) {
	r, c := w.Dims()
	if len(x) != r {
		return nil, fmt.Errorf("%w: row of length %d * %dx%d", ErrShapeMismatch, len(x), r, c)
	}

	out := make([]float64, c)
	y := mat.NewVecDense(c, out)
	y.MulVec(w.T(), mat.NewVecDense(len(x), x))
	return out, nil
}
