// matmul_test.go - Tests fuer MatMul und MulRow
package ml

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestMatMulShape(t *testing.T) {
	a := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	b := mat.NewDense(3, 4, make([]float64, 12))

	c, err := MatMul(a, b)
	if err != nil {
		t.Fatalf("MatMul: %v", err)
	}

	r, cols := c.Dims()
	if r != 2 || cols != 4 {
		t.Errorf("Dims() = (%d, %d), erwartet (2, 4)", r, cols)
	}
}

func TestMatMulIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	a := Uniform(4, 4, 0.1, rng)

	eye := mat.NewDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		eye.Set(i, i, 1)
	}

	c, err := MatMul(a, eye)
	if err != nil {
		t.Fatalf("MatMul: %v", err)
	}

	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if math.Abs(c.At(i, j)-a.At(i, j)) > 1e-12 {
				t.Errorf("C[%d][%d] = %f, erwartet %f", i, j, c.At(i, j), a.At(i, j))
			}
		}
	}
}

func TestMatMulShapeMismatch(t *testing.T) {
	a := mat.NewDense(2, 3, nil)
	b := mat.NewDense(4, 2, nil)

	if _, err := MatMul(a, b); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("MatMul Fehler = %v, erwartet ErrShapeMismatch", err)
	}
}

func TestMulRow(t *testing.T) {
	// x (1x2) * w (2x3)
	w := mat.NewDense(2, 3, []float64{
		1, 2, 3,
		4, 5, 6,
	})
	x := []float64{1, 2}

	got, err := MulRow(x, w)
	if err != nil {
		t.Fatalf("MulRow: %v", err)
	}

	want := []float64{9, 12, 15}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("MulRow[%d] = %f, erwartet %f", i, got[i], want[i])
		}
	}
}

func TestMulRowShapeMismatch(t *testing.T) {
	w := mat.NewDense(2, 3, nil)
	if _, err := MulRow([]float64{1, 2, 3}, w); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("MulRow Fehler = %v, erwartet ErrShapeMismatch", err)
	}
}
