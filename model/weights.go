// weights.go - Parameter Store
//
// Haelt die unveraenderlichen Gewichtsmatrizen des Modells. Gewichte werden
// pro Prozessstart neu gewuerfelt und nie persistiert; nur der KV-Cache
// ueberlebt einen Neustart. Der Epoch-Fingerprint macht diese Asymmetrie
// explizit: ein Cache aus einer fremden Epoche wird beim Laden verworfen.
package model

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/7blacky7/plauderkasten/ml"
)

// weightScale ist die halbe Breite des Initialisierungs-Intervalls [-0.1, 0.1)
const weightScale = 0.1

// LayerWeights sind die vier Projektionsmatrizen eines Attention-Layers,
// jeweils Dim x Dim
type LayerWeights struct {
	Query  *mat.Dense
	Key    *mat.Dense
	Value  *mat.Dense
	Output *mat.Dense
}

// Weights ist der Parameter Store: Embedding, Layer-Projektionen und
// Output-Projektion. Nach der Konstruktion strikt read-only.
type Weights struct {
	Config Config

	// Embedding ist VocabSize x Dim; Zeile t ist der Vektor von Token t
	Embedding *mat.Dense

	Layers []LayerWeights

	// Output ist Dim x VocabSize und bildet den letzten Hidden-State
	// auf Vokabular-Scores ab
	Output *mat.Dense

	// Epoch identifiziert diese Gewichts-Generation: bei festem Seed ein
	// Fingerprint aus Seed und Modellmassen, sonst eine UUID pro
	// Prozessstart. Die Masse gehoeren dazu, weil derselbe Seed mit
	// anderem Dim oder Vocab andere Matrizen liefert und ein persistierter
	// Cache dann nicht mehr zu den Gewichten passt
	Epoch string
}

// NewWeights wuerfelt einen frischen Parameter Store.
// seed != 0 macht die Initialisierung (und damit die gesamte Dekodierung)
// reproduzierbar; seed == 0 wuerfelt pro Aufruf neu.
func NewWeights(cfg Config, seed int64) (*Weights, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	epoch := fmt.Sprintf("seed-%d-l%d-d%d-v%d", seed, cfg.Layers, cfg.Dim, cfg.VocabSize)
	if seed == 0 {
		seed = time.Now().UnixNano()
		epoch = uuid.NewString()
	}

	rng := rand.New(rand.NewSource(seed))

	w := &Weights{
		Config:    cfg,
		Embedding: ml.Uniform(cfg.VocabSize, cfg.Dim, weightScale, rng),
		Layers:    make([]LayerWeights, cfg.Layers),
		Output:    ml.Uniform(cfg.Dim, cfg.VocabSize, weightScale, rng),
		Epoch:     epoch,
	}

	for l := range w.Layers {
		w.Layers[l] = LayerWeights{
			Query:  ml.Uniform(cfg.Dim, cfg.Dim, weightScale, rng),
			Key:    ml.Uniform(cfg.Dim, cfg.Dim, weightScale, rng),
			Value:  ml.Uniform(cfg.Dim, cfg.Dim, weightScale, rng),
			Output: ml.Uniform(cfg.Dim, cfg.Dim, weightScale, rng),
		}
	}

	return w, nil
}

// EmbeddingRow gibt eine Kopie des Embedding-Vektors von token zurueck
func (w *Weights) EmbeddingRow(token int) ([]float64, error) {
	if token < 0 || token >= w.Config.VocabSize {
		return nil, fmt.Errorf("token %d out of range [0, %d)", token, w.Config.VocabSize)
	}

	row := make([]float64, w.Config.Dim)
	mat.Row(row, token, w.Embedding)
	return row, nil
}
