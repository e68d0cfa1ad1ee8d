// decoder.go - Ein Dekodier-Schritt
//
// Step fuehrt genau einen autoregressiven Schritt aus: Embedding,
// pro Layer Attention ueber die wachsende Cache-Historie, Projektion
// auf Vokabular-Scores, Greedy-Argmax. Kein Residual, keine
// Normalisierung, kein Feed-Forward: Attention und Projektion only.
package model

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/7blacky7/plauderkasten/kvcache"
	"github.com/7blacky7/plauderkasten/ml"
)

// Decoder bindet Parameter Store, Tokenizer und den Cache-Handle einer
// Session zusammen. Steps laufen strikt sequenziell, nie nebenlaeufig
// gegen denselben Cache.
type Decoder struct {
	weights *Weights
	tok     Tokenizer
	cache   *kvcache.Cache
}

// NewDecoder erstellt einen Decoder ueber dem Cache-Handle einer Session
func NewDecoder(w *Weights, cache *kvcache.Cache) *Decoder {
	return &Decoder{
		weights: w,
		tok:     NewTokenizer(w.Config.VocabSize),
		cache:   cache,
	}
}

// Cache gibt den Cache-Handle des Decoders zurueck
func (d *Decoder) Cache() *kvcache.Cache {
	return d.cache
}

// Tokenizer gibt den Tokenizer des Decoders zurueck
func (d *Decoder) Tokenizer() Tokenizer {
	return d.tok
}

// Step dekodiert aus einem Input-Token genau ein Output-Token und haengt
// pro Layer genau ein Key/Value-Paar an den Cache an.
//
// Der frische Key wird vor dem Scoring angehaengt: das neueste Token
// attendiert also auch auf sich selbst als juengsten Cache-Eintrag.
// Das ist die beabsichtigte Kausal-Semantik, kein Off-by-one.
func (d *Decoder) Step(token int) (int, error) {
	x, err := d.weights.EmbeddingRow(token)
	if err != nil {
		return 0, err
	}

	for l, lw := range d.weights.Layers {
		q, err := ml.MulRow(x, lw.Query)
		if err != nil {
			return 0, fmt.Errorf("layer %d query: %w", l, err)
		}
		k, err := ml.MulRow(x, lw.Key)
		if err != nil {
			return 0, fmt.Errorf("layer %d key: %w", l, err)
		}
		v, err := ml.MulRow(x, lw.Value)
		if err != nil {
			return 0, fmt.Errorf("layer %d value: %w", l, err)
		}

		if err := d.cache.Append(l, k, v); err != nil {
			return 0, err
		}

		entry := d.cache.Entry(l)

		scores := make([]float64, entry.Len())
		for i, key := range entry.Keys {
			if len(key) != len(q) {
				return 0, fmt.Errorf("layer %d position %d: key dim %d vs query dim %d: %w",
					l, i, len(key), len(q), kvcache.ErrCorrupt)
			}
			scores[i] = floats.Dot(key, q)
		}

		probs := ml.Softmax(scores)

		attn := make([]float64, d.weights.Config.Dim)
		for i, val := range entry.Values {
			if len(val) != len(attn) {
				return 0, fmt.Errorf("layer %d position %d: value dim %d vs model dim %d: %w",
					l, i, len(val), len(attn), kvcache.ErrCorrupt)
			}
			floats.AddScaled(attn, probs[i], val)
		}

		x, err = ml.MulRow(attn, lw.Output)
		if err != nil {
			return 0, fmt.Errorf("layer %d output: %w", l, err)
		}

		// Persistierung pro Layer, fire and forget
		d.cache.Save(l)
	}

	logits, err := ml.MulRow(x, d.weights.Output)
	if err != nil {
		return 0, fmt.Errorf("output projection: %w", err)
	}

	return ml.Argmax(logits), nil
}
