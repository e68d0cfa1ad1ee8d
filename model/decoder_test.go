// decoder_test.go - Tests fuer den Dekodier-Schritt
package model

import (
	"testing"

	"github.com/7blacky7/plauderkasten/kvcache"
)

var testConfig = Config{Layers: 2, Dim: 32, VocabSize: 100, MaxTokens: 100}

func newTestDecoder(t *testing.T, seed int64) *Decoder {
	t.Helper()

	w, err := NewWeights(testConfig, seed)
	if err != nil {
		t.Fatalf("NewWeights: %v", err)
	}

	cache := kvcache.New(nil, "test", testConfig.Layers, w.Epoch, 0)
	t.Cleanup(cache.Close)

	return NewDecoder(w, cache)
}

func TestStepGrowsCacheByOnePerLayer(t *testing.T) {
	d := newTestDecoder(t, 1)

	for step := 1; step <= 5; step++ {
		if _, err := d.Step(5); err != nil {
			t.Fatalf("Step: %v", err)
		}

		for l := 0; l < testConfig.Layers; l++ {
			if got := d.Cache().Len(l); got != step {
				t.Errorf("Schritt %d, Layer %d: Len = %d, erwartet %d", step, l, got, step)
			}
			if err := d.Cache().Entry(l).Check(); err != nil {
				t.Errorf("Schritt %d, Layer %d: %v", step, l, err)
			}
		}
	}
}

func TestStepDeterministic(t *testing.T) {
	// Gleiche Gewichte, gleicher Cache-Zustand, gleicher Input
	// muessen denselben Output und dasselbe Cache-Wachstum liefern
	a := newTestDecoder(t, 42)
	b := newTestDecoder(t, 42)

	input := 5
	for i := 0; i < 10; i++ {
		ta, err := a.Step(input)
		if err != nil {
			t.Fatalf("Step a: %v", err)
		}
		tb, err := b.Step(input)
		if err != nil {
			t.Fatalf("Step b: %v", err)
		}

		if ta != tb {
			t.Fatalf("Schritt %d: %d != %d", i, ta, tb)
		}
		input = ta % (testConfig.VocabSize - 1)
	}
}

func TestStepRejectsOutOfRangeToken(t *testing.T) {
	d := newTestDecoder(t, 1)

	if _, err := d.Step(testConfig.VocabSize); err == nil {
		t.Error("Step akzeptiert Token ausserhalb des Vokabulars")
	}
	if _, err := d.Step(-1); err == nil {
		t.Error("Step akzeptiert negativen Token")
	}

	// Fehlschlag darf den Cache nicht anwachsen lassen
	for l := 0; l < testConfig.Layers; l++ {
		if got := d.Cache().Len(l); got != 0 {
			t.Errorf("Layer %d: Len = %d, erwartet 0", l, got)
		}
	}
}

func TestStepOutputInVocab(t *testing.T) {
	d := newTestDecoder(t, 3)

	token, err := d.Step(0)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if token < 0 || token >= testConfig.VocabSize {
		t.Errorf("Step = %d, ausserhalb [0, %d)", token, testConfig.VocabSize)
	}
}
