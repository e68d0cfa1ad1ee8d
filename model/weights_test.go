// weights_test.go - Tests fuer den Parameter Store
package model

import "testing"

func TestEpochChangesWithConfig(t *testing.T) {
	// Derselbe Seed mit anderen Modellmassen liefert andere Matrizen;
	// der Fingerprint muss jede dieser Achsen unterscheiden
	base := Config{Layers: 2, Dim: 8, VocabSize: 30, MaxTokens: 5}

	variants := []Config{
		{Layers: 3, Dim: 8, VocabSize: 30, MaxTokens: 5},
		{Layers: 2, Dim: 16, VocabSize: 30, MaxTokens: 5},
		{Layers: 2, Dim: 8, VocabSize: 60, MaxTokens: 5},
	}

	w, err := NewWeights(base, 99)
	if err != nil {
		t.Fatalf("NewWeights: %v", err)
	}

	for _, cfg := range variants {
		v, err := NewWeights(cfg, 99)
		if err != nil {
			t.Fatalf("NewWeights(%+v): %v", cfg, err)
		}
		if v.Epoch == w.Epoch {
			t.Errorf("Epoch %q unterscheidet %+v nicht von %+v", w.Epoch, cfg, base)
		}
	}

	same, err := NewWeights(base, 99)
	if err != nil {
		t.Fatalf("NewWeights: %v", err)
	}
	if same.Epoch != w.Epoch {
		t.Errorf("Epoch bei gleicher Konfiguration: %q != %q", same.Epoch, w.Epoch)
	}
}

func TestEpochRandomSeedUnique(t *testing.T) {
	cfg := Config{Layers: 2, Dim: 8, VocabSize: 30, MaxTokens: 5}

	a, err := NewWeights(cfg, 0)
	if err != nil {
		t.Fatalf("NewWeights: %v", err)
	}
	b, err := NewWeights(cfg, 0)
	if err != nil {
		t.Fatalf("NewWeights: %v", err)
	}

	if a.Epoch == b.Epoch {
		t.Errorf("Epoch ohne festen Seed nicht eindeutig: %q", a.Epoch)
	}
}
