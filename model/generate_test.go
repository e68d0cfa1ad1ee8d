// generate_test.go - Tests fuer Generierungsschleife und Respond
package model

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/7blacky7/plauderkasten/kvcache"
	"github.com/7blacky7/plauderkasten/store"
)

func TestGenerateBounded(t *testing.T) {
	d := newTestDecoder(t, 11)

	out, err := d.Generate(context.Background(), 5, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if len(out) > testConfig.MaxTokens {
		t.Errorf("len(out) = %d, Obergrenze %d", len(out), testConfig.MaxTokens)
	}

	for i, token := range out {
		if token == testConfig.EOS() {
			t.Errorf("out[%d] ist EOS", i)
		}
		if token < 0 || token >= testConfig.VocabSize {
			t.Errorf("out[%d] = %d, ausserhalb des Vokabulars", i, token)
		}
	}
}

func TestGenerateReproducible(t *testing.T) {
	// Fester Seed, leerer Cache, Input-Token 5: zwei unabhaengige Laeufe
	// muessen dieselbe Sequenz liefern (Szenario 2 Layer, Dim 32, Vokabular 100)
	a := newTestDecoder(t, 1337)
	b := newTestDecoder(t, 1337)

	outA, err := a.Generate(context.Background(), 5, nil)
	if err != nil {
		t.Fatalf("Generate a: %v", err)
	}
	outB, err := b.Generate(context.Background(), 5, nil)
	if err != nil {
		t.Fatalf("Generate b: %v", err)
	}

	if diff := cmp.Diff(outA, outB); diff != "" {
		t.Errorf("Sequenzen weichen ab (-a +b):\n%s", diff)
	}
}

func TestGenerateReusesCache(t *testing.T) {
	// Ein zweiter Aufruf startet eine frische Schleife, mutiert aber
	// dieselbe Cache-Historie weiter
	d := newTestDecoder(t, 2)

	first, err := d.Generate(context.Background(), 5, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	lenAfterFirst := d.Cache().Len(0)
	if lenAfterFirst == 0 {
		t.Fatal("Cache nach erstem Lauf leer")
	}

	second, err := d.Generate(context.Background(), 5, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if got := d.Cache().Len(0); got <= lenAfterFirst {
		t.Errorf("Cache nach zweitem Lauf: Len = %d, erwartet > %d", got, lenAfterFirst)
	}

	// Gleicher Input, aber laengere Historie: die Laeufe duerfen abweichen,
	// nur die Schrittzahl-Obergrenze gilt weiterhin
	if len(first) > testConfig.MaxTokens || len(second) > testConfig.MaxTokens {
		t.Error("MaxTokens ueberschritten")
	}
}

func TestGenerateCancellation(t *testing.T) {
	d := newTestDecoder(t, 4)

	ctx, cancel := context.WithCancel(context.Background())

	var emitted int
	_, err := d.Generate(ctx, 5, func(int) error {
		emitted++
		if emitted == 2 {
			cancel()
		}
		return nil
	})

	if err == nil {
		// Lauf kann regulaer vor dem zweiten Token enden (EOS), dann
		// gibt es nichts abzubrechen
		if emitted >= 2 {
			t.Error("Generate lief trotz Cancel weiter")
		}
		return
	}

	if ctx.Err() == nil {
		t.Errorf("Generate Fehler = %v ohne Context-Abbruch", err)
	}

	// Die Appends des letzten Schritts bleiben committed
	for l := 0; l < testConfig.Layers; l++ {
		if err := d.Cache().Entry(l).Check(); err != nil {
			t.Errorf("Layer %d nach Cancel: %v", l, err)
		}
	}
}

func TestRespondEmptyInput(t *testing.T) {
	d := newTestDecoder(t, 6)

	got, err := d.Respond(context.Background(), "")
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if got != "" {
		t.Errorf("Respond(\"\") = %q, erwartet \"\"", got)
	}
	if d.Cache().Len(0) != 0 {
		t.Error("leerer Input hat den Cache mutiert")
	}
}

func TestRespondStreamMatchesResult(t *testing.T) {
	a := newTestDecoder(t, 8)
	b := newTestDecoder(t, 8)

	want, err := a.Respond(context.Background(), "hallo")
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}

	var streamed string
	got, err := b.RespondStream(context.Background(), "hallo", func(fragment string) error {
		streamed += fragment
		return nil
	})
	if err != nil {
		t.Fatalf("RespondStream: %v", err)
	}

	if got != want {
		t.Errorf("RespondStream = %q, Respond = %q", got, want)
	}
	if streamed != want {
		t.Errorf("gestreamte Fragmente = %q, erwartet %q", streamed, want)
	}
}

func TestGenerateSurvivesPersistedReload(t *testing.T) {
	// Gleiche Epoche: ein persistierter Cache wird beim zweiten Start
	// uebernommen und die Generierung setzt auf der Historie auf.
	// Kleines MaxTokens haelt die Save-Queue unter ihrer Tiefe, damit
	// keine Best-Effort-Writes verworfen werden.
	backend := store.NewMemory()
	cfg := Config{Layers: 2, Dim: 8, VocabSize: 30, MaxTokens: 5}

	w, err := NewWeights(cfg, 99)
	if err != nil {
		t.Fatalf("NewWeights: %v", err)
	}

	c1 := kvcache.New(backend, "s", cfg.Layers, w.Epoch, 0)
	d1 := NewDecoder(w, c1)
	if _, err := d1.Generate(context.Background(), 5, nil); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	grown := c1.Len(0)
	if grown == 0 {
		t.Fatal("Cache nach Generate leer")
	}
	c1.Close()

	c2 := kvcache.New(backend, "s", cfg.Layers, w.Epoch, 0)
	defer c2.Close()

	if got := c2.Len(0); got != grown {
		t.Errorf("Len nach Reload = %d, erwartet %d", got, grown)
	}
}

func TestConfigChangeDiscardsPersistedCache(t *testing.T) {
	// Gleicher Seed, aber Dim 8 -> 16: die persistierten Keys passen nicht
	// mehr zu den neuen Queries. Die Epoche muss wechseln, der alte Cache
	// verworfen werden und die Generierung sauber durchlaufen.
	backend := store.NewMemory()

	cfg := Config{Layers: 2, Dim: 8, VocabSize: 30, MaxTokens: 5}
	w1, err := NewWeights(cfg, 99)
	if err != nil {
		t.Fatalf("NewWeights: %v", err)
	}

	c1 := kvcache.New(backend, "s", cfg.Layers, w1.Epoch, 0)
	d1 := NewDecoder(w1, c1)
	if _, err := d1.Generate(context.Background(), 5, nil); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	c1.Close()

	cfg.Dim = 16
	w2, err := NewWeights(cfg, 99)
	if err != nil {
		t.Fatalf("NewWeights: %v", err)
	}
	if w2.Epoch == w1.Epoch {
		t.Fatalf("Epoch %q unveraendert trotz anderem Dim", w2.Epoch)
	}

	c2 := kvcache.New(backend, "s", cfg.Layers, w2.Epoch, 0)
	defer c2.Close()

	if got := c2.Len(0); got != 0 {
		t.Fatalf("Len nach Epoch-Wechsel = %d, erwartet 0", got)
	}

	d2 := NewDecoder(w2, c2)
	if _, err := d2.Generate(context.Background(), 5, nil); err != nil {
		t.Errorf("Generate nach Konfigurationswechsel: %v", err)
	}
}
