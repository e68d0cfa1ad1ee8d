// Package model - Parameter Store, Tokenizer und inkrementeller Decoder
//
// Das Modell ist bewusst untrainiert: ein Stapel Single-Head-Attention-Layer
// ueber zufaellig initialisierten Gewichten. Der Vertrag des Packages ist die
// mechanische Reproduzierbarkeit des Dekodier-Algorithmus, nicht sinnvoller
// Text.
package model

import (
	"fmt"

	"github.com/7blacky7/plauderkasten/envconfig"
)

// Config beschreibt die Modell-Dimensionen und die Generierungs-Obergrenze
type Config struct {
	Layers    int `json:"layers"`
	Dim       int `json:"dim"`
	VocabSize int `json:"vocab_size"`
	MaxTokens int `json:"max_tokens"`
}

// FromEnv liest die Konfiguration aus PLAUDER_* Environment-Variablen
func FromEnv() Config {
	return Config{
		Layers:    int(envconfig.Layers()),
		Dim:       int(envconfig.ModelDim()),
		VocabSize: int(envconfig.VocabSize()),
		MaxTokens: int(envconfig.MaxTokens()),
	}
}

// EOS gibt den reservierten End-of-Sequence-Token zurueck.
// Immer der hoechste Token des Vokabulars; wird nie als Zeichen dekodiert.
func (c Config) EOS() int {
	return c.VocabSize - 1
}

// Validate prueft die Dimensionen auf Plausibilitaet
func (c Config) Validate() error {
	switch {
	case c.Layers < 1:
		return fmt.Errorf("layers must be at least 1, got %d", c.Layers)
	case c.Dim < 1:
		return fmt.Errorf("dim must be at least 1, got %d", c.Dim)
	case c.VocabSize < 2:
		// mindestens ein dekodierbarer Token plus EOS
		return fmt.Errorf("vocab size must be at least 2, got %d", c.VocabSize)
	case c.MaxTokens < 1:
		return fmt.Errorf("max tokens must be at least 1, got %d", c.MaxTokens)
	}
	return nil
}
