// config_model.go - Modell-Konfiguration
//
// Dieses Modul enthaelt:
// - Seed: RNG-Seed fuer die Gewichts-Initialisierung (PLAUDER_SEED)
// - Layers: Anzahl Attention-Layer (PLAUDER_LAYERS)
// - ModelDim: Breite der Hidden-Vektoren (PLAUDER_DIM)
// - VocabSize: Vokabular-Groesse inkl. EOS (PLAUDER_VOCAB)
// - MaxTokens: Obergrenze pro Antwort (PLAUDER_MAX_TOKENS)
package envconfig

import (
	"log/slog"
	"strconv"
)

// Seed gibt den Seed fuer die Gewichts-Initialisierung zurueck
// Konfigurierbar via PLAUDER_SEED
// 0 (Default) = nicht-deterministisch, Gewichte pro Prozessstart neu gewuerfelt
func Seed() int64 {
	if s := Var("PLAUDER_SEED"); s != "" {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
		slog.Warn("invalid seed, using 0", "value", s)
	}
	return 0
}

// Layers gibt die Anzahl der Attention-Layer zurueck
// Konfigurierbar via PLAUDER_LAYERS (Default: 2)
var Layers = Uint("PLAUDER_LAYERS", 2)

// ModelDim gibt die Modell-Dimension zurueck
// Konfigurierbar via PLAUDER_DIM (Default: 32)
var ModelDim = Uint("PLAUDER_DIM", 32)

// VocabSize gibt die Vokabular-Groesse zurueck
// Der hoechste Token (VocabSize-1) ist als EOS reserviert
// Konfigurierbar via PLAUDER_VOCAB (Default: 100)
var VocabSize = Uint("PLAUDER_VOCAB", 100)

// MaxTokens gibt die maximale Anzahl generierter Tokens pro Antwort zurueck
// Harte Schrittzahl-Obergrenze, kein Timeout
// Konfigurierbar via PLAUDER_MAX_TOKENS (Default: 100)
var MaxTokens = Uint("PLAUDER_MAX_TOKENS", 100)
