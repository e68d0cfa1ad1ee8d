// config_utils.go - Utility-Funktionen und Export fuer Konfiguration
//
// Dieses Modul enthaelt:
// - Bool: Boolean-Getter
// - Uint: Integer-Getter mit Default-Wert
// - EnvVar: Struktur fuer Environment-Variablen-Info
// - AsMap: Gibt alle Konfigurationen als Map zurueck
// - Values: Gibt alle Konfigurationswerte als String-Map zurueck
package envconfig

import (
	"fmt"
	"log/slog"
	"strconv"
)

// Bool gibt eine Funktion zurueck, die einen Bool liest (Default: false)
func Bool(k string) func() bool {
	return func() bool {
		if s := Var(k); s != "" {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return true
			}
			return b
		}
		return false
	}
}

// Uint gibt eine Funktion zurueck, die einen uint mit Default-Wert liest
func Uint(key string, defaultValue uint) func() uint {
	return func() uint {
		if s := Var(key); s != "" {
			if n, err := strconv.ParseUint(s, 10, 64); err != nil {
				slog.Warn("invalid environment variable, using default", "key", key, "value", s, "default", defaultValue)
			} else {
				return uint(n)
			}
		}
		return defaultValue
	}
}

// EnvVar repraesentiert eine Environment-Variable mit Metadaten
type EnvVar struct {
	Name        string
	Value       any
	Description string
}

// AsMap gibt alle Konfigurationen als Map zurueck
// Enthaelt Namen, aktuelle Werte und Beschreibungen
func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"PLAUDER_DEBUG":        {"PLAUDER_DEBUG", LogLevel(), "Show additional debug information (e.g. PLAUDER_DEBUG=1)"},
		"PLAUDER_HOST":         {"PLAUDER_HOST", Host(), "IP Address for the plauderkasten server (default 127.0.0.1:11843)"},
		"PLAUDER_ORIGINS":      {"PLAUDER_ORIGINS", AllowedOrigins(), "A comma separated list of allowed origins"},
		"PLAUDER_DB":           {"PLAUDER_DB", DBPath(), "The path to the SQLite database"},
		"PLAUDER_NOSAVE":       {"PLAUDER_NOSAVE", NoSave(), "Do not persist the KV cache or chat history"},
		"PLAUDER_SEED":         {"PLAUDER_SEED", Seed(), "Seed for weight initialization (0 = random per start)"},
		"PLAUDER_LAYERS":       {"PLAUDER_LAYERS", Layers(), "Number of attention layers (default 2)"},
		"PLAUDER_DIM":          {"PLAUDER_DIM", ModelDim(), "Model dimension (default 32)"},
		"PLAUDER_VOCAB":        {"PLAUDER_VOCAB", VocabSize(), "Vocabulary size including EOS (default 100)"},
		"PLAUDER_MAX_TOKENS":   {"PLAUDER_MAX_TOKENS", MaxTokens(), "Maximum tokens generated per response (default 100)"},
		"PLAUDER_CACHE_SCOPE":  {"PLAUDER_CACHE_SCOPE", CacheScope(), "KV cache scope: session or process (default session)"},
		"PLAUDER_CACHE_WINDOW": {"PLAUDER_CACHE_WINDOW", CacheWindow(), "Sliding window cap per layer (0 = unbounded)"},
		"PLAUDER_CACHE_F16":    {"PLAUDER_CACHE_F16", CacheF16(), "Persist cache vectors as float16"},
		"PLAUDER_TOKEN_DELAY":  {"PLAUDER_TOKEN_DELAY", TokenDelay(), "Artificial delay between streamed tokens (default 30ms)"},
	}
}

// Values gibt alle Konfigurationswerte als String-Map zurueck
func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmt.Sprintf("%v", v.Value)
	}
	return vals
}
