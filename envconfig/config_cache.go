// config_cache.go - KV-Cache Konfiguration
//
// Dieses Modul enthaelt:
// - CacheScope: Cache-Geltungsbereich (PLAUDER_CACHE_SCOPE)
// - CacheWindow: Sliding-Window-Obergrenze (PLAUDER_CACHE_WINDOW)
// - CacheF16: Kompakte float16-Persistierung (PLAUDER_CACHE_F16)
// - NoSave: Persistierung komplett deaktivieren (PLAUDER_NOSAVE)
package envconfig

import "log/slog"

// Cache-Scopes: pro Session (Default) oder ein globaler Cache pro Prozess
// wie im urspruenglichen Widget
const (
	ScopeSession = "session"
	ScopeProcess = "process"
)

// CacheScope gibt den Geltungsbereich des KV-Caches zurueck
// Konfigurierbar via PLAUDER_CACHE_SCOPE ("session" oder "process")
func CacheScope() string {
	switch s := Var("PLAUDER_CACHE_SCOPE"); s {
	case "", ScopeSession:
		return ScopeSession
	case ScopeProcess:
		return ScopeProcess
	default:
		slog.Warn("invalid cache scope, using session", "value", s)
		return ScopeSession
	}
}

// CacheWindow gibt die maximale Anzahl Cache-Eintraege pro Layer zurueck
// 0 (Default) = unbegrenztes Wachstum, sonst Sliding-Window-Truncation
// Konfigurierbar via PLAUDER_CACHE_WINDOW
var CacheWindow = Uint("PLAUDER_CACHE_WINDOW", 0)

// CacheF16 aktiviert die kompakte float16-Kodierung persistierter Vektoren
// Konfigurierbar via PLAUDER_CACHE_F16
var CacheF16 = Bool("PLAUDER_CACHE_F16")

// NoSave deaktiviert die Persistierung des KV-Caches vollstaendig
// Konfigurierbar via PLAUDER_NOSAVE
var NoSave = Bool("PLAUDER_NOSAVE")
