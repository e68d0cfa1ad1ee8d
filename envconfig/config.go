// config.go - Haupt-Konfigurationsfunktionen fuer plauderkasten
//
// Dieses Modul enthaelt:
// - Host: Gibt Scheme und Host zurueck (PLAUDER_HOST)
// - AllowedOrigins: Gibt erlaubte Origins zurueck (PLAUDER_ORIGINS)
// - DBPath: Gibt den Pfad der SQLite-Datenbank zurueck (PLAUDER_DB)
// - TokenDelay: Gibt die Anzeige-Pause zwischen Tokens zurueck (PLAUDER_TOKEN_DELAY)
// - LogLevel: Gibt Log-Level zurueck (PLAUDER_DEBUG)
//
// Weitere Konfigurationen sind ausgelagert:
// - config_model.go: Modell-Dimensionen und Seed
// - config_cache.go: KV-Cache Scope, Fenster und Encoding
// - config_utils.go: Utility-Funktionen und AsMap/Values
package envconfig

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Host gibt Scheme und Host zurueck
// Konfigurierbar via PLAUDER_HOST
// Default: http://127.0.0.1:11843
func Host() *url.URL {
	defaultPort := "11843"

	s := strings.TrimSpace(Var("PLAUDER_HOST"))
	scheme, hostport, ok := strings.Cut(s, "://")
	switch {
	case !ok:
		scheme, hostport = "http", s
	case scheme == "http":
		defaultPort = "80"
	case scheme == "https":
		defaultPort = "443"
	}

	hostport, path, _ := strings.Cut(hostport, "/")
	host, port, err := net.SplitHostPort(hostport)
	if err != nil {
		host, port = "127.0.0.1", defaultPort
		if ip := net.ParseIP(strings.Trim(hostport, "[]")); ip != nil {
			host = ip.String()
		} else if hostport != "" {
			host = hostport
		}
	}

	if n, err := strconv.ParseInt(port, 10, 32); err != nil || n > 65535 || n < 0 {
		slog.Warn("invalid port, using default", "port", port, "default", defaultPort)
		port = defaultPort
	}

	return &url.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(host, port),
		Path:   path,
	}
}

// AllowedOrigins gibt erlaubte Origins zurueck
// Konfigurierbar via PLAUDER_ORIGINS (komma-separiert)
// Enthaelt Standard-Origins fuer localhost
func AllowedOrigins() (origins []string) {
	if s := Var("PLAUDER_ORIGINS"); s != "" {
		origins = strings.Split(s, ",")
	}

	// Standard-Origins fuer localhost
	for _, origin := range []string{"localhost", "127.0.0.1", "0.0.0.0"} {
		origins = append(origins,
			fmt.Sprintf("http://%s", origin),
			fmt.Sprintf("https://%s", origin),
			fmt.Sprintf("http://%s", net.JoinHostPort(origin, "*")),
			fmt.Sprintf("https://%s", net.JoinHostPort(origin, "*")),
		)
	}

	// App-Protokolle
	origins = append(origins,
		"app://*",
		"file://*",
		"tauri://*",
		"vscode-webview://*",
		"vscode-file://*",
	)

	return origins
}

// DBPath gibt den Pfad der SQLite-Datenbank zurueck
// Konfigurierbar via PLAUDER_DB
// Default: $HOME/.plauderkasten/plauder.db
func DBPath() string {
	if s := Var("PLAUDER_DB"); s != "" {
		return s
	}

	home, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}

	return filepath.Join(home, ".plauderkasten", "plauder.db")
}

// TokenDelay gibt die kuenstliche Pause zwischen gestreamten Tokens zurueck
// Konfigurierbar via PLAUDER_TOKEN_DELAY
// Reine Anzeige-Angelegenheit (Tipp-Effekt), keine Korrektheitsfrage
// Default: 30ms
func TokenDelay() (delay time.Duration) {
	delay = 30 * time.Millisecond
	if s := Var("PLAUDER_TOKEN_DELAY"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			delay = d
		} else if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			delay = time.Duration(n) * time.Millisecond
		}
	}

	if delay < 0 {
		return 0
	}

	return delay
}

// LogLevel gibt das Log-Level zurueck
// Konfigurierbar via PLAUDER_DEBUG
// Werte: 0/false = INFO (Default), 1/true = DEBUG, 2 = TRACE
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if s := Var("PLAUDER_DEBUG"); s != "" {
		if b, _ := strconv.ParseBool(s); b {
			level = slog.LevelDebug
		} else if i, _ := strconv.ParseInt(s, 10, 64); i != 0 {
			level = slog.Level(i * -4)
		}
	}

	return level
}

// Var gibt eine Environment-Variable zurueck
// Entfernt fuehrende/trailing Quotes und Leerzeichen
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}
