// config_test.go - Tests fuer die Konfigurations-Getter
package envconfig

import (
	"testing"
	"time"
)

func TestHost(t *testing.T) {
	cases := map[string]struct {
		value  string
		expect string
	}{
		"empty":               {"", "127.0.0.1:11843"},
		"only address":        {"1.2.3.4", "1.2.3.4:11843"},
		"only port":           {":1234", ":1234"},
		"address and port":    {"1.2.3.4:1234", "1.2.3.4:1234"},
		"hostname":            {"example.com", "example.com:11843"},
		"hostname and port":   {"example.com:1234", "example.com:1234"},
		"zero port":           {":0", ":0"},
		"too large port":      {":66000", ":11843"},
		"too small port":      {":-1", ":11843"},
		"ipv6 localhost":      {"[::1]", "[::1]:11843"},
		"ipv6 world open":     {"[::]", "[::]:11843"},
		"ipv6 no brackets":    {"::1", "[::1]:11843"},
		"extra space":         {" 1.2.3.4 ", "1.2.3.4:11843"},
		"extra quotes":        {"\"1.2.3.4\"", "1.2.3.4:11843"},
		"extra space+quotes":  {" \" 1.2.3.4 \" ", "1.2.3.4:11843"},
		"extra single quotes": {"'1.2.3.4'", "1.2.3.4:11843"},
		"http":                {"http://1.2.3.4", "1.2.3.4:80"},
		"http port":           {"http://1.2.3.4:4321", "1.2.3.4:4321"},
		"https":               {"https://1.2.3.4", "1.2.3.4:443"},
		"https port":          {"https://1.2.3.4:4321", "1.2.3.4:4321"},
	}

	for name, tt := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("PLAUDER_HOST", tt.value)
			if host := Host(); host.Host != tt.expect {
				t.Errorf("%s: Host = %q, erwartet %q", tt.value, host.Host, tt.expect)
			}
		})
	}
}

func TestTokenDelay(t *testing.T) {
	cases := map[string]struct {
		value  string
		expect time.Duration
	}{
		"default":      {"", 30 * time.Millisecond},
		"duration":     {"50ms", 50 * time.Millisecond},
		"seconds":      {"1s", time.Second},
		"bare integer": {"10", 10 * time.Millisecond},
		"zero":         {"0", 0},
		"negative":     {"-5ms", 0},
		"garbage":      {"schnell", 30 * time.Millisecond},
	}

	for name, tt := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("PLAUDER_TOKEN_DELAY", tt.value)
			if got := TokenDelay(); got != tt.expect {
				t.Errorf("%s: TokenDelay = %v, erwartet %v", tt.value, got, tt.expect)
			}
		})
	}
}

func TestCacheScope(t *testing.T) {
	cases := map[string]string{
		"":         ScopeSession,
		"session":  ScopeSession,
		"process":  ScopeProcess,
		"global":   ScopeSession,
		"quatsch":  ScopeSession,
	}

	for value, expect := range cases {
		t.Run("value "+value, func(t *testing.T) {
			t.Setenv("PLAUDER_CACHE_SCOPE", value)
			if got := CacheScope(); got != expect {
				t.Errorf("%q: CacheScope = %q, erwartet %q", value, got, expect)
			}
		})
	}
}

func TestUint(t *testing.T) {
	t.Setenv("PLAUDER_LAYERS", "")
	if got := Layers(); got != 2 {
		t.Errorf("Layers Default = %d, erwartet 2", got)
	}

	t.Setenv("PLAUDER_LAYERS", "4")
	if got := Layers(); got != 4 {
		t.Errorf("Layers = %d, erwartet 4", got)
	}

	t.Setenv("PLAUDER_LAYERS", "kaputt")
	if got := Layers(); got != 2 {
		t.Errorf("Layers bei ungueltigem Wert = %d, erwartet Default 2", got)
	}
}

func TestAsMapCoversAllVars(t *testing.T) {
	m := AsMap()
	for _, key := range []string{
		"PLAUDER_DEBUG", "PLAUDER_HOST", "PLAUDER_ORIGINS", "PLAUDER_DB",
		"PLAUDER_NOSAVE", "PLAUDER_SEED", "PLAUDER_LAYERS", "PLAUDER_DIM",
		"PLAUDER_VOCAB", "PLAUDER_MAX_TOKENS", "PLAUDER_CACHE_SCOPE",
		"PLAUDER_CACHE_WINDOW", "PLAUDER_CACHE_F16", "PLAUDER_TOKEN_DELAY",
	} {
		e, ok := m[key]
		if !ok {
			t.Errorf("%s fehlt in AsMap", key)
			continue
		}
		if e.Name != key || e.Description == "" {
			t.Errorf("%s: unvollstaendiger Eintrag %+v", key, e)
		}
	}
}
