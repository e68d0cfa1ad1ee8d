// Package server - Haupt-Router und Server-Setup fuer Plauderkasten
// Beinhaltet: Server-Struct, Router-Registrierung, Middleware, Server-Start
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/7blacky7/plauderkasten/envconfig"
	"github.com/7blacky7/plauderkasten/kvcache"
	"github.com/7blacky7/plauderkasten/logutil"
	"github.com/7blacky7/plauderkasten/model"
	"github.com/7blacky7/plauderkasten/store"
	"github.com/7blacky7/plauderkasten/version"
)

var mode string = gin.ReleaseMode

// Server verwaltet den HTTP-Server und die Session-Registry
type Server struct {
	addr net.Addr
	reg  *registry
}

func init() {
	switch mode {
	case gin.DebugMode:
	case gin.ReleaseMode:
	case gin.TestMode:
	default:
		mode = gin.ReleaseMode
	}

	gin.SetMode(mode)
}

// isLocalIP prueft ob die IP-Adresse zu einem lokalen Interface gehoert
func isLocalIP(ip netip.Addr) bool {
	if interfaces, err := net.Interfaces(); err == nil {
		for _, iface := range interfaces {
			addrs, err := iface.Addrs()
			if err != nil {
				continue
			}

			for _, a := range addrs {
				if parsed, _, err := net.ParseCIDR(a.String()); err == nil {
					if parsed.String() == ip.String() {
						return true
					}
				}
			}
		}
	}

	return false
}

// allowedHost prueft ob der Host erlaubt ist
func allowedHost(host string) bool {
	host = strings.ToLower(host)

	if host == "" || host == "localhost" {
		return true
	}

	if hostname, err := os.Hostname(); err == nil && host == strings.ToLower(hostname) {
		return true
	}

	tlds := []string{
		"localhost",
		"local",
		"internal",
	}

	// Pruefe ob der Host eine lokale TLD hat
	for _, tld := range tlds {
		if strings.HasSuffix(host, "."+tld) {
			return true
		}
	}

	return false
}

// allowedHostsMiddleware blockiert Anfragen von nicht erlaubten Hosts
func allowedHostsMiddleware(addr net.Addr) gin.HandlerFunc {
	return func(c *gin.Context) {
		if addr == nil {
			c.Next()
			return
		}

		if addr, err := netip.ParseAddrPort(addr.String()); err == nil && !addr.Addr().IsLoopback() {
			c.Next()
			return
		}

		host, _, err := net.SplitHostPort(c.Request.Host)
		if err != nil {
			host = c.Request.Host
		}

		if addr, err := netip.ParseAddr(host); err == nil {
			if addr.IsLoopback() || addr.IsPrivate() || addr.IsUnspecified() || isLocalIP(addr) {
				c.Next()
				return
			}
		}

		if allowedHost(host) {
			if c.Request.Method == http.MethodOptions {
				c.AbortWithStatus(http.StatusNoContent)
				return
			}

			c.Next()
			return
		}

		c.AbortWithStatus(http.StatusForbidden)
	}
}

// GenerateRoutes erstellt und konfiguriert den HTTP-Router
func (s *Server) GenerateRoutes() (http.Handler, error) {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowWildcard = true
	corsConfig.AllowBrowserExtensions = true
	corsConfig.AllowHeaders = []string{
		"Authorization",
		"Content-Type",
		"User-Agent",
		"Accept",
		"X-Requested-With",
	}
	corsConfig.AllowOrigins = envconfig.AllowedOrigins()

	r := gin.Default()
	r.HandleMethodNotAllowed = true
	r.Use(
		cors.New(corsConfig),
		allowedHostsMiddleware(s.addr),
	)

	// Widget und Version
	r.HEAD("/", func(c *gin.Context) { c.String(http.StatusOK, "Plauderkasten is running") })
	r.GET("/", s.WidgetHandler)
	r.HEAD("/api/version", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"version": version.Version}) })
	r.GET("/api/version", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"version": version.Version}) })

	// Chat
	r.POST("/api/chat", s.ChatHandler)
	r.GET("/api/history", s.HistoryHandler)

	// Cache-Verwaltung
	r.GET("/api/status", s.StatusHandler)
	r.POST("/api/reset", s.ResetHandler)

	return r, nil
}

// Serve startet den HTTP-Server auf dem uebergebenen Listener
func Serve(ln net.Listener) error {
	slog.SetDefault(logutil.NewLogger(os.Stderr, envconfig.LogLevel()))
	slog.Info("server config", "env", envconfig.Values())

	cfg := model.FromEnv()
	if err := cfg.Validate(); err != nil {
		return err
	}

	w, err := model.NewWeights(cfg, envconfig.Seed())
	if err != nil {
		return err
	}
	slog.Info("weights initialized", "epoch", w.Epoch, "layers", cfg.Layers, "dim", cfg.Dim, "vocab", cfg.VocabSize)

	var backend chatBackend
	var closer interface{ Close() error }
	if envconfig.NoSave() {
		slog.Info("persistence disabled, using in-memory cache backend")
		backend = store.NewMemory()
	} else {
		st, err := store.New(envconfig.DBPath(), envconfig.CacheF16())
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		backend = st
		closer = st
	}

	s := &Server{
		addr: ln.Addr(),
		reg:  newRegistry(w, backend, envconfig.CacheScope(), int(envconfig.CacheWindow())),
	}

	h, err := s.GenerateRoutes()
	if err != nil {
		return err
	}

	slog.Info(fmt.Sprintf("Listening on %s (version %s)", ln.Addr(), version.Version))
	srvr := &http.Server{Handler: h}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srvr.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		// Auf ctrl+c warten, dann offene Streams beenden und die
		// Save-Queues der Sessions leerlaufen lassen
		<-ctx.Done()
		srvr.Close()
		s.reg.close()
		if closer != nil {
			return closer.Close()
		}
		return nil
	})

	return g.Wait()
}

// chatBackend buendelt Cache-Persistierung und Chat-Verlauf.
// Erfuellt von store.Store (SQLite) und store.Memory (PLAUDER_NOSAVE).
type chatBackend interface {
	kvcache.Backend
	AppendMessage(session, role, content string) error
	Messages(session string) ([]store.Message, error)
	Sessions() ([]string, error)
}
