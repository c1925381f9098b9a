package web

import (
	"context"
	"embed"
	stderrors "errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/hpungsan/twine/internal/config"
	"github.com/hpungsan/twine/internal/db"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed docs/api.md
var apiDoc []byte

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 5 * time.Second

// NewServer creates the HTTP server for the string analysis API.
func NewServer(store *db.Store, cfg *config.Config, log *zap.SugaredLogger, version string) (*http.Server, error) {
	templateSub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("failed to create template sub-FS: %w", err)
	}
	renderer, err := NewRenderer(templateSub, apiDoc, version)
	if err != nil {
		return nil, err
	}

	h := &Handlers{
		store:    store,
		cfg:      cfg,
		log:      log,
		renderer: renderer,
	}

	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h.routes(newLimiter(cfg)),
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// routes builds the mux and wraps it in the middleware chain.
func (h *Handlers) routes(limiter *rate.Limiter) http.Handler {
	mux := http.NewServeMux()

	// Routes using Go 1.22+ pattern syntax. The literal natural-language
	// path is more specific than the {value...} wildcard and wins.
	mux.HandleFunc("GET /{$}", h.HandleIndex)
	mux.HandleFunc("POST /strings", h.HandleCreate)
	mux.HandleFunc("GET /strings", h.HandleList)
	mux.HandleFunc("GET /strings/filter-by-natural-language", h.HandleInterpret)
	mux.HandleFunc("GET /strings/{value...}", h.HandleGet)
	mux.HandleFunc("DELETE /strings/{value...}", h.HandleDelete)

	var handler http.Handler = mux
	handler = securityHeaders(handler)
	handler = rateLimit(limiter, h.log)(handler)
	handler = cors(handler)
	handler = accessLog(h.log)(handler)
	handler = requestID(handler)
	return handler
}

// newLimiter returns nil when rate limiting is disabled.
func newLimiter(cfg *config.Config) *rate.Limiter {
	if cfg.RateLimitRPS <= 0 {
		return nil
	}
	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), burst)
}

// Run listens on srv.Addr and serves until ctx is cancelled or the process
// receives SIGINT/SIGTERM, then shuts down gracefully.
func Run(ctx context.Context, srv *http.Server, log *zap.SugaredLogger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return err
	}

	log.Infow("twine API listening", "addr", "http://"+ln.Addr().String())
	if strings.HasPrefix(srv.Addr, "0.0.0.0:") || strings.HasPrefix(srv.Addr, "[::]:") || strings.HasPrefix(srv.Addr, ":") {
		log.Warnw("server is binding to all interfaces and may be accessible from the network", "addr", srv.Addr)
	}

	return Serve(ctx, srv, ln, log)
}

// Serve serves on ln until ctx is done.
func Serve(ctx context.Context, srv *http.Server, ln net.Listener, log *zap.SugaredLogger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Infow("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
