package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/felixbrock/arigato/internal/domain"
)

type Optimizer interface {
	Optimize(ctx context.Context, input domain.UserInput) (*domain.OptimizationResult, error)
}

type Analytics interface {
	Capture(ctx context.Context, eventType string, distinctId string, props map[string]any) error
}

type Config struct {
	Port       string
	Model      string
	RateLimit  float64
	RateBurst  int
	SessionTTL time.Duration
}

type App struct {
	Optimizer Optimizer
	// Analytics is optional.
	Analytics Analytics
	Config    Config

	once     sync.Once
	sessions *SessionStore
	limiter  *clientLimiter
}

func (a *App) init() {
	a.once.Do(func() {
		a.sessions = NewSessionStore(a.Config.SessionTTL)
		a.limiter = newClientLimiter(a.Config.RateLimit, a.Config.RateBurst)
	})
}

// Handler returns the routes wrapped in the middleware stack.
// Order: RequestID → Logging → Metrics → mux
func (a *App) Handler() http.Handler {
	a.init()

	limited := RateLimit(a.limiter)

	mux := http.NewServeMux()
	mux.Handle("/", ComponentHandler(a.index))
	mux.Handle("/optimize", limited(ComponentHandler(a.optimize)))
	mux.Handle("/workspace", ComponentHandler(a.workspace))
	mux.Handle("/form", ComponentHandler(a.saveForm))
	mux.Handle("/theme", ComponentHandler(a.toggleTheme))
	mux.Handle("/api/optimize", limited(http.HandlerFunc(a.apiOptimize)))
	mux.HandleFunc("/api/health", a.health)
	mux.Handle("/metrics", promhttp.Handler())

	return RequestID(Logging(Metrics(mux)))
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (a *App) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", a.Config.Port),
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go a.janitor(ctx, time.Minute)

	errCh := make(chan error, 1)
	go func() {
		slog.Info(fmt.Sprintf("App running on %s...", a.Config.Port))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func (a *App) janitor(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := a.sessions.Prune(); n > 0 {
				slog.Debug("pruned idle sessions", "count", n)
			}
			a.limiter.prune(time.Now().Add(-10 * time.Minute))
		}
	}
}
