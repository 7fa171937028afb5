// Package preview serves the rendered site locally, rebuilding when the
// content root changes.
package preview

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/pagepress/internal/config"
	"git.home.luguber.info/inful/pagepress/internal/logfields"
	"git.home.luguber.info/inful/pagepress/internal/metrics"
	"git.home.luguber.info/inful/pagepress/internal/pipeline"
	"git.home.luguber.info/inful/pagepress/internal/state"
)

// buildStatus tracks the last build result for the health endpoint.
type buildStatus struct {
	mu           sync.RWMutex
	lastError    error
	hasGoodBuild bool
}

func (bs *buildStatus) set(err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = err
	if err == nil {
		bs.hasGoodBuild = true
	}
}

func (bs *buildStatus) snapshot() (err error, hasGoodBuild bool) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.lastError, bs.hasGoodBuild
}

// Server is the preview daemon: HTTP file server, content watcher, and a
// periodic safety rebuild.
type Server struct {
	cfg      *config.Config
	builder  *pipeline.Builder
	registry *prom.Registry
	store    *state.Store
	status   buildStatus
}

// NewServer creates a preview server with Prometheus metrics and, when the
// configuration names a state file, an incremental build store.
func NewServer(cfg *config.Config) (*Server, error) {
	reg := prom.NewRegistry()
	builder := pipeline.NewBuilder(cfg).WithRecorder(metrics.NewPrometheusRecorder(reg))
	s := &Server{cfg: cfg, builder: builder, registry: reg}
	if cfg.Build.StateFile != "" {
		store, err := state.Open(cfg.Build.StateFile)
		if err != nil {
			return nil, err
		}
		s.store = store
		s.builder = builder.WithStateStore(store)
	}
	return s, nil
}

// Close releases the state store, if any.
func (s *Server) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}

// Run builds once, then serves and watches until the context is canceled.
func (s *Server) Run(ctx context.Context) error {
	s.rebuild(ctx, "startup")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watchRecursive(watcher, s.cfg.Content.Dir); err != nil {
		return err
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(s.cfg.Preview.RebuildInterval.Std()),
		gocron.NewTask(func() { s.rebuild(ctx, "schedule") }),
		gocron.WithName("periodic-rebuild"),
	)
	if err != nil {
		return fmt.Errorf("schedule periodic rebuild: %w", err)
	}
	scheduler.Start()
	defer func() { _ = scheduler.Shutdown() }()

	httpServer := s.newHTTPServer()
	serveErr := make(chan error, 1)
	go func() {
		slog.Info("Preview server listening", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	debounce := s.cfg.Preview.Debounce.Std()
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		case err := <-serveErr:
			return err
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevantEvent(event) {
				continue
			}
			// New directories must join the watch before their files change.
			if event.Op.Has(fsnotify.Create) {
				_ = watchRecursive(watcher, event.Name)
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			timerC = timer.C
		case <-timerC:
			timerC = nil
			s.rebuild(ctx, "watch")
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (s *Server) rebuild(ctx context.Context, trigger string) {
	report, err := s.builder.Build(ctx, pipeline.Options{})
	if err == nil && !report.Succeeded() {
		err = fmt.Errorf("%d documents failed", report.Failed)
	}
	s.status.set(err)
	if err != nil {
		slog.Warn("Preview rebuild failed", slog.String("trigger", trigger), logfields.Error(err))
		return
	}
	slog.Info("Preview rebuilt",
		slog.String("trigger", trigger),
		slog.Int("built", report.Built),
		slog.Int("skipped", report.Skipped))
}

func (s *Server) newHTTPServer() *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(s.cfg.Output.Directory)))
	mux.Handle("/metrics", metrics.HTTPHandler(s.registry))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		err, good := s.status.snapshot()
		switch {
		case err == nil:
			fmt.Fprintln(w, "ok")
		case good:
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, "degraded: %v\n", err)
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, "failing: %v\n", err)
		}
	})

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Preview.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// watchRecursive adds a directory and its subdirectories to the watcher.
// Non-directories are ignored.
func watchRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !entry.IsDir() {
			return nil
		}
		name := entry.Name()
		if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

func relevantEvent(event fsnotify.Event) bool {
	if event.Op.Has(fsnotify.Chmod) && event.Op&^fsnotify.Chmod == 0 {
		return false
	}
	base := filepath.Base(event.Name)
	return !strings.HasPrefix(base, ".")
}
