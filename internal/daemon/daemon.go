package daemon

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/granville-run/granville/internal/app"
	"github.com/granville-run/granville/internal/infra/audit"
	"github.com/granville-run/granville/internal/infra/engine"
	"github.com/granville-run/granville/internal/infra/metrics"
	"github.com/granville-run/granville/internal/infra/queue"
	"github.com/granville-run/granville/internal/infra/ranker"
	"github.com/granville-run/granville/internal/infra/status"
	"github.com/granville-run/granville/internal/infra/transport"
	"github.com/granville-run/granville/internal/infra/worker"
)

// metricsSampleInterval is how often pool and queue depth gauges are
// refreshed — these don't change on every mutation, so a periodic sampler
// is cheaper than updating them inline on every push/pop/acquire.
const metricsSampleInterval = 2 * time.Second

// Daemon is the kernel runtime. It wires together the model pool, the
// two-stage queue, the ranker, the worker pool, the connection handler,
// and the optional status server and audit log.
type Daemon struct {
	Config   Config
	Pool     *engine.Pool
	Unranked *queue.Unranked
	Ranked   *queue.Ranked
	Ranker   *ranker.Loop
	Workers  *worker.Pool
	Handler  *app.Handler
	Audit    *audit.Log

	listener  net.Listener
	statusSrv *http.Server
	cancel    context.CancelFunc
}

// New creates a Daemon. modelSpecs are the `path`, `type:path` or
// `type:id:path` arguments given to the serve command; each is loaded into the pool
// before the daemon starts accepting connections.
func New(cfg Config, modelSpecs []string) (*Daemon, error) {
	backend, err := openBackend(cfg.Socket.DriverPath)
	if err != nil {
		return nil, fmt.Errorf("open backend: %w", err)
	}

	pool := engine.NewPool(backend)
	for _, raw := range modelSpecs {
		spec, err := engine.ParseSpec(raw)
		if err != nil {
			pool.Teardown()
			return nil, fmt.Errorf("parse model spec %q: %w", raw, err)
		}
		if _, err := pool.Load(spec); err != nil {
			pool.Teardown()
			return nil, fmt.Errorf("load model %q: %w", raw, err)
		}
	}

	var auditLog *audit.Log
	if cfg.Audit.Path != "" {
		auditLog, err = audit.Open(cfg.Audit.Path)
		if err != nil {
			log.Printf("[daemon] WARNING: audit log disabled: %v", err)
		}
	}

	unranked := queue.NewUnranked()
	ranked := queue.NewRanked(cfg.Queue.MaxSize)

	d := &Daemon{
		Config:   cfg,
		Pool:     pool,
		Unranked: unranked,
		Ranked:   ranked,
		Ranker:   ranker.New(unranked, ranked, pool),
		Audit:    auditLog,
		Handler: &app.Handler{
			Unranked: unranked,
			Ranked:   ranked,
		},
	}

	var sink worker.AuditSink
	if auditLog != nil {
		sink = auditLog
	}
	d.Workers = worker.New(ranked, pool, sink)

	if cfg.Status.Port > 0 {
		d.statusSrv = &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Status.Port),
			Handler: status.New(pool, unranked, ranked).Handler(),
		}
	}

	return d, nil
}

// openBackend opens the configured C-ABI driver, or falls back to the
// in-process mock backend when no driver path is configured — useful for
// smoke-testing a model topology without a real inference library.
func openBackend(libPath string) (engine.Driver, error) {
	if libPath == "" {
		return engine.NewMockBackend(), nil
	}
	return engine.OpenBackend(libPath)
}

// Serve opens the IPC listener and blocks until ctx is cancelled or a
// termination signal arrives, then shuts down gracefully.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	ln, err := transport.Listen(d.Config.Socket.Path)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	d.listener = ln

	go d.Ranker.Run()
	d.Workers.Start(d.Config.WorkerCount(d.Pool.Count()))
	go d.sampleMetrics(ctx)

	if d.statusSrv != nil {
		go func() {
			if err := d.statusSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("[daemon] status server error: %v", err)
			}
		}()
	}

	acceptErr := make(chan error, 1)
	go func() {
		acceptErr <- d.Handler.Serve(ln)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	log.Printf("[daemon] listening on %s (%d models loaded)", d.Config.Socket.Path, d.Pool.Count())

	select {
	case <-sigCh:
	case <-ctx.Done():
	case err := <-acceptErr:
		d.Close()
		return err
	}

	d.Close()
	return nil
}

// sampleMetrics periodically refreshes the pool and queue depth gauges
// until ctx is cancelled.
func (d *Daemon) sampleMetrics(ctx context.Context) {
	ticker := time.NewTicker(metricsSampleInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.SampleQueues(d.Unranked.Len(), d.Ranked.Len())

			models := d.Pool.Models()
			active := 0
			for _, m := range models {
				active += int(m.ActiveRequests)
			}
			metrics.SamplePool(len(models), active)
		}
	}
}

// Close shuts down all daemon resources. Safe to call more than once.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.listener != nil {
		d.listener.Close()
	}
	if d.statusSrv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		d.statusSrv.Shutdown(shutdownCtx)
	}
	d.Workers.Stop()
	d.Ranker.Stop()
	d.Pool.Teardown()
	if d.Audit != nil {
		d.Audit.Close()
	}
}
