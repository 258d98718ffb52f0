package netio

import (
	"sync"

	"go.uber.org/zap"
)

// Worker owns the event-loop goroutines and the work guard that keeps
// them alive while idle, grounded on the teacher's socket lifecycle
// (core.go: a closing flag guarded by a mutex, idempotent Close).
// Nested or repeated Start is idempotent, as is Stop.
type Worker struct {
	mu      sync.Mutex
	ctx     *Context
	started bool
	poolWG  sync.WaitGroup
	logger  *zap.Logger
}

// NewWorker constructs a Worker; it does not start any goroutines until
// Start is called.
func NewWorker(opts ...Option) *Worker {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return &Worker{ctx: NewContext(cfg.queueDepth), logger: cfg.logger}
}

// Context returns the io_context that supervisors bind against.
func (w *Worker) Context() *Context {
	return w.ctx
}

// Logger returns the structured logger installed via WithLogger.
func (w *Worker) Logger() *zap.Logger {
	return w.logger
}

// Start launches n reactor goroutines (default 1 if n <= 0). Returns
// false if the Worker is already started.
func (w *Worker) Start(n int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return false
	}
	if n <= 0 {
		n = 1
	}
	w.started = true
	for i := 0; i < n; i++ {
		w.poolWG.Add(1)
		go w.runLoop()
	}
	w.logger.Info("worker started", zap.Int("reactor_threads", n))
	return true
}

// IsStarted reports whether the Worker's reactor goroutines are running.
func (w *Worker) IsStarted() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.started
}

func (w *Worker) runLoop() {
	defer w.poolWG.Done()
	for fn := range w.ctx.tasks {
		fn()
	}
}

// Stop releases the work guard and joins every reactor and spawned
// handler goroutine. Callers must have already stopped every supervisor
// bound to this Worker's Context so no further Post/Spawn calls occur.
// Idempotent; returns false if the Worker was not started.
func (w *Worker) Stop() bool {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return false
	}
	w.started = false
	w.mu.Unlock()

	w.ctx.wait()
	close(w.ctx.tasks)
	w.poolWG.Wait()
	w.logger.Info("worker stopped")
	return true
}
