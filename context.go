package netio

import "sync"

// Context is netio's rendering of the spec's abstract io_context: a
// bounded task queue drained by a Worker's pooled goroutines (Post),
// plus a way to launch a tracked, blocking-I/O goroutine per handler
// (spawn). Go has no portable non-blocking socket-readiness primitive at
// the library level, so each handler's read loop runs on its own
// goroutine performing blocking net.Conn/net.PacketConn calls; that
// goroutine posts completed frames back onto the Context so that
// callback execution happens on a pooled "reactor" goroutine, per
// SPEC_FULL.md §7.
type Context struct {
	tasks chan func()
	wg    sync.WaitGroup
}

// NewContext returns a Context with the given task queue depth.
func NewContext(queueDepth int) *Context {
	if queueDepth <= 0 {
		queueDepth = 4096
	}
	return &Context{tasks: make(chan func(), queueDepth)}
}

// Post schedules fn to run on a pool goroutine and returns immediately.
func (c *Context) Post(fn func()) {
	c.tasks <- fn
}

// PostWait schedules fn to run on a pool goroutine and blocks the caller
// until fn has completed. A handler's read loop uses this to serialize
// its own callback invocations without holding up other handlers.
func (c *Context) PostWait(fn func()) {
	done := make(chan struct{})
	c.tasks <- func() {
		fn()
		close(done)
	}
	<-done
}

// Spawn launches fn on a tracked goroutine; Worker.Stop waits for every
// spawned goroutine to return before it returns.
func (c *Context) Spawn(fn func()) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		fn()
	}()
}

func (c *Context) wait() {
	c.wg.Wait()
}
