// Package logctx is a reference BuildContext backed by zerolog, suitable
// for a host program that wants structured, leveled log lines out of
// Task.LogDisplay without writing its own sink.
package logctx

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/corvidwork/scheduler"
)

// Sink adapts a zerolog.Logger to scheduler.LogSink, tagging every line
// with a run id so log lines from concurrent builds (or concurrent test
// runs sharing stdout) can be told apart.
type Sink struct {
	logger zerolog.Logger
	runID  string
}

// NewSink returns a Sink that writes through logger, stamping every
// entry with a freshly generated run id.
func NewSink(logger zerolog.Logger) *Sink {
	return &Sink{logger: logger, runID: uuid.NewString()}
}

func (s *Sink) Infof(format string, args ...any) {
	s.logger.Info().Str("run_id", s.runID).Msgf(format, args...)
}

func (s *Sink) Errorf(format string, args ...any) {
	s.logger.Error().Str("run_id", s.runID).Msgf(format, args...)
}

// Context is a scheduler.BuildContext that logs through a Sink and
// caches task up-to-date signatures in memory, evicting them exactly as
// Driver's error handler expects: one uid at a time, never cascading to
// dependents.
type Context struct {
	sink  *Sink
	total int64

	mu   sync.RWMutex
	sigs map[any]string
}

// NewContext returns a Context logging through logger with an initial
// task-count estimate of total.
func NewContext(logger zerolog.Logger, total int) *Context {
	return &Context{
		sink:  NewSink(logger),
		total: int64(total),
		sigs:  make(map[any]string),
	}
}

func (c *Context) Total() int { return int(atomic.LoadInt64(&c.total)) }

// SetTotal updates the task-count estimate as the host discovers more
// work (e.g. after expanding a dynamic producer).
func (c *Context) SetTotal(total int) { atomic.StoreInt64(&c.total, int64(total)) }

func (c *Context) Log() scheduler.LogSink { return c.sink }

// RememberSignature records sig as the last-known up-to-date signature
// for uid. Hosts call this after a task runs successfully; it has
// nothing to do with the scheduler core, which never reads it back
// directly.
func (c *Context) RememberSignature(uid any, sig string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sigs[uid] = sig
}

// Signature returns the last remembered signature for uid, if any.
func (c *Context) Signature(uid any) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	sig, ok := c.sigs[uid]
	return sig, ok
}

func (c *Context) ForgetSignature(uid any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sigs, uid)
}
