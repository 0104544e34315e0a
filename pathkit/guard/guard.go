// Package guard provides a scoped critical section that defers an interrupt
// signal until the protected code completes.
//
// While a guard is armed it must be the only code manipulating the handling
// of its signal; nested or reentrant guards are not supported.
package guard

import (
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"time"
)

// ErrGuardUsed is returned by Do when a Guard is armed a second time.
// Guards are single-use; create a new one per critical section.
var ErrGuardUsed = errors.New("interrupt guard already used")

const (
	stateIdle int32 = iota
	stateArmed
	stateDisarmed
)

// Received records a signal that arrived while a guard was armed.
type Received struct {
	Signal os.Signal
	At     time.Time
}

// Guard is a single-use critical section for one signal. The zero value is
// not usable; construct with New or use Protect.
type Guard struct {
	sig     os.Signal
	replay  func(os.Signal) error
	state   atomic.Int32
	pending *Received
}

// Option customizes a Guard.
type Option func(*Guard)

// WithReplay overrides how a deferred signal is re-delivered on exit. The
// default resets the signal to its previous disposition and re-sends it to
// the current process. Embedders that chain their own handling, and tests,
// substitute their own delivery here.
func WithReplay(fn func(os.Signal) error) Option {
	return func(g *Guard) { g.replay = fn }
}

// New creates an idle Guard for sig.
func New(sig os.Signal, opts ...Option) *Guard {
	g := &Guard{sig: sig, replay: defaultReplay}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Protect runs fn with SIGINT deferred until fn returns.
func Protect(fn func() error) error {
	return New(os.Interrupt).Do(fn)
}

// Do arms the guard, runs fn, and disarms on every exit path. If the
// guard's signal arrives while fn runs, fn never observes it; the signal is
// recorded and re-delivered exactly once immediately after disarming, so
// normal interrupt semantics resume outside the guarded region. fn's error
// propagates unmodified.
func (g *Guard) Do(fn func() error) error {
	if !g.state.CompareAndSwap(stateIdle, stateArmed) {
		return ErrGuardUsed
	}

	ch := make(chan os.Signal, 1)
	done := make(chan struct{})
	var watcher sync.WaitGroup

	signal.Notify(ch, g.sig)
	watcher.Add(1)
	go func() {
		defer watcher.Done()
		select {
		case sig := <-ch:
			g.pending = &Received{Signal: sig, At: time.Now()}
			slog.Debug("signal received, deferring delivery", "signal", sig)
		case <-done:
		}
	}()

	defer func() {
		signal.Stop(ch)
		close(done)
		watcher.Wait()

		// A signal buffered just before Stop may have lost the select race
		// against done. Drain so it is never dropped.
		if g.pending == nil {
			select {
			case sig := <-ch:
				g.pending = &Received{Signal: sig, At: time.Now()}
			default:
			}
		}

		g.state.Store(stateDisarmed)

		if g.pending != nil {
			slog.Debug("re-delivering deferred signal", "signal", g.pending.Signal)
			if err := g.replay(g.pending.Signal); err != nil {
				slog.Error("failed to re-deliver deferred signal",
					"signal", g.pending.Signal,
					"error", err)
			}
		}
	}()

	return fn()
}

// Pending returns the signal recorded during the guarded section, if any.
// Only meaningful after Do returns; with the default replay the process
// normally terminates before a caller can observe it.
func (g *Guard) Pending() (Received, bool) {
	if g.state.Load() != stateDisarmed || g.pending == nil {
		return Received{}, false
	}
	return *g.pending, true
}

// defaultReplay restores the signal's previous disposition, then re-sends
// it to the current process.
func defaultReplay(sig os.Signal) error {
	signal.Reset(sig)
	p, err := os.FindProcess(os.Getpid())
	if err != nil {
		return err
	}
	return p.Signal(sig)
}
