// Package shutdown runs cleanup callbacks when a tool is asked to stop
// while its run hook is still executing.
package shutdown

import (
	"sync"

	"go.uber.org/multierr"
)

// Callback is run once shutdown begins. It receives the name of the
// trigger that began it.
type Callback interface {
	OnShutdown(trigger string) error
}

type Func func(trigger string) error

func (f Func) OnShutdown(trigger string) error { return f(trigger) }

type ErrorHandler interface {
	OnError(err error)
}

type ErrorFunc func(err error)

func (f ErrorFunc) OnError(err error) { f(err) }

// Trigger decides when shutdown begins. Watch must not block: it arranges
// for Coordinator.Shutdown to be called later. Finish runs after every
// callback returned.
type Trigger interface {
	Name() string
	Watch(c *Coordinator) error
	Finish() error
}

// Coordinator holds the callbacks of a tool and the triggers that can start
// running them.
type Coordinator struct {
	mu        sync.Mutex
	callbacks []Callback
	triggers  []Trigger
	onError   ErrorHandler
}

func New() *Coordinator {
	return &Coordinator{}
}

func (c *Coordinator) AddCallback(cb Callback) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.callbacks = append(c.callbacks, cb)
}

func (c *Coordinator) AddTrigger(t Trigger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.triggers = append(c.triggers, t)
}

// SetErrorHandler receives every error of a callback or trigger, one at a
// time.
func (c *Coordinator) SetErrorHandler(h ErrorHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onError = h
}

// Watch starts every trigger.
func (c *Coordinator) Watch() error {
	c.mu.Lock()
	triggers := append([]Trigger(nil), c.triggers...)
	c.mu.Unlock()

	for _, t := range triggers {
		if err := t.Watch(c); err != nil {
			return err
		}
	}
	return nil
}

// Shutdown runs the callbacks concurrently on behalf of t, waits for all of
// them and then finishes t.
func (c *Coordinator) Shutdown(t Trigger) {
	c.mu.Lock()
	callbacks := append([]Callback(nil), c.callbacks...)
	c.mu.Unlock()

	errs := make([]error, len(callbacks))
	var wg sync.WaitGroup
	wg.Add(len(callbacks))
	for i, cb := range callbacks {
		go func(i int, cb Callback) {
			defer wg.Done()
			errs[i] = cb.OnShutdown(t.Name())
		}(i, cb)
	}
	wg.Wait()

	c.report(multierr.Append(multierr.Combine(errs...), t.Finish()))
}

func (c *Coordinator) report(err error) {
	c.mu.Lock()
	h := c.onError
	c.mu.Unlock()
	if h == nil {
		return
	}
	for _, e := range multierr.Errors(err) {
		h.OnError(e)
	}
}
