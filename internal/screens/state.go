// Package screens holds the controllers behind the four browsing screens:
// categories, drinks of a category, drink detail and favorites.
//
// Each controller issues exactly one read when activated and exposes the
// result as a ViewState. Failures stay local to the controller and are
// recovered with an explicit Retry. A controller that is deactivated while a
// read is in flight drops that read's result.
package screens

import (
	"context"
	"sync"
)

// Status is the phase of a screen's single read.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusError
	StatusLoaded
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusLoaded:
		return "loaded"
	default:
		return "idle"
	}
}

// ViewState is the three-state view model of a screen.
type ViewState[T any] struct {
	Status  Status
	Message string
	Err     error
	Data    T
}

func (v ViewState[T]) Loading() bool { return v.Status == StatusLoading }
func (v ViewState[T]) Failed() bool  { return v.Status == StatusError }
func (v ViewState[T]) Loaded() bool  { return v.Status == StatusLoaded }

// loader runs a screen's read and owns its view state. Each load bumps a
// generation counter; a result is applied only if the generation is unchanged
// when it arrives.
type loader[T any] struct {
	fetch    func(ctx context.Context) (T, error)
	classify func(err error) (T, string, bool)
	describe func(err error) string
	failMsg  string

	mu     sync.Mutex
	gen    uint64
	active bool
	cancel context.CancelFunc
	state  ViewState[T]
}

func newLoader[T any](failMsg string, fetch func(ctx context.Context) (T, error)) *loader[T] {
	return &loader[T]{fetch: fetch, failMsg: failMsg}
}

// load issues the read and returns the resulting state. If the loader was
// deactivated or reloaded meanwhile, the current state is returned untouched.
func (l *loader[T]) load(ctx context.Context) ViewState[T] {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	if l.cancel != nil {
		l.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.active = true
	l.state = ViewState[T]{Status: StatusLoading}
	l.mu.Unlock()

	data, err := l.fetch(ctx)
	cancel()

	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != l.gen || !l.active {
		return l.state
	}
	l.cancel = nil

	if err != nil {
		if l.classify != nil {
			if recovered, msg, ok := l.classify(err); ok {
				l.state = ViewState[T]{Status: StatusLoaded, Message: msg, Data: recovered}
				return l.state
			}
		}
		msg := l.failMsg
		if l.describe != nil {
			if m := l.describe(err); m != "" {
				msg = m
			}
		}
		l.state = ViewState[T]{Status: StatusError, Message: msg, Err: err}
		return l.state
	}

	l.state = ViewState[T]{Status: StatusLoaded, Data: data}
	return l.state
}

func (l *loader[T]) deactivate() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.gen++
	l.active = false
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.state = ViewState[T]{}
}

func (l *loader[T]) current() ViewState[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *loader[T]) isActive() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}
