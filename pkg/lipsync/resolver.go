package lipsync

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Resolver locates an engine. It is called at most once per Handle.
type Resolver func() (Engine, error)

// FromRegistry resolves the engine registered under cfg.Name.
func FromRegistry(cfg EngineConfig) Resolver {
	return func() (Engine, error) { return NewEngine(cfg) }
}

// Static resolves to e. A nil engine resolves as unavailable.
func Static(e Engine) Resolver {
	return func() (Engine, error) {
		if e == nil {
			return nil, ErrEngineUnavailable
		}
		return e, nil
	}
}

// Handle lazily resolves an engine on first use and caches the result,
// success or failure, for its lifetime. It is safe for concurrent use:
// the first caller resolves, every other caller waits for and observes
// the same result.
type Handle struct {
	resolve   Resolver
	once      sync.Once
	attempted atomic.Bool
	engine    Engine
	err       error
}

// NewHandle returns a Handle backed by r. A nil resolver yields a handle
// whose engine is always unavailable.
func NewHandle(r Resolver) *Handle {
	return &Handle{resolve: r}
}

// Engine returns the resolved engine. The returned error wraps
// ErrEngineUnavailable when no engine could be resolved.
func (h *Handle) Engine() (Engine, error) {
	h.once.Do(func() {
		defer h.attempted.Store(true)
		h.engine, h.err = h.load()
	})
	return h.engine, h.err
}

// Attempted reports whether resolution has completed.
func (h *Handle) Attempted() bool {
	return h.attempted.Load()
}

func (h *Handle) load() (e Engine, err error) {
	if h.resolve == nil {
		return nil, ErrEngineUnavailable
	}
	defer func() {
		if r := recover(); r != nil {
			e, err = nil, fmt.Errorf("%w: resolver panic: %v", ErrEngineUnavailable, r)
		}
	}()
	e, err = h.resolve()
	switch {
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrEngineUnavailable, err)
	case e == nil:
		return nil, ErrEngineUnavailable
	}
	return e, nil
}
