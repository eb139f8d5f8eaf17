// Package engine owns the process-wide platform audio engine singleton:
// the platform engine object and its output-mix sink, created lazily when
// the first device is reset and destroyed when the last reference to it is
// released. There is no separate backend-teardown step.
package engine

import (
	"sync"

	"github.com/apportable/openal-soft/internal/applog"
	"github.com/apportable/openal-soft/internal/dwerr"
	"github.com/apportable/openal-soft/internal/platform"
)

// Engine is the refcounted process-wide handle to the platform audio
// engine and its output mix. Safe for concurrent use by multiple devices.
type Engine struct {
	mu       sync.Mutex
	factory  platform.Factory
	refcount int

	engineObj platform.Engine
	engineItf platform.EngineItf
	outputMix platform.OutputMix
}

// New wraps factory, which creates the platform's engine object on
// EnsureCreated. factory is an external collaborator.
func New(factory platform.Factory) *Engine {
	return &Engine{factory: factory}
}

// EnsureCreated returns the realized engine interface and output mix,
// creating both on the first call. Every call that succeeds must be
// balanced by a Release; the underlying objects are destroyed only when
// the refcount returns to zero.
func (e *Engine) EnsureCreated() (platform.EngineItf, platform.OutputMix, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.refcount > 0 {
		e.refcount++
		return e.engineItf, e.outputMix, nil
	}

	obj, err := e.factory.CreateEngine()
	if err != nil {
		return nil, nil, dwerr.Wrap(dwerr.EngineInit, "CreateEngine", err)
	}
	if err := obj.Realize(); err != nil {
		return nil, nil, dwerr.Wrap(dwerr.EngineInit, "Engine.Realize", err)
	}
	itf, err := obj.EngineInterface()
	if err != nil {
		_ = obj.Destroy()
		return nil, nil, dwerr.Wrap(dwerr.EngineInit, "EngineInterface", err)
	}
	mix, err := itf.CreateOutputMix()
	if err != nil {
		_ = obj.Destroy()
		return nil, nil, dwerr.Wrap(dwerr.EngineInit, "CreateOutputMix", err)
	}
	if err := mix.Realize(); err != nil {
		_ = obj.Destroy()
		return nil, nil, dwerr.Wrap(dwerr.EngineInit, "OutputMix.Realize", err)
	}

	e.engineObj = obj
	e.engineItf = itf
	e.outputMix = mix
	e.refcount = 1

	applog.L().Info("engine created")
	return itf, mix, nil
}

// Release decrements the refcount, destroying the output mix then the
// engine object in that order once it reaches zero. Calling Release
// without a matching EnsureCreated is a no-op.
func (e *Engine) Release() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.refcount == 0 {
		return
	}
	e.refcount--
	if e.refcount > 0 {
		return
	}

	if e.outputMix != nil {
		_ = e.outputMix.Destroy()
	}
	if e.engineObj != nil {
		_ = e.engineObj.Destroy()
	}
	e.engineObj, e.engineItf, e.outputMix = nil, nil, nil
	applog.L().Info("engine destroyed")
}

// Refcount reports the current number of live references, for tests.
func (e *Engine) Refcount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.refcount
}
