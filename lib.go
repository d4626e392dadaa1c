package jsonbourne

import (
	"log/slog"
	"sync/atomic"
)

// selected wraps the active backend so it can sit behind an atomic pointer.
type selected struct {
	Backend
}

// Lib is a JSON library handle: a registry plus the backend currently
// selected from it. Every call loads the backend once, so switching with
// Use* never affects a call already in flight.
//
// A Lib is safe for concurrent use.
type Lib struct {
	registry *Registry
	current  atomic.Pointer[selected]
	logger   *slog.Logger
	metrics  Metrics
}

// New creates a Lib selecting the first usable backend in preference
// order (DefaultPreference unless WithPreference is given), falling back
// to the stdlib backend. New never fails.
func New(opts ...Option) *Lib {
	o := newLibOptions(opts...)
	l := &Lib{
		registry: o.registry,
		logger:   o.logger,
		metrics:  dummyMetrics{},
	}
	if o.metricsEnabled {
		m, err := NewMetrics(o.meterProvider)
		if err != nil {
			l.logger.Warn("metrics disabled", "error", err)
		} else {
			l.metrics = m
		}
	}
	b := importJSON(l.registry, l.logger, o.preference)
	l.current.Store(&selected{b})
	l.logger.Debug("json backend selected", "backend", b.Name())
	return l
}

// Backend returns the selected backend.
func (l *Lib) Backend() Backend {
	return l.current.Load().Backend
}

// Registry returns the registry the Lib selects from.
func (l *Lib) Registry() *Registry {
	return l.registry
}

// Which returns the name of the selected backend.
func (l *Lib) Which() string {
	return l.Backend().Name()
}

// Use selects the named backend.
// Returns a BackendUnavailableError if it is not registered or not usable.
func (l *Lib) Use(name string) error {
	b, ok := l.registry.Usable(name)
	if !ok {
		return &BackendUnavailableError{Name: name}
	}
	prev := l.current.Swap(&selected{b})
	if prev.Name() != b.Name() {
		l.logger.Info("json backend switched", "from", prev.Name(), "to", b.Name())
		l.metrics.Switched(prev.Name(), b.Name())
	}
	return nil
}

// UseSonic selects the sonic backend.
func (l *Lib) UseSonic() error {
	return l.Use(Sonic)
}

// UseGoJSON selects the goccy/go-json backend.
func (l *Lib) UseGoJSON() error {
	return l.Use(GoJSON)
}

// UseJSONIter selects the json-iterator backend.
func (l *Lib) UseJSONIter() error {
	return l.Use(JSONIter)
}

// UseSegmentio selects the segmentio/encoding backend.
func (l *Lib) UseSegmentio() error {
	return l.Use(Segmentio)
}

// UseStdlib selects the encoding/json backend.
func (l *Lib) UseStdlib() error {
	return l.Use(Stdlib)
}

// UseJSON is an alias of UseStdlib.
func (l *Lib) UseJSON() error {
	return l.UseStdlib()
}

// Usable reports whether the named backend could be selected.
func (l *Lib) Usable(name string) bool {
	_, ok := l.registry.Usable(name)
	return ok
}

// SonicUsable reports whether the sonic backend is available.
func (l *Lib) SonicUsable() bool {
	return l.Usable(Sonic)
}

// GoJSONUsable reports whether the goccy/go-json backend is available.
func (l *Lib) GoJSONUsable() bool {
	return l.Usable(GoJSON)
}

// JSONIterUsable reports whether the json-iterator backend is available.
func (l *Lib) JSONIterUsable() bool {
	return l.Usable(JSONIter)
}

// SegmentioUsable reports whether the segmentio/encoding backend is available.
func (l *Lib) SegmentioUsable() bool {
	return l.Usable(Segmentio)
}
