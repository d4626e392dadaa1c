package jsonbourne

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.opentelemetry.io/otel/metric/noop"
)

// stubBackend wraps the stdlib backend under another name.
type stubBackend struct {
	stdBackend
	name   string
	usable bool
}

func (s stubBackend) Name() string { return s.name }

func (s stubBackend) Usable() bool { return s.usable }

func TestRegistry(t *testing.T) {
	r := NewRegistry(stdBackend{},
		stubBackend{name: "fast", usable: true},
		stubBackend{name: "broken", usable: false})

	if diff := cmp.Diff([]string{"broken", "fast", "json"}, r.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"fast", "json"}, r.Available()); diff != "" {
		t.Errorf("available mismatch (-want +got):\n%s", diff)
	}
	if _, ok := r.Get("broken"); !ok {
		t.Error("expected broken to be registered")
	}
	if _, ok := r.Usable("broken"); ok {
		t.Error("expected broken to be unusable")
	}

	tests := []struct {
		preference []string
		want       string
	}{
		{[]string{"broken", "fast"}, "fast"},
		{[]string{"missing", "broken"}, Stdlib},
		{nil, Stdlib},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.preference, ","), func(t *testing.T) {
			if got := r.Import(tt.preference...).Name(); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestRegistryWithoutStdlib(t *testing.T) {
	r := NewRegistry()
	if got := r.Import("anything").Name(); got != Stdlib {
		t.Errorf("expected stdlib fallback, got %s", got)
	}
}

func TestLibWithRegistry(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := NewRegistry(stdBackend{}, stubBackend{name: "fast", usable: true}, stubBackend{name: "broken"})

	lib := New(WithRegistry(r), WithPreference("broken", "fast"), WithLogger(logger))
	if lib.Which() != "fast" {
		t.Fatalf("expected fast, got %s", lib.Which())
	}
	if !strings.Contains(logs.String(), "backend=broken") {
		t.Errorf("expected skipped backend logged, got %q", logs.String())
	}

	if err := lib.Use("broken"); !IsBackendUnavailable(err) {
		t.Errorf("expected BackendUnavailableError, got %v", err)
	}
	if err := lib.Use(Stdlib); err != nil {
		t.Fatalf("use failed: %v", err)
	}
	if !strings.Contains(logs.String(), "json backend switched") {
		t.Errorf("expected switch logged, got %q", logs.String())
	}
	if lib.Registry() != r {
		t.Error("expected the given registry")
	}

	if got := New(WithRegistry(r), WithPreference()).Which(); got != Stdlib {
		t.Errorf("empty preference must select stdlib, got %s", got)
	}
}

func TestLibMetrics(t *testing.T) {
	m, err := NewMetrics(noop.NewMeterProvider())
	if err != nil {
		t.Fatalf("metrics failed: %v", err)
	}
	m.Encoded(Stdlib)
	m.Decoded(Stdlib)
	m.Failed(Stdlib, "decode")
	m.Switched(Stdlib, GoJSON)

	lib := New(WithMetrics(true), WithMeterProvider(noop.NewMeterProvider()), WithBackend(Stdlib))
	if _, err := lib.Dumps(map[string]int{"a": 1}); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if _, err := lib.Loads([]byte("{")); !IsDecodeError(err) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
}

func TestConcurrentUse(t *testing.T) {
	lib := New(WithBackend(Stdlib))
	names := lib.Registry().Available()
	value := map[string]any{"k": []any{1, "two", 3.5, nil, map[string]int{"z": 1, "a": 2}}}
	want, err := lib.Dumps(value)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan string, 64)
	for w := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 200 {
				if w == 0 {
					_ = lib.Use(names[i%len(names)])
					continue
				}
				got, err := lib.Dumps(value)
				if err != nil {
					errs <- err.Error()
					return
				}
				if got != want {
					errs <- got
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Errorf("unexpected result during concurrent Use: %s", e)
	}
}
