package jsonhttp

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rbaliyan/jsonbourne"
	"golang.org/x/time/rate"
)

// Handler serves jsonbourne over HTTP:
//
//	POST /v1/format   re-encode the body (query: pretty, sort, newline, jsonc, lines, backend)
//	GET  /v1/backends list the selected, usable and registered backends
type Handler struct {
	lib     *jsonbourne.Lib
	mux     *http.ServeMux
	logger  *slog.Logger
	maxBody int64
	limiter *rate.Limiter
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithLogger sets the handler's logger.
func WithLogger(l *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithMaxBodySize limits request bodies. Defaults to DefaultMaxBodySize.
func WithMaxBodySize(n int64) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.maxBody = n
		}
	}
}

// WithRateLimit caps requests with a token bucket of the given rate and
// burst. Requests over the limit get 429 Too Many Requests.
func WithRateLimit(limit rate.Limit, burst int) HandlerOption {
	return func(h *Handler) {
		if limit > 0 && burst > 0 {
			h.limiter = rate.NewLimiter(limit, burst)
		}
	}
}

// New creates a Handler on lib; a nil lib means jsonbourne.Default().
func New(lib *jsonbourne.Lib, opts ...HandlerOption) *Handler {
	if lib == nil {
		lib = jsonbourne.Default()
	}
	h := &Handler{
		lib:     lib,
		mux:     http.NewServeMux(),
		logger:  slog.Default().With("component", "jsonhttp"),
		maxBody: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(h)
	}

	h.mux.HandleFunc("/v1/format", h.handleFormat)
	h.mux.HandleFunc("/v1/backends", h.handleBackends)
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.limiter != nil && !h.limiter.Allow() {
		h.logger.Warn("rate limited", "path", r.URL.Path, "remote", r.RemoteAddr)
		w.Header().Set("Retry-After", "1")
		WriteError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}
	h.mux.ServeHTTP(w, r)
}

// BackendsResponse is the body of GET /v1/backends.
type BackendsResponse struct {
	Selected   string   `json:"selected"`
	Available  []string `json:"available"`
	Registered []string `json:"registered"`
}

func (h *Handler) handleBackends(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	resp := BackendsResponse{
		Selected:   h.lib.Which(),
		Available:  h.lib.Registry().Available(),
		Registered: h.lib.Registry().Names(),
	}
	if err := Respond(w, r, http.StatusOK, resp); err != nil {
		h.logger.Error("write backends", "error", err)
		WriteError(w, http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) handleFormat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	q := r.URL.Query()

	lib := h.lib
	if name := q.Get("backend"); name != "" && name != lib.Which() {
		if !lib.Usable(name) {
			WriteError(w, http.StatusBadRequest, "backend unavailable: "+name)
			return
		}
		lib = jsonbourne.New(
			jsonbourne.WithRegistry(lib.Registry()),
			jsonbourne.WithBackend(name),
			jsonbourne.WithLogger(h.logger))
	}

	defer r.Body.Close()
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBody))
	if err != nil {
		status := http.StatusBadRequest
		if maxErr := (*http.MaxBytesError)(nil); errors.As(err, &maxErr) {
			status = http.StatusRequestEntityTooLarge
		}
		h.logger.Debug("read body", "status", status, "error", err)
		WriteError(w, status, err.Error())
		return
	}

	// numbers pass through as written
	decOpts := []jsonbourne.DecodeOption{jsonbourne.WithUseNumber()}
	if flag(q.Get("jsonc")) {
		decOpts = append(decOpts, jsonbourne.WithJSONC())
	}
	lines := flag(q.Get("lines"))

	var encOpts []jsonbourne.EncodeOption
	if flag(q.Get("pretty")) {
		encOpts = append(encOpts, jsonbourne.WithPretty())
	}
	if flag(q.Get("sort")) {
		encOpts = append(encOpts, jsonbourne.WithSortKeys())
	}
	if flag(q.Get("newline")) {
		encOpts = append(encOpts, jsonbourne.WithAppendNewline())
	}

	var out []byte
	if lines {
		values, err := lib.LoadsLines(body, decOpts...)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		out, err = lib.DumpsLines(values, encOpts...)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeBody(w, http.StatusOK, "application/x-ndjson", out)
		return
	}

	v, err := lib.Loads(body, decOpts...)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if out, err = lib.Dumpb(v, encOpts...); err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.logger.Debug("formatted", "backend", lib.Which(), "bytes", len(out))
	writeBody(w, http.StatusOK, "application/json", out)
}

func flag(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
