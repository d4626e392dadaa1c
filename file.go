package jsonbourne

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	spanKeyPath        = "jsonbourne.path"
	spanKeyBackend     = "jsonbourne.backend"
	spanKeyCompression = "jsonbourne.compression"
	spanKeyBytes       = "jsonbourne.bytes"
)

// compression is picked from the file extension.
type compression string

const (
	compressNone compression = "none"
	compressZstd compression = "zstd"
	compressGzip compression = "gzip"
)

func compressionFor(path string) compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst", ".zstd":
		return compressZstd
	case ".gz", ".gzip":
		return compressGzip
	default:
		return compressNone
	}
}

// WriteFile encodes data and writes it to path, creating or truncating the
// file. Paths ending in .zst or .gz are compressed with zstd or gzip.
// Returns the number of JSON bytes written (before compression).
// A trailing newline is always written.
func (l *Lib) WriteFile(ctx context.Context, path string, data any, opts ...EncodeOption) (int, error) {
	return l.writeFile(ctx, "jsonbourne.write_file", path, func(b Backend) ([]byte, error) {
		o := newEncodeOptions(opts...)
		o.AppendNewline = true
		return l.encode(b, data, o)
	})
}

// WriteLinesFile writes values as JSON Lines to path, one value per line.
// Compression follows the extension as in WriteFile.
func (l *Lib) WriteLinesFile(ctx context.Context, path string, values []any, opts ...EncodeOption) (int, error) {
	return l.writeFile(ctx, "jsonbourne.write_lines_file", path, func(b Backend) ([]byte, error) {
		return l.dumpsLines(b, values, newEncodeOptions(opts...))
	})
}

func (l *Lib) writeFile(ctx context.Context, spanName, path string, encode func(Backend) ([]byte, error)) (n int, err error) {
	b := l.Backend()
	comp := compressionFor(path)
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, spanName,
		trace.WithAttributes(
			attribute.String(spanKeyPath, path),
			attribute.String(spanKeyBackend, b.Name()),
			attribute.String(spanKeyCompression, string(comp))))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetAttributes(attribute.Int(spanKeyBytes, n))
		}
		span.End()
	}()

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	out, err := encode(b)
	if err != nil {
		l.metrics.Failed(b.Name(), "encode")
		return 0, err
	}
	l.metrics.Encoded(b.Name())
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	w, err := compressWriter(f, comp)
	if err != nil {
		_ = f.Close()
		return 0, err
	}
	if n, err = w.Write(out); err != nil {
		_ = w.Close()
		_ = f.Close()
		return n, fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		_ = f.Close()
		return n, fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return n, fmt.Errorf("write %s: %w", path, err)
	}
	l.logger.Debug("json file written", "path", path, "bytes", n, "compression", comp)
	return n, nil
}

// ReadFile reads and decodes the JSON file at path. Compressed files are
// recognized by extension as in WriteFile. WithLines decodes JSON Lines.
func (l *Lib) ReadFile(ctx context.Context, path string, opts ...DecodeOption) (v any, err error) {
	b := l.Backend()
	comp := compressionFor(path)
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "jsonbourne.read_file",
		trace.WithAttributes(
			attribute.String(spanKeyPath, path),
			attribute.String(spanKeyBackend, b.Name()),
			attribute.String(spanKeyCompression, string(comp))))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := readAll(path, comp)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int(spanKeyBytes, len(data)))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	o := newDecodeOptions(opts...)
	if o.Lines {
		values, err := l.loadsLines(b, data, o)
		if err != nil {
			return nil, err
		}
		return values, nil
	}
	return l.decode(b, data, o)
}

// nopWriteCloser leaves the underlying file open; the caller closes it.
type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func compressWriter(w io.Writer, comp compression) (io.WriteCloser, error) {
	switch comp {
	case compressZstd:
		return zstd.NewWriter(w)
	case compressGzip:
		return gzip.NewWriter(w), nil
	default:
		return nopWriteCloser{w}, nil
	}
}

func readAll(path string, comp compression) ([]byte, error) {
	if comp == compressNone {
		return os.ReadFile(path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch comp {
	case compressZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		data, err := dec.DecodeAll(raw, nil)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return data, nil
	default:
		zr, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		defer zr.Close()
		data, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return data, nil
	}
}
