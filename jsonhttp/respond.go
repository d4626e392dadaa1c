// Package jsonhttp reads and writes HTTP bodies with jsonbourne, choosing
// the wire format from the registered codecs.
package jsonhttp

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/rbaliyan/jsonbourne"
	"github.com/rbaliyan/jsonbourne/codec"
)

// DefaultMaxBodySize limits request and response bodies read by Decode.
const DefaultMaxBodySize int64 = 10 << 20

// ErrEmptyBody is returned when a body to decode is empty.
var ErrEmptyBody = errors.New("empty body")

// Write encodes v as JSON with the default Lib and writes it with status.
func Write(w http.ResponseWriter, status int, v any, opts ...jsonbourne.EncodeOption) error {
	data, err := jsonbourne.Dumpb(v, opts...)
	if err != nil {
		return err
	}
	writeBody(w, status, codec.ContentTypeJSON, data)
	return nil
}

// Respond encodes v with the codec negotiated from the request's Accept
// header and writes it with status. A codec that cannot encode v (Proto
// given a non-message) is skipped for the next acceptable one, then JSON.
func Respond(w http.ResponseWriter, r *http.Request, status int, v any) error {
	var err error
	for _, c := range acceptable(r.Header.Get("Accept")) {
		var data []byte
		if data, err = c.Encode(v); err == nil {
			writeBody(w, status, c.ContentType(), data)
			return nil
		}
	}
	return err
}

// WriteError writes {"error": message} as JSON with status.
func WriteError(w http.ResponseWriter, status int, message string) {
	data, err := jsonbourne.Dumpb(map[string]string{"error": message})
	if err != nil {
		// a map of strings always encodes
		data = []byte(`{"error":"internal error"}`)
	}
	writeBody(w, status, codec.ContentTypeJSON, data)
}

func writeBody(w http.ResponseWriter, status int, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// Negotiate picks the first registered codec named by an Accept header,
// skipping entries with q=0. Anything else, including "*/*" or an empty
// header, gets the JSON codec.
func Negotiate(accept string) codec.Codec {
	return acceptable(accept)[0]
}

// acceptable lists the registered codecs named by accept in header order,
// ending with the JSON codec.
func acceptable(accept string) []codec.Codec {
	var out []codec.Codec
	for _, part := range strings.Split(accept, ",") {
		mt, params, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		if q, ok := params["q"]; ok {
			if f, err := strconv.ParseFloat(q, 64); err == nil && f == 0 {
				continue
			}
		}
		if c, ok := codec.Get(mt); ok {
			out = append(out, c)
		}
	}
	return append(out, codec.Default())
}

// Decode reads the request body into an Obj. The body format follows
// Content-Type (JSON when missing); the body is closed.
func Decode(r *http.Request) (jsonbourne.Obj, error) {
	defer r.Body.Close()
	return decodeBody(r.Body, r.Header.Get("Content-Type"))
}

// DecodeResponse reads a response body into an Obj and closes it.
func DecodeResponse(resp *http.Response) (jsonbourne.Obj, error) {
	defer resp.Body.Close()
	return decodeBody(resp.Body, resp.Header.Get("Content-Type"))
}

func decodeBody(body io.Reader, contentType string) (jsonbourne.Obj, error) {
	data, err := io.ReadAll(io.LimitReader(body, DefaultMaxBodySize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > DefaultMaxBodySize {
		return nil, fmt.Errorf("body exceeds %d bytes", DefaultMaxBodySize)
	}
	if len(data) == 0 {
		return nil, ErrEmptyBody
	}
	c := codec.Default()
	if contentType != "" {
		c = codec.MustGet(contentType)
	}
	if _, ok := c.(codec.JSON); ok {
		return jsonbourne.FromJSON(data)
	}
	var m map[string]any
	if err := c.Decode(data, &m); err != nil {
		return nil, err
	}
	return jsonbourne.Objectify(m), nil
}
