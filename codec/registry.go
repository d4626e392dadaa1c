package codec

import (
	"mime"
	"slices"
	"strings"
	"sync"
)

var (
	mu       sync.RWMutex
	registry = map[string]Codec{
		ContentTypeJSON: JSON{},
	}
)

// Register adds a codec to the global registry under its ContentType().
// A codec registered later for the same content type replaces the earlier one.
func Register(c Codec) {
	mu.Lock()
	defer mu.Unlock()
	registry[c.ContentType()] = c
}

// Get retrieves a codec by content type. Media type parameters
// ("; charset=utf-8") and case are ignored.
func Get(contentType string) (Codec, bool) {
	mu.RLock()
	defer mu.RUnlock()
	c, ok := registry[mediaType(contentType)]
	return c, ok
}

// MustGet retrieves a codec by content type, returning the default JSON codec
// if the requested content type is not found.
func MustGet(contentType string) Codec {
	if c, ok := Get(contentType); ok {
		return c
	}
	return Default()
}

// ByName finds a registered codec by its Name().
func ByName(name string) (Codec, bool) {
	mu.RLock()
	defer mu.RUnlock()
	for _, c := range registry {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// ContentTypes lists the registered content types, sorted.
func ContentTypes() []string {
	mu.RLock()
	defer mu.RUnlock()
	types := make([]string, 0, len(registry))
	for ct := range registry {
		types = append(types, ct)
	}
	slices.Sort(types)
	return types
}

func mediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mt
}
