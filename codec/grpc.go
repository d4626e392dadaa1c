package codec

import (
	"github.com/rbaliyan/jsonbourne"
	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// GRPC adapts a jsonbourne Lib to grpc's encoding.Codec, so services can
// exchange JSON with the "application/grpc+json" content subtype.
//
// proto.Message values decode through protojson; everything else goes
// through the Lib.
type GRPC struct {
	JSON
}

// Compile-time check.
var _ encoding.Codec = GRPC{}

// RegisterGRPC registers a GRPC codec on lib with grpc. A nil lib
// means jsonbourne.Default() at call time.
func RegisterGRPC(lib *jsonbourne.Lib) {
	encoding.RegisterCodec(GRPC{JSON: JSON{Lib: lib}})
}

// Marshal encodes v.
func (c GRPC) Marshal(v any) ([]byte, error) {
	return c.Encode(v)
}

// Unmarshal decodes data into v.
func (c GRPC) Unmarshal(data []byte, v any) error {
	if msg, ok := v.(proto.Message); ok {
		return protojson.Unmarshal(data, msg)
	}
	return c.Decode(data, v)
}
