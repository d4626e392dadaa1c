package codec

import (
	"errors"

	"github.com/rbaliyan/jsonbourne"
	"google.golang.org/protobuf/proto"
)

// ContentTypeProto is the MIME type of the Protocol Buffers codec.
const ContentTypeProto = "application/protobuf"

// ErrNotProtoMessage is returned by Proto for values that are not proto.Message.
var ErrNotProtoMessage = errors.New("value must implement proto.Message")

// Proto implements Codec with the Protocol Buffers wire format. Output is
// deterministic, so equal messages encode to equal bytes as with the JSON
// codec. Errors follow jsonbourne: values that are not messages fail with
// an UnsupportedValueError, malformed input with a DecodeError.
type Proto struct{}

// Compile-time check.
var _ Codec = Proto{}

var protoMarshal = proto.MarshalOptions{Deterministic: true}

// Encode serializes a proto.Message.
func (Proto) Encode(v any) ([]byte, error) {
	msg, ok := v.(proto.Message)
	if !ok {
		return nil, errors.Join(ErrNotProtoMessage,
			&jsonbourne.UnsupportedValueError{Value: v, Reason: "not a proto.Message"})
	}
	return protoMarshal.Marshal(msg)
}

// Decode deserializes into a proto.Message.
func (c Proto) Decode(data []byte, v any) error {
	msg, ok := v.(proto.Message)
	if !ok {
		return ErrNotProtoMessage
	}
	if err := proto.Unmarshal(data, msg); err != nil {
		return &jsonbourne.DecodeError{Backend: c.Name(), Err: err}
	}
	return nil
}

// ContentType returns the MIME type for Protocol Buffers.
func (Proto) ContentType() string {
	return ContentTypeProto
}

// Name returns "protobuf".
func (Proto) Name() string {
	return "protobuf"
}

func init() {
	Register(Proto{})
}
