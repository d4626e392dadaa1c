package codec

import (
	"github.com/rbaliyan/jsonbourne"
	"github.com/vmihailenco/msgpack/v5"
)

// ContentTypeMsgPack is the MIME type of the MessagePack codec.
const ContentTypeMsgPack = "application/msgpack"

// MsgPack implements Codec using MessagePack serialization.
// Values are normalized exactly as for JSON first (times become RFC 3339
// strings, durations seconds, sets lists...), so a MessagePack document
// decodes to the same tree as its JSON form. Number literals too large
// for int64/uint64/float64 travel as strings.
type MsgPack struct {
	// Default replaces jsonbourne.DefaultEncode when set.
	Default jsonbourne.DefaultFunc
}

// Compile-time check.
var _ Codec = MsgPack{}

// Encode serializes v to MessagePack bytes.
func (c MsgPack) Encode(v any) ([]byte, error) {
	var opts []jsonbourne.EncodeOption
	if c.Default != nil {
		opts = append(opts, jsonbourne.WithDefault(c.Default))
	}
	tree, err := jsonbourne.Normalize(v, opts...)
	if err != nil {
		return nil, err
	}
	return msgpack.Marshal(tree)
}

// Decode deserializes MessagePack bytes into v.
func (MsgPack) Decode(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}

// ContentType returns the MIME type for MessagePack.
func (MsgPack) ContentType() string {
	return ContentTypeMsgPack
}

// Name returns "msgpack".
func (MsgPack) Name() string {
	return "msgpack"
}

func init() {
	Register(MsgPack{})
}
