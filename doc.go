// Package jsonbourne provides a single JSON API over several JSON backends.
// Output is the same whichever backend is selected.
//
// Backends:
//   - json: encoding/json, always present
//   - sonic: bytedance/sonic (amd64/arm64 only)
//   - goccy: goccy/go-json
//   - jsoniter: json-iterator/go
//   - segmentio: segmentio/encoding/json
//
// Every optional backend registers itself at init and can be left out of a
// build with the nosonic, nogoccy, nojsoniter or nosegmentio build tags.
// The default Lib picks the first usable backend from DefaultPreference
// and falls back to encoding/json.
//
// Basic example:
//
//	s, err := jsonbourne.Dumps(map[string]any{"a": 1}, jsonbourne.WithPretty())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	v, err := jsonbourne.Loads([]byte(s))
//
// Selecting a backend:
//
//	if err := jsonbourne.UseJSONIter(); err != nil {
//	    // not compiled in
//	}
//	fmt.Println(jsonbourne.Which()) // "jsoniter"
//
// Values with no native JSON form (time.Time, time.Duration, []byte,
// *big.Float, protobuf messages, sets, types implementing Dumpable or
// Ejecter...) are converted by DefaultEncode. Pass WithDefault to replace
// it for one call.
//
// Independent handles:
//
//	lib := jsonbourne.New(
//	    jsonbourne.WithPreference(jsonbourne.GoJSON, jsonbourne.Segmentio),
//	    jsonbourne.WithLogger(logger),
//	    jsonbourne.WithMetrics(true),
//	)
//
// Error Handling:
//   - ErrBackendUnavailable / BackendUnavailableError: Use* on a missing backend
//   - ErrUnsupportedValue / UnsupportedValueError: nothing can encode the value
//   - ErrDecodeFailure / DecodeError: malformed input
//   - ErrEncodeFailure: a backend failed on a normalized value
package jsonbourne

// Version of the library.
const Version = "0.31.0"
