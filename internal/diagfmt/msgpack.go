package diagfmt

import (
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// MsgPack writes the same structure as JSON in MessagePack, keyed by the
// JSON field names.
func MsgPack(w io.Writer, reports []FileReport, opts JSONOpts) error {
	enc := msgpack.NewEncoder(w)
	enc.SetCustomStructTag("json")
	return enc.Encode(BuildFiles(reports, opts))
}

// DecodeMsgPack reads a report written by MsgPack.
func DecodeMsgPack(r io.Reader) ([]FileJSON, error) {
	dec := msgpack.NewDecoder(r)
	dec.SetCustomStructTag("json")
	var out []FileJSON
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
