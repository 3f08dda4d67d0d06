package codec

import "github.com/vmihailenco/msgpack/v5"

// Msgpack serializes documents using vmihailenco/msgpack/v5. The zero
// value is ready to use.
//
// Compact and fast for roots nobody hand-edits. Integers decode back
// as integer types rather than encoding/json's float64-for-every-number,
// so code switching codecs on an existing root must not assert float64
// on numeric fields.
type Msgpack struct{}

var _ Codec = Msgpack{}

func (Msgpack) Encode(doc Document) ([]byte, error) {
	return msgpack.Marshal(doc)
}

func (Msgpack) Decode(b []byte) (Document, error) {
	var doc Document
	if err := msgpack.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
