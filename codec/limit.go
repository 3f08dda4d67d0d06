package codec

import "fmt"

// Limit wraps another codec to enforce a maximum allowed payload size
// at Decode time. Encode is forwarded to Inner unchanged.
// If MaxDecode <= 0, size limiting is disabled.
//
// Typical use: cap reads from a storage root other tools write into,
// so one oversized or hostile file cannot balloon memory.
type Limit struct {
	// Inner is the underlying codec being wrapped. It must be set.
	Inner Codec
	// MaxDecode is the maximum permitted length (in bytes) of the
	// incoming payload for Decode. Longer payloads fail without
	// invoking Inner.
	MaxDecode int
}

var _ Codec = Limit{}

func (c Limit) Encode(doc Document) ([]byte, error) { return c.Inner.Encode(doc) }

func (c Limit) Decode(b []byte) (Document, error) {
	if c.MaxDecode > 0 && len(b) > c.MaxDecode {
		return nil, fmt.Errorf("document too large: %d > %d", len(b), c.MaxDecode)
	}
	return c.Inner.Decode(b)
}
