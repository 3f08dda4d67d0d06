// Package codec serializes documents to and from the bytes a backend
// stores. The file for a key contains exactly the codec's output, no
// framing or envelope, so stored files stay readable by anything that
// speaks the chosen format.
package codec

// Document mirrors jasondb.Document: a JSON-compatible string-keyed
// tree.
type Document = map[string]any

// Codec encodes/decodes documents to []byte for storage.
type Codec interface {
	Encode(Document) ([]byte, error)
	Decode([]byte) (Document, error)
}
