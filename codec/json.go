package codec

import "encoding/json"

// JSON is the default document codec. Object keys come out sorted
// (encoding/json writes map keys in order), so rewriting an unchanged
// document produces identical bytes and files diff cleanly.
type JSON struct {
	// Indent indents output with this string per nesting level; empty
	// means compact one-line output.
	Indent string
}

var _ Codec = JSON{}

// NewJSON returns a JSON codec, two-space indented when pretty is set.
func NewJSON(pretty bool) JSON {
	if pretty {
		return JSON{Indent: "  "}
	}
	return JSON{}
}

func (c JSON) Encode(doc Document) ([]byte, error) {
	if c.Indent != "" {
		return json.MarshalIndent(doc, "", c.Indent)
	}
	return json.Marshal(doc)
}

// Decode parses b into a document. A stored literal null decodes to a
// nil Document with no error; callers treat that as an empty document.
func (c JSON) Decode(b []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
