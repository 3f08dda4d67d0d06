package jasondb

// Document is a JSON-shaped tree: string keys mapping to strings,
// numbers, booleans, nil, []any arrays or nested map[string]any
// objects. The alias keeps subpackages (codec, cache) free of an
// import back into this package.
type Document = map[string]any

// Clone returns a structural deep copy of doc. Nested maps and slices
// are copied all the way down; scalar leaves are carried as-is (Go
// strings and numbers are immutable). Mutating the copy never affects
// the original.
func Clone(doc Document) Document {
	if doc == nil {
		return nil
	}
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return Clone(t)
	case []any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = cloneValue(e)
		}
		return s
	default:
		return v
	}
}
