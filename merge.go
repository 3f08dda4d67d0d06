package jasondb

// Merge completes loaded against template and returns the result.
//
// Rules, applied per key:
//   - present only in template: the template's value is deep-copied in;
//   - present in loaded: loaded's value stands, the template never
//     overwrites data;
//   - objects on both sides: merged recursively so nested gaps fill too;
//   - arrays and scalars in loaded: kept verbatim, never merged
//     member-wise.
//
// The result may alias loaded's values (the caller owns loaded) but
// never aliases template, and template itself is never mutated. This
// lets a template grow new fields over time while previously stored
// documents keep everything they had.
func Merge(loaded, template Document) Document {
	if loaded == nil {
		return Clone(template)
	}

	out := make(Document, len(loaded))
	for k, v := range loaded {
		out[k] = v
	}
	for k, tv := range template {
		lv, ok := out[k]
		if !ok {
			out[k] = cloneValue(tv)
			continue
		}
		lm, lok := lv.(map[string]any)
		tm, tok := tv.(map[string]any)
		if lok && tok {
			out[k] = Merge(lm, tm)
		}
	}
	return out
}
