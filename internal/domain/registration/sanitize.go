package registration

// StripAbsent removes every field whose value is the absent sentinel
// (a nil value) from a document, depth-first through nested maps and
// sequences. The document layer rejects sentinel values outright, so
// stripping is unconditional before any write.
func StripAbsent(doc map[string]any) map[string]any {
	if doc == nil {
		return nil
	}
	out := make(map[string]any, len(doc))
	for key, value := range doc {
		cleaned, keep := stripValue(value)
		if keep {
			out[key] = cleaned
		}
	}
	return out
}

func stripValue(value any) (any, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false
	case map[string]any:
		return StripAbsent(v), true
	case []any:
		cleaned := make([]any, 0, len(v))
		for _, item := range v {
			c, keep := stripValue(item)
			if keep {
				cleaned = append(cleaned, c)
			}
		}
		return cleaned, true
	default:
		return value, true
	}
}
