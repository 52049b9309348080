// Package merge combines a base object with a partial update.
//
// The merge is structural: nested objects merge recursively, arrays replace
// wholesale, and the Delete sentinel removes a key entirely. Both inputs are
// left untouched; Merge always returns a fresh object.
package merge

// deleteSentinel is the unexported type behind Delete so no decoded or
// user-constructed value can collide with it.
type deleteSentinel struct{}

// Delete is the explicit-deletion marker. Setting a key to Delete in the
// update removes that key from the merged result, even when the base holds a
// defined value there. This mirrors "set to undefined" in partial updates;
// note it is distinct from nil, which is an ordinary value.
var Delete any = deleteSentinel{}

// IsDelete reports whether v is the Delete sentinel.
func IsDelete(v any) bool {
	_, ok := v.(deleteSentinel)
	return ok
}

// Merge deep-merges update into base and returns a new object.
//
// Rules, applied per key over the union of both objects' keys:
//   - both values are plain objects (not arrays): recurse
//   - update value is an array or slice: replaces the base value wholesale
//   - update value is Delete: key absent from the result
//   - key only in base, or omitted from update: base value retained
//   - key only in update: added
//
// Subtrees the update does not touch are shared with base, not copied.
func Merge(base, update map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(update))

	for k, v := range base {
		out[k] = v
	}

	for k, v := range update {
		if IsDelete(v) {
			delete(out, k)
			continue
		}

		bm, baseIsMap := out[k].(map[string]any)
		um, updateIsMap := v.(map[string]any)
		if baseIsMap && updateIsMap {
			out[k] = Merge(bm, um)
			continue
		}

		// Arrays (and every non-map value) replace wholesale.
		out[k] = v
	}

	return out
}
