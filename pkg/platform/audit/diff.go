package audit

import (
	"encoding/json"

	"github.com/gowebpki/jcs"
)

// ComputeDiff produces a minimal field-level diff between two snapshots.
// Both inputs are canonicalized per RFC 8785 before comparison so key order,
// number formatting, and nil-vs-absent keys never produce spurious changes.
// Empty or identical snapshots yield an empty diff; callers use that to
// suppress the audit write entirely.
func ComputeDiff(before, after map[string]any) Diff {
	diff := Diff{}

	keys := make(map[string]struct{}, len(before)+len(after))
	for k := range before {
		keys[k] = struct{}{}
	}
	for k := range after {
		keys[k] = struct{}{}
	}

	for k := range keys {
		b := before[k] // nil when absent
		a := after[k]
		if canonical(b) == canonical(a) {
			continue
		}
		diff[k] = FieldChange{Before: b, After: a}
	}
	return diff
}

// canonical returns the RFC 8785 serialization of a value. Values that cannot
// be marshaled compare unequal to everything except themselves going through
// the same fallback.
func canonical(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return "!" + err.Error()
	}
	c, err := jcs.Transform(raw)
	if err != nil {
		return string(raw)
	}
	return string(c)
}
