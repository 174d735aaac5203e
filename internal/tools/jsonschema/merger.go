package jsonschema

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Merge widens target so it also satisfies source, mutating target in
// place. Target must be an owned copy (see Resolved); source is read-only
// and property schemas taken from it are deep-copied before insertion.
//
// The rule order matters: properties merge first so the later required
// union and type intersection act on the combined shape.
func Merge(target, source *Schema) {
	if source.Properties != nil {
		if target.Properties == nil {
			target.Properties = orderedmap.New[string, *Schema]()
		}
		for p := source.Properties.Oldest(); p != nil; p = p.Next() {
			if existing, ok := target.Properties.Get(p.Key); ok {
				// Both sides define the property: merge the sub-schemas
				// recursively, which supports deeply nested allOf chains.
				Merge(existing, p.Value)
				continue
			}
			target.Properties.Set(p.Key, p.Value.DeepCopy())
		}
	}

	// Singleton fields are last-writer-wins; composed schemas use this to
	// re-point a field at a different base or override its documentation.
	if source.Ref != "" {
		target.Ref = source.Ref
	}
	if source.Description != "" {
		target.Description = source.Description
	}

	// Once any component requires a field, the merged schema requires it.
	for _, req := range source.Required {
		if !containsString(target.Required, req) {
			target.Required = append(target.Required, req)
		}
	}

	// A merged schema can only be as permissive as every component: an
	// entry survives only if source also declares it.
	kept := target.Type[:0]
	for _, t := range target.Type {
		if source.Type.Contains(t) {
			kept = append(kept, t)
		}
	}
	target.Type = kept
}

func containsString(list []string, s string) bool {
	for _, el := range list {
		if el == s {
			return true
		}
	}
	return false
}
