package jsonschema

import (
	"context"
	"fmt"
	"strings"

	"github.com/krateoplatformops/structgen/internal/tools/safety"
)

// Resolve returns the schema node a slash-delimited reference points at,
// starting from the document root. The segment "#" jumps back to the root
// and "definitions" is a pass-through, since definitions are stored as a
// direct mapping rather than a nested node. Any other segment is looked up
// in the current node's definitions.
func Resolve(ref string, root *Schema) (*Schema, error) {
	current := root
	for _, segment := range strings.Split(ref, "/") {
		switch segment {
		case "#":
			current = root
		case "definitions":
			// pass-through
		default:
			if current.Definitions == nil {
				return nil, &UnresolvedReferenceError{Ref: ref, Segment: segment}
			}
			next, ok := current.Definitions.Get(segment)
			if !ok {
				return nil, &UnresolvedReferenceError{Ref: ref, Segment: segment}
			}
			current = next
		}
	}
	return current, nil
}

// RefTail returns the last path segment of a reference string, the part a
// type name is derived from. For the root self-reference "#" it returns ""
// and the caller must substitute the root type name.
func RefTail(ref string) string {
	if ref == "#" {
		return ""
	}
	parts := strings.Split(ref, "/")
	return parts[len(parts)-1]
}

// Resolved returns the structural view of a schema node: its reference is
// followed and any allOf composition is folded into a single equivalent
// schema. The result is the original node when no merging was necessary,
// or a freshly merged copy otherwise; callers must not mutate it in the
// former case.
func Resolved(s, root *Schema) (*Schema, error) {
	guard := safety.DefaultRecursionGuard()
	ctx, cancel := guard.WithContext()
	defer cancel()

	return resolved(ctx, s, root, guard, 0)
}

func resolved(ctx context.Context, s, root *Schema, guard *safety.RecursionGuard, depth int) (*Schema, error) {
	if err := guard.Check(ctx, depth); err != nil {
		return nil, fmt.Errorf("resolving schema: %w", err)
	}

	if s.Ref != "" {
		target, err := Resolve(s.Ref, root)
		if err != nil {
			return nil, err
		}
		s = target
	}

	if len(s.AllOf) == 0 {
		return s, nil
	}

	// Fold the composition: the first component seeds the merge, every
	// later component widens it. The seed is deep-copied so no schema
	// borrowed from the document is ever mutated.
	seedView, err := resolved(ctx, s.AllOf[0], root, guard, depth+1)
	if err != nil {
		return nil, err
	}
	merged := seedView.DeepCopy()
	for _, component := range s.AllOf[1:] {
		view, err := resolved(ctx, component, root, guard, depth+1)
		if err != nil {
			return nil, err
		}
		Merge(merged, view)
	}
	return merged, nil
}
