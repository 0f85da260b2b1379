// Package navigate walks a decoded document tree (as produced by
// engine.Doc.View) according to a compiled path, in the two modes the
// mutation engine needs: a pure, non-mutating Read, and a CreateMaps
// walk that plans the JSON Patch "add" operations required to bring
// every missing intermediate map into existence.
//
// Navigation is kept deliberately separate from committing those
// operations to the engine — two explicit modes are easier to reason
// about than one polymorphic walk with flags, and each mode's error
// surface stays small.
package navigate

import (
	"errors"
	"strconv"

	"github.com/michelp/redis-automerge/internal/engine"
	"github.com/michelp/redis-automerge/internal/path"
)

// ErrPathTypeMismatch is returned when a create-maps walk needs to
// descend through a node that already holds a scalar, or needs to
// key-address a list, or index-address a map or scalar.
var ErrPathTypeMismatch = errors.New("navigate: path type mismatch")

// ErrIndexOutOfRange is returned when a create-maps walk references a
// list index that does not exist. The navigator never extends lists.
var ErrIndexOutOfRange = errors.New("navigate: index out of range")

// Read walks segs against tree without mutating anything. It never
// returns an error: a dead end (missing key, scalar where an object
// was expected, out-of-range index) is simply "not found", matching
// §4.B's read-mode semantics.
func Read(tree any, segs []path.Segment) (node any, found bool) {
	current := tree
	for _, seg := range segs {
		switch seg.Kind {
		case path.KeySeg:
			m, ok := current.(map[string]any)
			if !ok {
				return nil, false
			}
			child, exists := m[seg.Key]
			if !exists {
				return nil, false
			}
			current = child
		case path.IndexSeg:
			list, ok := current.([]any)
			if !ok {
				return nil, false
			}
			if seg.Index >= uint64(len(list)) {
				return nil, false
			}
			current = list[seg.Index]
		}
	}
	return current, true
}

// CreateMaps walks segs against tree, planning an "add" operation for
// every missing map it must create along the way. It returns the
// patch operations (in the order they must be applied, i.e. outermost
// first) together with the JSON Pointer of the node segs resolves to,
// so the caller can append its own leaf operation at pointer+"/"+leaf.
//
// CreateMaps never creates or extends a list: indexing into a missing
// or too-short list is always an error.
func CreateMaps(tree any, segs []path.Segment) (ops []engine.Op, pointer string, err error) {
	current := tree
	for _, seg := range segs {
		switch seg.Kind {
		case path.KeySeg:
			m, ok := current.(map[string]any)
			if !ok {
				return ops, pointer, ErrPathTypeMismatch
			}
			next := pointer + "/" + path.EscapeToken(seg.Key)
			child, exists := m[seg.Key]
			if exists {
				if _, isScalar := engine.IsScalar(child); isScalar {
					return ops, pointer, ErrPathTypeMismatch
				}
				current = child
			} else {
				ops = append(ops, engine.Add(next, map[string]any{}))
				current = map[string]any{}
			}
			pointer = next
		case path.IndexSeg:
			list, ok := current.([]any)
			if !ok {
				return ops, pointer, ErrPathTypeMismatch
			}
			if seg.Index >= uint64(len(list)) {
				return ops, pointer, ErrIndexOutOfRange
			}
			elem := list[seg.Index]
			if _, isScalar := engine.IsScalar(elem); isScalar {
				return ops, pointer, ErrPathTypeMismatch
			}
			current = elem
			pointer = pointer + "/" + strconv.FormatUint(seg.Index, 10)
		}
	}
	return ops, pointer, nil
}
