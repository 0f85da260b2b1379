package engine

import "encoding/json"

// Op is one RFC 6902 JSON Patch operation, the wire format rdoc's
// Apply accepts (see pkg/crdt's use of {"op","path","value"} patches
// in the teacher repo).
type Op struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
}

// Add builds an "add" operation: creates or overwrites the value at a
// map key; at an existing list index it inserts and shifts the rest.
func Add(path string, value any) Op { return Op{Op: "add", Path: path, Value: value} }

// Replace builds a "replace" operation: the target at path must exist.
func Replace(path string, value any) Op { return Op{Op: "replace", Path: path, Value: value} }

// RootPointer is the path rdoc expects for the whole document, rather
// than RFC 6901's "" — see pkg/crdt's {"op":"add","path":"/","value":{}}
// convention in the teacher repo, which this binding follows exactly.
const RootPointer = "/"

// Pointer normalizes a path package pointer (which uses "" for the
// document root) into the "/" rdoc expects.
func Pointer(p string) string {
	if p == "" {
		return RootPointer
	}
	return p
}

// AppendPath returns the RFC 6901 "append" pointer for a list at
// listPointer — the JSON Patch convention of suffixing "-" to address
// the position one past the end.
func AppendPath(listPointer string) string {
	return listPointer + "/-"
}

// EncodePatch serializes a sequence of operations into the []byte
// form Doc.Apply expects, and that internal/doc buffers and returns
// as a captured change.
func EncodePatch(ops []Op) ([]byte, error) {
	return json.Marshal(ops)
}

// DecodePatch validates that data is a well-formed JSON Patch
// operation array without applying it to any document. internal/doc
// uses this to implement the "parse before touching the engine"
// atomicity rule for foreign applies.
func DecodePatch(data []byte) ([]Op, error) {
	var ops []Op
	if err := json.Unmarshal(data, &ops); err != nil {
		return nil, err
	}
	return ops, nil
}
