package doc

import "errors"

// Sentinel errors matching the taxonomy of spec §7. PathTypeMismatch
// and IndexOutOfRange are produced by the navigate package and
// surfaced here unchanged; the rest, including this package's own
// ErrBadPath, originate in doc itself.
var (
	// ErrBadPath means the path string failed to parse, or a leaf
	// write/read was given an empty path. The root is always a map,
	// so a leaf operation needs at least one segment to address.
	ErrBadPath = errors.New("doc: bad path")

	// ErrNotFound means a path resolved to nothing: a missing key, a
	// scalar where an object was expected, or an out-of-range index
	// in read mode.
	ErrNotFound = errors.New("doc: not found")

	// ErrInvalidValue means a caller-supplied scalar argument could
	// not be parsed as the type the command expects, or an Append*
	// targeted a value that is not a list.
	ErrInvalidValue = errors.New("doc: invalid value")

	// ErrInvalidChange means a foreign change blob could not be
	// parsed by the engine; the whole Apply batch is reverted.
	ErrInvalidChange = errors.New("doc: invalid change")

	// ErrTypeMismatch is the "soft" counterpart of ErrInvalidValue: a
	// Get* found a value at path, but it is a scalar of a different
	// type. Per the error taxonomy this is not a command error — the
	// host adapter maps it to a null reply, same as ErrNotFound.
	ErrTypeMismatch = errors.New("doc: type mismatch")

	// ErrDiffMismatch means a unified diff's context or removal
	// lines did not align with the current text at the target path.
	ErrDiffMismatch = errors.New("doc: diff does not match source text")
)
