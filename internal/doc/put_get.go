package doc

import (
	"context"
	"fmt"
	"strconv"

	"github.com/michelp/redis-automerge/internal/engine"
	"github.com/michelp/redis-automerge/internal/navigate"
	"github.com/michelp/redis-automerge/internal/path"
)

// put resolves dotted/bracket path, auto-creating any missing
// intermediate maps, and commits a single "add" operation that sets
// the tagged leaf value. It is shared by every typed Put* method.
//
// A leaf write needs at least one segment to address: an empty path
// would target the root itself, which must always stay a map, so that
// case is BadPath rather than a whole-document replace.
func (c *Client) put(ctx context.Context, p string, leaf any) ([]byte, error) {
	segs, err := path.Parse(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadPath, err)
	}
	if len(segs) == 0 {
		return nil, fmt.Errorf("%w: leaf write requires a non-empty path", ErrBadPath)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	tree, err := c.view(ctx)
	if err != nil {
		return nil, err
	}

	parent, last, _ := path.SplitLast(segs)

	ops, parentPtr, err := navigate.CreateMaps(tree, parent)
	if err != nil {
		return nil, err
	}

	if last.Kind == path.IndexSeg {
		// Put onto an index leaf overwrites an existing list element;
		// it never extends the list, so the element must already be
		// there in the pre-ops tree navigate.CreateMaps just walked.
		// "replace" is required rather than "add": RFC 6902 "add" on
		// an existing array index inserts and shifts, it does not
		// overwrite in place — the same reason the teacher's own
		// MakeMove uses "replace" against its /board/%d/%d cells
		// instead of "add".
		parentNode, found := navigate.Read(tree, parent)
		if !found {
			return nil, navigate.ErrIndexOutOfRange
		}
		list, ok := parentNode.([]any)
		if !ok {
			return nil, navigate.ErrPathTypeMismatch
		}
		if last.Index >= uint64(len(list)) {
			return nil, navigate.ErrIndexOutOfRange
		}
		leafPtr := parentPtr + "/" + strconv.FormatUint(last.Index, 10)
		ops = append(ops, engine.Replace(leafPtr, leaf))
		return c.commit(ctx, ops)
	}

	leafPtr := parentPtr + "/" + path.EscapeToken(last.Key)
	ops = append(ops, engine.Add(leafPtr, leaf))
	return c.commit(ctx, ops)
}

// get resolves path and, if found, type-checks it against want,
// returning the untagged Go value.
//
// A leaf read needs at least one segment to address, same as a leaf
// write: an empty path resolves to the root map, which can never
// satisfy a scalar type check, so that case is BadPath rather than
// falling through to a misleading TypeMismatch.
func (c *Client) get(ctx context.Context, p string, want engine.ScalarKind) (any, error) {
	segs, err := path.Parse(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadPath, err)
	}
	if len(segs) == 0 {
		return nil, fmt.Errorf("%w: leaf read requires a non-empty path", ErrBadPath)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	tree, err := c.view(ctx)
	if err != nil {
		return nil, err
	}

	node, found := navigate.Read(tree, segs)
	if !found {
		return nil, ErrNotFound
	}
	v, ok := engine.Untag(node, want)
	if !ok {
		return nil, fmt.Errorf("%w: value at %q is not %s", ErrTypeMismatch, p, want)
	}
	return v, nil
}

// PutText sets the string at path, creating intermediate maps as needed.
func (c *Client) PutText(ctx context.Context, p string, v string) ([]byte, error) {
	return c.put(ctx, p, engine.TagText(v))
}

// PutInt sets the int64 at path, creating intermediate maps as needed.
func (c *Client) PutInt(ctx context.Context, p string, v int64) ([]byte, error) {
	return c.put(ctx, p, engine.TagInt(v))
}

// PutDouble sets the float64 at path, creating intermediate maps as needed.
func (c *Client) PutDouble(ctx context.Context, p string, v float64) ([]byte, error) {
	return c.put(ctx, p, engine.TagFloat(v))
}

// PutBool sets the bool at path, creating intermediate maps as needed.
func (c *Client) PutBool(ctx context.Context, p string, v bool) ([]byte, error) {
	return c.put(ctx, p, engine.TagBool(v))
}

// GetText reads the string at path. ErrNotFound if absent, ErrTypeMismatch
// if present but not a string.
func (c *Client) GetText(ctx context.Context, p string) (string, error) {
	v, err := c.get(ctx, p, engine.KindText)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// GetInt reads the int64 at path. The engine decodes numbers as
// json.Number (see View in internal/engine/rdoc.go) to avoid losing
// precision in the float64<->int64 round trip, so the tagged value is
// converted here rather than asserted directly.
func (c *Client) GetInt(ctx context.Context, p string) (int64, error) {
	v, err := c.get(ctx, p, engine.KindInt)
	if err != nil {
		return 0, err
	}
	return engine.AsInt64(v)
}

// GetDouble reads the float64 at path.
func (c *Client) GetDouble(ctx context.Context, p string) (float64, error) {
	v, err := c.get(ctx, p, engine.KindFloat)
	if err != nil {
		return 0, err
	}
	return engine.AsFloat64(v)
}

// GetBool reads the bool at path.
func (c *Client) GetBool(ctx context.Context, p string) (bool, error) {
	v, err := c.get(ctx, p, engine.KindBool)
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}
