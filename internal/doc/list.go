package doc

import (
	"context"
	"fmt"

	"github.com/michelp/redis-automerge/internal/engine"
	"github.com/michelp/redis-automerge/internal/navigate"
	"github.com/michelp/redis-automerge/internal/path"
)

// CreateList sets path to a new, empty list, creating intermediate
// maps as needed. Unlike Put, this is the only way a list comes into
// existence: navigate.CreateMaps never fabricates one on its own.
func (c *Client) CreateList(ctx context.Context, p string) ([]byte, error) {
	return c.put(ctx, p, []any{})
}

// appendLeaf resolves path to an existing list and commits a single
// "add" operation targeting its "/-" position.
func (c *Client) appendLeaf(ctx context.Context, p string, leaf any) ([]byte, error) {
	segs, err := path.Parse(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadPath, err)
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
	if _, ok := node.([]any); !ok {
		return nil, fmt.Errorf("%w: value at %q is not a list", ErrInvalidValue, p)
	}

	listPtr := path.Pointer(segs)
	op := engine.Add(engine.AppendPath(listPtr), leaf)
	return c.commit(ctx, []engine.Op{op})
}

// AppendText appends a string to the existing list at path.
func (c *Client) AppendText(ctx context.Context, p string, v string) ([]byte, error) {
	return c.appendLeaf(ctx, p, engine.TagText(v))
}

// AppendInt appends an int64 to the existing list at path.
func (c *Client) AppendInt(ctx context.Context, p string, v int64) ([]byte, error) {
	return c.appendLeaf(ctx, p, engine.TagInt(v))
}

// AppendDouble appends a float64 to the existing list at path.
func (c *Client) AppendDouble(ctx context.Context, p string, v float64) ([]byte, error) {
	return c.appendLeaf(ctx, p, engine.TagFloat(v))
}

// AppendBool appends a bool to the existing list at path.
func (c *Client) AppendBool(ctx context.Context, p string, v bool) ([]byte, error) {
	return c.appendLeaf(ctx, p, engine.TagBool(v))
}

// ListLen returns the length of the list at path. On a map it returns
// the map's number of keys.
func (c *Client) ListLen(ctx context.Context, p string) (int, error) {
	segs, err := path.Parse(p)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrBadPath, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	tree, err := c.view(ctx)
	if err != nil {
		return 0, err
	}

	node, found := navigate.Read(tree, segs)
	if !found {
		return 0, ErrNotFound
	}
	if m, ok := node.(map[string]any); ok {
		if _, isScalar := engine.IsScalar(m); !isScalar {
			return len(m), nil
		}
	}
	list, ok := node.([]any)
	if !ok {
		// LISTLEN is a read ("integer or null"); a scalar value at an
		// existing path is the soft TypeMismatch case, same as GET*.
		return 0, fmt.Errorf("%w: value at %q is not a list", ErrTypeMismatch, p)
	}
	return len(list), nil
}
