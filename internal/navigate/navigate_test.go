package navigate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michelp/redis-automerge/internal/engine"
	"github.com/michelp/redis-automerge/internal/path"
)

func TestRead_Found(t *testing.T) {
	tree := map[string]any{
		"user": map[string]any{
			"name": engine.TagText("Alice"),
		},
	}
	segs, err := path.Parse("user.name")
	require.NoError(t, err)
	node, found := Read(tree, segs)
	require.True(t, found)
	v, ok := engine.Untag(node, engine.KindText)
	require.True(t, ok)
	assert.Equal(t, "Alice", v)
}

func TestRead_MissingIsNotFound(t *testing.T) {
	tree := map[string]any{"user": map[string]any{}}
	segs, err := path.Parse("user.age")
	require.NoError(t, err)
	_, found := Read(tree, segs)
	assert.False(t, found)
}

func TestRead_ScalarPrefixIsNotFound(t *testing.T) {
	tree := map[string]any{"a": engine.TagInt(7)}
	segs, err := path.Parse("a.b")
	require.NoError(t, err)
	_, found := Read(tree, segs)
	assert.False(t, found)
}

func TestCreateMaps_CreatesMissingIntermediates(t *testing.T) {
	tree := map[string]any{}
	segs, err := path.Parse("a.b.c")
	require.NoError(t, err)
	ops, ptr, err := CreateMaps(tree, segs)
	require.NoError(t, err)
	assert.Equal(t, "/a/b/c", ptr)
	require.Len(t, ops, 3)
	assert.Equal(t, "/a", ops[0].Path)
	assert.Equal(t, "/a/b", ops[1].Path)
	assert.Equal(t, "/a/b/c", ops[2].Path)
}

func TestCreateMaps_DescendsExistingMaps(t *testing.T) {
	tree := map[string]any{"a": map[string]any{"b": map[string]any{}}}
	segs, err := path.Parse("a.b")
	require.NoError(t, err)
	ops, ptr, err := CreateMaps(tree, segs)
	require.NoError(t, err)
	assert.Empty(t, ops)
	assert.Equal(t, "/a/b", ptr)
}

func TestCreateMaps_ScalarCollisionIsTypeMismatch(t *testing.T) {
	tree := map[string]any{"a": engine.TagText("x")}
	segs, err := path.Parse("a.b")
	require.NoError(t, err)
	_, _, err = CreateMaps(tree, segs)
	assert.ErrorIs(t, err, ErrPathTypeMismatch)
}

func TestCreateMaps_IndexOutOfRange(t *testing.T) {
	tree := map[string]any{"xs": []any{}}
	segs, err := path.Parse("xs[0]")
	require.NoError(t, err)
	_, _, err = CreateMaps(tree, segs)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestCreateMaps_IndexIntoScalarIsTypeMismatch(t *testing.T) {
	tree := map[string]any{"xs": []any{engine.TagInt(1)}}
	segs, err := path.Parse("xs[0]")
	require.NoError(t, err)
	_, _, err = CreateMaps(tree, segs)
	assert.ErrorIs(t, err, ErrPathTypeMismatch)
}

func TestCreateMaps_KeyUnderListElement(t *testing.T) {
	tree := map[string]any{"xs": []any{map[string]any{}}}
	segs, err := path.Parse("xs[0].y")
	require.NoError(t, err)
	_, ptr, err := CreateMaps(tree, segs)
	require.NoError(t, err)
	assert.Equal(t, "/xs/0/y", ptr)
}
