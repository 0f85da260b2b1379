package replog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLog_AppendAssignsIncreasingSeq(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLog()

	seq1, err := l.Append(ctx, "k", []byte("a"))
	require.NoError(t, err)
	seq2, err := l.Append(ctx, "k", []byte("b"))
	require.NoError(t, err)

	assert.Equal(t, uint64(1), seq1)
	assert.Equal(t, uint64(2), seq2)
}

func TestMemoryLog_AfterReturnsOnlyLaterEntries(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLog()

	_, _ = l.Append(ctx, "k", []byte("a"))
	seq2, _ := l.Append(ctx, "k", []byte("b"))
	_, _ = l.Append(ctx, "k", []byte("c"))

	entries, err := l.After(ctx, "k", seq2-1)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, []byte("b"), entries[0].Payload)
	assert.Equal(t, []byte("c"), entries[1].Payload)
}

func TestMemoryLog_SeparateKeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLog()

	seqA, err := l.Append(ctx, "a", []byte("x"))
	require.NoError(t, err)
	seqB, err := l.Append(ctx, "b", []byte("y"))
	require.NoError(t, err)

	assert.Equal(t, uint64(1), seqA)
	assert.Equal(t, uint64(1), seqB)
}
