package hostadapter

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michelp/redis-automerge/internal/engine"
	"github.com/michelp/redis-automerge/internal/keyspace"
	"github.com/michelp/redis-automerge/internal/notify"
	"github.com/michelp/redis-automerge/internal/replog"
	"github.com/michelp/redis-automerge/internal/wire"
)

func newTestAdapter() *Adapter {
	return New(keyspace.New(), engine.NewRDocEngine(), notify.NewMemoryNotifier(), replog.NewMemoryLog(), nil)
}

func run(t *testing.T, a *Adapter, args ...[]byte) string {
	t.Helper()
	var buf bytes.Buffer
	name := string(args[0])
	cmd := wire.Command{Name: name, Args: args[1:]}
	require.NoError(t, a.Dispatch(context.Background(), cmd, &buf))
	return buf.String()
}

func b(s string) []byte { return []byte(s) }

// parseBulkReply extracts the payload of a "$<len>\r\n<data>\r\n"
// bulk reply by its declared length, rather than assuming the
// payload itself contains no newlines.
func parseBulkReply(t *testing.T, reply []byte) []byte {
	t.Helper()
	r := bufio.NewReader(bytes.NewReader(reply))
	header, err := r.ReadString('\n')
	require.NoError(t, err)
	header = strings.TrimRight(header, "\r\n")
	require.True(t, len(header) > 0 && header[0] == '$')
	n, err := strconv.Atoi(header[1:])
	require.NoError(t, err)
	data := make([]byte, n)
	_, err = io.ReadFull(r, data)
	require.NoError(t, err)
	return data
}

func TestDispatch_NewSaveRoundTrip(t *testing.T) {
	a := newTestAdapter()
	assert.Equal(t, "+OK\r\n", run(t, a, b("NEW"), b("d")))

	var buf bytes.Buffer
	require.NoError(t, a.Dispatch(context.Background(), wire.Command{Name: "SAVE", Args: [][]byte{b("d")}}, &buf))
	assert.Contains(t, buf.String(), "$")
}

func TestDispatch_PutGetText(t *testing.T) {
	a := newTestAdapter()
	run(t, a, b("NEW"), b("d"))
	run(t, a, b("PUTTEXT"), b("d"), b("user.name"), b("Alice"))

	var buf bytes.Buffer
	require.NoError(t, a.Dispatch(context.Background(), wire.Command{Name: "GETTEXT", Args: [][]byte{b("d"), b("user.name")}}, &buf))
	assert.Equal(t, "$5\r\nAlice\r\n", buf.String())
}

func TestDispatch_GetMissingIsNull(t *testing.T) {
	a := newTestAdapter()
	run(t, a, b("NEW"), b("d"))

	var buf bytes.Buffer
	require.NoError(t, a.Dispatch(context.Background(), wire.Command{Name: "GETTEXT", Args: [][]byte{b("d"), b("nope")}}, &buf))
	assert.Equal(t, "$-1\r\n", buf.String())
}

func TestDispatch_WrongArityIsError(t *testing.T) {
	a := newTestAdapter()
	var buf bytes.Buffer
	err := a.Dispatch(context.Background(), wire.Command{Name: "NEW", Args: nil}, &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "-ERR")
}

func TestDispatch_UnknownCommand(t *testing.T) {
	a := newTestAdapter()
	var buf bytes.Buffer
	require.NoError(t, a.Dispatch(context.Background(), wire.Command{Name: "FROBNICATE", Args: nil}, &buf))
	assert.Contains(t, buf.String(), "-ERR")
}

func TestDispatch_ListRoundTrip(t *testing.T) {
	a := newTestAdapter()
	run(t, a, b("NEW"), b("d"))
	run(t, a, b("CREATELIST"), b("d"), b("xs"))
	run(t, a, b("APPENDTEXT"), b("d"), b("xs"), b("first"))
	run(t, a, b("APPENDTEXT"), b("d"), b("xs"), b("second"))

	var buf bytes.Buffer
	require.NoError(t, a.Dispatch(context.Background(), wire.Command{Name: "LISTLEN", Args: [][]byte{b("d"), b("xs")}}, &buf))
	assert.Equal(t, ":2\r\n", buf.String())
}

func TestDispatch_BoolRoundTrip(t *testing.T) {
	a := newTestAdapter()
	run(t, a, b("NEW"), b("d"))
	run(t, a, b("PUTBOOL"), b("d"), b("flag"), b("true"))

	var buf bytes.Buffer
	require.NoError(t, a.Dispatch(context.Background(), wire.Command{Name: "GETBOOL", Args: [][]byte{b("d"), b("flag")}}, &buf))
	assert.Equal(t, ":1\r\n", buf.String())
}

func TestDispatch_InvalidBoolIsError(t *testing.T) {
	a := newTestAdapter()
	run(t, a, b("NEW"), b("d"))

	var buf bytes.Buffer
	err := a.Dispatch(context.Background(), wire.Command{Name: "PUTBOOL", Args: [][]byte{b("d"), b("flag"), b("maybe")}}, &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "-ERR")
}

func TestDispatch_SaveLoadAcrossTwoAdapters(t *testing.T) {
	a1 := newTestAdapter()
	a2 := newTestAdapter()
	run(t, a1, b("NEW"), b("d"))
	run(t, a2, b("NEW"), b("d"))
	run(t, a1, b("PUTTEXT"), b("d"), b("x"), b("hello"))

	var saveBuf bytes.Buffer
	require.NoError(t, a1.Dispatch(context.Background(), wire.Command{Name: "SAVE", Args: [][]byte{b("d")}}, &saveBuf))
	ops := parseBulkReply(t, saveBuf.Bytes())

	var loadBuf bytes.Buffer
	require.NoError(t, a2.Dispatch(context.Background(), wire.Command{Name: "LOAD", Args: [][]byte{b("d2"), ops}}, &loadBuf))
	assert.Equal(t, "+OK\r\n", loadBuf.String())

	var getBuf bytes.Buffer
	require.NoError(t, a2.Dispatch(context.Background(), wire.Command{Name: "GETTEXT", Args: [][]byte{b("d2"), b("x")}}, &getBuf))
	assert.Equal(t, "$5\r\nhello\r\n", getBuf.String())
}
