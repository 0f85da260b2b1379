package wire

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCommand_ParsesNameAndArgs(t *testing.T) {
	frame := "*4\r\n$7\r\nPUTTEXT\r\n$1\r\nd\r\n$4\r\nuser\r\n$5\r\nAlice\r\n"
	r := bufio.NewReader(bytes.NewBufferString(frame))

	cmd, err := ReadCommand(r)
	require.NoError(t, err)
	assert.Equal(t, "PUTTEXT", cmd.Name)
	require.Len(t, cmd.Args, 3)
	assert.Equal(t, "d", string(cmd.Args[0]))
	assert.Equal(t, "user", string(cmd.Args[1]))
	assert.Equal(t, "Alice", string(cmd.Args[2]))
}

func TestReadCommand_LowercaseNameIsUppercased(t *testing.T) {
	frame := "*1\r\n$3\r\nnew\r\n"
	r := bufio.NewReader(bytes.NewBufferString(frame))

	cmd, err := ReadCommand(r)
	require.NoError(t, err)
	assert.Equal(t, "NEW", cmd.Name)
	assert.Empty(t, cmd.Args)
}

func TestReadCommand_MalformedCountLine(t *testing.T) {
	r := bufio.NewReader(bytes.NewBufferString("hello\r\n"))
	_, err := ReadCommand(r)
	assert.Error(t, err)
}

func TestReplyEncoders(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOK(&buf))
	assert.Equal(t, "+OK\r\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteBulk(&buf, []byte("hi")))
	assert.Equal(t, "$2\r\nhi\r\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteInt(&buf, 42))
	assert.Equal(t, ":42\r\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteNull(&buf))
	assert.Equal(t, "$-1\r\n", buf.String())
}
