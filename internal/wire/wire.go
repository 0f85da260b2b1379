// Package wire decodes the line-oriented command frames the
// reference host (cmd/docmoduled) reads off a TCP connection into
// argument vectors, and encodes replies back, following the
// args[0], args[1], args[2:]... shape RedisModule_Command handlers
// consume in the original redis-automerge Rust module
// (original_source/redis-automerge/src/lib.rs): one command name,
// then a flat list of byte-string arguments.
package wire

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// Command is one decoded frame: the uppercase command name plus its
// argument vector (args[0] is the first argument after the name —
// there is no args[0]==name slot the way RedisModule_Command gets
// one, since the name has already been split off here).
type Command struct {
	Name string
	Args [][]byte
}

// ReadCommand reads one frame from r: an argument count line ("*N"),
// followed by N length-prefixed argument lines ("$len" then the raw
// bytes and a trailing newline) — the same shape as the Redis
// unified request protocol, without its optional inline-command form,
// since docmoduled exists only to exercise this module's own command
// set, not to be a general Redis server.
func ReadCommand(r *bufio.Reader) (Command, error) {
	line, err := readLine(r)
	if err != nil {
		return Command{}, err
	}
	if len(line) == 0 || line[0] != '*' {
		return Command{}, fmt.Errorf("wire: expected '*' count line, got %q", line)
	}
	n, err := strconv.Atoi(string(line[1:]))
	if err != nil || n < 1 {
		return Command{}, fmt.Errorf("wire: malformed argument count %q", line)
	}

	fields := make([][]byte, n)
	for i := 0; i < n; i++ {
		fields[i], err = readBulk(r)
		if err != nil {
			return Command{}, err
		}
	}

	return Command{Name: string(bytes.ToUpper(fields[0])), Args: fields[1:]}, nil
}

func readLine(r *bufio.Reader) ([]byte, error) {
	line, err := r.ReadBytes('\n')
	if err != nil {
		return nil, err
	}
	return bytes.TrimRight(line, "\r\n"), nil
}

func readBulk(r *bufio.Reader) ([]byte, error) {
	header, err := readLine(r)
	if err != nil {
		return nil, err
	}
	if len(header) == 0 || header[0] != '$' {
		return nil, fmt.Errorf("wire: expected '$' length line, got %q", header)
	}
	n, err := strconv.Atoi(string(header[1:]))
	if err != nil || n < 0 {
		return nil, fmt.Errorf("wire: malformed bulk length %q", header)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	if _, err := readLine(r); err != nil { // trailing CRLF
		return nil, err
	}
	return buf, nil
}
