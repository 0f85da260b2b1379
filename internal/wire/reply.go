package wire

import (
	"fmt"
	"io"
	"strconv"
)

// WriteOK writes the simple-status reply for every successful
// mutating command per §6's "OK" return-type convention.
func WriteOK(w io.Writer) error {
	_, err := io.WriteString(w, "+OK\r\n")
	return err
}

// WriteBulk writes a bulk-string reply, used for SAVE's opaque blob
// and GETTEXT's string result.
func WriteBulk(w io.Writer, data []byte) error {
	if _, err := fmt.Fprintf(w, "$%d\r\n", len(data)); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\r\n")
	return err
}

// WriteInt writes an integer reply, used for GETINT, GETBOOL
// (0/1) and LISTLEN.
func WriteInt(w io.Writer, n int64) error {
	_, err := io.WriteString(w, ":"+strconv.FormatInt(n, 10)+"\r\n")
	return err
}

// WriteDouble writes a protocol-native double reply, used for
// GETDOUBLE.
func WriteDouble(w io.Writer, f float64) error {
	_, err := io.WriteString(w, ","+strconv.FormatFloat(f, 'g', -1, 64)+"\r\n")
	return err
}

// WriteNull writes the null reply used for not-found and soft
// type-mismatch reads.
func WriteNull(w io.Writer) error {
	_, err := io.WriteString(w, "$-1\r\n")
	return err
}

// WriteError writes a typed command error, used for every error kind
// in §7 except the soft TypeMismatch case (which is a null reply).
func WriteError(w io.Writer, err error) error {
	_, werr := io.WriteString(w, "-ERR "+err.Error()+"\r\n")
	return werr
}
