// Package hostadapter binds the document core's typed field API to
// the command grammar of the wire protocol: one handler per command,
// doing arity checking, argument parsing, the call into internal/doc,
// and the side effects every successful mutating command runs
// (replicate, notify, log) — the same "thin adapter in front of the
// core" shape internal/delivery/http plays in front of internal/usecase
// elsewhere in this tree, adapted to a line protocol instead of HTTP.
package hostadapter

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/michelp/redis-automerge/internal/doc"
	"github.com/michelp/redis-automerge/internal/engine"
	"github.com/michelp/redis-automerge/internal/keyspace"
	"github.com/michelp/redis-automerge/internal/notify"
	"github.com/michelp/redis-automerge/internal/replog"
	"github.com/michelp/redis-automerge/internal/wire"
)

// Adapter dispatches decoded wire.Commands against a keyspace of
// document clients, running each mutating command's replication,
// notification, and structured-logging side effects.
type Adapter struct {
	keys     *keyspace.Keyspace
	eng      engine.Engine
	notifier notify.Notifier
	log      replog.Log
	logger   *zap.Logger
}

// New builds an Adapter from its collaborators; any of notifier/log
// may be the in-memory implementation for single-process use.
func New(keys *keyspace.Keyspace, eng engine.Engine, notifier notify.Notifier, log replog.Log, logger *zap.Logger) *Adapter {
	return &Adapter{keys: keys, eng: eng, notifier: notifier, log: log, logger: logger}
}

// ErrWrongArity is returned when a command's argument count does not
// match §6's arity table.
var ErrWrongArity = fmt.Errorf("wrong number of arguments")

// ErrUnknownCommand is returned for any command name outside §6.
var ErrUnknownCommand = fmt.Errorf("unknown command")

// Dispatch decodes nothing itself (that is wire.ReadCommand's job);
// it runs cmd against the keyspace and writes exactly one reply to w.
func (a *Adapter) Dispatch(ctx context.Context, cmd wire.Command, w io.Writer) error {
	h, ok := handlers[cmd.Name]
	if !ok {
		return wire.WriteError(w, fmt.Errorf("%w: %s", ErrUnknownCommand, cmd.Name))
	}
	if len(cmd.Args) < h.minArgs || (h.maxArgs >= 0 && len(cmd.Args) > h.maxArgs) {
		return wire.WriteError(w, ErrWrongArity)
	}
	return h.run(a, ctx, cmd.Args, w)
}

type handler struct {
	minArgs, maxArgs int // maxArgs < 0 means unbounded
	run              func(a *Adapter, ctx context.Context, args [][]byte, w io.Writer) error
}

var handlers = map[string]handler{
	"NEW":         {1, 1, (*Adapter).handleNew},
	"LOAD":        {2, 2, (*Adapter).handleLoad},
	"SAVE":        {1, 1, (*Adapter).handleSave},
	"APPLY":       {2, -1, (*Adapter).handleApply},
	"PUTTEXT":     {3, 3, putHandler(engine.KindText)},
	"PUTINT":      {3, 3, putHandler(engine.KindInt)},
	"PUTDOUBLE":   {3, 3, putHandler(engine.KindFloat)},
	"PUTBOOL":     {3, 3, putHandler(engine.KindBool)},
	"GETTEXT":     {2, 2, getHandler(engine.KindText)},
	"GETINT":      {2, 2, getHandler(engine.KindInt)},
	"GETDOUBLE":   {2, 2, getHandler(engine.KindFloat)},
	"GETBOOL":     {2, 2, getHandler(engine.KindBool)},
	"PUTDIFF":     {3, 3, (*Adapter).handlePutDiff},
	"CREATELIST":  {2, 2, (*Adapter).handleCreateList},
	"APPENDTEXT":  {3, 3, appendHandler(engine.KindText)},
	"APPENDINT":   {3, 3, appendHandler(engine.KindInt)},
	"APPENDDOUBLE": {3, 3, appendHandler(engine.KindFloat)},
	"APPENDBOOL":  {3, 3, appendHandler(engine.KindBool)},
	"LISTLEN":     {2, 2, (*Adapter).handleListLen},
}

func (a *Adapter) handleNew(ctx context.Context, args [][]byte, w io.Writer) error {
	key := string(args[0])
	c, err := doc.New(ctx, a.eng)
	if err != nil {
		return wire.WriteError(w, err)
	}
	if err := a.keys.Put(key, c); err != nil {
		return wire.WriteError(w, err)
	}
	a.sideEffects(ctx, "NEW", key, args, nil)
	return wire.WriteOK(w)
}

func (a *Adapter) handleLoad(ctx context.Context, args [][]byte, w io.Writer) error {
	key := string(args[0])
	c, err := doc.Load(ctx, a.eng, args[1])
	if err != nil {
		return wire.WriteError(w, err)
	}
	if err := a.keys.Put(key, c); err != nil {
		return wire.WriteError(w, err)
	}
	a.sideEffects(ctx, "LOAD", key, args, nil)
	return wire.WriteOK(w)
}

func (a *Adapter) handleSave(ctx context.Context, args [][]byte, w io.Writer) error {
	key := string(args[0])
	c, err := a.keys.Get(key)
	if err != nil {
		return wire.WriteError(w, err)
	}
	blob, err := c.Save(ctx)
	if err != nil {
		return wire.WriteError(w, err)
	}
	return wire.WriteBulk(w, blob)
}

func (a *Adapter) handleApply(ctx context.Context, args [][]byte, w io.Writer) error {
	key := string(args[0])
	c, err := a.keys.Get(key)
	if err != nil {
		return wire.WriteError(w, err)
	}
	if err := c.Apply(ctx, args[1:]); err != nil {
		return wire.WriteError(w, err)
	}
	a.sideEffects(ctx, "APPLY", key, args, c)
	return wire.WriteOK(w)
}

func putHandler(kind engine.ScalarKind) func(*Adapter, context.Context, [][]byte, io.Writer) error {
	return func(a *Adapter, ctx context.Context, args [][]byte, w io.Writer) error {
		key, path, raw := string(args[0]), string(args[1]), args[2]
		c, err := a.keys.Get(key)
		if err != nil {
			return wire.WriteError(w, err)
		}
		if err := putScalar(ctx, c, path, kind, raw); err != nil {
			return wire.WriteError(w, err)
		}
		a.sideEffects(ctx, "PUT"+kindSuffix(kind), key, args, c)
		return wire.WriteOK(w)
	}
}

func putScalar(ctx context.Context, c *doc.Client, path string, kind engine.ScalarKind, raw []byte) error {
	switch kind {
	case engine.KindText:
		_, err := c.PutText(ctx, path, string(raw))
		return err
	case engine.KindInt:
		n, err := parseInt(raw)
		if err != nil {
			return err
		}
		_, err = c.PutInt(ctx, path, n)
		return err
	case engine.KindFloat:
		f, err := parseFloat(raw)
		if err != nil {
			return err
		}
		_, err = c.PutDouble(ctx, path, f)
		return err
	case engine.KindBool:
		b, err := parseBool(raw)
		if err != nil {
			return err
		}
		_, err = c.PutBool(ctx, path, b)
		return err
	default:
		return fmt.Errorf("hostadapter: unsupported scalar kind %q", kind)
	}
}

func appendHandler(kind engine.ScalarKind) func(*Adapter, context.Context, [][]byte, io.Writer) error {
	return func(a *Adapter, ctx context.Context, args [][]byte, w io.Writer) error {
		key, path, raw := string(args[0]), string(args[1]), args[2]
		c, err := a.keys.Get(key)
		if err != nil {
			return wire.WriteError(w, err)
		}
		if err := appendScalar(ctx, c, path, kind, raw); err != nil {
			return wire.WriteError(w, err)
		}
		a.sideEffects(ctx, "APPEND"+kindSuffix(kind), key, args, c)
		return wire.WriteOK(w)
	}
}

func appendScalar(ctx context.Context, c *doc.Client, path string, kind engine.ScalarKind, raw []byte) error {
	switch kind {
	case engine.KindText:
		_, err := c.AppendText(ctx, path, string(raw))
		return err
	case engine.KindInt:
		n, err := parseInt(raw)
		if err != nil {
			return err
		}
		_, err = c.AppendInt(ctx, path, n)
		return err
	case engine.KindFloat:
		f, err := parseFloat(raw)
		if err != nil {
			return err
		}
		_, err = c.AppendDouble(ctx, path, f)
		return err
	case engine.KindBool:
		b, err := parseBool(raw)
		if err != nil {
			return err
		}
		_, err = c.AppendBool(ctx, path, b)
		return err
	default:
		return fmt.Errorf("hostadapter: unsupported scalar kind %q", kind)
	}
}

func getHandler(kind engine.ScalarKind) func(*Adapter, context.Context, [][]byte, io.Writer) error {
	return func(a *Adapter, ctx context.Context, args [][]byte, w io.Writer) error {
		key, path := string(args[0]), string(args[1])
		c, err := a.keys.Get(key)
		if err != nil {
			return wire.WriteNull(w)
		}
		return writeGet(ctx, c, path, kind, w)
	}
}

func writeGet(ctx context.Context, c *doc.Client, path string, kind engine.ScalarKind, w io.Writer) error {
	switch kind {
	case engine.KindText:
		v, err := c.GetText(ctx, path)
		if isSoft(err) {
			return wire.WriteNull(w)
		} else if err != nil {
			return wire.WriteError(w, err)
		}
		return wire.WriteBulk(w, []byte(v))
	case engine.KindInt:
		v, err := c.GetInt(ctx, path)
		if isSoft(err) {
			return wire.WriteNull(w)
		} else if err != nil {
			return wire.WriteError(w, err)
		}
		return wire.WriteInt(w, v)
	case engine.KindFloat:
		v, err := c.GetDouble(ctx, path)
		if isSoft(err) {
			return wire.WriteNull(w)
		} else if err != nil {
			return wire.WriteError(w, err)
		}
		return wire.WriteDouble(w, v)
	case engine.KindBool:
		v, err := c.GetBool(ctx, path)
		if isSoft(err) {
			return wire.WriteNull(w)
		} else if err != nil {
			return wire.WriteError(w, err)
		}
		n := int64(0)
		if v {
			n = 1
		}
		return wire.WriteInt(w, n)
	default:
		return fmt.Errorf("hostadapter: unsupported scalar kind %q", kind)
	}
}

func (a *Adapter) handlePutDiff(ctx context.Context, args [][]byte, w io.Writer) error {
	key, path, diff := string(args[0]), string(args[1]), string(args[2])
	c, err := a.keys.Get(key)
	if err != nil {
		return wire.WriteError(w, err)
	}
	if _, err := c.PutDiff(ctx, path, diff); err != nil {
		return wire.WriteError(w, err)
	}
	a.sideEffects(ctx, "PUTDIFF", key, args, c)
	return wire.WriteOK(w)
}

func (a *Adapter) handleCreateList(ctx context.Context, args [][]byte, w io.Writer) error {
	key, path := string(args[0]), string(args[1])
	c, err := a.keys.Get(key)
	if err != nil {
		return wire.WriteError(w, err)
	}
	if _, err := c.CreateList(ctx, path); err != nil {
		return wire.WriteError(w, err)
	}
	a.sideEffects(ctx, "CREATELIST", key, args, c)
	return wire.WriteOK(w)
}

func (a *Adapter) handleListLen(ctx context.Context, args [][]byte, w io.Writer) error {
	key, path := string(args[0]), string(args[1])
	c, err := a.keys.Get(key)
	if err != nil {
		return wire.WriteNull(w)
	}
	n, err := c.ListLen(ctx, path)
	if isSoft(err) {
		return wire.WriteNull(w)
	} else if err != nil {
		return wire.WriteError(w, err)
	}
	return wire.WriteInt(w, int64(n))
}

func kindSuffix(kind engine.ScalarKind) string {
	switch kind {
	case engine.KindText:
		return "TEXT"
	case engine.KindInt:
		return "INT"
	case engine.KindFloat:
		return "DOUBLE"
	case engine.KindBool:
		return "BOOL"
	default:
		return string(kind)
	}
}

func isSoft(err error) bool {
	return errors.Is(err, doc.ErrNotFound) || errors.Is(err, doc.ErrTypeMismatch)
}

// sideEffects runs the three effects of §6 for a successful mutating
// command: replicate the command verbatim, log a module event, and —
// if the command produced any buffered change — publish each on
// changes:<key>. c may be nil for commands (NEW/LOAD) that cannot
// themselves have buffered a change yet.
func (a *Adapter) sideEffects(ctx context.Context, cmdName, key string, args [][]byte, c *doc.Client) {
	if a.log != nil {
		if _, err := a.log.Append(ctx, "cmd:"+key, encodeCommand(cmdName, args)); err != nil && a.logger != nil {
			a.logger.Warn("replog append failed", zap.String("cmd", cmdName), zap.String("key", key), zap.Error(err))
		}
	}
	if a.logger != nil {
		a.logger.Info("module event", zap.String("event", "module"), zap.String("cmd", strings.ToLower(cmdName)), zap.String("key", key))
	}
	if c == nil {
		return
	}
	for _, change := range c.DrainChanges() {
		if a.log != nil {
			if _, err := a.log.Append(ctx, "changes:"+key, change); err != nil && a.logger != nil {
				a.logger.Warn("replog append failed", zap.String("key", key), zap.Error(err))
			}
		}
		if a.notifier != nil {
			encoded := []byte(base64.StdEncoding.EncodeToString(change))
			if err := a.notifier.Publish(ctx, "changes:"+key, encoded); err != nil && a.logger != nil {
				a.logger.Warn("publish failed", zap.String("key", key), zap.Error(err))
			}
		}
	}
}

// encodeCommand serializes a command's argument vector (not
// including its name) verbatim, for the replicate side effect — the
// exact wire grammar used for replication is an implementation
// choice; this one round-trips through the same length-prefixed
// framing wire.ReadCommand expects, so a downstream replica's replog
// consumer can decode it with the same parser.
func encodeCommand(cmdName string, args [][]byte) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "*%d\r\n$%d\r\n%s\r\n", len(args)+1, len(cmdName), cmdName)
	for _, a := range args {
		fmt.Fprintf(&b, "$%d\r\n%s\r\n", len(a), a)
	}
	return []byte(b.String())
}

func parseInt(raw []byte) (int64, error) {
	n, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", doc.ErrInvalidValue, err)
	}
	return n, nil
}

func parseFloat(raw []byte) (float64, error) {
	f, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", doc.ErrInvalidValue, err)
	}
	return f, nil
}

func parseBool(raw []byte) (bool, error) {
	switch strings.ToLower(string(raw)) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("%w: not a boolean: %q", doc.ErrInvalidValue, raw)
	}
}
