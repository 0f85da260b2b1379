package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/gpestana/rdoc"
)

// rdocEngine is the Engine implementation backed by gpestana/rdoc, a
// replicated-document CRDT addressed with JSON Patch operations. This
// is the only file in the repository that imports rdoc directly —
// everywhere else talks to the Engine/Doc interfaces instead, per the
// "external collaborator" boundary described by the document model.
type rdocEngine struct{}

// NewRDocEngine returns the reference Engine implementation.
func NewRDocEngine() Engine {
	return rdocEngine{}
}

func (rdocEngine) New(actor string) Doc {
	return &rdocDoc{inner: rdoc.Init(actor)}
}

func (e rdocEngine) Load(ctx context.Context, actor string, log []byte) (Doc, error) {
	d := e.New(actor)
	if len(log) == 0 {
		return d, nil
	}
	if err := d.Apply(ctx, log); err != nil {
		return nil, fmt.Errorf("engine: replay operation log: %w", err)
	}
	return d, nil
}

type rdocDoc struct {
	inner *rdoc.Doc
}

func (d *rdocDoc) Apply(_ context.Context, patch []byte) error {
	if err := d.inner.Apply(patch); err != nil {
		return fmt.Errorf("engine: apply patch: %w", err)
	}
	return nil
}

func (d *rdocDoc) View(_ context.Context) (any, error) {
	data, err := d.inner.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("engine: marshal document: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("engine: decode document view: %w", err)
	}
	return v, nil
}

func (d *rdocDoc) Operations(_ context.Context) ([]byte, error) {
	ops, err := d.inner.Operations()
	if err != nil {
		return nil, fmt.Errorf("engine: read operations: %w", err)
	}
	return ops, nil
}
