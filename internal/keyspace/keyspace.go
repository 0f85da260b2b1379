// Package keyspace is the registry mapping a server key to the
// doc.Client instance that owns it, one per key, following the
// in-memory repository shape of internal/repository/memory in this
// same tree (one mutex-guarded map, create/get/delete).
package keyspace

import (
	"fmt"
	"sync"

	"github.com/michelp/redis-automerge/internal/doc"
)

// Keyspace owns every live doc.Client in the process, keyed by
// the server key that addresses it.
type Keyspace struct {
	mu      sync.RWMutex
	clients map[string]*doc.Client
}

// New returns an empty keyspace.
func New() *Keyspace {
	return &Keyspace{clients: make(map[string]*doc.Client)}
}

// ErrExists is returned by Put when key is already registered.
var ErrExists = fmt.Errorf("keyspace: key already exists")

// ErrNoKey is returned by Get and Delete when key is not registered.
var ErrNoKey = fmt.Errorf("keyspace: no such key")

// Put registers client under key. It fails if key is already taken.
func (k *Keyspace) Put(key string, client *doc.Client) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if _, exists := k.clients[key]; exists {
		return ErrExists
	}
	k.clients[key] = client
	return nil
}

// Get returns the client registered under key.
func (k *Keyspace) Get(key string) (*doc.Client, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	c, exists := k.clients[key]
	if !exists {
		return nil, ErrNoKey
	}
	return c, nil
}

// Delete removes key's client from the keyspace.
func (k *Keyspace) Delete(key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if _, exists := k.clients[key]; !exists {
		return ErrNoKey
	}
	delete(k.clients, key)
	return nil
}

// Keys returns every registered key, in no particular order.
func (k *Keyspace) Keys() []string {
	k.mu.RLock()
	defer k.mu.RUnlock()
	out := make([]string, 0, len(k.clients))
	for key := range k.clients {
		out = append(out, key)
	}
	return out
}
