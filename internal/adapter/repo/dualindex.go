package repo

import (
	"errors"
	"sync"
)

var (
	errPrimaryExists   = errors.New("primary key already exists")
	errSecondaryExists = errors.New("secondary key already exists")
)

// dualIndex keeps one value reachable under a primary and a secondary key, with
// insert-or-fail semantics on both. Insertion wins the primary slot first, then
// the secondary; losing the secondary rolls the primary back, so concurrent
// inserters of the same secondary key race safely: exactly one wins, and readers
// never observe a half-inserted row.
type dualIndex[V any] struct {
	primary   sync.Map // primary key -> V
	secondary sync.Map // secondary key -> primary key
}

func (d *dualIndex[V]) insert(primaryKey, secondaryKey string, v V) error {
	if _, loaded := d.primary.LoadOrStore(primaryKey, v); loaded {
		return errPrimaryExists
	}
	if _, loaded := d.secondary.LoadOrStore(secondaryKey, primaryKey); loaded {
		d.primary.Delete(primaryKey)
		return errSecondaryExists
	}
	return nil
}

func (d *dualIndex[V]) byPrimary(key string) (V, bool) {
	var zero V
	v, ok := d.primary.Load(key)
	if !ok {
		return zero, false
	}
	return v.(V), true
}

// A secondary entry is only ever written after its primary entry, so the second
// lookup here cannot miss.
func (d *dualIndex[V]) bySecondary(key string) (V, bool) {
	var zero V
	pk, ok := d.secondary.Load(key)
	if !ok {
		return zero, false
	}
	return d.byPrimary(pk.(string))
}

func (d *dualIndex[V]) size() int {
	n := 0
	d.primary.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
