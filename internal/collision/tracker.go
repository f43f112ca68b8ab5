// Package collision detects xxHash64 collisions between unit expressions that
// share a hash-keyed cache.
package collision

import (
	"github.com/arloliu/qty/errs"
)

// Tracker maps hashes to the expression that first claimed them.
// It is not safe for concurrent use; callers hold their own lock.
type Tracker struct {
	owners       map[uint64]string // hash -> expression
	order        []string          // expressions in the order they were tracked
	hasCollision bool
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		owners: make(map[uint64]string),
		order:  make([]string, 0),
	}
}

// Track records expr under hash.
//
// Tracking the same expression twice is a no-op. Tracking a different expression
// under an already claimed hash sets the collision flag and returns
// errs.ErrHashCollision; the original owner keeps the hash.
func (t *Tracker) Track(expr string, hash uint64) error {
	if owner, exists := t.owners[hash]; exists {
		if owner == expr {
			return nil
		}
		t.hasCollision = true

		return errs.ErrHashCollision
	}

	t.owners[hash] = expr
	t.order = append(t.order, expr)

	return nil
}

// Owner returns the expression that claimed hash.
func (t *Tracker) Owner(hash uint64) (string, bool) {
	expr, ok := t.owners[hash]
	return expr, ok
}

// HasCollision reports whether any collision was seen since the last Reset.
func (t *Tracker) HasCollision() bool {
	return t.hasCollision
}

// Expressions returns the tracked expressions in insertion order.
func (t *Tracker) Expressions() []string {
	return t.order
}

// Count returns the number of tracked expressions.
func (t *Tracker) Count() int {
	return len(t.order)
}

// Reset clears all tracked expressions and the collision flag, keeping capacity.
func (t *Tracker) Reset() {
	for k := range t.owners {
		delete(t.owners, k)
	}
	t.order = t.order[:0]
	t.hasCollision = false
}
