// Package mempool maintains the pending transaction buffer for the node.
// Order of arrival is preserved since a mined block takes ownership of
// the buffered transactions in the order they were recorded.
package mempool

import (
	"sync"

	"github.com/blocknetlabs/blocknet/foundation/blockchain/ledger"
)

// Mempool represents the buffer of transactions waiting to be included
// in the next mined block.
type Mempool struct {
	mu   sync.Mutex
	pool []ledger.Tx
}

// New constructs a new mempool.
func New() *Mempool {
	return &Mempool{}
}

// Count returns the current number of transactions in the pool.
func (mp *Mempool) Count() int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	return len(mp.pool)
}

// Append adds a transaction to the end of the pool.
func (mp *Mempool) Append(tx ledger.Tx) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = append(mp.pool, tx)
}

// Copy returns a copy of the current pool contents.
func (mp *Mempool) Copy() []ledger.Tx {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	pool := make([]ledger.Tx, len(mp.pool))
	copy(pool, mp.pool)

	return pool
}

// Drain removes and returns every transaction in the pool as one atomic
// unit. The slice handed back is no longer shared with the pool, so the
// caller takes sole ownership of the transactions.
func (mp *Mempool) Drain() []ledger.Tx {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	pool := mp.pool
	if pool == nil {
		pool = []ledger.Tx{}
	}
	mp.pool = nil

	return pool
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = nil
}
