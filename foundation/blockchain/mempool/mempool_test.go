package mempool_test

import (
	"testing"

	"github.com/blocknetlabs/blocknet/foundation/blockchain/ledger"
	"github.com/blocknetlabs/blocknet/foundation/blockchain/mempool"
)

func Test_CRUD(t *testing.T) {
	mp := mempool.New()

	txs := []ledger.Tx{
		ledger.NewTx("alice", "bob", 5),
		ledger.NewTx("bob", "carol", 2),
		ledger.NewTx("carol", "alice", 7),
	}

	for _, tx := range txs {
		mp.Append(tx)
	}

	if got := mp.Count(); got != len(txs) {
		t.Logf("got: %d", got)
		t.Logf("exp: %d", len(txs))
		t.Fatalf("Should get back the number of appended transactions.")
	}

	cpy := mp.Copy()
	for i, tx := range cpy {
		if tx != txs[i] {
			t.Logf("got: %+v", tx)
			t.Logf("exp: %+v", txs[i])
			t.Fatalf("Should preserve arrival order at index %d.", i)
		}
	}

	// Mutating the copy must not touch the pool.
	cpy[0].Amount = 1000
	if mp.Copy()[0].Amount != 5 {
		t.Fatalf("Should hand out an independent copy of the pool.")
	}

	mp.Truncate()
	if got := mp.Count(); got != 0 {
		t.Fatalf("Should get an empty pool after truncate, got %d", got)
	}
}

func Test_Drain(t *testing.T) {
	mp := mempool.New()
	mp.Append(ledger.NewTx("alice", "bob", 5))
	mp.Append(ledger.NewTx("bob", "carol", 2))

	drained := mp.Drain()

	if len(drained) != 2 {
		t.Fatalf("Should drain every buffered transaction, got %d", len(drained))
	}
	if got := mp.Count(); got != 0 {
		t.Fatalf("Should leave the pool empty after drain, got %d", got)
	}

	// A drain of an empty pool still yields a usable slice.
	if drained = mp.Drain(); drained == nil || len(drained) != 0 {
		t.Fatalf("Should get an empty, non-nil slice from an empty drain.")
	}
}
