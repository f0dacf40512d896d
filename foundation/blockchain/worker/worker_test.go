package worker_test

import (
	"testing"
	"time"

	"github.com/blocknetlabs/blocknet/foundation/blockchain/ledger"
	"github.com/blocknetlabs/blocknet/foundation/blockchain/state"
	"github.com/blocknetlabs/blocknet/foundation/blockchain/worker"
)

func newTestState(t *testing.T) *state.State {
	t.Helper()

	st, err := state.New(state.Config{
		NodeID:        "testnode",
		Host:          "127.0.0.1:5000",
		P2PPortOffset: 1000,
	})
	if err != nil {
		t.Fatalf("Should be able to construct the state: %s", err)
	}

	return st
}

func Test_RunAndShutdown(t *testing.T) {
	st := newTestState(t)

	worker.Run(st, func(v string, args ...any) {})

	if st.Worker == nil {
		t.Fatalf("Should register the worker with the state.")
	}

	// Shutdown must drain the goroutines and return.
	done := make(chan struct{})
	go func() {
		st.Worker.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatalf("Should shut down all goroutines before the deadline.")
	}
}

func Test_ShareSignals(t *testing.T) {
	st := newTestState(t)

	trans := &stubTransport{
		txs:    make(chan ledger.Tx, 1),
		blocks: make(chan ledger.Block, 1),
	}
	st.Transport = trans

	worker.Run(st, func(v string, args ...any) {})
	defer st.Worker.Shutdown()

	tx := ledger.NewTx("alice", "bob", 5)
	st.Worker.SignalShareTx(tx)

	select {
	case got := <-trans.txs:
		if got != tx {
			t.Fatalf("Should broadcast the signaled transaction, got %+v", got)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("Should broadcast a signaled transaction before the deadline.")
	}

	block := ledger.Genesis()
	st.Worker.SignalShareBlock(block)

	select {
	case got := <-trans.blocks:
		if got.Index != block.Index {
			t.Fatalf("Should broadcast the signaled block, got %+v", got)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("Should broadcast a signaled block before the deadline.")
	}
}

func Test_ResolveSignalCoalesces(t *testing.T) {
	st := newTestState(t)

	worker.Run(st, func(v string, args ...any) {})
	defer st.Worker.Shutdown()

	// With no known peers a resolve pass is a no-op. Signaling it
	// repeatedly must never block the caller.
	for i := 0; i < 10; i++ {
		st.Worker.SignalResolve()
	}

	time.Sleep(100 * time.Millisecond)
	if got := st.ChainLength(); got != 1 {
		t.Fatalf("Should leave the chain untouched, got length %d", got)
	}
}

// =============================================================================

type stubTransport struct {
	txs    chan ledger.Tx
	blocks chan ledger.Block
}

func (t *stubTransport) Stop()                          {}
func (t *stubTransport) BroadcastTx(tx ledger.Tx)       { t.txs <- tx }
func (t *stubTransport) BroadcastBlock(bl ledger.Block) { t.blocks <- bl }
func (t *stubTransport) RequestChains()                 {}
