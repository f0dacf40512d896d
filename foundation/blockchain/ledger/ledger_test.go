package ledger_test

import (
	"encoding/json"
	"testing"

	"github.com/blocknetlabs/blocknet/foundation/blockchain/ledger"
)

func Test_GenesisStability(t *testing.T) {
	g1 := ledger.Genesis()
	g2 := ledger.Genesis()

	h1 := ledger.Hash(g1)
	h2 := ledger.Hash(g2)

	if h1 != h2 {
		t.Logf("got: %s", h2)
		t.Logf("exp: %s", h1)
		t.Fatalf("Should get the same genesis hash on every construction.")
	}

	if g1.Index != 1 || g1.Timestamp != 0 || g1.Proof != 100 || g1.PreviousHash != "1" {
		t.Fatalf("Should get the fixed genesis values, got %+v", g1)
	}

	if len(g1.Transactions) != 0 || g1.Transactions == nil {
		t.Fatalf("Should get an empty, non-nil transaction list in genesis.")
	}
}

func Test_HashDeterminism(t *testing.T) {
	block := ledger.New(2, []ledger.Tx{ledger.NewTx("alice", "bob", 5)}, 35293, ledger.Hash(ledger.Genesis()))

	h1 := ledger.Hash(block)
	h2 := ledger.Hash(block)

	if h1 != h2 {
		t.Logf("got: %s", h2)
		t.Logf("exp: %s", h1)
		t.Fatalf("Should get an identical digest for the same block.")
	}

	if len(h1) != 64 {
		t.Fatalf("Should get a 256 bit hex digest, got len %d", len(h1))
	}
}

func Test_HashRoundTrip(t *testing.T) {

	// A block that travelled through JSON must hash to the same digest
	// the origin node computed.
	block := ledger.New(2, []ledger.Tx{ledger.NewTx("alice", "bob", 1.5)}, 35293, ledger.Hash(ledger.Genesis()))
	exp := ledger.Hash(block)

	data, err := json.Marshal(block)
	if err != nil {
		t.Fatalf("Should be able to marshal the block: %s", err)
	}

	var decoded ledger.Block
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Should be able to unmarshal the block: %s", err)
	}

	got := ledger.Hash(decoded)
	if got != exp {
		t.Logf("got: %s", got)
		t.Logf("exp: %s", exp)
		t.Fatalf("Should get the same digest after a JSON round trip.")
	}
}

func Test_HashContentSensitivity(t *testing.T) {
	base := ledger.New(2, []ledger.Tx{ledger.NewTx("alice", "bob", 5)}, 35293, ledger.Hash(ledger.Genesis()))
	baseHash := ledger.Hash(base)

	tamperedProof := base
	tamperedProof.Proof++
	if ledger.Hash(tamperedProof) == baseHash {
		t.Fatalf("Should get a different digest when the proof changes.")
	}

	tamperedTx := base
	tamperedTx.Transactions = []ledger.Tx{ledger.NewTx("alice", "mallory", 5)}
	if ledger.Hash(tamperedTx) == baseHash {
		t.Fatalf("Should get a different digest when the transactions change.")
	}

	tamperedPrev := base
	tamperedPrev.PreviousHash = "bogus"
	if ledger.Hash(tamperedPrev) == baseHash {
		t.Fatalf("Should get a different digest when the previous hash changes.")
	}
}

func Test_NewBlockEmptyTransactions(t *testing.T) {
	block := ledger.New(2, nil, 35293, "prev")

	if block.Transactions == nil {
		t.Fatalf("Should never carry a nil transaction list.")
	}
	if len(block.Transactions) != 0 {
		t.Fatalf("Should carry an empty transaction list, got %d", len(block.Transactions))
	}
}
