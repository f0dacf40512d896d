package pow_test

import (
	"context"
	"testing"

	"github.com/blocknetlabs/blocknet/foundation/blockchain/pow"
)

func Test_SolveAndVerify(t *testing.T) {
	lastProofs := []uint64{100, 0, 12345}

	for _, lastProof := range lastProofs {
		proof, err := pow.Solve(context.Background(), lastProof)
		if err != nil {
			t.Fatalf("Should be able to solve for last proof %d: %s", lastProof, err)
		}

		if !pow.Verify(lastProof, proof) {
			t.Logf("lastProof: %d", lastProof)
			t.Logf("proof:     %d", proof)
			t.Fatalf("Should verify every proof returned by solve.")
		}
	}
}

func Test_VerifyRejects(t *testing.T) {
	proof, err := pow.Solve(context.Background(), 100)
	if err != nil {
		t.Fatalf("Should be able to solve: %s", err)
	}

	// A valid proof against the wrong previous proof must not verify.
	if pow.Verify(101, proof) {
		t.Fatalf("Should reject a proof solved against a different previous proof.")
	}
}

func Test_SolveCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := pow.Solve(ctx, 100); err == nil {
		t.Fatalf("Should return an error when the context is already cancelled.")
	}
}
