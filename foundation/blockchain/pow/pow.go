// Package pow implements the proof of work puzzle that paces block
// creation across the network.
package pow

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Difficulty is the required prefix a guess digest must match. It is a
// fixed constant rather than adaptive so every node agrees on the same
// puzzle without negotiation.
const Difficulty = "0000"

// Solve iterates candidate proofs starting at zero until one satisfies the
// difficulty target relative to the previous block's proof. The search is
// unbounded, so the context is checked every iteration to allow the
// caller to cancel a run that is taking too long.
func Solve(ctx context.Context, lastProof uint64) (uint64, error) {
	var proof uint64

	for {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}

		if Verify(lastProof, proof) {
			return proof, nil
		}

		proof++
	}
}

// Verify reports whether the digest of the previous proof concatenated
// with the candidate proof matches the difficulty target. It is used both
// while mining and when auditing chains received from untrusted peers.
func Verify(lastProof uint64, proof uint64) bool {
	guess := fmt.Sprintf("%d%d", lastProof, proof)

	hash := sha256.Sum256([]byte(guess))
	digest := hex.EncodeToString(hash[:])

	return digest[:len(Difficulty)] == Difficulty
}
