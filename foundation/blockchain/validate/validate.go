// Package validate audits candidate chains received from other nodes. It
// never mutates local state, which makes it safe to run against chains
// from untrusted peers before any replacement decision is made.
package validate

import (
	"github.com/blocknetlabs/blocknet/foundation/blockchain/ledger"
	"github.com/blocknetlabs/blocknet/foundation/blockchain/pow"
)

// Chain determines if the candidate chain is structurally and
// computationally valid and rooted at the canonical genesis block. Any
// failure short-circuits the walk.
func Chain(chain []ledger.Block) bool {
	if len(chain) == 0 {
		return false
	}

	// A chain built on a different genesis belongs to a different
	// universe and can never be adopted.
	if ledger.Hash(chain[0]) != ledger.Hash(ledger.Genesis()) {
		return false
	}

	for i := 1; i < len(chain); i++ {
		prevBlock := chain[i-1]
		block := chain[i]

		if block.PreviousHash != ledger.Hash(prevBlock) {
			return false
		}

		if !pow.Verify(prevBlock.Proof, block.Proof) {
			return false
		}
	}

	return true
}
