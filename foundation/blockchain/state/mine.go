package state

import (
	"context"

	"github.com/blocknetlabs/blocknet/foundation/blockchain/ledger"
	"github.com/blocknetlabs/blocknet/foundation/blockchain/pow"
)

// MineBlock solves the proof of work puzzle against the current last
// block, credits this node with the mining reward, and appends a new
// block carrying the entire pending buffer. The buffer drain and the
// chain append happen under one lock so no transaction is lost or
// duplicated across a concurrent submit.
//
// The proof is only good against the block it was solved for. If the
// chain advanced while solving, from a concurrent mine or a consensus
// replacement, the stale proof is discarded and the solve starts over
// against the new tail.
//
// Solving can run indefinitely, so the context is threaded into the
// search to let the caller cancel it.
func (s *State) MineBlock(ctx context.Context) (ledger.Block, error) {
	s.evHandler("state: MineBlock: MINING: started")
	defer s.evHandler("state: MineBlock: MINING: completed")

	for {
		lastBlock := s.LatestBlock()

		proof, err := pow.Solve(ctx, lastBlock.Proof)
		if err != nil {
			return ledger.Block{}, err
		}

		s.evHandler("state: MineBlock: MINING: solved: proof[%d]", proof)

		// The new block links to the block the proof was solved against.
		previousHash := ledger.Hash(lastBlock)

		s.mu.Lock()

		// The tail must still be the block the proof was solved against
		// or the proof and the link are both stale.
		if ledger.Hash(s.chain[len(s.chain)-1]) != previousHash {
			s.mu.Unlock()
			s.evHandler("state: MineBlock: MINING: chain advanced, solving again")
			continue
		}

		// The reward for finding the proof. The reserved sender marks the
		// amount as network minted.
		trans := append(s.mempool.Drain(), ledger.NewTx(ledger.RewardSender, s.nodeID, 1))

		block := ledger.New(uint64(len(s.chain))+1, trans, proof, previousHash)
		s.chain = append(s.chain, block)
		s.mu.Unlock()

		s.evHandler("state: MineBlock: MINING: forged block[%d] txs[%d]", block.Index, len(block.Transactions))

		if s.Worker != nil {
			s.Worker.SignalShareBlock(block)
		}

		return block, nil
	}
}
