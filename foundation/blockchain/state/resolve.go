package state

import (
	"github.com/blocknetlabs/blocknet/foundation/blockchain/ledger"
	"github.com/blocknetlabs/blocknet/foundation/blockchain/validate"
)

// Resolve is the consensus algorithm. It asks every known peer for its
// chain and replaces the local chain when a strictly longer valid one is
// found. Peers that can't be reached are skipped, they never abort
// resolution for the others. It reports whether the local chain
// was replaced.
func (s *State) Resolve() bool {
	s.evHandler("state: Resolve: started")
	defer s.evHandler("state: Resolve: completed")

	bestLength := s.ChainLength()
	var bestChain []ledger.Block

	for _, pr := range s.RetrieveKnownPeers() {
		length, chain, err := s.NetRequestPeerChain(pr)
		if err != nil {
			s.evHandler("state: Resolve: peer[%s]: skipped: %s", pr.HTTPAddr(), err)
			continue
		}

		s.evHandler("state: Resolve: peer[%s]: length[%d] local[%d]", pr.HTTPAddr(), length, bestLength)

		if uint64(length) > bestLength && validate.Chain(chain) {
			bestLength = uint64(length)
			bestChain = chain
		}
	}

	if bestChain == nil {
		s.evHandler("state: Resolve: local chain is authoritative")
		return false
	}

	return s.ReplaceChain(bestChain)
}

// ReplaceChain atomically swaps the local chain for the candidate when
// the candidate is valid and strictly longer. Both the pull based Resolve
// path and the push based transport path funnel through this one guarded
// operation. Equal length candidates never win, so a node can't flap
// between two competing chains.
func (s *State) ReplaceChain(candidate []ledger.Block) bool {
	if !validate.Chain(candidate) {
		s.evHandler("state: ReplaceChain: candidate rejected: invalid chain")
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if uint64(len(candidate)) <= uint64(len(s.chain)) {
		s.evHandler("state: ReplaceChain: candidate rejected: not longer: candidate[%d] local[%d]", len(candidate), len(s.chain))
		return false
	}

	s.chain = candidate
	s.evHandler("state: ReplaceChain: chain replaced: length[%d]", len(s.chain))

	return true
}
