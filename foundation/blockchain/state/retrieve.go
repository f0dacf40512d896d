package state

import (
	"github.com/blocknetlabs/blocknet/foundation/blockchain/ledger"
	"github.com/blocknetlabs/blocknet/foundation/blockchain/peer"
)

// RetrieveNodeID returns the unique identifier of this node.
func (s *State) RetrieveNodeID() string {
	return s.nodeID
}

// RetrieveHost returns a copy of host information.
func (s *State) RetrieveHost() string {
	return s.host
}

// P2PPortOffset returns the fixed offset used to derive a peer's
// transport port from its control-surface port.
func (s *State) P2PPortOffset() int {
	return s.p2pOffset
}

// RetrieveChain returns a copy of the current chain.
func (s *State) RetrieveChain() []ledger.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	chain := make([]ledger.Block, len(s.chain))
	copy(chain, s.chain)

	return chain
}

// ChainLength returns the current number of blocks in the chain.
func (s *State) ChainLength() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return uint64(len(s.chain))
}

// LatestBlock returns a copy of the most recently appended block.
func (s *State) LatestBlock() ledger.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.chain[len(s.chain)-1]
}

// RetrieveMempool returns a copy of the pending transaction buffer.
func (s *State) RetrieveMempool() []ledger.Tx {
	return s.mempool.Copy()
}

// RetrieveKnownPeers retrieves a copy of the known peer list, excluding
// this node.
func (s *State) RetrieveKnownPeers() []peer.Peer {
	return s.knownPeers.Copy(s.host)
}

// AddKnownPeer adds a peer to the known peer set. Adding a peer that
// already exists is a no-op and reports false.
func (s *State) AddKnownPeer(pr peer.Peer) bool {
	added := s.knownPeers.Add(pr)
	if added {
		s.evHandler("state: AddKnownPeer: added peer[%s]", pr.HTTPAddr())
	}

	return added
}
