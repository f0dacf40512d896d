// Package state is the core API for the node and implements all the
// business rules and processing around the chain, the pending transaction
// buffer, and the known peer set.
package state

import (
	"errors"
	"sync"

	"github.com/blocknetlabs/blocknet/foundation/blockchain/ledger"
	"github.com/blocknetlabs/blocknet/foundation/blockchain/mempool"
	"github.com/blocknetlabs/blocknet/foundation/blockchain/peer"
)

// EventHandler defines a function that is called when events occur in the
// processing of the chain.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by
// any package providing support for background consensus resolution and
// sharing blocks and transactions with the network.
type Worker interface {
	Shutdown()
	SignalResolve()
	SignalShareTx(tx ledger.Tx)
	SignalShareBlock(block ledger.Block)
}

// Transport interface represents the behavior required to be implemented
// by any package providing the point to point message channel between
// nodes.
type Transport interface {
	Stop()
	BroadcastBlock(block ledger.Block)
	BroadcastTx(tx ledger.Tx)
	RequestChains()
}

// =============================================================================

// Config represents the configuration required to start the node.
type Config struct {
	NodeID        string
	Host          string
	P2PPortOffset int
	KnownPeers    *peer.PeerSet
	EvHandler     EventHandler
}

// State manages the chain, the pending transaction buffer, and the known
// peer set. All chain mutations happen behind a single mutex so an append
// from mining and a wholesale replace from consensus can never interleave.
type State struct {
	mu sync.Mutex

	nodeID    string
	host      string
	p2pOffset int
	evHandler EventHandler

	chain      []ledger.Block
	mempool    *mempool.Mempool
	knownPeers *peer.PeerSet

	// Worker and Transport are not set here. The calls to worker.Run and
	// p2p.Run will assign themselves and start everything up and running
	// for the node.
	Worker    Worker
	Transport Transport
}

// New constructs a new state for chain management with the deterministic
// genesis block already in place.
func New(cfg Config) (*State, error) {
	if cfg.NodeID == "" {
		return nil, errors.New("node id required")
	}
	if cfg.Host == "" {
		return nil, errors.New("host required")
	}

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	knownPeers := cfg.KnownPeers
	if knownPeers == nil {
		knownPeers = peer.NewPeerSet()
	}

	state := State{
		nodeID:    cfg.NodeID,
		host:      cfg.Host,
		p2pOffset: cfg.P2PPortOffset,
		evHandler: ev,

		chain:      []ledger.Block{ledger.Genesis()},
		mempool:    mempool.New(),
		knownPeers: knownPeers,
	}

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	if s.Transport != nil {
		s.Transport.Stop()
	}
}
