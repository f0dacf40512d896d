// Package peer maintains the set of known peer nodes and the address
// normalization rules nodes use when registering each other.
package peer

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
)

// Peer represents the control-surface endpoint of another node in
// the network.
type Peer struct {
	Host string
	Port int
}

// New parses and normalizes an address into a Peer. Both bare host:port
// forms and scheme-qualified URLs are accepted so peers that register
// with either form compare as equal.
func New(address string) (Peer, error) {
	if !strings.HasPrefix(address, "http://") && !strings.HasPrefix(address, "https://") {
		address = "http://" + address
	}

	u, err := url.Parse(address)
	if err != nil {
		return Peer{}, fmt.Errorf("invalid address %q: %w", address, err)
	}

	host := u.Hostname()
	portStr := u.Port()
	if host == "" || portStr == "" {
		return Peer{}, fmt.Errorf("invalid address %q: could not extract host and port", address)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return Peer{}, fmt.Errorf("invalid address %q: bad port: %w", address, err)
	}

	return Peer{Host: host, Port: port}, nil
}

// HTTPAddr returns the host:port form of the peer's control-surface
// endpoint.
func (p Peer) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", p.Host, p.Port)
}

// P2PAddr returns the peer's transport endpoint, derived by the fixed
// port offset convention.
func (p Peer) P2PAddr(offset int) string {
	return fmt.Sprintf("%s:%d", p.Host, p.Port+offset)
}

// Match validates if the specified address matches this peer.
func (p Peer) Match(addr string) bool {
	return p.HTTPAddr() == addr
}

// =============================================================================

// PeerSet represents the data representation to maintain a set of
// known peers.
type PeerSet struct {
	mu  sync.RWMutex
	set map[Peer]struct{}
}

// NewPeerSet constructs a new set to manage node peer information.
func NewPeerSet() *PeerSet {
	return &PeerSet{
		set: make(map[Peer]struct{}),
	}
}

// Add adds a new peer to the set. Adding a peer that already exists is a
// no-op and reports false.
func (ps *PeerSet) Add(peer Peer) bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	_, exists := ps.set[peer]
	if !exists {
		ps.set[peer] = struct{}{}
		return true
	}

	return false
}

// Remove removes a peer from the set.
func (ps *PeerSet) Remove(peer Peer) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	delete(ps.set, peer)
}

// Copy returns a list of the known peers, excluding the specified
// address. Pass an empty string to get every peer.
func (ps *PeerSet) Copy(addr string) []Peer {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	var peers []Peer
	for peer := range ps.set {
		if !peer.Match(addr) {
			peers = append(peers, peer)
		}
	}

	return peers
}
