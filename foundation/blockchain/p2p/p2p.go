// Package p2p implements the point to point transport between nodes: a
// listener that dispatches one message per inbound connection and an
// outbound sender that delivers one message over a short lived connection.
package p2p

import (
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/blocknetlabs/blocknet/foundation/blockchain/ledger"
	"github.com/blocknetlabs/blocknet/foundation/blockchain/state"
)

// Deadlines bound every connect, read, and write so a slow or hostile
// peer can't accumulate blocked goroutines.
const (
	dialTimeout  = 5 * time.Second
	readTimeout  = 10 * time.Second
	writeTimeout = 5 * time.Second
)

// Transport provides the duplex message channel for a node. It registers
// itself with the state package as the outbound send path.
type Transport struct {
	st       *state.State
	host     string
	port     int
	listener net.Listener
	shut     chan struct{}
	wg       sync.WaitGroup
	ev       state.EventHandler
}

// Run starts the transport listening on the specified address and
// registers it with the state package.
func Run(st *state.State, listenAddr string, ev state.EventHandler) (*Transport, error) {
	host, portStr, err := net.SplitHostPort(listenAddr)
	if err != nil {
		return nil, fmt.Errorf("parsing listen address: %w", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("parsing listen port: %w", err)
	}

	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return nil, fmt.Errorf("p2p listen: %w", err)
	}

	t := Transport{
		st:       st,
		host:     host,
		port:     port,
		listener: listener,
		shut:     make(chan struct{}),
		ev:       ev,
	}

	// Register this transport with the state package.
	st.Transport = &t

	t.wg.Add(1)
	go t.accept()

	t.ev("p2p: Run: listening on %s", listenAddr)

	return &t, nil
}

// Addr returns the address the transport is listening on.
func (t *Transport) Addr() string {
	return t.listener.Addr().String()
}

// Stop closes the listening socket, which unblocks the accept loop, and
// waits for in-flight connection handlers to finish.
func (t *Transport) Stop() {
	t.ev("p2p: Stop: started")
	defer t.ev("p2p: Stop: completed")

	close(t.shut)
	t.listener.Close()
	t.wg.Wait()
}

// =============================================================================

// accept owns the listener. Each inbound connection is handed to its own
// goroutine to keep the listener responsive.
func (t *Transport) accept() {
	defer t.wg.Done()

	for {
		conn, err := t.listener.Accept()
		if err != nil {
			select {
			case <-t.shut:
			default:
				t.ev("p2p: accept: ERROR: %s", err)
			}
			return
		}

		t.wg.Add(1)
		go t.handle(conn)
	}
}

// handle reads exactly one message from the connection and dispatches it.
func (t *Transport) handle(conn net.Conn) {
	defer t.wg.Done()
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(readTimeout))

	// A single decoder read instead of a fixed size buffer, so a chain
	// payload larger than one segment isn't truncated.
	var msg Message
	if err := json.NewDecoder(conn).Decode(&msg); err != nil {
		t.ev("p2p: handle: %s: malformed message: %s", conn.RemoteAddr(), err)
		return
	}

	t.dispatch(msg)
}

// dispatch routes a decoded message by its type.
func (t *Transport) dispatch(msg Message) {
	switch msg.Type {

	case TypeNewBlock:
		var block ledger.Block
		if err := json.Unmarshal(msg.Payload, &block); err != nil {
			t.ev("p2p: dispatch: NEW_BLOCK: bad payload: %s", err)
			return
		}
		t.ev("p2p: dispatch: NEW_BLOCK: block[%d]", block.Index)

		// A received block is only accepted as part of a longer valid
		// chain, so trigger a full resolve pass instead of appending.
		if w := t.st.Worker; w != nil {
			w.SignalResolve()
		}

	case TypeNewTransaction:
		var tx ledger.Tx
		if err := json.Unmarshal(msg.Payload, &tx); err != nil {
			t.ev("p2p: dispatch: NEW_TRANSACTION: bad payload: %s", err)
			return
		}
		t.ev("p2p: dispatch: NEW_TRANSACTION: from[%s] to[%s]", tx.Sender, tx.Recipient)

		t.st.AcceptPeerTx(tx)

		// Single hop flood: pass the transaction along to everyone but
		// this node's own endpoint.
		t.Broadcast(msg, t.port)

	case TypeRequestChain:
		if msg.SenderHost == "" || msg.SenderPort == 0 {
			t.ev("p2p: dispatch: REQUEST_CHAIN: no return endpoint")
			return
		}

		chain := t.st.RetrieveChain()
		reply, err := NewMessage(TypeRespondChain, ChainPayload{Chain: chain, Length: len(chain)})
		if err != nil {
			t.ev("p2p: dispatch: REQUEST_CHAIN: ERROR: %s", err)
			return
		}

		addr := net.JoinHostPort(msg.SenderHost, strconv.Itoa(msg.SenderPort))
		if err := t.send(addr, reply); err != nil {
			t.ev("p2p: dispatch: REQUEST_CHAIN: reply to %s: %s", addr, err)
		}

	case TypeRespondChain:
		var payload ChainPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			t.ev("p2p: dispatch: RESPOND_CHAIN: bad payload: %s", err)
			return
		}

		// Push based adoption path: same guarded replace the resolver
		// uses, so the longer-and-valid rule still applies.
		if t.st.ReplaceChain(payload.Chain) {
			t.ev("p2p: dispatch: RESPOND_CHAIN: chain replaced: length[%d]", payload.Length)
		}

	default:
		t.ev("p2p: dispatch: unknown message type %q: ignored", msg.Type)
	}
}

// =============================================================================

// send opens a short lived connection to the specified transport address,
// delivers exactly one message, and closes.
func (t *Transport) send(addr string, msg Message) error {
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return err
	}
	defer conn.Close()

	conn.SetWriteDeadline(time.Now().Add(writeTimeout))

	return json.NewEncoder(conn).Encode(msg)
}

// Broadcast sends the message to every known peer's derived transport
// endpoint except the excluded port. Per peer failures are skipped so one
// unreachable peer never blocks delivery to the others.
func (t *Transport) Broadcast(msg Message, excludePort int) {
	offset := t.st.P2PPortOffset()

	for _, pr := range t.st.RetrieveKnownPeers() {
		if pr.Port+offset == excludePort {
			continue
		}

		addr := pr.P2PAddr(offset)
		if err := t.send(addr, msg); err != nil {
			t.ev("p2p: Broadcast: %s: skipped: %s", addr, err)
			continue
		}

		t.ev("p2p: Broadcast: sent %s to %s", msg.Type, addr)
	}
}

// BroadcastBlock shares a locally mined block with the network.
func (t *Transport) BroadcastBlock(block ledger.Block) {
	msg, err := NewMessage(TypeNewBlock, block)
	if err != nil {
		t.ev("p2p: BroadcastBlock: ERROR: %s", err)
		return
	}

	t.Broadcast(msg, t.port)
}

// BroadcastTx shares a locally recorded transaction with the network.
func (t *Transport) BroadcastTx(tx ledger.Tx) {
	msg, err := NewMessage(TypeNewTransaction, tx)
	if err != nil {
		t.ev("p2p: BroadcastTx: ERROR: %s", err)
		return
	}

	t.Broadcast(msg, t.port)
}

// RequestChains asks every known peer to push its chain back to this
// node's transport endpoint.
func (t *Transport) RequestChains() {
	msg := Message{
		Type:       TypeRequestChain,
		SenderHost: t.host,
		SenderPort: t.port,
	}

	t.Broadcast(msg, t.port)
}
