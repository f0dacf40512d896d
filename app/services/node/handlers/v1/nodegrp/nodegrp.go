// Package nodegrp maintains the group of handlers for node access.
package nodegrp

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/blocknetlabs/blocknet/business/sys/validate"
	"github.com/blocknetlabs/blocknet/business/web/errs"
	"github.com/blocknetlabs/blocknet/foundation/blockchain/ledger"
	"github.com/blocknetlabs/blocknet/foundation/blockchain/peer"
	"github.com/blocknetlabs/blocknet/foundation/blockchain/state"
	"github.com/blocknetlabs/blocknet/foundation/events"
	"github.com/blocknetlabs/blocknet/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Mine solves the proof of work puzzle, records the mining reward, and
// forges the next block from the pending transactions. The request
// context is threaded into the search so a dropped connection cancels
// the run.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	block, err := h.State.MineBlock(r.Context())
	if err != nil {
		return fmt.Errorf("mining cancelled: %w", err)
	}

	h.Log.Infow("block forged", "traceid", v.TraceID, "index", block.Index, "txs", len(block.Transactions))

	resp := minedBlock{
		Message:      "New Block Forged",
		Index:        block.Index,
		Transactions: block.Transactions,
		Proof:        block.Proof,
		PreviousHash: block.PreviousHash,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SubmitTransaction adds a new transaction to the pending buffer and
// shares it with the network.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var tx newTx
	if err := web.Decode(r, &tx); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := validate.Check(tx); err != nil {
		return err
	}

	index := h.State.SubmitTransaction(ledger.NewTx(tx.Sender, tx.Recipient, *tx.Amount))

	h.Log.Infow("add tran", "traceid", v.TraceID, "from", tx.Sender, "to", tx.Recipient, "amount", *tx.Amount, "block", index)

	resp := struct {
		Message string `json:"message"`
	}{
		Message: fmt.Sprintf("Transaction will be added to Block %d", index),
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// Chain returns the full chain and its length. Peers call this endpoint
// during consensus resolution.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	chain := h.State.RetrieveChain()

	resp := chainInfo{
		Chain:  chain,
		Length: len(chain),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// RegisterNodes adds the specified addresses to the known peer set.
func (h Handlers) RegisterNodes(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var nodes registerNodes
	if err := web.Decode(r, &nodes); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := validate.Check(nodes); err != nil {
		return err
	}

	for _, address := range nodes.Nodes {
		pr, err := peer.New(address)
		if err != nil {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
		h.State.AddKnownPeer(pr)
	}

	total := h.State.RetrieveKnownPeers()
	addrs := make([]string, len(total))
	for i, pr := range total {
		addrs[i] = pr.HTTPAddr()
	}

	resp := struct {
		Message    string   `json:"message"`
		TotalNodes []string `json:"total_nodes"`
	}{
		Message:    "New nodes have been added",
		TotalNodes: addrs,
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// Resolve runs the consensus algorithm against the known peers and
// reports whether the local chain was replaced.
func (h Handlers) Resolve(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	replaced := h.State.Resolve()

	message := "Our chain is authoritative"
	if replaced {
		message = "Our chain was replaced"
	}

	resp := struct {
		Message  string         `json:"message"`
		Replaced bool           `json:"replaced"`
		Chain    []ledger.Block `json:"chain"`
	}{
		Message:  message,
		Replaced: replaced,
		Chain:    h.State.RetrieveChain(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	h.Log.Infow("events", "traceid", v.TraceID, "status", "websocket open")

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}
