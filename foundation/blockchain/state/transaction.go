package state

import (
	"github.com/blocknetlabs/blocknet/foundation/blockchain/ledger"
)

// SubmitTransaction accepts a transaction from a client for inclusion in
// the next mined block. It returns the index of the block the transaction
// will land in and signals the worker to share the transaction with the
// network.
func (s *State) SubmitTransaction(tx ledger.Tx) uint64 {
	s.evHandler("state: SubmitTransaction: from[%s] to[%s] amount[%v]", tx.Sender, tx.Recipient, tx.Amount)

	s.mempool.Append(tx)
	index := s.ChainLength() + 1

	if s.Worker != nil {
		s.Worker.SignalShareTx(tx)
	}

	return index
}

// AcceptPeerTx accepts a transaction relayed by another node. The
// transport layer handles re-broadcasting, so no share signal is raised.
func (s *State) AcceptPeerTx(tx ledger.Tx) uint64 {
	s.evHandler("state: AcceptPeerTx: from[%s] to[%s] amount[%v]", tx.Sender, tx.Recipient, tx.Amount)

	s.mempool.Append(tx)
	return s.ChainLength() + 1
}
