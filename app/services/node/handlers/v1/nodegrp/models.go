package nodegrp

import "github.com/blocknetlabs/blocknet/foundation/blockchain/ledger"

// newTx is what a client submits to record a transaction. Amount is a
// pointer so a missing field and an explicit zero can be told apart,
// only absence is rejected.
type newTx struct {
	Sender    string   `json:"sender" validate:"required"`
	Recipient string   `json:"recipient" validate:"required"`
	Amount    *float64 `json:"amount" validate:"required"`
}

// registerNodes is what a client submits to register peers. An empty
// list is accepted and registers nothing, only a missing key fails.
type registerNodes struct {
	Nodes []string `json:"nodes" validate:"required"`
}

// minedBlock is the response for a successful mine call.
type minedBlock struct {
	Message      string      `json:"message"`
	Index        uint64      `json:"index"`
	Transactions []ledger.Tx `json:"transactions"`
	Proof        uint64      `json:"proof"`
	PreviousHash string      `json:"previous_hash"`
}

// chainInfo is the response carrying the full chain and its length. The
// same shape travels between nodes during consensus resolution.
type chainInfo struct {
	Chain  []ledger.Block `json:"chain"`
	Length int            `json:"length"`
}
