// Package ledger implements the block and transaction data model along with
// the canonical hashing every node must agree on.
package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Values fixed for the genesis block. Every node derives an identical
// genesis hash from these, which anchors all chains to one root.
const (
	genesisIndex    = 1
	genesisTime     = 0
	genesisProof    = 100
	genesisPrevHash = "1"
)

// RewardSender is the reserved sender identifier for network-minted
// mining rewards.
const RewardSender = "0"

// =============================================================================

// Tx represents a transfer between two parties. The ledger treats the
// fields as opaque, there is no balance accounting.
type Tx struct {
	Sender    string  `json:"sender"`
	Recipient string  `json:"recipient"`
	Amount    float64 `json:"amount"`
}

// NewTx constructs a new transaction.
func NewTx(sender string, recipient string, amount float64) Tx {
	return Tx{
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
	}
}

// =============================================================================

// Block represents a group of transactions batched together. Once appended
// to a chain a block is never mutated.
type Block struct {
	Index        uint64 `json:"index"`
	Timestamp    int64  `json:"timestamp"`
	Transactions []Tx   `json:"transactions"`
	Proof        uint64 `json:"proof"`
	PreviousHash string `json:"previous_hash"`
}

// New constructs the next block in a chain. The transactions passed in
// become the permanent contents of the block.
func New(index uint64, trans []Tx, proof uint64, previousHash string) Block {
	if trans == nil {
		trans = []Tx{}
	}

	return Block{
		Index:        index,
		Timestamp:    time.Now().UTC().Unix(),
		Transactions: trans,
		Proof:        proof,
		PreviousHash: previousHash,
	}
}

// Genesis returns the deterministic first block every chain starts with.
func Genesis() Block {
	return Block{
		Index:        genesisIndex,
		Timestamp:    genesisTime,
		Transactions: []Tx{},
		Proof:        genesisProof,
		PreviousHash: genesisPrevHash,
	}
}

// =============================================================================

// The digest types pin down the canonical serialization used for hashing: a
// fixed set of keys in sorted order. A block's own hash, if one is ever
// carried alongside the block, is not part of this set.

type txDigest struct {
	Amount    float64 `json:"amount"`
	Recipient string  `json:"recipient"`
	Sender    string  `json:"sender"`
}

type blockDigest struct {
	Index        uint64     `json:"index"`
	PreviousHash string     `json:"previous_hash"`
	Proof        uint64     `json:"proof"`
	Timestamp    int64      `json:"timestamp"`
	Transactions []txDigest `json:"transactions"`
}

// Hash returns the SHA-256 hex digest of the block's canonical
// serialization. The digest is a pure function of the block's content so
// every node computes the same value for the same block.
func Hash(b Block) string {
	trans := make([]txDigest, len(b.Transactions))
	for i, tx := range b.Transactions {
		trans[i] = txDigest{
			Amount:    tx.Amount,
			Recipient: tx.Recipient,
			Sender:    tx.Sender,
		}
	}

	digest := blockDigest{
		Index:        b.Index,
		PreviousHash: b.PreviousHash,
		Proof:        b.Proof,
		Timestamp:    b.Timestamp,
		Transactions: trans,
	}

	// Marshaling a value of these concrete types cannot fail.
	data, _ := json.Marshal(digest)

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
