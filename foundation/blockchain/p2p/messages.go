package p2p

import (
	"encoding/json"

	"github.com/blocknetlabs/blocknet/foundation/blockchain/ledger"
)

// The set of message types nodes exchange over the transport. Anything
// else is logged and ignored.
const (
	TypeNewBlock       = "NEW_BLOCK"
	TypeNewTransaction = "NEW_TRANSACTION"
	TypeRequestChain   = "REQUEST_CHAIN"
	TypeRespondChain   = "RESPOND_CHAIN"
)

// Message represents a single peer to peer message. The payload is kept
// raw and decoded once the type is known.
type Message struct {
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	SenderHost string          `json:"sender_host,omitempty"`
	SenderPort int             `json:"sender_port,omitempty"`
}

// NewMessage constructs a message of the specified type carrying the
// specified payload.
func NewMessage(msgType string, payload any) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}

	return Message{
		Type:    msgType,
		Payload: data,
	}, nil
}

// ChainPayload carries a full chain and its length in a RESPOND_CHAIN
// message.
type ChainPayload struct {
	Chain  []ledger.Block `json:"chain"`
	Length int            `json:"length"`
}
