package state

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/blocknetlabs/blocknet/foundation/blockchain/ledger"
	"github.com/blocknetlabs/blocknet/foundation/blockchain/peer"
)

// netTimeout bounds every chain fetch so a slow or hostile peer can't
// stall a resolution pass.
const netTimeout = 5 * time.Second

// NetRequestPeerChain asks the specified peer for its full chain over the
// peer's control-surface chain endpoint.
func (s *State) NetRequestPeerChain(pr peer.Peer) (int, []ledger.Block, error) {
	url := fmt.Sprintf("http://%s/chain", pr.HTTPAddr())

	client := http.Client{
		Timeout: netTimeout,
	}

	resp, err := client.Get(url)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	var result struct {
		Chain  []ledger.Block `json:"chain"`
		Length int            `json:"length"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, nil, fmt.Errorf("decoding chain from %s: %w", url, err)
	}

	return result.Length, result.Chain, nil
}
