package nodegrp_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/blocknetlabs/blocknet/app/services/node/handlers"
	"github.com/blocknetlabs/blocknet/foundation/blockchain/ledger"
	"github.com/blocknetlabs/blocknet/foundation/blockchain/state"
	"github.com/blocknetlabs/blocknet/foundation/events"
	"go.uber.org/zap"
)

// newTestApp stands up the public mux over a fresh node state.
func newTestApp(t *testing.T) (http.Handler, *state.State) {
	t.Helper()

	st, err := state.New(state.Config{
		NodeID:        "testnode",
		Host:          "127.0.0.1:5000",
		P2PPortOffset: 1000,
	})
	if err != nil {
		t.Fatalf("Should be able to construct the state: %s", err)
	}

	evts := events.New()
	t.Cleanup(evts.Shutdown)

	mux := handlers.PublicMux(handlers.MuxConfig{
		Shutdown: make(chan os.Signal, 1),
		Log:      zap.NewNop().Sugar(),
		State:    st,
		Evts:     evts,
	})

	return mux, st
}

func Test_Chain(t *testing.T) {
	mux, _ := newTestApp(t)

	r := httptest.NewRequest(http.MethodGet, "/chain", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("Should get status 200, got %d", w.Code)
	}

	var resp struct {
		Chain  []ledger.Block `json:"chain"`
		Length int            `json:"length"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Should be able to decode the response: %s", err)
	}

	if resp.Length != 1 || len(resp.Chain) != 1 {
		t.Fatalf("Should start with just the genesis block, got length %d", resp.Length)
	}
	if resp.Chain[0].Index != 1 {
		t.Fatalf("Should serve the genesis block first, got index %d", resp.Chain[0].Index)
	}
}

func Test_SubmitTransaction(t *testing.T) {
	mux, st := newTestApp(t)

	body := `{"sender":"alice","recipient":"bob","amount":5}`
	r := httptest.NewRequest(http.MethodPost, "/transactions/new", strings.NewReader(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)

	if w.Code != http.StatusCreated {
		t.Logf("body: %s", w.Body.String())
		t.Fatalf("Should get status 201, got %d", w.Code)
	}

	var resp struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Should be able to decode the response: %s", err)
	}
	if resp.Message != "Transaction will be added to Block 2" {
		t.Fatalf("Should report the target block, got %q", resp.Message)
	}

	if got := len(st.RetrieveMempool()); got != 1 {
		t.Fatalf("Should buffer the transaction, got %d", got)
	}
}

func Test_SubmitTransactionZeroAmount(t *testing.T) {
	mux, st := newTestApp(t)

	// A zero amount is present, just zero. Only a missing amount is
	// rejected.
	body := `{"sender":"alice","recipient":"bob","amount":0}`
	r := httptest.NewRequest(http.MethodPost, "/transactions/new", strings.NewReader(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)

	if w.Code != http.StatusCreated {
		t.Logf("body: %s", w.Body.String())
		t.Fatalf("Should get status 201, got %d", w.Code)
	}

	pool := st.RetrieveMempool()
	if len(pool) != 1 || pool[0].Amount != 0 {
		t.Fatalf("Should buffer the zero amount transaction, got %+v", pool)
	}
}

func Test_SubmitTransactionValidation(t *testing.T) {
	type table struct {
		name string
		body string
	}

	tt := []table{
		{name: "missing", body: `{"sender":"alice"}`},
		{name: "noamount", body: `{"sender":"alice","recipient":"bob"}`},
		{name: "unknown", body: `{"sender":"alice","recipient":"bob","amount":5,"memo":"x"}`},
		{name: "malformed", body: `{`},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			mux, st := newTestApp(t)

			r := httptest.NewRequest(http.MethodPost, "/transactions/new", strings.NewReader(tst.body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, r)

			if w.Code != http.StatusBadRequest {
				t.Logf("body: %s", w.Body.String())
				t.Fatalf("Test %s:\tShould get status 400, got %d", tst.name, w.Code)
			}
			if got := len(st.RetrieveMempool()); got != 0 {
				t.Fatalf("Test %s:\tShould not buffer anything, got %d", tst.name, got)
			}
		}

		t.Run(tst.name, f)
	}
}

func Test_Mine(t *testing.T) {
	mux, st := newTestApp(t)

	r := httptest.NewRequest(http.MethodGet, "/mine", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Logf("body: %s", w.Body.String())
		t.Fatalf("Should get status 200, got %d", w.Code)
	}

	var resp struct {
		Message      string      `json:"message"`
		Index        uint64      `json:"index"`
		Transactions []ledger.Tx `json:"transactions"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Should be able to decode the response: %s", err)
	}

	if resp.Message != "New Block Forged" {
		t.Fatalf("Should confirm the forge, got %q", resp.Message)
	}
	if resp.Index != 2 {
		t.Fatalf("Should forge block 2, got %d", resp.Index)
	}

	// Just the mining reward, credited to this node.
	if len(resp.Transactions) != 1 || resp.Transactions[0].Sender != ledger.RewardSender {
		t.Fatalf("Should carry only the reward transaction, got %+v", resp.Transactions)
	}

	if got := st.ChainLength(); got != 2 {
		t.Fatalf("Should grow the chain to 2 blocks, got %d", got)
	}
}

func Test_RegisterNodes(t *testing.T) {
	mux, st := newTestApp(t)

	body, _ := json.Marshal(map[string][]string{
		"nodes": {"192.168.0.5:5001", "http://192.168.0.6:5002"},
	})
	r := httptest.NewRequest(http.MethodPost, "/nodes/register", bytes.NewReader(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)

	if w.Code != http.StatusCreated {
		t.Logf("body: %s", w.Body.String())
		t.Fatalf("Should get status 201, got %d", w.Code)
	}

	var resp struct {
		Message    string   `json:"message"`
		TotalNodes []string `json:"total_nodes"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Should be able to decode the response: %s", err)
	}

	if len(resp.TotalNodes) != 2 {
		t.Fatalf("Should report both registered peers, got %v", resp.TotalNodes)
	}
	if got := len(st.RetrieveKnownPeers()); got != 2 {
		t.Fatalf("Should hold both peers in the set, got %d", got)
	}
}

func Test_RegisterNodesEmptyList(t *testing.T) {
	mux, st := newTestApp(t)

	// An empty list is a no-op, not a client error. Only a missing
	// nodes key is rejected.
	r := httptest.NewRequest(http.MethodPost, "/nodes/register", strings.NewReader(`{"nodes":[]}`))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)

	if w.Code != http.StatusCreated {
		t.Logf("body: %s", w.Body.String())
		t.Fatalf("Should get status 201, got %d", w.Code)
	}
	if got := len(st.RetrieveKnownPeers()); got != 0 {
		t.Fatalf("Should register nothing, got %d", got)
	}
}

func Test_RegisterNodesRejects(t *testing.T) {
	type table struct {
		name string
		body string
	}

	tt := []table{
		{name: "nokey", body: `{}`},
		{name: "noport", body: `{"nodes":["http://192.168.0.5"]}`},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			mux, st := newTestApp(t)

			r := httptest.NewRequest(http.MethodPost, "/nodes/register", strings.NewReader(tst.body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, r)

			if w.Code != http.StatusBadRequest {
				t.Logf("body: %s", w.Body.String())
				t.Fatalf("Test %s:\tShould get status 400, got %d", tst.name, w.Code)
			}
			if got := len(st.RetrieveKnownPeers()); got != 0 {
				t.Fatalf("Test %s:\tShould not register anything, got %d", tst.name, got)
			}
		}

		t.Run(tst.name, f)
	}
}

func Test_Resolve(t *testing.T) {
	mux, _ := newTestApp(t)

	r := httptest.NewRequest(http.MethodGet, "/nodes/resolve", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("Should get status 200, got %d", w.Code)
	}

	var resp struct {
		Message  string         `json:"message"`
		Replaced bool           `json:"replaced"`
		Chain    []ledger.Block `json:"chain"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Should be able to decode the response: %s", err)
	}

	if resp.Replaced {
		t.Fatalf("Should keep the local chain with no peers to ask.")
	}
	if resp.Message != "Our chain is authoritative" {
		t.Fatalf("Should report the chain as authoritative, got %q", resp.Message)
	}
	if len(resp.Chain) != 1 {
		t.Fatalf("Should return the local chain, got length %d", len(resp.Chain))
	}
}

func Test_ResolveAdoptsPeerChain(t *testing.T) {
	mux, stA := newTestApp(t)

	// Stand up a second node behind a real listener, mine a block on
	// it, and point the first node at it so the resolver can fetch its
	// longer chain.
	muxB, _ := newTestApp(t)
	srvB := httptest.NewServer(muxB)
	t.Cleanup(srvB.Close)

	r := httptest.NewRequest(http.MethodGet, "/mine", nil)
	w := httptest.NewRecorder()
	muxB.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("Should be able to mine on the peer, got %d", w.Code)
	}

	body, _ := json.Marshal(map[string][]string{
		"nodes": {srvB.Listener.Addr().String()},
	})
	r = httptest.NewRequest(http.MethodPost, "/nodes/register", bytes.NewReader(body))
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	if w.Code != http.StatusCreated {
		t.Fatalf("Should be able to register the peer, got %d", w.Code)
	}

	r = httptest.NewRequest(http.MethodGet, "/nodes/resolve", nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("Should get status 200, got %d", w.Code)
	}

	var resp struct {
		Replaced bool `json:"replaced"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Should be able to decode the response: %s", err)
	}
	if !resp.Replaced {
		t.Fatalf("Should adopt the peer's longer chain.")
	}
	if got := stA.ChainLength(); got != 2 {
		t.Fatalf("Should end with the peer's 2 block chain, got %d", got)
	}
}
