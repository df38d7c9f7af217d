package bitcoincore

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"

	"github.com/btcsuite/walletprovider"
	"github.com/btcsuite/walletprovider/netparams"
)

var errNotImplemented = errors.New("not implemented")

var _ rpcClient = (*mockRPCClient)(nil)

// mockRPCClient is a hand-rolled rpcClient stub.  Typed calls answer from the
// canned fields; raw wallet calls are routed through rawHandler so each test
// can implement exactly the methods it expects.
type mockRPCClient struct {
	unspent    []btcjson.ListUnspentResult
	unspentErr error

	feeRate   *float64
	feeErrors []string
	feeErr    error

	balance btcutil.Amount

	blockCount    int64
	blockCountErr error

	chainInfo    *btcjson.GetBlockChainInfoResult
	chainInfoErr error

	sendErr error
	sentTxs []*wire.MsgTx

	signMessageSig string
	signMessageErr error

	generated []*chainhash.Hash

	rawHandler func(method string,
		params []json.RawMessage) (json.RawMessage, error)

	shutdownCalled bool
}

func (m *mockRPCClient) ListUnspentMinMaxAddresses(minConf, maxConf int,
	addrs []btcutil.Address) ([]btcjson.ListUnspentResult, error) {

	if m.unspentErr != nil {
		return nil, m.unspentErr
	}
	return m.unspent, nil
}

func (m *mockRPCClient) EstimateSmartFee(confTarget int64,
	mode *btcjson.EstimateSmartFeeMode) (*btcjson.EstimateSmartFeeResult,
	error) {

	if m.feeErr != nil {
		return nil, m.feeErr
	}
	return &btcjson.EstimateSmartFeeResult{
		FeeRate: m.feeRate,
		Errors:  m.feeErrors,
		Blocks:  confTarget,
	}, nil
}

func (m *mockRPCClient) SendRawTransaction(tx *wire.MsgTx,
	allowHighFees bool) (*chainhash.Hash, error) {

	if m.sendErr != nil {
		return nil, m.sendErr
	}
	m.sentTxs = append(m.sentTxs, tx)
	hash := tx.TxHash()
	return &hash, nil
}

func (m *mockRPCClient) SignMessage(address btcutil.Address,
	message string) (string, error) {

	if m.signMessageErr != nil {
		return "", m.signMessageErr
	}
	return m.signMessageSig, nil
}

func (m *mockRPCClient) GetBalance(account string) (btcutil.Amount, error) {
	return m.balance, nil
}

func (m *mockRPCClient) GetBlockCount() (int64, error) {
	if m.blockCountErr != nil {
		return 0, m.blockCountErr
	}
	return m.blockCount, nil
}

func (m *mockRPCClient) GetBlockChainInfo() (*btcjson.GetBlockChainInfoResult,
	error) {

	if m.chainInfoErr != nil {
		return nil, m.chainInfoErr
	}
	return m.chainInfo, nil
}

func (m *mockRPCClient) GenerateToAddress(numBlocks int64,
	address btcutil.Address, maxTries *int64) ([]*chainhash.Hash, error) {

	return m.generated, nil
}

func (m *mockRPCClient) RawRequest(method string,
	params []json.RawMessage) (json.RawMessage, error) {

	if m.rawHandler == nil {
		return nil, errNotImplemented
	}
	return m.rawHandler(method, params)
}

func (m *mockRPCClient) Shutdown() {
	m.shutdownCalled = true
}

// newTestAdapter wires an adapter directly onto a mock client, skipping the
// rpcclient construction in New.
func newTestAdapter(t *testing.T, net walletprovider.Network,
	mock *mockRPCClient) *Adapter {

	t.Helper()

	params, err := netparams.Get(net)
	require.NoError(t, err)

	return &Adapter{
		cfg: Config{
			WalletName: "testwallet",
			Host:       "localhost",
			User:       "user",
			Pass:       "pass",
			Net:        net,
		},
		params: params,
		client: mock,
	}
}

// mustMarshal marshals v or fails the test.
func mustMarshal(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()

	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}
