// Copyright (c) 2024-2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bitcoincore

import (
	"encoding/json"
	"fmt"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/rpcclient"
	"github.com/btcsuite/btcd/wire"
)

// Wallet RPC methods invoked through RawRequest because rpcclient has no
// typed wrapper that carries the arguments we need (labels, address types).
const (
	methodGetWalletInfo         = "getwalletinfo"
	methodListReceivedByAddress = "listreceivedbyaddress"
	methodGetNewAddress         = "getnewaddress"
	methodGetAddressInfo        = "getaddressinfo"
	methodWalletProcessPsbt     = "walletprocesspsbt"
)

// rpcClient is the narrow surface of *rpcclient.Client the adapter invokes.
// Listing the methods explicitly keeps the compiler enforcing the contract
// between adapter and transport, and lets tests substitute a stub.
type rpcClient interface {
	ListUnspentMinMaxAddresses(minConf, maxConf int,
		addrs []btcutil.Address) ([]btcjson.ListUnspentResult, error)

	EstimateSmartFee(confTarget int64,
		mode *btcjson.EstimateSmartFeeMode) (
		*btcjson.EstimateSmartFeeResult, error)

	SendRawTransaction(tx *wire.MsgTx,
		allowHighFees bool) (*chainhash.Hash, error)

	SignMessage(address btcutil.Address, message string) (string, error)

	GetBalance(account string) (btcutil.Amount, error)

	GetBlockCount() (int64, error)

	GetBlockChainInfo() (*btcjson.GetBlockChainInfoResult, error)

	GenerateToAddress(numBlocks int64, address btcutil.Address,
		maxTries *int64) ([]*chainhash.Hash, error)

	RawRequest(method string,
		params []json.RawMessage) (json.RawMessage, error)

	Shutdown()
}

var _ rpcClient = (*rpcclient.Client)(nil)

// anylist is a list of RPC parameters to be converted to []json.RawMessage
// and sent via RawRequest.
type anylist []interface{}

// call invokes method over the wallet endpoint with the given arguments and,
// when thing is non-nil, unmarshals the result into it.
func (a *Adapter) call(method string, args anylist, thing interface{}) error {
	params := make([]json.RawMessage, 0, len(args))
	for i := range args {
		p, err := json.Marshal(args[i])
		if err != nil {
			return err
		}
		params = append(params, p)
	}

	resp, err := a.client.RawRequest(method, params)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	if thing != nil {
		if err := json.Unmarshal(resp, thing); err != nil {
			return fmt.Errorf("%s: decoding response: %w",
				method, err)
		}
	}
	return nil
}

// walletInfoResult is the subset of getwalletinfo consumed here.
type walletInfoResult struct {
	WalletName string `json:"walletname"`
	TxCount    int64  `json:"txcount"`
}

// receivedByAddressResult is the subset of a listreceivedbyaddress entry
// consumed here.
type receivedByAddressResult struct {
	Address string  `json:"address"`
	Amount  float64 `json:"amount"`
	Label   string  `json:"label"`
}

// addressInfoResult is the subset of getaddressinfo consumed here.  The
// pubkey field is only present for single-key addresses the wallet holds.
type addressInfoResult struct {
	Address      string `json:"address"`
	ScriptPubKey string `json:"scriptPubKey"`
	IsMine       bool   `json:"ismine"`
	PubKey       string `json:"pubkey"`
}

// processPsbtResult mirrors the walletprocesspsbt response.
type processPsbtResult struct {
	Psbt     string `json:"psbt"`
	Complete bool   `json:"complete"`
}
