// Copyright (c) 2024-2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package bitcoincore implements the walletprovider contract against a single
// Bitcoin Core node's wallet RPC interface.  The node holds all key material
// and wallet state; the adapter only translates contract calls into RPC
// requests and reshapes the responses.
package bitcoincore

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/rpcclient"
	"github.com/btcsuite/btcd/wire"

	"github.com/btcsuite/walletprovider"
	"github.com/btcsuite/walletprovider/netparams"
)

const (
	// backEndName identifies this driver.
	backEndName = "bitcoind"

	// primaryAddressLabel tags the wallet address handed out by Address.
	// The label, not the adapter, is the source of truth, so every
	// adapter instance against the same wallet resolves the same address.
	primaryAddressLabel = "primary"

	// feeConfTarget is the confirmation target requested from
	// estimatesmartfee.
	feeConfTarget = 6

	// fastestFeePlaceholder fills the fastest tier.  A single
	// estimatesmartfee call cannot distinguish it from the other tiers,
	// so the tier carries a deliberately conservative placeholder instead
	// of a real estimate.
	fastestFeePlaceholder = 1000

	// maxConfirmations is an effectively unbounded confirmation ceiling
	// for listunspent.
	maxConfirmations = 9999999

	// addrTypeSegwit and addrTypeTaproot are Core's address_type values.
	addrTypeSegwit  = "bech32"
	addrTypeTaproot = "bech32m"
)

// Adapter satisfies walletprovider.WalletProvider against a Bitcoin Core
// wallet endpoint.  The embedded client handle is the only state shared
// across calls and is read-only after New; the node itself serializes
// wallet-mutating operations, so no locking discipline is needed here.
type Adapter struct {
	cfg    Config
	params *netparams.Params
	client rpcClient

	events walletprovider.EventRegistry
}

var _ walletprovider.WalletProvider = (*Adapter)(nil)

// New creates an adapter for the described wallet endpoint.  The connection
// is not established until Connect.
func New(cfg Config) (*Adapter, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	params, err := netparams.Get(cfg.Net)
	if err != nil {
		return nil, err
	}

	client, err := rpcclient.New(cfg.rpcConnConfig(params), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", walletprovider.ErrConnect, err)
	}

	return &Adapter{
		cfg:    cfg,
		params: params,
		client: client,
	}, nil
}

// Connect verifies the node is reachable, the credentials are accepted, and
// the node serves the configured network.
func (a *Adapter) Connect() error {
	var info walletInfoResult
	if err := a.call(methodGetWalletInfo, nil, &info); err != nil {
		return fmt.Errorf("%w: %v", walletprovider.ErrConnect, err)
	}

	chainInfo, err := a.client.GetBlockChainInfo()
	if err != nil {
		return fmt.Errorf("%w: getblockchaininfo: %v",
			walletprovider.ErrConnect, err)
	}
	if chainInfo.Chain != a.params.CoreChainName {
		return fmt.Errorf("%w: node is on chain %q, adapter "+
			"configured for %q", walletprovider.ErrConnect,
			chainInfo.Chain, a.cfg.Net)
	}

	log.Infof("Connected to wallet %q on %s (%d wallet transactions)",
		info.WalletName, a.cfg.Net, info.TxCount)
	return nil
}

// BackEnd returns the name of the driver.
func (a *Adapter) BackEnd() string {
	return backEndName
}

// Network returns the chain the adapter is fixed to.
func (a *Adapter) Network() walletprovider.Network {
	return a.cfg.Net
}

// On registers cb for the named event.  The adapter only ever emits
// EventAccountChanged; anything else is accepted and never fired.
func (a *Adapter) On(event walletprovider.Event,
	cb walletprovider.EventCallback) {

	a.events.On(event, cb)
}

// Address returns the wallet's primary receiving address.  Addresses already
// carrying the primary label take precedence, making repeated calls stable;
// only when none exists is a fresh segwit address derived and labeled.
//
// NOTE: Address derives plain segwit while NewAddress derives taproot, both
// under the same label.  The asymmetry is long-standing observed behavior
// that downstream callers depend on; do not unify without coordinating with
// them.
func (a *Adapter) Address() (btcutil.Address, error) {
	// min_conf 0 and include_empty true, so a labeled address counts even
	// before it has been funded or confirmed.
	var received []receivedByAddressResult
	err := a.call(methodListReceivedByAddress, anylist{0, true}, &received)
	if err != nil {
		return nil, err
	}
	for _, entry := range received {
		if entry.Label != primaryAddressLabel {
			continue
		}
		return btcutil.DecodeAddress(entry.Address, a.params.Params)
	}

	addr, err := a.newLabeledAddress(addrTypeSegwit)
	if err != nil {
		return nil, err
	}

	log.Infof("Derived new primary receiving address %v", addr)
	a.events.Notify(walletprovider.EventAccountChanged, addr)
	return addr, nil
}

// NewAddress derives a fresh taproot receiving address under the primary
// label.  See the NOTE on Address regarding the encoding asymmetry.
func (a *Adapter) NewAddress() (btcutil.Address, error) {
	addr, err := a.newLabeledAddress(addrTypeTaproot)
	if err != nil {
		return nil, err
	}

	a.events.Notify(walletprovider.EventAccountChanged, addr)
	return addr, nil
}

// newLabeledAddress asks the wallet for a new address of the given type,
// tagged with the primary label.
func (a *Adapter) newLabeledAddress(addrType string) (btcutil.Address, error) {
	var encoded string
	err := a.call(methodGetNewAddress,
		anylist{primaryAddressLabel, addrType}, &encoded)
	if err != nil {
		return nil, err
	}
	return btcutil.DecodeAddress(encoded, a.params.Params)
}

// PublicKey returns the public key behind the wallet's primary address.
func (a *Adapter) PublicKey() (*btcec.PublicKey, error) {
	addr, err := a.Address()
	if err != nil {
		return nil, err
	}
	return a.AddressPublicKey(addr)
}

// AddressPublicKey returns the public key behind an address known to the
// wallet.  Addresses the wallet has no key for yield ErrNotFound.
func (a *Adapter) AddressPublicKey(addr btcutil.Address) (*btcec.PublicKey,
	error) {

	var info addressInfoResult
	err := a.call(methodGetAddressInfo, anylist{addr.String()}, &info)
	if err != nil {
		return nil, err
	}
	if info.PubKey == "" {
		return nil, fmt.Errorf("%w: no public key known for "+
			"address %v", walletprovider.ErrNotFound, addr)
	}

	rawKey, err := hex.DecodeString(info.PubKey)
	if err != nil {
		return nil, fmt.Errorf("malformed pubkey for address %v: %w",
			addr, err)
	}
	return btcec.ParsePubKey(rawKey)
}

// Info assembles a snapshot of the wallet's receiving identity.
func (a *Adapter) Info() (*walletprovider.WalletInfo, error) {
	addr, err := a.Address()
	if err != nil {
		return nil, err
	}
	pubKey, err := a.AddressPublicKey(addr)
	if err != nil {
		return nil, err
	}

	return &walletprovider.WalletInfo{
		PublicKeyHex: hex.EncodeToString(pubKey.SerializeCompressed()),
		Address:      addr.String(),
	}, nil
}

// SignPsbt hands a hex-encoded PSBT to the node's wallet-aware processor for
// signing.  The best-effort signed packet is always returned; callers must
// check Complete before finalizing, since the wallet may not hold keys for
// every input.
func (a *Adapter) SignPsbt(psbtHex string) (*walletprovider.SignedPsbt,
	error) {

	packet, err := decodePsbtHex(psbtHex)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", walletprovider.ErrSigning, err)
	}
	psbtB64, err := packet.B64Encode()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", walletprovider.ErrSigning, err)
	}

	var res processPsbtResult
	err = a.call(methodWalletProcessPsbt, anylist{psbtB64, true}, &res)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", walletprovider.ErrSigning, err)
	}

	signedHex, err := psbtBase64ToHex(res.Psbt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", walletprovider.ErrSigning, err)
	}

	if !res.Complete {
		log.Warnf("Wallet could not fully sign psbt with %d input(s), "+
			"returning partial result", len(packet.Inputs))
	}

	return &walletprovider.SignedPsbt{
		Hex:      signedHex,
		Complete: res.Complete,
	}, nil
}

// SignPsbts signs a sequence of PSBTs strictly one at a time, in input order.
// On failure the already-signed prefix is returned alongside the error, so a
// caller can recover earlier successes instead of re-signing them.
func (a *Adapter) SignPsbts(psbtHexes []string) ([]*walletprovider.SignedPsbt,
	error) {

	signed := make([]*walletprovider.SignedPsbt, 0, len(psbtHexes))
	for i, psbtHex := range psbtHexes {
		result, err := a.SignPsbt(psbtHex)
		if err != nil {
			return signed, fmt.Errorf("psbt %d of %d: %w", i+1,
				len(psbtHexes), err)
		}
		signed = append(signed, result)
	}
	return signed, nil
}

// Balance returns the wallet's spendable balance.
func (a *Adapter) Balance() (btcutil.Amount, error) {
	return a.client.GetBalance("*")
}

// NetworkFees estimates current fee rates from a single 6-block
// estimatesmartfee call.  Core quotes BTC per kilo-vbyte; tiers are the
// converted sat/vB figure, except the fastest tier which estimatesmartfee
// cannot produce and which stays a placeholder.
func (a *Adapter) NetworkFees() (*walletprovider.FeeRates, error) {
	res, err := a.client.EstimateSmartFee(feeConfTarget, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v",
			walletprovider.ErrEstimation, err)
	}
	if res.FeeRate == nil || len(res.Errors) > 0 {
		return nil, fmt.Errorf("%w: estimatesmartfee: %v",
			walletprovider.ErrEstimation, res.Errors)
	}

	rate, err := btcutil.NewAmount(*res.FeeRate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v",
			walletprovider.ErrEstimation, err)
	}
	satPerVByte := int64(rate) / 1000

	return &walletprovider.FeeRates{
		FastestFee:  fastestFeePlaceholder,
		HalfHourFee: satPerVByte,
		HourFee:     satPerVByte,
		EconomyFee:  satPerVByte,
		MinimumFee:  satPerVByte,
	}, nil
}

// PushTx broadcasts a hex-encoded raw transaction.  Rebroadcasting a
// transaction the chain already contains is treated as success and returns
// the same id, keeping the call safe to retry.
func (a *Adapter) PushTx(rawTxHex string) (*chainhash.Hash, error) {
	rawTx, err := hex.DecodeString(rawTxHex)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed raw tx hex: %v",
			walletprovider.ErrBroadcast, err)
	}
	var msgTx wire.MsgTx
	if err := msgTx.Deserialize(bytes.NewReader(rawTx)); err != nil {
		return nil, fmt.Errorf("%w: malformed raw tx: %v",
			walletprovider.ErrBroadcast, err)
	}

	hash, err := a.client.SendRawTransaction(&msgTx, false)
	if err != nil {
		var rpcErr *btcjson.RPCError
		if errors.As(err, &rpcErr) &&
			rpcErr.Code == btcjson.ErrRPCTxAlreadyInChain {

			txHash := msgTx.TxHash()
			log.Debugf("Transaction %v already mined, treating "+
				"rebroadcast as success", txHash)
			return &txHash, nil
		}
		return nil, fmt.Errorf("%w: %v", walletprovider.ErrBroadcast,
			err)
	}
	return hash, nil
}

// Utxos lists the unspent outputs paying to addr, with zero minimum
// confirmations, in the node's listing order.  A non-zero target returns the
// shortest prefix of that listing whose cumulative value covers it; the
// listing order is deliberately not value-optimized.  When even the full set
// cannot cover the target, ErrInsufficientFunds is returned so the case is
// never confused with an empty wallet or a query failure.
func (a *Adapter) Utxos(addr btcutil.Address,
	target btcutil.Amount) ([]*walletprovider.Utxo, error) {

	unspent, err := a.client.ListUnspentMinMaxAddresses(
		0, maxConfirmations, []btcutil.Address{addr},
	)
	if err != nil {
		return nil, err
	}

	utxos := make([]*walletprovider.Utxo, 0, len(unspent))
	var total btcutil.Amount
	for _, entry := range unspent {
		amount, err := btcutil.NewAmount(entry.Amount)
		if err != nil {
			return nil, fmt.Errorf("utxo %s:%d: %w", entry.TxID,
				entry.Vout, err)
		}
		utxos = append(utxos, &walletprovider.Utxo{
			TxID:     entry.TxID,
			Vout:     entry.Vout,
			Amount:   amount,
			PkScript: entry.ScriptPubKey,
		})

		total += amount
		if target > 0 && total >= target {
			return utxos, nil
		}
	}

	if target > 0 && total < target {
		return nil, fmt.Errorf("%w: %v available, %v requested",
			walletprovider.ErrInsufficientFunds, total, target)
	}
	return utxos, nil
}

// TipHeight returns the node's current best block height.
func (a *Adapter) TipHeight() (int64, error) {
	height, err := a.client.GetBlockCount()
	if err != nil {
		return 0, fmt.Errorf("%w: getblockcount: %v",
			walletprovider.ErrEstimation, err)
	}
	return height, nil
}

// Generate mines n blocks paying to the wallet's primary address.  It is a
// regtest-only convenience for funding test wallets.
func (a *Adapter) Generate(n int64) ([]*chainhash.Hash, error) {
	if a.cfg.Net != walletprovider.NetworkRegtest {
		return nil, fmt.Errorf("block generation is only available "+
			"on regtest, adapter is on %s", a.cfg.Net)
	}

	addr, err := a.Address()
	if err != nil {
		return nil, err
	}
	return a.client.GenerateToAddress(n, addr, nil)
}

// Shutdown tears down the underlying RPC client.
func (a *Adapter) Shutdown() {
	a.client.Shutdown()
}
