// Copyright (c) 2024-2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package walletprovider defines a backend-agnostic wallet capability
// contract for bitcoin applications.  Callers program against the
// WalletProvider interface and may swap the concrete backend (a Bitcoin Core
// wallet endpoint, or any future driver) without code changes.
package walletprovider

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Network identifies which chain a provider operates on.  It is a closed
// enumeration; address encoding and validation rules for each value are
// delegated to chaincfg via the netparams package.
type Network string

const (
	// NetworkMainnet is the production bitcoin network.
	NetworkMainnet Network = "mainnet"

	// NetworkTestnet is the version 3 test network.
	NetworkTestnet Network = "testnet"

	// NetworkSignet is the default signet test network.
	NetworkSignet Network = "signet"

	// NetworkRegtest is a local regression test network.
	NetworkRegtest Network = "regtest"
)

// String returns the network identifier.
func (n Network) String() string {
	return string(n)
}

// Valid reports whether n is a member of the closed enumeration.
func (n Network) Valid() bool {
	switch n {
	case NetworkMainnet, NetworkTestnet, NetworkSignet, NetworkRegtest:
		return true
	}
	return false
}

// WalletInfo is an immutable snapshot of the provider's active receiving
// identity, produced by connection or query calls.
type WalletInfo struct {
	// PublicKeyHex is the hex encoding of the compressed public key behind
	// Address.
	PublicKeyHex string

	// Address is the encoded chain address.
	Address string
}

// FeeRates holds fee-rate estimates in satoshis per virtual byte, bucketed by
// desired confirmation urgency.  All fields are always populated, though a
// backend may substitute a placeholder for tiers it cannot distinguish.
type FeeRates struct {
	FastestFee  int64
	HalfHourFee int64
	HourFee     int64
	EconomyFee  int64
	MinimumFee  int64
}

// Utxo describes one unspent transaction output.  Values are sourced fresh on
// every query; nothing is cached or persisted by a provider.
type Utxo struct {
	// TxID is the hex-encoded hash of the funding transaction.
	TxID string

	// Vout is the output index within the funding transaction.
	Vout uint32

	// Amount is the output value.  btcutil.Amount is denominated in
	// satoshis.
	Amount btcutil.Amount

	// PkScript is the hex-encoded output script.
	PkScript string

	// RawTx optionally carries the full funding transaction hex.  Only
	// backends that index raw transactions populate it.
	RawTx string
}

// SignedPsbt is the outcome of handing a PSBT to a provider for signing.  The
// Complete flag must be inspected before treating Hex as broadcastable: a
// provider returns its best-effort partially signed packet even when it could
// not satisfy every input.
type SignedPsbt struct {
	// Hex is the hex-encoded signed (possibly still partial) packet.
	Hex string

	// Complete is true when the backend reports every input fully signed.
	Complete bool
}

// WalletProvider is the capability set every wallet backend must satisfy.
// Each method is a synchronous call that may block on a network round trip to
// the backing wallet; timeout policy belongs to the backend's transport
// configuration.
//
// Every method is safe to retry.  PushTx additionally guarantees that
// rebroadcasting an already-mined transaction succeeds with the same id.  The
// signing methods are only deterministic across retries if the backend's key
// material and signing algorithm are.
type WalletProvider interface {
	// Connect establishes and verifies the connection to the wallet
	// backend.  It fails with ErrConnect when the backend is unreachable,
	// rejects credentials, or serves a different network than configured.
	Connect() error

	// BackEnd returns a short identifier for the backing implementation,
	// e.g. "bitcoind".
	BackEnd() string

	// Address returns the provider's receiving address, deriving one on
	// first use.  Repeated calls return the same address.
	Address() (btcutil.Address, error)

	// PublicKey returns the public key behind Address.  It fails with
	// ErrNotFound when the backend knows no key for it.
	PublicKey() (*btcec.PublicKey, error)

	// AddressPublicKey returns the public key behind an arbitrary address
	// known to the backend, or ErrNotFound.
	AddressPublicKey(addr btcutil.Address) (*btcec.PublicKey, error)

	// SignPsbt signs a hex-encoded PSBT with the backend's keys.  The
	// result always carries the best-effort signed packet; callers must
	// check SignedPsbt.Complete before finalizing.
	SignPsbt(psbtHex string) (*SignedPsbt, error)

	// SignPsbts signs a sequence of PSBTs one at a time, in input order.
	// On failure the already-signed prefix is returned alongside the
	// error so earlier results are not lost.
	SignPsbts(psbtHexes []string) ([]*SignedPsbt, error)

	// Network returns the chain the provider is fixed to.
	Network() Network

	// SignMessageBIP322 produces a BIP-322 signature over an arbitrary
	// message with the key behind Address.
	SignMessageBIP322(msg []byte) (string, error)

	// On registers a callback for the named event.  Unsupported event
	// names are a no-op, not an error.
	On(event Event, cb EventCallback)

	// Balance returns the wallet's spendable balance in satoshis.
	Balance() (btcutil.Amount, error)

	// NetworkFees returns the current fee-rate estimates, or
	// ErrEstimation when the backend has insufficient chain data.
	NetworkFees() (*FeeRates, error)

	// PushTx broadcasts a hex-encoded raw transaction and returns its
	// hash.  Relay rejection surfaces as ErrBroadcast.
	PushTx(rawTxHex string) (*chainhash.Hash, error)

	// Utxos lists the unspent outputs paying to addr, in backend listing
	// order.  A non-zero target returns the shortest prefix (by that
	// order, not by value) whose cumulative amount covers it, or
	// ErrInsufficientFunds when even the full set cannot.
	Utxos(addr btcutil.Address, target btcutil.Amount) ([]*Utxo, error)

	// TipHeight returns the backend's current best block height.
	TipHeight() (int64, error)
}
