// Copyright (c) 2024-2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package walletprovider

import "errors"

var (
	// ErrConnect is returned when the wallet backend is unreachable,
	// rejects the supplied credentials, or serves the wrong network.
	ErrConnect = errors.New("wallet backend connection failed")

	// ErrSigning is returned when a PSBT or message cannot be signed,
	// either because the packet is malformed or because the backend
	// refused the request outright.
	ErrSigning = errors.New("signing failed")

	// ErrBroadcast is returned when the backend relays a transaction and
	// the network rejects it, e.g. for a policy violation or missing
	// inputs.
	ErrBroadcast = errors.New("transaction broadcast rejected")

	// ErrNotFound is returned when an address or key lookup misses.
	ErrNotFound = errors.New("not found")

	// ErrEstimation is returned when fee or chain-state estimation is
	// unavailable, typically because the backend lacks chain data.
	ErrEstimation = errors.New("estimation unavailable")

	// ErrInsufficientFunds is returned by Utxos when the full unspent set
	// of an address cannot cover a requested target amount.  It is
	// distinct from an RPC failure, which propagates as its own error.
	ErrInsufficientFunds = errors.New("insufficient funds")
)
