// Copyright (c) 2013-2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package netparams

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"

	"github.com/btcsuite/walletprovider"
)

// Params is used to group parameters for various networks such as the main
// network and test networks.
type Params struct {
	*chaincfg.Params

	// Network is the provider-level identifier for this chain.
	Network walletprovider.Network

	// CoreChainName is the value Bitcoin Core reports in the "chain" field
	// of getblockchaininfo for this network.
	CoreChainName string

	// RPCServerPort is Bitcoin Core's default JSON-RPC port on this
	// network.
	RPCServerPort string
}

// MainNetParams contains parameters specific to running against a wallet on
// the main network (wire.MainNet).
var MainNetParams = Params{
	Params:        &chaincfg.MainNetParams,
	Network:       walletprovider.NetworkMainnet,
	CoreChainName: "main",
	RPCServerPort: "8332",
}

// TestNet3Params contains parameters specific to running against a wallet on
// the test network (version 3) (wire.TestNet3).
var TestNet3Params = Params{
	Params:        &chaincfg.TestNet3Params,
	Network:       walletprovider.NetworkTestnet,
	CoreChainName: "test",
	RPCServerPort: "18332",
}

// SigNetParams contains parameters specific to running against a wallet on
// the default signet (wire.SigNet).
var SigNetParams = Params{
	Params:        &chaincfg.SigNetParams,
	Network:       walletprovider.NetworkSignet,
	CoreChainName: "signet",
	RPCServerPort: "38332",
}

// RegressionNetParams contains parameters specific to running against a
// wallet on a local regression test network (wire.TestNet).
var RegressionNetParams = Params{
	Params:        &chaincfg.RegressionNetParams,
	Network:       walletprovider.NetworkRegtest,
	CoreChainName: "regtest",
	RPCServerPort: "18443",
}

// Get returns the parameter set for the given provider network.
func Get(net walletprovider.Network) (*Params, error) {
	switch net {
	case walletprovider.NetworkMainnet:
		return &MainNetParams, nil
	case walletprovider.NetworkTestnet:
		return &TestNet3Params, nil
	case walletprovider.NetworkSignet:
		return &SigNetParams, nil
	case walletprovider.NetworkRegtest:
		return &RegressionNetParams, nil
	}
	return nil, fmt.Errorf("unknown network %q", net)
}

// FromCoreChainName returns the parameter set matching a chain name as
// reported by Bitcoin Core's getblockchaininfo.
func FromCoreChainName(chain string) (*Params, error) {
	for _, params := range []*Params{
		&MainNetParams, &TestNet3Params, &SigNetParams,
		&RegressionNetParams,
	} {
		if params.CoreChainName == chain {
			return params, nil
		}
	}
	return nil, fmt.Errorf("unknown chain name %q", chain)
}
