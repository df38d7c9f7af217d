// Copyright (c) 2024-2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bitcoincore

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/rpcclient"

	"github.com/btcsuite/walletprovider"
	"github.com/btcsuite/walletprovider/netparams"
)

// Config describes the connection to a Bitcoin Core wallet endpoint.  It is
// constructed once at adapter creation; there is no hot reload.
type Config struct {
	// WalletName selects the wallet file on the node.  When set, requests
	// are routed to the node's /wallet/<name> endpoint, which is required
	// on nodes with more than one wallet loaded.
	WalletName string

	// Host is the node's RPC hostname or IP, without port.
	Host string

	// Port is the node's RPC port.  Zero selects the network's default
	// Core port.
	Port int

	// User and Pass are the RPC credentials.
	User string
	Pass string

	// Net fixes the chain the adapter operates on.  Connect verifies the
	// node agrees.
	Net walletprovider.Network
}

// validate checks the descriptor for the fields the adapter cannot default.
func (cfg *Config) validate() error {
	if cfg.Host == "" {
		return errors.New("missing rpc host")
	}
	if cfg.User == "" || cfg.Pass == "" {
		return errors.New("missing rpc credentials")
	}
	if !cfg.Net.Valid() {
		return fmt.Errorf("unknown network %q", cfg.Net)
	}
	return nil
}

// rpcConnConfig assembles the rpcclient connection config for the descriptor.
// Core's wallet interface is plain HTTP POST, so websockets and TLS are
// disabled, matching how Core is deployed behind localhost or a reverse
// proxy.
func (cfg *Config) rpcConnConfig(params *netparams.Params) *rpcclient.ConnConfig {
	port := params.RPCServerPort
	if cfg.Port != 0 {
		port = fmt.Sprintf("%d", cfg.Port)
	}
	host := fmt.Sprintf("%s:%s", cfg.Host, port)
	if cfg.WalletName != "" {
		host += "/wallet/" + cfg.WalletName
	}

	return &rpcclient.ConnConfig{
		Host:                 host,
		User:                 cfg.User,
		Pass:                 cfg.Pass,
		DisableAutoReconnect: false,
		DisableConnectOnNew:  true,
		DisableTLS:           true,
		HTTPPostMode:         true,
	}
}
