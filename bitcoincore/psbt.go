// Copyright (c) 2024-2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bitcoincore

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/psbt"

	"github.com/btcsuite/walletprovider"
)

// decodePsbtHex parses a hex-encoded PSBT into a packet.  The packet contents
// are otherwise treated as opaque; the adapter only ever looks at the input
// count.
func decodePsbtHex(psbtHex string) (*psbt.Packet, error) {
	raw, err := hex.DecodeString(psbtHex)
	if err != nil {
		return nil, fmt.Errorf("malformed psbt hex: %w", err)
	}
	packet, err := psbt.NewFromRawBytes(bytes.NewReader(raw), false)
	if err != nil {
		return nil, fmt.Errorf("malformed psbt: %w", err)
	}
	return packet, nil
}

// psbtBase64ToHex re-encodes a base64 PSBT, as Core's wallet RPCs speak it,
// into the hex encoding of the provider contract.
func psbtBase64ToHex(psbtB64 string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(psbtB64)
	if err != nil {
		return "", fmt.Errorf("malformed psbt base64: %w", err)
	}
	return hex.EncodeToString(raw), nil
}

// FinalizePsbt finalizes every input of a fully signed packet and extracts
// the raw transaction hex, ready for PushTx.  Packets whose inputs are not
// all signed fail with ErrSigning.
func FinalizePsbt(psbtHex string) (string, error) {
	packet, err := decodePsbtHex(psbtHex)
	if err != nil {
		return "", fmt.Errorf("%w: %v", walletprovider.ErrSigning, err)
	}

	if err := psbt.MaybeFinalizeAll(packet); err != nil {
		return "", fmt.Errorf("%w: finalizing: %v",
			walletprovider.ErrSigning, err)
	}
	finalTx, err := psbt.Extract(packet)
	if err != nil {
		return "", fmt.Errorf("%w: extracting: %v",
			walletprovider.ErrSigning, err)
	}

	var buf bytes.Buffer
	if err := finalTx.Serialize(&buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf.Bytes()), nil
}
