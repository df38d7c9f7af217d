// Copyright (c) 2024-2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bitcoincore

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/btcsuite/walletprovider"
)

// bip322Tag is the tagged-hash prefix BIP-322 commits messages under.
var bip322Tag = []byte("BIP0322-signed message")

// SignMessageBIP322 produces a BIP-322 "simple" signature over msg with the
// key behind the wallet's primary address.  The virtual to_spend/to_sign
// transaction pair is built locally, the node's wallet signs to_sign through
// walletprocesspsbt, and the finalized input witness is returned base64
// encoded.  Unlike PSBT signing, a partial signature is useless here, so an
// incomplete result is an error.
func (a *Adapter) SignMessageBIP322(msg []byte) (string, error) {
	addr, err := a.Address()
	if err != nil {
		return "", err
	}

	// Legacy P2PKH addresses keep the pre-BIP-322 signmessage scheme,
	// which BIP-322 verifiers accept as a legacy signature.
	if _, ok := addr.(*btcutil.AddressPubKeyHash); ok {
		sig, err := a.client.SignMessage(addr, string(msg))
		if err != nil {
			return "", fmt.Errorf("%w: %v",
				walletprovider.ErrSigning, err)
		}
		return sig, nil
	}

	pkScript, err := txscript.PayToAddrScript(addr)
	if err != nil {
		return "", fmt.Errorf("%w: %v", walletprovider.ErrSigning, err)
	}

	toSpend, err := bip322ToSpend(msg, pkScript)
	if err != nil {
		return "", fmt.Errorf("%w: %v", walletprovider.ErrSigning, err)
	}
	toSign, err := bip322ToSign(toSpend)
	if err != nil {
		return "", fmt.Errorf("%w: %v", walletprovider.ErrSigning, err)
	}

	packet, err := psbt.NewFromUnsignedTx(toSign)
	if err != nil {
		return "", fmt.Errorf("%w: %v", walletprovider.ErrSigning, err)
	}
	packet.Inputs[0].WitnessUtxo = toSpend.TxOut[0]
	packet.Inputs[0].SighashType = txscript.SigHashAll

	psbtB64, err := packet.B64Encode()
	if err != nil {
		return "", fmt.Errorf("%w: %v", walletprovider.ErrSigning, err)
	}

	var res processPsbtResult
	err = a.call(methodWalletProcessPsbt, anylist{psbtB64, true}, &res)
	if err != nil {
		return "", fmt.Errorf("%w: %v", walletprovider.ErrSigning, err)
	}
	if !res.Complete {
		return "", fmt.Errorf("%w: wallet could not fully sign "+
			"bip322 challenge for %v", walletprovider.ErrSigning,
			addr)
	}

	signed, err := psbt.NewFromRawBytes(strings.NewReader(res.Psbt), true)
	if err != nil {
		return "", fmt.Errorf("%w: %v", walletprovider.ErrSigning, err)
	}
	if err := psbt.MaybeFinalizeAll(signed); err != nil {
		return "", fmt.Errorf("%w: finalizing: %v",
			walletprovider.ErrSigning, err)
	}
	finalTx, err := psbt.Extract(signed)
	if err != nil {
		return "", fmt.Errorf("%w: extracting: %v",
			walletprovider.ErrSigning, err)
	}

	return encodeBip322Witness(finalTx.TxIn[0].Witness)
}

// bip322ToSpend builds the virtual transaction committing to the message: a
// single input spending the null outpoint with a scriptSig of
// OP_0 <tagged_hash(msg)>, and a single zero-value output paying the
// challenge script.
func bip322ToSpend(msg, pkScript []byte) (*wire.MsgTx, error) {
	msgHash := chainhash.TaggedHash(bip322Tag, msg)
	scriptSig, err := txscript.NewScriptBuilder().
		AddOp(txscript.OP_0).
		AddData(msgHash[:]).
		Script()
	if err != nil {
		return nil, err
	}

	tx := wire.NewMsgTx(0)
	tx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: wire.OutPoint{
			Index: wire.MaxPrevOutIndex,
		},
		SignatureScript: scriptSig,
		Sequence:        0,
	})
	tx.AddTxOut(wire.NewTxOut(0, pkScript))
	return tx, nil
}

// bip322ToSign builds the transaction the wallet actually signs: it spends
// to_spend's only output into an unspendable OP_RETURN.
func bip322ToSign(toSpend *wire.MsgTx) (*wire.MsgTx, error) {
	opReturn, err := txscript.NewScriptBuilder().
		AddOp(txscript.OP_RETURN).
		Script()
	if err != nil {
		return nil, err
	}

	tx := wire.NewMsgTx(0)
	tx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: wire.OutPoint{
			Hash:  toSpend.TxHash(),
			Index: 0,
		},
		Sequence: 0,
	})
	tx.AddTxOut(wire.NewTxOut(0, opReturn))
	return tx, nil
}

// encodeBip322Witness serializes a witness stack in the BIP-322 "simple"
// signature encoding: a compact-size item count followed by compact-size
// prefixed items, base64 encoded as a whole.
func encodeBip322Witness(witness wire.TxWitness) (string, error) {
	var buf bytes.Buffer
	if err := wire.WriteVarInt(&buf, 0, uint64(len(witness))); err != nil {
		return "", err
	}
	for _, item := range witness {
		if err := wire.WriteVarBytes(&buf, 0, item); err != nil {
			return "", err
		}
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
