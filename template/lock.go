package template

import (
	"fmt"

	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"
	"github.com/bsv-blockchain/go-sdk/script"
	"github.com/bsv-blockchain/go-sdk/transaction/template/p2pkh"
)

// LockP2PKH builds the P2PKH locking script for a 20-byte public key hash:
//
//	OP_DUP OP_HASH160 <pubKeyHash> OP_EQUALVERIFY OP_CHECKSIG
func LockP2PKH(pubKeyHash []byte) ([]byte, error) {
	if len(pubKeyHash) != PubKeyHashLen {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidPubKeyHash, len(pubKeyHash))
	}
	addr, err := script.NewAddressFromPublicKeyHash(pubKeyHash, true)
	if err != nil {
		return nil, fmt.Errorf("%w: address from hash: %w", ErrScriptBuild, err)
	}
	lockScript, err := p2pkh.Lock(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: P2PKH lock: %w", ErrScriptBuild, err)
	}
	return []byte(*lockScript), nil
}

// LockP2PKHFromPubKey builds the P2PKH locking script paying to a compressed
// public key.
func LockP2PKHFromPubKey(pubKey []byte) ([]byte, error) {
	if err := validatePubKey(pubKey); err != nil {
		return nil, err
	}
	return LockP2PKH(bsvhash.Hash160(pubKey))
}

// LockP2PK builds the pay-to-pubkey locking script:
//
//	<pubKey> OP_CHECKSIG
func LockP2PK(pubKey []byte) ([]byte, error) {
	if err := validatePubKey(pubKey); err != nil {
		return nil, err
	}
	s := &script.Script{}
	if err := s.AppendPushData(pubKey); err != nil {
		return nil, fmt.Errorf("%w: push pubkey: %w", ErrScriptBuild, err)
	}
	if err := s.AppendOpcodes(script.OpCHECKSIG); err != nil {
		return nil, fmt.Errorf("%w: OP_CHECKSIG: %w", ErrScriptBuild, err)
	}
	return []byte(*s), nil
}
