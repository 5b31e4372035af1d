package template

import (
	"fmt"

	"github.com/bsv-blockchain/go-sdk/script"
)

// P2PKH spends a pay-to-pubkey-hash output.
type P2PKH struct {
	pubKey     []byte
	lockScript []byte
}

var _ Template = (*P2PKH)(nil)

// NewP2PKH returns the template for spending a P2PKH output locked to the
// HASH160 of pubKey.
func NewP2PKH(pubKey []byte) (*P2PKH, error) {
	lockScript, err := LockP2PKHFromPubKey(pubKey)
	if err != nil {
		return nil, err
	}
	return &P2PKH{
		pubKey:     append([]byte(nil), pubKey...),
		lockScript: lockScript,
	}, nil
}

// PubKey returns a copy of the compressed public key.
func (t *P2PKH) PubKey() []byte {
	return append([]byte(nil), t.pubKey...)
}

// LockingScript returns a copy of the spent output's locking script.
func (t *P2PKH) LockingScript() []byte {
	return append([]byte(nil), t.lockScript...)
}

// Render implements Template.
//
//	WorstCase:  <73 zero bytes> <pubKey>
//	SignTarget: OP_DUP OP_HASH160 <hash160(pubKey)> OP_EQUALVERIFY OP_CHECKSIG
//	Signed:     <signature || SIGHASH_ALL> <pubKey>
func (t *P2PKH) Render(phase Phase, signature []byte) ([]byte, error) {
	if err := checkPhase(phase, signature); err != nil {
		return nil, err
	}

	switch phase {
	case SignTarget:
		return t.LockingScript(), nil
	case WorstCase:
		return pushSigAndKey(worstCaseSignature(), t.pubKey)
	default:
		return pushSigAndKey(withSigHash(signature), t.pubKey)
	}
}

func pushSigAndKey(sig, pubKey []byte) ([]byte, error) {
	s := &script.Script{}
	if err := s.AppendPushData(sig); err != nil {
		return nil, fmt.Errorf("%w: push signature: %w", ErrScriptBuild, err)
	}
	if err := s.AppendPushData(pubKey); err != nil {
		return nil, fmt.Errorf("%w: push pubkey: %w", ErrScriptBuild, err)
	}
	return []byte(*s), nil
}
