package template

import (
	"fmt"

	"github.com/bsv-blockchain/go-sdk/script"
)

// P2PK spends a bare pay-to-pubkey output.
type P2PK struct {
	lockScript []byte
}

var _ Template = (*P2PK)(nil)

// NewP2PK returns the template for spending an output locked by
// <pubKey> OP_CHECKSIG.
func NewP2PK(pubKey []byte) (*P2PK, error) {
	lockScript, err := LockP2PK(pubKey)
	if err != nil {
		return nil, err
	}
	return &P2PK{lockScript: lockScript}, nil
}

// Render implements Template.
//
//	WorstCase:  <73 zero bytes>
//	SignTarget: <pubKey> OP_CHECKSIG
//	Signed:     <signature || SIGHASH_ALL>
func (t *P2PK) Render(phase Phase, signature []byte) ([]byte, error) {
	if err := checkPhase(phase, signature); err != nil {
		return nil, err
	}

	var sig []byte
	switch phase {
	case SignTarget:
		return append([]byte(nil), t.lockScript...), nil
	case WorstCase:
		sig = worstCaseSignature()
	default:
		sig = withSigHash(signature)
	}

	s := &script.Script{}
	if err := s.AppendPushData(sig); err != nil {
		return nil, fmt.Errorf("%w: push signature: %w", ErrScriptBuild, err)
	}
	return []byte(*s), nil
}
