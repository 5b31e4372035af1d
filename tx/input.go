package tx

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/bitfsorg/libtxsign-go/template"
)

// TxInput spends output Vout of a previous transaction. Its unlocking script
// is produced by a template as signing proceeds.
type TxInput struct {
	prevHash  chainhash.Hash
	vout      uint32
	sequence  uint32
	tmpl      template.Template
	signature []byte
}

// NewTxInput creates an input spending output vout of ref, unlocked by tmpl.
//
// ref must carry a resolved id: either a reference transaction built with
// FromID/FromHash or a fully signed transaction. The sequence is fixed at
// 0xffffffff and the unlocking script starts out empty, which is what the
// legacy signature hash expects for every input other than the one being
// signed.
func NewTxInput(ref *Transaction, vout uint32, tmpl template.Template) (*TxInput, error) {
	if tmpl == nil {
		return nil, fmt.Errorf("%w: template", ErrNilParam)
	}
	if ref == nil {
		return nil, fmt.Errorf("%w: nil transaction", ErrUnresolvedReference)
	}
	hash, err := ref.Hash()
	if err != nil {
		return nil, err
	}

	return &TxInput{
		prevHash: hash,
		vout:     vout,
		sequence: wire.MaxTxInSequenceNum,
		tmpl:     tmpl,
	}, nil
}

// PreviousHash returns the referenced transaction hash in natural (internal)
// byte order.
func (in *TxInput) PreviousHash() chainhash.Hash {
	return in.prevHash
}

// Vout returns the referenced output index.
func (in *TxInput) Vout() uint32 {
	return in.vout
}

// Sequence returns the input sequence number.
func (in *TxInput) Sequence() uint32 {
	return in.sequence
}

// Template returns the input's unlocking-script template.
func (in *TxInput) Template() template.Template {
	return in.tmpl
}

// Signed reports whether a signature has been stored on the input.
func (in *TxInput) Signed() bool {
	return len(in.signature) > 0
}

// Signature returns a copy of the stored DER signature, or nil.
func (in *TxInput) Signature() []byte {
	if !in.Signed() {
		return nil
	}
	return append([]byte(nil), in.signature...)
}

// Witness always returns nil: only legacy inputs are signed.
func (in *TxInput) Witness() wire.TxWitness {
	return nil
}

// render asks the template for the script of phase, passing the stored
// signature.
func (in *TxInput) render(phase template.Phase) ([]byte, error) {
	script, err := template.Render(in.tmpl, phase, in.signature)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRender, phase, err)
	}
	return script, nil
}

// clone returns a copy that shares no mutable state with in.
func (in *TxInput) clone() TxInput {
	c := *in
	c.signature = in.Signature()
	return c
}
