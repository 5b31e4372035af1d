package tx

import (
	"fmt"

	"github.com/btcsuite/btcd/txscript"

	"github.com/bitfsorg/libtxsign-go/signer"
	"github.com/bitfsorg/libtxsign-go/template"
)

// Key supplies the raw private scalar used to sign one input.
// wallet.KeyMaterial implements it.
type Key interface {
	// RawPrivateKey returns a copy of the 32-byte scalar. The copy is
	// cleared after use.
	RawPrivateKey() [signer.PrivateKeyLen]byte
}

// SignOption configures Sign.
type SignOption func(*signOptions)

type signOptions struct {
	grindR bool
}

func defaultSignOptions() signOptions {
	return signOptions{grindR: true}
}

// WithGrindR enables or disables low-R grinding. Grinding is on by default
// and keeps every DER signature at 71 bytes or less.
func WithGrindR(enabled bool) SignOption {
	return func(o *signOptions) {
		o.grindR = enabled
	}
}

// Sign signs every input in index order; keys[i] signs input i.
//
// A key count that differs from the input count returns ErrKeyCountMismatch
// and leaves every input as it was. A template whose sign-target script
// cannot be rendered or hashed returns ErrRender, also before anything is
// changed.
//
// Keys are assumed valid: a key that is not a legal secp256k1 scalar, or a
// template that fails to render its signed script, is a programming error
// and panics.
func (t *Transaction) Sign(keys []Key, opts ...SignOption) error {
	if t.IsReference() {
		return ErrReferenceOnly
	}
	if len(keys) != len(t.inputs) {
		return fmt.Errorf("%w: have %d keys for %d inputs",
			ErrKeyCountMismatch, len(keys), len(t.inputs))
	}

	options := defaultSignOptions()
	for _, opt := range opts {
		opt(&options)
	}

	targets := make([][]byte, len(t.inputs))
	for i := range t.inputs {
		target, err := t.inputs[i].render(template.SignTarget)
		if err != nil {
			return fmt.Errorf("input %d: %w", i, err)
		}
		if _, err := t.digest(i, target); err != nil {
			return err
		}
		targets[i] = target
	}

	for i := range t.inputs {
		t.signInput(i, targets[i], keys[i], options)
	}

	log.Debugf("Signed all %d inputs of %v", len(t.inputs), t)

	return nil
}

// signInput runs the signing steps for input i. The canonical form must see
// the final scripts of inputs 0..i-1 when this runs.
func (t *Transaction) signInput(i int, target []byte, key Key, options signOptions) {
	in := &t.inputs[i]

	t.setInputScript(i, target)
	digest, err := t.digest(i, target)
	if err != nil {
		panic(fmt.Sprintf("tx: %v", err))
	}

	priv := key.RawPrivateKey()
	defer clear(priv[:])
	if err := signer.ValidatePrivateKey(priv[:]); err != nil {
		panic(fmt.Sprintf("tx: input %d: %v", i, err))
	}

	sig := signer.Normalize(signer.Sign(priv, digest, options.grindR))
	in.signature = sig.DER()

	final, err := in.render(template.Signed)
	if err != nil {
		panic(fmt.Sprintf("tx: input %d: %v", i, err))
	}
	t.setInputScript(i, final)

	log.Tracef("Input %d signed: %d byte signature, %d byte unlocking script",
		i, len(in.signature), len(final))
}

// SignatureHash returns the legacy SIGHASH_ALL digest for input i, using the
// input's sign-target script. It does not modify the transaction.
func (t *Transaction) SignatureHash(i int) ([signer.DigestLen]byte, error) {
	if t.IsReference() {
		return [signer.DigestLen]byte{}, ErrReferenceOnly
	}
	if i < 0 || i >= len(t.inputs) {
		return [signer.DigestLen]byte{}, fmt.Errorf("%w: %d of %d",
			ErrInputIndex, i, len(t.inputs))
	}
	target, err := t.inputs[i].render(template.SignTarget)
	if err != nil {
		return [signer.DigestLen]byte{}, err
	}
	return t.digest(i, target)
}

// digest computes the legacy signature hash of input i with target as the
// substituted script.
func (t *Transaction) digest(i int, target []byte) ([signer.DigestLen]byte, error) {
	var out [signer.DigestLen]byte

	hash, err := txscript.CalcSignatureHash(target, txscript.SigHashAll, t.msgTx, i)
	if err != nil {
		return out, fmt.Errorf("%w: signature hash for input %d: %w", ErrRender, i, err)
	}
	if len(hash) != signer.DigestLen {
		panic(fmt.Sprintf("tx: signature hash for input %d has %d bytes", i, len(hash)))
	}

	copy(out[:], hash)
	return out, nil
}
