// Package template renders unlocking scripts for each phase of signing.
//
// A transaction input carries a Template describing how its unlocking script
// is built. The signing pipeline asks the template for bytes at three points:
//
//	WorstCase   largest plausible unlocking script, for fee estimation
//	SignTarget  script substituted into the legacy signature hash for the
//	            input being signed (the spent output's locking script)
//	Signed      final unlocking script embedding the DER signature
//
// Rendering is a pure function of (template, phase, signature).
package template

import "fmt"

const (
	// MaxDERSignatureLen is the largest DER-encoded secp256k1 signature,
	// excluding the sighash byte.
	MaxDERSignatureLen = 72

	// SigHashAll is the only supported signature hash type.
	SigHashAll byte = 0x01

	// CompressedPubKeyLen is the length of a compressed public key.
	CompressedPubKeyLen = 33

	// PubKeyHashLen is the length of a HASH160 digest.
	PubKeyHashLen = 20
)

// Phase identifies which rendering of an unlocking script is wanted.
type Phase int

const (
	// WorstCase is the maximum-size placeholder used for fee estimation.
	WorstCase Phase = iota
	// SignTarget is the script committed to by the signature hash.
	SignTarget
	// Signed is the final unlocking script.
	Signed
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case WorstCase:
		return "worst-case"
	case SignTarget:
		return "sign-target"
	case Signed:
		return "signed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Template produces unlocking-script bytes for a signing phase. The
// signature argument is the DER signature without sighash byte; it is only
// consulted in the Signed phase.
type Template interface {
	Render(phase Phase, signature []byte) ([]byte, error)
}

// Render checks the phase preconditions shared by all templates and then
// delegates to t. Use it when t may be a caller-supplied implementation.
func Render(t Template, phase Phase, signature []byte) ([]byte, error) {
	if err := checkPhase(phase, signature); err != nil {
		return nil, err
	}
	return t.Render(phase, signature)
}

func checkPhase(phase Phase, signature []byte) error {
	switch phase {
	case WorstCase, SignTarget:
		return nil
	case Signed:
		if len(signature) == 0 {
			return ErrMissingSignature
		}
		if len(signature) > MaxDERSignatureLen {
			return fmt.Errorf("%w: %d bytes", ErrSignatureTooLong, len(signature))
		}
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownPhase, phase)
	}
}

// worstCaseSignature is a zero-filled stand-in for DER signature + sighash byte.
func worstCaseSignature() []byte {
	return make([]byte, MaxDERSignatureLen+1)
}

// withSigHash returns signature || SIGHASH_ALL without aliasing signature.
func withSigHash(signature []byte) []byte {
	out := make([]byte, 0, len(signature)+1)
	out = append(out, signature...)
	return append(out, SigHashAll)
}

func validatePubKey(pubKey []byte) error {
	if len(pubKey) != CompressedPubKeyLen || (pubKey[0] != 0x02 && pubKey[0] != 0x03) {
		return fmt.Errorf("%w: got %d bytes", ErrInvalidPubKey, len(pubKey))
	}
	return nil
}
