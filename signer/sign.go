// Package signer implements the secp256k1 ECDSA operations needed to sign a
// transaction input: private key validation, deterministic signing with
// low-R grinding, low-S normalization and DER encoding.
package signer

import (
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

const (
	// PrivateKeyLen is the size of a raw private scalar.
	PrivateKeyLen = 32

	// DigestLen is the size of the message digest being signed.
	DigestLen = 32

	// CompactLen is the size of a compact r || s signature.
	CompactLen = 64
)

// Signature is an ECDSA signature (r, s) over secp256k1.
type Signature struct {
	r secp256k1.ModNScalar
	s secp256k1.ModNScalar
}

// ValidatePrivateKey reports whether priv is a legal secp256k1 scalar,
// 0 < d < n.
func ValidatePrivateKey(priv []byte) error {
	if len(priv) != PrivateKeyLen {
		return fmt.Errorf("%w: got %d bytes", ErrInvalidPrivateKey, len(priv))
	}

	var d secp256k1.ModNScalar
	defer d.Zero()

	if overflow := d.SetByteSlice(priv); overflow || d.IsZero() {
		return ErrInvalidPrivateKey
	}
	return nil
}

// Sign produces a deterministic RFC 6979 signature of digest.
//
// With grindR set, signing is repeated with an incrementing 32-byte
// little-endian counter as extra nonce data until R fits in 32 DER bytes
// (top bit clear), which keeps the signature at 71 bytes or less. The
// returned signature is not yet normalized; see Normalize.
//
// Sign panics if privKey is not a valid scalar. Callers validate keys with
// ValidatePrivateKey beforehand.
func Sign(privKey [PrivateKeyLen]byte, digest [DigestLen]byte, grindR bool) Signature {
	defer clear(privKey[:])

	var d secp256k1.ModNScalar
	defer d.Zero()
	if overflow := d.SetBytes(&privKey); overflow != 0 || d.IsZero() {
		panic("signer: sign called with invalid private key")
	}

	var e secp256k1.ModNScalar
	e.SetBytes(&digest)

	var extra [32]byte
	defer clear(extra[:])

	for counter := uint32(0); ; counter++ {
		var extraData []byte
		if counter > 0 {
			binary.LittleEndian.PutUint32(extra[:4], counter)
			extraData = extra[:]
		}

		k := secp256k1.NonceRFC6979(privKey[:], digest[:], extraData, nil, 0)
		sig, ok := signWithNonce(&d, &e, k)
		k.Zero()

		if !ok {
			continue
		}
		if !grindR || sig.IsLowR() {
			return sig
		}
	}
}

// signWithNonce computes r = (kG).x mod n and s = k^-1 (e + r*d) mod n.
// It reports false when r or s is zero and a new nonce is required.
func signWithNonce(d, e, k *secp256k1.ModNScalar) (Signature, bool) {
	var kG secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(k, &kG)
	kG.ToAffine()
	kG.X.Normalize()

	var sig Signature
	sig.r.SetBytes(kG.X.Bytes())
	if sig.r.IsZero() {
		return Signature{}, false
	}

	var kInv secp256k1.ModNScalar
	kInv.InverseValNonConst(k)
	defer kInv.Zero()

	sig.s.Mul2(d, &sig.r).Add(e).Mul(&kInv)
	if sig.s.IsZero() {
		return Signature{}, false
	}
	return sig, true
}

// Normalize returns sig in low-S form (s <= n/2), the only form accepted by
// standard relay policy.
func Normalize(sig Signature) Signature {
	if sig.s.IsOverHalfOrder() {
		sig.s.Negate()
	}
	return sig
}

// IsLowS reports whether s <= n/2.
func (sig Signature) IsLowS() bool {
	return !sig.s.IsOverHalfOrder()
}

// IsLowR reports whether r has its top bit clear, so its DER integer needs no
// padding byte.
func (sig Signature) IsLowR() bool {
	r := sig.r.Bytes()
	return r[0] < 0x80
}

// Compact returns the 64-byte r || s encoding.
func (sig Signature) Compact() [CompactLen]byte {
	var out [CompactLen]byte
	r, s := sig.r.Bytes(), sig.s.Bytes()
	copy(out[:32], r[:])
	copy(out[32:], s[:])
	return out
}

// DER returns the strict DER encoding of sig, without a sighash byte.
func (sig Signature) DER() []byte {
	return ecdsa.NewSignature(&sig.r, &sig.s).Serialize()
}

// Verify reports whether der is a valid strict-DER signature of digest by the
// serialized public key pubKey.
func Verify(pubKey []byte, digest [DigestLen]byte, der []byte) bool {
	pub, err := btcec.ParsePubKey(pubKey)
	if err != nil {
		return false
	}
	sig, err := btcecdsa.ParseDERSignature(der)
	if err != nil {
		return false
	}
	return sig.Verify(digest[:], pub)
}

// ParseDER parses a strict DER signature.
func ParseDER(der []byte) (Signature, error) {
	parsed, err := btcecdsa.ParseDERSignature(der)
	if err != nil {
		return Signature{}, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	return Signature{r: parsed.R(), s: parsed.S()}, nil
}
