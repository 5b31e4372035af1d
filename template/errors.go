package template

import "errors"

var (
	// ErrUnknownPhase indicates a phase outside WorstCase, SignTarget, Signed.
	ErrUnknownPhase = errors.New("template: unknown signing phase")

	// ErrMissingSignature indicates the Signed phase was rendered without a signature.
	ErrMissingSignature = errors.New("template: signature required for signed phase")

	// ErrInvalidPubKey indicates the public key is not a 33-byte compressed key.
	ErrInvalidPubKey = errors.New("template: public key must be 33 bytes compressed")

	// ErrInvalidPubKeyHash indicates the public key hash is not 20 bytes.
	ErrInvalidPubKeyHash = errors.New("template: public key hash must be 20 bytes")

	// ErrSignatureTooLong indicates the signature exceeds the DER maximum.
	ErrSignatureTooLong = errors.New("template: signature exceeds DER maximum length")

	// ErrScriptBuild indicates script construction failed.
	ErrScriptBuild = errors.New("template: script build failed")
)
