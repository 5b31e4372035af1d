package signer

import "errors"

var (
	// ErrInvalidPrivateKey indicates the key is not a valid secp256k1 scalar.
	ErrInvalidPrivateKey = errors.New("signer: invalid secp256k1 private key")

	// ErrInvalidSignature indicates a DER signature failed to parse.
	ErrInvalidSignature = errors.New("signer: invalid DER signature")
)
