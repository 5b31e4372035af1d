package wallet

import "errors"

var (
	// ErrInvalidMnemonic indicates the mnemonic fails BIP39 validation.
	ErrInvalidMnemonic = errors.New("wallet: invalid BIP39 mnemonic")

	// ErrInvalidEntropy indicates entropy bits is not 128 or 256.
	ErrInvalidEntropy = errors.New("wallet: entropy bits must be 128 or 256")

	// ErrInvalidSeed indicates the seed is not exactly SeedLen bytes.
	ErrInvalidSeed = errors.New("wallet: seed must be 64 bytes")

	// ErrUnusableSeed indicates the seed produced an invalid master key.
	// This is an expected, low-probability outcome: retry with new entropy.
	ErrUnusableSeed = errors.New("wallet: seed produced an unusable key, retry with new entropy")

	// ErrInvalidExtendedKey indicates an extended key string could not be parsed.
	ErrInvalidExtendedKey = errors.New("wallet: invalid extended key")

	// ErrNotPrivate indicates an extended key carries no private scalar.
	ErrNotPrivate = errors.New("wallet: extended key is not private")

	// ErrInvalidNetwork indicates an unknown network name.
	ErrInvalidNetwork = errors.New("wallet: invalid network name")
)
