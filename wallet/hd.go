package wallet

import (
	"fmt"

	bip32 "github.com/bsv-blockchain/go-sdk/compat/bip32"
	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
)

const (
	// SeedLen is the seed size accepted by NewKeyMaterial (BIP39 512-bit seed).
	SeedLen = 64

	// PrivateKeyLen is the size of a raw secp256k1 private scalar.
	PrivateKeyLen = 32

	// CompressedPubKeyLen is the size of a compressed secp256k1 public key.
	CompressedPubKeyLen = 33
)

// KeyMaterial holds a BIP32 master private key. It is immutable once built
// and is safe to share between transactions.
type KeyMaterial struct {
	extKey  *bip32.ExtendedKey
	privKey *ec.PrivateKey
	network *Network
}

// NewKeyMaterial derives the master extended private key from 64 bytes of
// seed entropy.
//
// The entropy may map to an invalid key (IL == 0 or IL >= n). In that case
// ErrUnusableSeed is returned and the caller should retry with fresh entropy.
// A nil network selects MainNet.
func NewKeyMaterial(seed []byte, network *Network) (*KeyMaterial, error) {
	if len(seed) != SeedLen {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidSeed, len(seed))
	}
	if network == nil {
		network = &MainNet
	}

	// The seed length has already been checked, so any error here is the
	// derivation rejecting the resulting key.
	extKey, err := bip32.NewMaster(seed, network.chainParams())
	if err != nil {
		log.Debugf("Master key derivation rejected seed: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrUnusableSeed, err)
	}

	km, err := fromExtendedKey(extKey, network)
	if err != nil {
		return nil, err
	}

	log.Debugf("Derived master key for %s", network.Name)

	return km, nil
}

// ParseKeyMaterial parses a serialized extended private key, as produced by
// KeyMaterial.String.
func ParseKeyMaterial(encoded string) (*KeyMaterial, error) {
	extKey, err := bip32.NewKeyFromString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidExtendedKey, err)
	}
	return fromExtendedKey(extKey, nil)
}

func fromExtendedKey(extKey *bip32.ExtendedKey, network *Network) (*KeyMaterial, error) {
	privKey, err := extKey.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotPrivate, err)
	}

	return &KeyMaterial{
		extKey:  extKey,
		privKey: privKey,
		network: network,
	}, nil
}

// String returns the base58check extended private key ("xprv..." on mainnet).
func (k *KeyMaterial) String() string {
	return k.extKey.String()
}

// Network returns the network the key was derived for, or nil if the key was
// parsed from a string.
func (k *KeyMaterial) Network() *Network {
	return k.network
}

// RawPrivateKey returns a copy of the 32-byte private scalar. The caller owns
// the copy and should clear it once signing is done.
func (k *KeyMaterial) RawPrivateKey() [PrivateKeyLen]byte {
	var raw [PrivateKeyLen]byte

	serialized := k.privKey.Serialize()
	copy(raw[PrivateKeyLen-len(serialized):], serialized)
	clear(serialized)

	return raw
}

// PublicKey returns the 33-byte compressed public key.
func (k *KeyMaterial) PublicKey() []byte {
	return k.privKey.PubKey().Compressed()
}
