package keyring

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/filecoin-project/go-address"
	fcrypto "github.com/filecoin-project/go-crypto"
	"github.com/filecoin-project/go-state-types/crypto"
	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/crypto/blake2b"
)

var log = logging.Logger("keyring")

// NewKeyPair generates a fresh key-pair of the given type from a
// cryptographically secure random source.
func NewKeyPair(typ KeyType) (*KeyPair, error) {
	log.Infof("NewKeyPair: generating new key of type %s", typ)

	var privKey []byte
	var err error

	switch typ {
	case KTSecp256k1:
		privKey, err = fcrypto.GenerateKey()
		if err != nil {
			log.Errorf("NewKeyPair: failed to generate secp256k1 key: %v", err)
			return nil, fmt.Errorf("failed to generate secp256k1 key: %w", err)
		}

	case KTBLS:
		seed := make([]byte, 32)
		if _, err := io.ReadFull(rand.Reader, seed); err != nil {
			log.Errorf("NewKeyPair: failed to generate random seed: %v", err)
			return nil, fmt.Errorf("failed to generate random seed: %w", err)
		}
		privKey, err = BLSGeneratePrivateKeyWithSeed(seed)
		if err != nil {
			log.Errorf("NewKeyPair: failed to generate BLS key: %v", err)
			return nil, fmt.Errorf("failed to generate BLS key: %w", err)
		}

	default:
		log.Errorf("NewKeyPair: unsupported key type: %s", typ)
		return nil, fmt.Errorf("unsupported key type: %s", typ)
	}

	return KeyPairFromPrivate(typ, privKey)
}

// KeyPairFromPrivate derives the public half from existing private key
// material, validating it in the process.
func KeyPairFromPrivate(typ KeyType, privKey []byte) (*KeyPair, error) {
	log.Debugf("KeyPairFromPrivate: deriving public key for type %s", typ)

	var pubKey []byte
	var err error

	switch typ {
	case KTSecp256k1:
		pubKey, err = secpPublicKey(privKey)
	case KTBLS:
		pubKey, err = BLSPrivateKeyToPublicKey(privKey)
	default:
		return nil, fmt.Errorf("unsupported key type: %s", typ)
	}
	if err != nil {
		log.Errorf("KeyPairFromPrivate: failed to derive public key: %v", err)
		return nil, err
	}

	return &KeyPair{
		Type:       typ,
		PrivateKey: privKey,
		PublicKey:  pubKey,
	}, nil
}

// PublicKeyAddress derives the canonical address string used as a
// deposit public key identifier. Secp256k1 and BLS public keys map to
// f1 and f3 style addresses respectively.
func PublicKeyAddress(typ KeyType, pubKey []byte) (address.Address, error) {
	log.Debugf("PublicKeyAddress: deriving address for key type %s", typ)

	switch typ {
	case KTSecp256k1:
		addr, err := address.NewSecp256k1Address(pubKey)
		if err != nil {
			log.Errorf("PublicKeyAddress: failed to create secp256k1 address: %v", err)
			return address.Undef, err
		}
		return addr, nil

	case KTBLS:
		addr, err := address.NewBLSAddress(pubKey)
		if err != nil {
			log.Errorf("PublicKeyAddress: failed to create BLS address: %v", err)
			return address.Undef, err
		}
		return addr, nil

	default:
		log.Errorf("PublicKeyAddress: unsupported key type: %s", typ)
		return address.Undef, fmt.Errorf("unsupported key type: %s", typ)
	}
}

// SignBytes signs data with a private key of the given type.
// Secp256k1 signs a blake2b-256 digest, BLS signs the raw message.
func SignBytes(data []byte, privKey []byte, typ KeyType) (*crypto.Signature, error) {
	log.Debugf("SignBytes: signing %d bytes with key type %s", len(data), typ)

	sigType, err := sigTypeForKeyType(typ)
	if err != nil {
		return nil, err
	}

	var sigBytes []byte
	switch typ {
	case KTSecp256k1:
		digest := blake2b.Sum256(data)
		sigBytes, err = fcrypto.Sign(privKey, digest[:])
		if err != nil {
			log.Errorf("SignBytes: secp256k1 signing failed: %v", err)
			return nil, err
		}

	case KTBLS:
		sigBytes, err = BLSSign(privKey, data)
		if err != nil {
			log.Errorf("SignBytes: BLS signing failed: %v", err)
			return nil, err
		}

	default:
		return nil, fmt.Errorf("unsupported key type: %s", typ)
	}

	return &crypto.Signature{
		Type: sigType,
		Data: sigBytes,
	}, nil
}

func secpPublicKey(privKey []byte) (pubKey []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("secpPublicKey: panic during public key generation")
			err = fmt.Errorf("invalid secp256k1 private key")
		}
	}()
	pubKey = fcrypto.PublicKey(privKey)
	if len(pubKey) == 0 {
		log.Error("secpPublicKey: generated empty public key")
		return nil, fmt.Errorf("invalid secp256k1 private key")
	}
	return pubKey, nil
}
