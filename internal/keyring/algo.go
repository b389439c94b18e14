package keyring

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// Supported signature algorithms. The algorithm for a keyRefId is fixed at
// creation or import time and stored in both planes.
const (
	AlgorithmEd25519 = "ed25519"
	AlgorithmECDSA   = "ecdsa-secp256k1"
)

// DER prefixes used by ledger tooling when exporting keys. Parsers strip
// them; this toolkit stores raw hex.
const (
	derPrefixEd25519Private = "302e020100300506032b657004220420"
	derPrefixEd25519Public  = "302a300506032b6570032100"
	derPrefixECDSAPrivate   = "3030020100300706052b8104000a04220420"
	derPrefixECDSAPublic    = "302d300706052b8104000a032200"
)

// parsedKey is normalized key material: the private key as raw hex (ed25519
// seed or secp256k1 scalar) and the canonical public key encoding (32-byte
// ed25519 hex or 33-byte compressed secp256k1 hex).
type parsedKey struct {
	algorithm  string
	privateHex string
	publicHex  string
}

// generateKey produces a fresh key pair for the given algorithm.
func generateKey(algorithm string) (*parsedKey, error) {
	switch algorithm {
	case AlgorithmEd25519:
		pub, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("keyring: generate ed25519 key: %w", err)
		}
		return &parsedKey{
			algorithm:  AlgorithmEd25519,
			privateHex: hex.EncodeToString(priv.Seed()),
			publicHex:  hex.EncodeToString(pub),
		}, nil
	case AlgorithmECDSA:
		priv, err := ethcrypto.GenerateKey()
		if err != nil {
			return nil, fmt.Errorf("keyring: generate secp256k1 key: %w", err)
		}
		return &parsedKey{
			algorithm:  AlgorithmECDSA,
			privateHex: hex.EncodeToString(ethcrypto.FromECDSA(priv)),
			publicHex:  hex.EncodeToString(ethcrypto.CompressPubkey(&priv.PublicKey)),
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, algorithm)
	}
}

// parsePrivateKey normalizes private key material. When algorithm is set the
// material is parsed for that algorithm only; otherwise a short, explicitly
// ordered list of parsers is tried and a typed UnsupportedKeyFormatError is
// returned when all fail.
func parsePrivateKey(material, algorithm string) (*parsedKey, error) {
	material = strings.TrimSpace(material)

	switch algorithm {
	case AlgorithmEd25519:
		return parseEd25519(material)
	case AlgorithmECDSA:
		return parseECDSA(material)
	case "":
		// Ordered: DER-tagged forms are unambiguous and go first; a
		// 0x prefix follows the EVM convention for secp256k1; bare hex
		// defaults to ed25519.
		tried := []string{"ed25519 DER", "ecdsa-secp256k1 DER", "0x-prefixed ecdsa-secp256k1", "raw ed25519 hex"}
		if rest, ok := stripHexPrefix(material, derPrefixEd25519Private); ok {
			return parseEd25519(rest)
		}
		if rest, ok := stripHexPrefix(material, derPrefixECDSAPrivate); ok {
			return parseECDSA(rest)
		}
		if strings.HasPrefix(material, "0x") {
			return parseECDSA(material)
		}
		if key, err := parseEd25519(material); err == nil {
			return key, nil
		}
		return nil, &UnsupportedKeyFormatError{Tried: tried}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, algorithm)
	}
}

// parseEd25519 accepts a DER-tagged key, a 32-byte seed, or a 64-byte
// seed||public concatenation, all hex encoded.
func parseEd25519(material string) (*parsedKey, error) {
	if rest, ok := stripHexPrefix(material, derPrefixEd25519Private); ok {
		material = rest
	}
	material = strings.TrimPrefix(material, "0x")

	raw, err := hex.DecodeString(material)
	if err != nil {
		return nil, &UnsupportedKeyFormatError{Tried: []string{"ed25519 hex"}}
	}
	var seed []byte
	switch len(raw) {
	case ed25519.SeedSize:
		seed = raw
	case ed25519.PrivateKeySize:
		seed = raw[:ed25519.SeedSize]
	default:
		return nil, &UnsupportedKeyFormatError{Tried: []string{"ed25519 hex"}}
	}

	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	return &parsedKey{
		algorithm:  AlgorithmEd25519,
		privateHex: hex.EncodeToString(seed),
		publicHex:  hex.EncodeToString(pub),
	}, nil
}

// parseECDSA accepts a DER-tagged key or a 32-byte scalar, hex encoded with
// an optional 0x prefix.
func parseECDSA(material string) (*parsedKey, error) {
	if rest, ok := stripHexPrefix(material, derPrefixECDSAPrivate); ok {
		material = rest
	}
	material = strings.TrimPrefix(material, "0x")

	raw, err := hex.DecodeString(material)
	if err != nil || len(raw) != 32 {
		return nil, &UnsupportedKeyFormatError{Tried: []string{"ecdsa-secp256k1 hex"}}
	}
	priv, err := ethcrypto.ToECDSA(raw)
	if err != nil {
		return nil, &UnsupportedKeyFormatError{Tried: []string{"ecdsa-secp256k1 hex"}}
	}
	return &parsedKey{
		algorithm:  AlgorithmECDSA,
		privateHex: hex.EncodeToString(ethcrypto.FromECDSA(priv)),
		publicHex:  hex.EncodeToString(ethcrypto.CompressPubkey(&priv.PublicKey)),
	}, nil
}

// signMessage signs message bytes with the given raw private key hex.
// ed25519 signs the message directly; secp256k1 signs the Keccak-256 digest
// and returns the 64-byte r||s form.
func signMessage(algorithm, privateHex string, message []byte) ([]byte, error) {
	switch algorithm {
	case AlgorithmEd25519:
		seed, err := hex.DecodeString(privateHex)
		if err != nil || len(seed) != ed25519.SeedSize {
			return nil, fmt.Errorf("%w: malformed ed25519 secret", ErrMissingSecret)
		}
		return ed25519.Sign(ed25519.NewKeyFromSeed(seed), message), nil
	case AlgorithmECDSA:
		raw, err := hex.DecodeString(privateHex)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed secp256k1 secret", ErrMissingSecret)
		}
		priv, err := ethcrypto.ToECDSA(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed secp256k1 secret", ErrMissingSecret)
		}
		digest := ethcrypto.Keccak256(message)
		sig, err := ethcrypto.Sign(digest, priv)
		if err != nil {
			return nil, fmt.Errorf("keyring: secp256k1 sign: %w", err)
		}
		// Drop the recovery byte; the ledger verifies r||s.
		return sig[:64], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, algorithm)
	}
}

// normalizePublicKey lowercases, strips a 0x prefix, and strips the known
// public key DER tags so lookups match the canonical stored encoding.
func normalizePublicKey(publicKey string) string {
	pk := strings.ToLower(strings.TrimSpace(publicKey))
	pk = strings.TrimPrefix(pk, "0x")
	if rest, ok := stripHexPrefix(pk, derPrefixEd25519Public); ok {
		return rest
	}
	if rest, ok := stripHexPrefix(pk, derPrefixECDSAPublic); ok {
		return rest
	}
	return pk
}

// stripHexPrefix removes a hex prefix case-insensitively.
func stripHexPrefix(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return strings.ToLower(s[len(prefix):]), true
	}
	return s, false
}
