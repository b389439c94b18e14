package keyring

import (
	"crypto/ed25519"
	"encoding/hex"
	"strings"
	"testing"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKey_Ed25519(t *testing.T) {
	key, err := generateKey(AlgorithmEd25519)
	require.NoError(t, err)
	assert.Equal(t, AlgorithmEd25519, key.algorithm)
	assert.Len(t, key.privateHex, 64)
	assert.Len(t, key.publicHex, 64)
}

func TestGenerateKey_ECDSA(t *testing.T) {
	key, err := generateKey(AlgorithmECDSA)
	require.NoError(t, err)
	assert.Equal(t, AlgorithmECDSA, key.algorithm)
	assert.Len(t, key.privateHex, 64)
	// Compressed secp256k1 public key: 33 bytes.
	assert.Len(t, key.publicHex, 66)
}

func TestGenerateKey_UnknownAlgorithm(t *testing.T) {
	_, err := generateKey("rsa")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
}

func TestParsePrivateKey_Ed25519Forms(t *testing.T) {
	seed := strings.Repeat("ab", 32)
	priv := ed25519.NewKeyFromSeed(mustHex(t, seed))
	wantPub := hex.EncodeToString(priv.Public().(ed25519.PublicKey))

	tests := []struct {
		name     string
		material string
	}{
		{"raw seed", seed},
		{"seed and public concatenated", hex.EncodeToString(priv)},
		{"der tagged", derPrefixEd25519Private + seed},
		{"der tagged upper case", strings.ToUpper(derPrefixEd25519Private + seed)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := parsePrivateKey(tt.material, "")
			require.NoError(t, err)
			assert.Equal(t, AlgorithmEd25519, key.algorithm)
			assert.Equal(t, seed, key.privateHex)
			assert.Equal(t, wantPub, key.publicHex)
		})
	}
}

func TestParsePrivateKey_ECDSAForms(t *testing.T) {
	priv, err := ethcrypto.GenerateKey()
	require.NoError(t, err)
	scalar := hex.EncodeToString(ethcrypto.FromECDSA(priv))
	wantPub := hex.EncodeToString(ethcrypto.CompressPubkey(&priv.PublicKey))

	tests := []struct {
		name      string
		material  string
		algorithm string
	}{
		{"0x prefixed, detected", "0x" + scalar, ""},
		{"der tagged, detected", derPrefixECDSAPrivate + scalar, ""},
		{"raw hex with declared algorithm", scalar, AlgorithmECDSA},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := parsePrivateKey(tt.material, tt.algorithm)
			require.NoError(t, err)
			assert.Equal(t, AlgorithmECDSA, key.algorithm)
			assert.Equal(t, scalar, key.privateHex)
			assert.Equal(t, wantPub, key.publicHex)
		})
	}
}

func TestParsePrivateKey_BareHexDefaultsToEd25519(t *testing.T) {
	key, err := parsePrivateKey(strings.Repeat("cd", 32), "")
	require.NoError(t, err)
	assert.Equal(t, AlgorithmEd25519, key.algorithm)
}

func TestParsePrivateKey_UnsupportedFormat(t *testing.T) {
	_, err := parsePrivateKey("not hex at all", "")
	require.Error(t, err)

	var formatErr *UnsupportedKeyFormatError
	require.ErrorAs(t, err, &formatErr)
	assert.NotEmpty(t, formatErr.Tried)
}

func TestParsePrivateKey_UnknownAlgorithm(t *testing.T) {
	_, err := parsePrivateKey(strings.Repeat("ab", 32), "rsa")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
}

func TestSignMessage_Ed25519Verifies(t *testing.T) {
	key, err := generateKey(AlgorithmEd25519)
	require.NoError(t, err)

	msg := []byte("frozen transaction bytes")
	sig, err := signMessage(AlgorithmEd25519, key.privateHex, msg)
	require.NoError(t, err)

	pub := mustHex(t, key.publicHex)
	assert.True(t, ed25519.Verify(ed25519.PublicKey(pub), msg, sig))
}

func TestSignMessage_ECDSAVerifies(t *testing.T) {
	key, err := generateKey(AlgorithmECDSA)
	require.NoError(t, err)

	msg := []byte("frozen transaction bytes")
	sig, err := signMessage(AlgorithmECDSA, key.privateHex, msg)
	require.NoError(t, err)
	require.Len(t, sig, 64)

	digest := ethcrypto.Keccak256(msg)
	assert.True(t, ethcrypto.VerifySignature(mustHex(t, key.publicHex), digest, sig))
}

func TestNormalizePublicKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain hex", "AABBCC", "aabbcc"},
		{"0x prefix", "0xAABBCC", "aabbcc"},
		{"ed25519 der tag", derPrefixEd25519Public + strings.Repeat("ab", 32), strings.Repeat("ab", 32)},
		{"ecdsa der tag", derPrefixECDSAPublic + strings.Repeat("02", 33), strings.Repeat("02", 33)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizePublicKey(tt.input))
		})
	}
}

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}
