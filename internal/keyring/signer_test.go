package keyring

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignerHandle_Accessors(t *testing.T) {
	k := newTestKeyring(t, Config{})

	rec, err := k.CreateKey(AlgorithmEd25519, nil)
	require.NoError(t, err)

	handle, err := k.SignerHandle(rec.KeyRefID)
	require.NoError(t, err)
	assert.Equal(t, rec.KeyRefID, handle.KeyRefID())
	assert.Equal(t, rec.PublicKey, handle.PublicKey())
	assert.Equal(t, AlgorithmEd25519, handle.Algorithm())
}

func TestSignerHandle_UnknownKeyRef(t *testing.T) {
	k := newTestKeyring(t, Config{})

	_, err := k.SignerHandle("kr_doesnotexist")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownKeyRef)
}

func TestSignerHandle_RereadsSecretOnEverySign(t *testing.T) {
	k := newTestKeyring(t, Config{})

	rec, err := k.CreateKey(AlgorithmEd25519, nil)
	require.NoError(t, err)
	handle, err := k.SignerHandle(rec.KeyRefID)
	require.NoError(t, err)

	msg := []byte("payload")
	sig, err := handle.Sign(msg)
	require.NoError(t, err)
	assert.True(t, ed25519.Verify(ed25519.PublicKey(mustHex(t, rec.PublicKey)), msg, sig))

	// Removing the secret breaks an existing handle: nothing was cached.
	require.NoError(t, k.store.RemoveSecret(rec.KeyRefID))
	_, err = handle.Sign(msg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestSignTransaction_DelegatesToHandle(t *testing.T) {
	k := newTestKeyring(t, Config{})

	rec, err := k.CreateKey(AlgorithmEd25519, nil)
	require.NoError(t, err)

	tx := newFakeTransaction()
	tx.frozen = true
	require.NoError(t, k.SignTransaction(tx, rec.KeyRefID))

	sig, ok := tx.signatures[rec.PublicKey]
	require.True(t, ok)
	assert.True(t, ed25519.Verify(ed25519.PublicKey(mustHex(t, rec.PublicKey)), tx.bodyBytes, sig))
}

func TestSignTransaction_UnknownKeyRef(t *testing.T) {
	k := newTestKeyring(t, Config{})

	tx := newFakeTransaction()
	err := k.SignTransaction(tx, "kr_doesnotexist")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownKeyRef)
	assert.Empty(t, tx.signatures)
}
