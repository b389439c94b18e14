package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "storage"))
	require.NoError(t, err)
	return st
}

func TestOpen_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "storage")

	st, err := Open(dir)
	require.NoError(t, err)
	require.NotNil(t, st)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, dir, st.Dir())
}

func TestOpen_RequiresDirectory(t *testing.T) {
	_, err := Open("")
	require.Error(t, err)
}

func TestKeyRecords_RoundTrip(t *testing.T) {
	st := newTestStore(t)

	rec := &KeyRecord{
		KeyRefID:  "kr_1",
		PublicKey: "aabbcc",
		Algorithm: "ed25519",
		Labels:    []string{"payroll"},
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, st.Set(rec))

	got, err := st.Get("kr_1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec.PublicKey, got.PublicKey)
	assert.Equal(t, rec.Algorithm, got.Algorithm)
	assert.Equal(t, rec.Labels, got.Labels)

	recs, err := st.List()
	require.NoError(t, err)
	require.Len(t, recs, 1)

	require.NoError(t, st.Remove("kr_1"))
	got, err = st.Get("kr_1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGet_AbsentReturnsNilNotError(t *testing.T) {
	st := newTestStore(t)

	rec, err := st.Get("kr_missing")
	require.NoError(t, err)
	assert.Nil(t, rec)

	sec, err := st.ReadSecret("kr_missing")
	require.NoError(t, err)
	assert.Nil(t, sec)

	op, err := st.Operator("testnet")
	require.NoError(t, err)
	assert.Nil(t, op)

	alias, err := st.Alias("testnet", "nobody")
	require.NoError(t, err)
	assert.Nil(t, alias)
}

func TestRemove_AbsentIsNoOp(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.Remove("kr_missing"))
	require.NoError(t, st.RemoveSecret("kr_missing"))
	require.NoError(t, st.RemoveAlias("testnet", "nobody"))
}

func TestSecrets_LiveInSeparateDocument(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.Set(&KeyRecord{KeyRefID: "kr_1", PublicKey: "aabbcc", Algorithm: "ed25519"}))
	require.NoError(t, st.WriteSecret("kr_1", &KeySecret{Algorithm: "ed25519", PrivateKey: "deadbeef"}))

	// The public plane document must not contain the private material.
	publicBytes, err := os.ReadFile(filepath.Join(st.Dir(), "keys.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(publicBytes), "deadbeef")
	assert.NotContains(t, string(publicBytes), "privateKey")

	secretBytes, err := os.ReadFile(filepath.Join(st.Dir(), "keys-secrets.json"))
	require.NoError(t, err)
	assert.Contains(t, string(secretBytes), "deadbeef")
}

func TestSecrets_RoundTrip(t *testing.T) {
	st := newTestStore(t)

	sec := &KeySecret{Algorithm: "ed25519", PrivateKey: "deadbeef", CreatedAt: time.Now().UTC()}
	require.NoError(t, st.WriteSecret("kr_1", sec))

	got, err := st.ReadSecret("kr_1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "deadbeef", got.PrivateKey)

	require.NoError(t, st.RemoveSecret("kr_1"))
	got, err = st.ReadSecret("kr_1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestOperators_PerNetwork(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.SetOperator("testnet", &OperatorMapping{AccountID: "0.0.50", KeyRefID: "kr_1"}))
	require.NoError(t, st.SetOperator("mainnet", &OperatorMapping{AccountID: "0.0.99", KeyRefID: "kr_2"}))

	op, err := st.Operator("testnet")
	require.NoError(t, err)
	require.NotNil(t, op)
	assert.Equal(t, "0.0.50", op.AccountID)

	op, err = st.Operator("mainnet")
	require.NoError(t, err)
	require.NotNil(t, op)
	assert.Equal(t, "kr_2", op.KeyRefID)
}

func TestAliases_ScopedPerNetwork(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.SaveAlias(&AliasRecord{Alias: "treasury", Network: "testnet", Type: "account", EntityID: "0.0.1001"}))
	require.NoError(t, st.SaveAlias(&AliasRecord{Alias: "treasury", Network: "mainnet", Type: "account", EntityID: "0.0.7"}))

	rec, err := st.Alias("testnet", "treasury")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "0.0.1001", rec.EntityID)

	all, err := st.Aliases()
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Ordered by (network, alias).
	assert.Equal(t, "mainnet", all[0].Network)

	require.NoError(t, st.RemoveAlias("testnet", "treasury"))
	rec, err = st.Alias("testnet", "treasury")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestStore_SequentialHandlesObserveWrites(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "storage")

	first, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set(&KeyRecord{KeyRefID: "kr_1", PublicKey: "aabbcc", Algorithm: "ed25519"}))

	// A second handle over the same directory re-reads from disk.
	second, err := Open(dir)
	require.NoError(t, err)
	rec, err := second.Get("kr_1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "aabbcc", rec.PublicKey)
}

func TestReadDoc_CorruptedDocument(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, os.WriteFile(filepath.Join(st.Dir(), "keys.json"), []byte("{not json"), 0600))

	_, err := st.List()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStoreCorrupted)
}

func TestWriteDoc_NoTempFileLeftBehind(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Set(&KeyRecord{KeyRefID: "kr_1", PublicKey: "aabbcc", Algorithm: "ed25519"}))

	entries, err := os.ReadDir(st.Dir())
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp")
	}
}
