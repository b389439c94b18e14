package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.StorageDir)
	assert.Equal(t, "testnet", cfg.DefaultNetwork)
	assert.Equal(t, "ed25519", cfg.DefaultAlgorithm)

	localnet, ok := cfg.Networks["localnet"]
	require.True(t, ok)
	assert.Equal(t, "127.0.0.1:50211", localnet.NodeEndpoint)
	assert.Equal(t, "0.0.3", localnet.NodeAccountID)
	assert.Equal(t, "127.0.0.1:5600", localnet.MirrorEndpoint)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("HEDERACTL_DEFAULT_NETWORK", "mainnet")
	t.Setenv("HEDERACTL_STORAGE_DIR", "/tmp/hederactl-test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "mainnet", cfg.DefaultNetwork)
	assert.Equal(t, "/tmp/hederactl-test", cfg.StorageDir)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte(`
default_network: previewnet
networks:
  localnet:
    node_endpoint: 10.0.0.5:50211
    node_account_id: 0.0.3
    mirror_endpoint: 10.0.0.5:5600
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "previewnet", cfg.DefaultNetwork)
	assert.Equal(t, "10.0.0.5:50211", cfg.Networks["localnet"].NodeEndpoint)
}
