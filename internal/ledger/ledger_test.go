package ledger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForNetwork_WellKnown(t *testing.T) {
	for _, name := range []string{NetworkMainnet, NetworkTestnet, NetworkPreviewnet} {
		t.Run(name, func(t *testing.T) {
			client, err := ForNetwork(name)
			require.NoError(t, err)
			assert.Equal(t, name, client.Network())
			assert.NotEmpty(t, client.Nodes())
			assert.NotEmpty(t, client.MirrorEndpoint())
		})
	}
}

func TestForNetwork_Unsupported(t *testing.T) {
	_, err := ForNetwork("devnet-42")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedNetwork)

	// Localnet endpoints come from configuration, not the registry.
	_, err = ForNetwork(NetworkLocalnet)
	require.Error(t, err)
}

func TestForLocalNetwork(t *testing.T) {
	client, err := ForLocalNetwork("localnet", "127.0.0.1:50211", "0.0.3", "127.0.0.1:5600")
	require.NoError(t, err)
	assert.Equal(t, "localnet", client.Network())
	assert.Equal(t, map[string]string{"127.0.0.1:50211": "0.0.3"}, client.Nodes())
	assert.Equal(t, "127.0.0.1:5600", client.MirrorEndpoint())

	_, err = ForLocalNetwork("localnet", "", "0.0.3", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedNetwork)
}

func TestClient_OperatorBinding(t *testing.T) {
	client, err := ForNetwork(NetworkTestnet)
	require.NoError(t, err)

	assert.Empty(t, client.OperatorAccountID())
	assert.Empty(t, client.OperatorPublicKey())
	assert.Nil(t, client.OperatorSigner())

	signerErr := errors.New("not wired")
	client.SetOperator("0.0.50", "aabbcc", func(message []byte) ([]byte, error) {
		return nil, signerErr
	})
	assert.Equal(t, "0.0.50", client.OperatorAccountID())
	assert.Equal(t, "aabbcc", client.OperatorPublicKey())
	require.NotNil(t, client.OperatorSigner())
	_, err = client.OperatorSigner()([]byte("x"))
	assert.ErrorIs(t, err, signerErr)
}

func TestResultFromReceipt(t *testing.T) {
	tests := []struct {
		name    string
		receipt Receipt
		success bool
	}{
		{"success with account", Receipt{Status: StatusOK, AccountID: "0.0.1234"}, true},
		{"success with token", Receipt{Status: StatusOK, TokenID: "0.0.2002"}, true},
		{"success with topic", Receipt{Status: StatusOK, TopicID: "0.0.3003", TopicSequenceNumber: 12}, true},
		{"failed receipt", Receipt{Status: "INVALID_SIGNATURE"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ResultFromReceipt("0.0.50@1700000000.000000001", &tt.receipt)
			assert.Equal(t, tt.success, res.Success)
			assert.Equal(t, tt.receipt.Status, res.Status)
			assert.Equal(t, tt.receipt.AccountID, res.AccountID)
			assert.Equal(t, tt.receipt.TokenID, res.TokenID)
			assert.Equal(t, tt.receipt.TopicID, res.TopicID)
			assert.Equal(t, tt.receipt.TopicSequenceNumber, res.TopicSequenceNumber)
			assert.Equal(t, "0.0.50@1700000000.000000001", res.TransactionID)
		})
	}
}
