package ledger

import "fmt"

// Well-known public network names.
const (
	NetworkMainnet    = "mainnet"
	NetworkTestnet    = "testnet"
	NetworkPreviewnet = "previewnet"
	NetworkLocalnet   = "localnet"
)

// publicNetworks maps well-known network names to consensus node endpoints
// (endpoint -> node account id) and the mirror endpoint. Localnet is not
// listed here; its endpoints come from configuration.
var publicNetworks = map[string]struct {
	nodes  map[string]string
	mirror string
}{
	NetworkMainnet: {
		nodes: map[string]string{
			"35.237.200.180:50211": "0.0.3",
			"35.186.191.247:50211": "0.0.4",
			"35.192.2.25:50211":    "0.0.5",
		},
		mirror: "mainnet-public.mirrornode.hedera.com:443",
	},
	NetworkTestnet: {
		nodes: map[string]string{
			"0.testnet.hedera.com:50211": "0.0.3",
			"1.testnet.hedera.com:50211": "0.0.4",
			"2.testnet.hedera.com:50211": "0.0.5",
		},
		mirror: "testnet.mirrornode.hedera.com:443",
	},
	NetworkPreviewnet: {
		nodes: map[string]string{
			"0.previewnet.hedera.com:50211": "0.0.3",
			"1.previewnet.hedera.com:50211": "0.0.4",
		},
		mirror: "previewnet.mirrornode.hedera.com:443",
	},
}

// Client carries the network topology and operator binding a command
// executes against. Construction is cheap; any network handshake is the
// SDK's concern and happens on first use.
type Client struct {
	network  string
	nodes    map[string]string
	mirror   string
	operator *operatorBinding
}

type operatorBinding struct {
	accountID string
	publicKey string
	signer    TransactionSigner
}

// ForNetwork builds a client for a well-known public network.
func ForNetwork(name string) (*Client, error) {
	net, ok := publicNetworks[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedNetwork, name)
	}
	nodes := make(map[string]string, len(net.nodes))
	for endpoint, account := range net.nodes {
		nodes[endpoint] = account
	}
	return &Client{network: name, nodes: nodes, mirror: net.mirror}, nil
}

// ForLocalNetwork builds a client for a local/custom network from explicit
// endpoints rather than the well-known registry.
func ForLocalNetwork(name, nodeEndpoint, nodeAccountID, mirrorEndpoint string) (*Client, error) {
	if nodeEndpoint == "" || nodeAccountID == "" {
		return nil, fmt.Errorf("%w: %s: node endpoint and node account id are required", ErrUnsupportedNetwork, name)
	}
	return &Client{
		network: name,
		nodes:   map[string]string{nodeEndpoint: nodeAccountID},
		mirror:  mirrorEndpoint,
	}, nil
}

// Network returns the network name the client targets.
func (c *Client) Network() string {
	return c.network
}

// Nodes returns the consensus node endpoints (endpoint -> node account id).
func (c *Client) Nodes() map[string]string {
	return c.nodes
}

// MirrorEndpoint returns the mirror node endpoint, if any.
func (c *Client) MirrorEndpoint() string {
	return c.mirror
}

// SetOperator binds the default payer. The signer callback produces
// signatures on demand; no private material is stored on the client.
func (c *Client) SetOperator(accountID, publicKey string, signer TransactionSigner) {
	c.operator = &operatorBinding{accountID: accountID, publicKey: publicKey, signer: signer}
}

// OperatorAccountID returns the bound operator account id, or "" when no
// operator is set.
func (c *Client) OperatorAccountID() string {
	if c.operator == nil {
		return ""
	}
	return c.operator.accountID
}

// OperatorPublicKey returns the bound operator public key, or "".
func (c *Client) OperatorPublicKey() string {
	if c.operator == nil {
		return ""
	}
	return c.operator.publicKey
}

// OperatorSigner returns the bound signing callback, or nil.
func (c *Client) OperatorSigner() TransactionSigner {
	if c.operator == nil {
		return nil
	}
	return c.operator.signer
}
