// Package store provides namespaced local persistence for key material,
// operator mappings, and alias records. The public plane (key records) and
// the secret plane (private key material) live in separate documents so a
// listing or export of public records structurally cannot surface secrets.
package store

import "time"

// Document version written to every namespace file.
const DefaultStoreVersion = 1

// Namespace file names inside the storage directory.
const (
	keysFile      = "keys.json"
	secretsFile   = "keys-secrets.json"
	operatorsFile = "keys-default.json"
	aliasesFile   = "aliases.json"
)

// KeyRecord is the public half of a stored key pair. It never contains
// private material.
type KeyRecord struct {
	KeyRefID  string    `json:"keyRefId"`
	PublicKey string    `json:"publicKey"`
	Algorithm string    `json:"algorithm"`
	Labels    []string  `json:"labels,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// KeySecret is the private half of a stored key pair. It is addressed
// exclusively by keyRefId and lives only in the secret plane.
type KeySecret struct {
	Algorithm      string    `json:"algorithm"`
	PrivateKey     string    `json:"privateKey"`
	Mnemonic       string    `json:"mnemonic,omitempty"`
	DerivationPath string    `json:"derivationPath,omitempty"`
	ProviderHandle string    `json:"providerHandle,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// OperatorMapping binds a network's default payer account to a key reference.
type OperatorMapping struct {
	AccountID string `json:"accountId"`
	KeyRefID  string `json:"keyRefId"`
}

// AliasRecord maps a human-chosen name, scoped per network, to an entity id
// and/or key reference.
type AliasRecord struct {
	Alias     string            `json:"alias"`
	Type      string            `json:"type"`
	Network   string            `json:"network"`
	EntityID  string            `json:"entityId,omitempty"`
	PublicKey string            `json:"publicKey,omitempty"`
	KeyRefID  string            `json:"keyRefId,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt *time.Time        `json:"updatedAt,omitempty"`
}

// AliasKey returns the composite uniqueness key for an alias record.
func AliasKey(network, alias string) string {
	return network + "/" + alias
}

type keysDoc struct {
	Version int                   `json:"version"`
	Keys    map[string]*KeyRecord `json:"keys"`
}

type secretsDoc struct {
	Version int                   `json:"version"`
	Secrets map[string]*KeySecret `json:"secrets"`
}

type operatorsDoc struct {
	Version   int                         `json:"version"`
	Operators map[string]*OperatorMapping `json:"operators"`
}

type aliasesDoc struct {
	Version int                     `json:"version"`
	Aliases map[string]*AliasRecord `json:"aliases"`
}
