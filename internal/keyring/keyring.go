// Package keyring implements the key management service: key creation and
// import, signer handles, per-network operator resolution, client
// construction, and the sign-and-submit flow. Private key material never
// leaves the store except inside a signer handle's transient signing call.
package keyring

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/misiekp/hederactl/internal/ledger"
	"github.com/misiekp/hederactl/internal/store"
)

// NetworkConfig describes a custom network (the localnet variant) whose
// endpoints are read from configuration rather than the well-known registry.
type NetworkConfig struct {
	NodeEndpoint   string
	NodeAccountID  string
	MirrorEndpoint string
}

// CredentialSource is the optional capability of supplying operator
// credentials for a network. A provider either implements it or it does
// not; there is no runtime probing.
type CredentialSource interface {
	// OperatorCredentials returns the operator account id and private key
	// for a network. ok is false when the source has nothing for it.
	OperatorCredentials(network string) (accountID, privateKey string, ok bool)
}

// EnvCredentialSource reads operator credentials from network-scoped
// environment variables: <NETWORK>_OPERATOR_ID and <NETWORK>_OPERATOR_KEY,
// upper-cased.
type EnvCredentialSource struct{}

// OperatorCredentials implements CredentialSource.
func (EnvCredentialSource) OperatorCredentials(network string) (string, string, bool) {
	prefix := strings.ToUpper(network)
	accountID := os.Getenv(prefix + "_OPERATOR_ID")
	privateKey := os.Getenv(prefix + "_OPERATOR_KEY")
	if accountID == "" || privateKey == "" {
		return "", "", false
	}
	return accountID, privateKey, true
}

// Config holds keyring construction options.
type Config struct {
	// DefaultAlgorithm is used by CreateKey when no algorithm is given.
	// Defaults to ed25519.
	DefaultAlgorithm string
	// Networks holds custom network definitions keyed by network name.
	Networks map[string]NetworkConfig
	// Credentials supplies operator fallback credentials. Defaults to
	// EnvCredentialSource.
	Credentials CredentialSource
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Keyring is the key management service. It owns the in-memory mapping from
// keyRefId to signing behavior; the store owns all persisted bytes.
type Keyring struct {
	store            *store.Store
	defaultAlgorithm string
	networks         map[string]NetworkConfig
	creds            CredentialSource
	log              *slog.Logger
}

// New creates a keyring over the given store.
func New(st *store.Store, cfg Config) *Keyring {
	if cfg.DefaultAlgorithm == "" {
		cfg.DefaultAlgorithm = AlgorithmEd25519
	}
	if cfg.Credentials == nil {
		cfg.Credentials = EnvCredentialSource{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Keyring{
		store:            st,
		defaultAlgorithm: cfg.DefaultAlgorithm,
		networks:         cfg.Networks,
		creds:            cfg.Credentials,
		log:              cfg.Logger,
	}
}

// CreateKey generates a new key pair, persists both planes, and returns the
// public record. An empty algorithm selects the configured default.
func (k *Keyring) CreateKey(algorithm string, labels []string) (*store.KeyRecord, error) {
	if algorithm == "" {
		algorithm = k.defaultAlgorithm
	}
	key, err := generateKey(algorithm)
	if err != nil {
		return nil, err
	}
	rec, err := k.persist(key, labels)
	if err != nil {
		return nil, err
	}
	k.log.Info("key created",
		slog.String("key_ref", rec.KeyRefID),
		slog.String("algorithm", rec.Algorithm),
	)
	return rec, nil
}

// ImportKey parses the given private key material and persists it. Importing
// material whose public key is already stored returns the existing record
// unchanged, so keyRefIds stay stable under repeated imports. An empty
// algorithm runs the ordered parser list.
func (k *Keyring) ImportKey(material, algorithm string, labels []string) (*store.KeyRecord, error) {
	key, err := parsePrivateKey(material, algorithm)
	if err != nil {
		return nil, err
	}

	existing, err := k.FindByPublicKey(key.publicHex)
	if err != nil {
		return nil, err
	}
	if existing != "" {
		return k.store.Get(existing)
	}

	rec, err := k.persist(key, labels)
	if err != nil {
		return nil, err
	}
	k.log.Info("key imported",
		slog.String("key_ref", rec.KeyRefID),
		slog.String("algorithm", rec.Algorithm),
	)
	return rec, nil
}

// persist writes the secret plane first, then the public record, so the
// public plane never lists a key whose secret is missing. The secret entry
// is rolled back when the record write fails.
func (k *Keyring) persist(key *parsedKey, labels []string) (*store.KeyRecord, error) {
	now := time.Now().UTC()
	keyRefID := "kr_" + uuid.NewString()

	sec := &store.KeySecret{
		Algorithm:  key.algorithm,
		PrivateKey: key.privateHex,
		CreatedAt:  now,
	}
	if err := k.store.WriteSecret(keyRefID, sec); err != nil {
		return nil, err
	}

	rec := &store.KeyRecord{
		KeyRefID:  keyRefID,
		PublicKey: key.publicHex,
		Algorithm: key.algorithm,
		Labels:    labels,
		CreatedAt: now,
	}
	if err := k.store.Set(rec); err != nil {
		_ = k.store.RemoveSecret(keyRefID)
		return nil, err
	}
	return rec, nil
}

// PublicKey returns the canonical public key encoding for a keyRefId, or ""
// when no record exists.
func (k *Keyring) PublicKey(keyRefID string) (string, error) {
	rec, err := k.store.Get(keyRefID)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "", nil
	}
	return rec.PublicKey, nil
}

// SignerHandle returns a handle bound to the keyRefId and its algorithm.
// The handle re-reads the secret on every Sign and holds no private material
// between calls.
func (k *Keyring) SignerHandle(keyRefID string) (*SignerHandle, error) {
	rec, err := k.store.Get(keyRefID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKeyRef, keyRefID)
	}
	return &SignerHandle{
		keyRefID:  rec.KeyRefID,
		algorithm: rec.Algorithm,
		publicKey: rec.PublicKey,
		store:     k.store,
	}, nil
}

// FindByPublicKey scans public records for the given public key and returns
// the matching keyRefId, or "" when none matches. The input may carry a 0x
// prefix or a DER tag.
func (k *Keyring) FindByPublicKey(publicKey string) (string, error) {
	want := normalizePublicKey(publicKey)
	recs, err := k.store.List()
	if err != nil {
		return "", err
	}
	for _, rec := range recs {
		if rec.PublicKey == want {
			return rec.KeyRefID, nil
		}
	}
	return "", nil
}

// List returns all public key records. Secret material is structurally
// unreachable from this listing.
func (k *Keyring) List() ([]*store.KeyRecord, error) {
	return k.store.List()
}

// Remove deletes a key from both planes. Idempotent. Aliases referencing the
// keyRefId are not cascade-deleted.
func (k *Keyring) Remove(keyRefID string) error {
	if err := k.store.RemoveSecret(keyRefID); err != nil {
		return err
	}
	if err := k.store.Remove(keyRefID); err != nil {
		return err
	}
	k.log.Info("key removed", slog.String("key_ref", keyRefID))
	return nil
}

// SetOperator registers the default operator mapping for a network. The
// keyRefId must refer to a stored record.
func (k *Keyring) SetOperator(network string, m *store.OperatorMapping) error {
	rec, err := k.store.Get(m.KeyRefID)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("%w: %s", ErrUnknownKeyRef, m.KeyRefID)
	}
	return k.store.SetOperator(network, m)
}

// Operator returns the operator mapping for a network, or nil when none is
// configured.
func (k *Keyring) Operator(network string) (*store.OperatorMapping, error) {
	return k.store.Operator(network)
}

// EnsureOperatorFromEnv returns the stored operator mapping for a network,
// importing one from the credential source when none exists. The import is
// idempotent; the fallback never overwrites an existing mapping. Returns
// nil when neither a mapping nor credentials exist.
func (k *Keyring) EnsureOperatorFromEnv(network string) (*store.OperatorMapping, error) {
	existing, err := k.store.Operator(network)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	accountID, privateKey, ok := k.creds.OperatorCredentials(network)
	if !ok {
		return nil, nil
	}

	rec, err := k.ImportKey(privateKey, "", []string{"operator:" + network})
	if err != nil {
		return nil, fmt.Errorf("keyring: import operator key for %s: %w", network, err)
	}
	mapping := &store.OperatorMapping{AccountID: accountID, KeyRefID: rec.KeyRefID}
	if err := k.store.SetOperator(network, mapping); err != nil {
		return nil, err
	}
	k.log.Info("operator imported from environment",
		slog.String("network", network),
		slog.String("account_id", accountID),
		slog.String("key_ref", rec.KeyRefID),
	)
	return mapping, nil
}

// NewClient builds a client for the network with the operator bound. The
// operator's private key is validated inside this call and never returned;
// signing goes through a signer handle callback.
func (k *Keyring) NewClient(network string) (*ledger.Client, error) {
	mapping, err := k.EnsureOperatorFromEnv(network)
	if err != nil {
		return nil, err
	}
	if mapping == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoOperator, network)
	}

	rec, err := k.store.Get(mapping.KeyRefID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: operator %s", ErrUnknownKeyRef, mapping.KeyRefID)
	}
	sec, err := k.store.ReadSecret(mapping.KeyRefID)
	if err != nil {
		return nil, err
	}
	if sec == nil {
		return nil, fmt.Errorf("%w: operator %s", ErrMissingSecret, mapping.KeyRefID)
	}
	// Fail fast on unusable material; the parsed key does not escape.
	if _, err := parsePrivateKey(sec.PrivateKey, sec.Algorithm); err != nil {
		return nil, fmt.Errorf("keyring: operator secret for %s: %w", network, err)
	}

	client, err := k.clientFor(network)
	if err != nil {
		return nil, err
	}
	handle := &SignerHandle{
		keyRefID:  rec.KeyRefID,
		algorithm: rec.Algorithm,
		publicKey: rec.PublicKey,
		store:     k.store,
	}
	client.SetOperator(mapping.AccountID, rec.PublicKey, handle.Sign)
	return client, nil
}

// clientFor builds an unbound client: configured custom networks first,
// then the well-known registry.
func (k *Keyring) clientFor(network string) (*ledger.Client, error) {
	if cfg, ok := k.networks[network]; ok {
		return ledger.ForLocalNetwork(network, cfg.NodeEndpoint, cfg.NodeAccountID, cfg.MirrorEndpoint)
	}
	return ledger.ForNetwork(network)
}

// SignTransaction signs the transaction in place through the signer handle
// for keyRefID, via the transaction's own signing callback mechanism.
func (k *Keyring) SignTransaction(tx ledger.Transaction, keyRefID string) error {
	handle, err := k.SignerHandle(keyRefID)
	if err != nil {
		return err
	}
	return tx.SignWith(handle.PublicKey(), handle.Sign)
}
