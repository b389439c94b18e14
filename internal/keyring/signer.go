package keyring

import (
	"fmt"

	"github.com/misiekp/hederactl/internal/store"
)

// SignerHandle is the only object capable of reading a given secret. It
// exposes sign-only capability: the secret is re-read from the store on
// every Sign call and nothing is retained between calls, so a handle is
// safe to hand to arbitrary signing callbacks.
type SignerHandle struct {
	keyRefID  string
	algorithm string
	publicKey string
	store     *store.Store
}

// Sign produces a signature over message using the handle's algorithm.
func (h *SignerHandle) Sign(message []byte) ([]byte, error) {
	sec, err := h.store.ReadSecret(h.keyRefID)
	if err != nil {
		return nil, err
	}
	if sec == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingSecret, h.keyRefID)
	}
	return signMessage(h.algorithm, sec.PrivateKey, message)
}

// PublicKey returns the canonical public key encoding for the handle's key.
func (h *SignerHandle) PublicKey() string {
	return h.publicKey
}

// KeyRefID returns the key reference the handle is bound to.
func (h *SignerHandle) KeyRefID() string {
	return h.keyRefID
}

// Algorithm returns the signature algorithm fixed at creation/import time.
func (h *SignerHandle) Algorithm() string {
	return h.algorithm
}
