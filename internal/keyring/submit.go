package keyring

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/misiekp/hederactl/internal/ledger"
)

// SignerRef points at the key that should sign a transaction: either an
// explicit keyRefId or a public key to be resolved against stored records.
// The zero value means "use the network's operator".
type SignerRef struct {
	KeyRefID  string
	PublicKey string
}

// IsZero reports whether neither field is set.
func (r SignerRef) IsZero() bool {
	return r.KeyRefID == "" && r.PublicKey == ""
}

// ResolveSignerRef turns a signer reference into a concrete keyRefId.
// A keyRefId is validated against stored records; a public key is resolved
// via FindByPublicKey. An empty reference is an error here - implicit
// operator selection is Submit's concern.
func (k *Keyring) ResolveSignerRef(ref SignerRef) (string, error) {
	switch {
	case ref.KeyRefID != "":
		rec, err := k.store.Get(ref.KeyRefID)
		if err != nil {
			return "", err
		}
		if rec == nil {
			return "", fmt.Errorf("%w: %s", ErrUnknownKeyRef, ref.KeyRefID)
		}
		return rec.KeyRefID, nil
	case ref.PublicKey != "":
		keyRefID, err := k.FindByPublicKey(ref.PublicKey)
		if err != nil {
			return "", err
		}
		if keyRefID == "" {
			return "", fmt.Errorf("%w: %s", ErrNoKeyRefForPublicKey, ref.PublicKey)
		}
		return keyRefID, nil
	default:
		return "", ErrSignerRefRequired
	}
}

// Submit drives a transaction through freeze, sign, and execute against the
// given network, and normalizes the receipt. The signer is resolved before
// any network work, so a bad reference leaves the transaction unfrozen and
// unsigned. Execution errors from the SDK propagate unchanged; a non-success
// receipt status is returned as a result with Success=false, not an error.
func (k *Keyring) Submit(ctx context.Context, network string, tx ledger.Transaction, ref SignerRef) (*ledger.TransactionResult, error) {
	var keyRefID string
	if ref.IsZero() {
		mapping, err := k.EnsureOperatorFromEnv(network)
		if err != nil {
			return nil, err
		}
		if mapping == nil {
			return nil, fmt.Errorf("%w: %s", ErrNoOperator, network)
		}
		keyRefID = mapping.KeyRefID
	} else {
		resolved, err := k.ResolveSignerRef(ref)
		if err != nil {
			return nil, err
		}
		keyRefID = resolved
	}

	client, err := k.NewClient(network)
	if err != nil {
		return nil, err
	}

	if !tx.Frozen() {
		if err := tx.FreezeWith(client); err != nil {
			return nil, fmt.Errorf("keyring: freeze transaction: %w", err)
		}
	}
	if err := k.SignTransaction(tx, keyRefID); err != nil {
		return nil, err
	}

	resp, err := tx.Execute(ctx, client)
	if err != nil {
		return nil, err
	}
	receipt, err := resp.Receipt(ctx, client)
	if err != nil {
		return nil, err
	}

	result := ledger.ResultFromReceipt(resp.TransactionID(), receipt)
	k.log.Debug("transaction submitted",
		slog.String("network", network),
		slog.String("transaction_id", result.TransactionID),
		slog.String("status", result.Status),
		slog.Bool("success", result.Success),
	)
	return result, nil
}
