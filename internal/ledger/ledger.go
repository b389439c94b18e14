// Package ledger defines the boundary to the external ledger SDK: the
// transaction and response contracts the SDK's objects satisfy, the client
// a command executes against, and the normalized transaction result the
// rest of the toolkit consumes. The SDK itself (transaction building, wire
// encoding, broadcast) stays behind these interfaces.
package ledger

import (
	"context"
	"errors"
)

// ErrUnsupportedNetwork indicates a network name with no known endpoints
// and no local configuration.
var ErrUnsupportedNetwork = errors.New("ledger: unsupported network")

// TransactionSigner produces a signature over the frozen transaction bytes.
// Implementations must not retain the message.
type TransactionSigner func(message []byte) ([]byte, error)

// Transaction is the contract an SDK transaction object satisfies. Freezing
// fixes the byte representation signatures are computed over, so freeze
// strictly precedes sign, and sign strictly precedes execute.
type Transaction interface {
	// Frozen reports whether the transaction bytes are already fixed.
	Frozen() bool
	// FreezeWith fixes the transaction bytes against the given client.
	FreezeWith(client *Client) error
	// SignWith appends a signature produced by the signer callback for the
	// given public key. The private key never crosses this boundary.
	SignWith(publicKey string, signer TransactionSigner) error
	// Execute submits the transaction through the client.
	Execute(ctx context.Context, client *Client) (Response, error)
}

// Response is the SDK's handle to a submitted transaction.
type Response interface {
	TransactionID() string
	Receipt(ctx context.Context, client *Client) (*Receipt, error)
}

// Receipt carries the ledger's verdict on a submitted transaction. Entity
// identifiers are populated opportunistically; at most one kind is set per
// transaction type.
type Receipt struct {
	Status              string
	AccountID           string
	TokenID             string
	TopicID             string
	TopicSequenceNumber uint64
}

// StatusOK is the receipt status reported for a successful transaction.
const StatusOK = "SUCCESS"

// TransactionResult is the normalized outcome handed back to command
// handlers. A non-success status is not an error; callers must inspect
// Success explicitly.
type TransactionResult struct {
	TransactionID       string `json:"transactionId"`
	Success             bool   `json:"success"`
	Status              string `json:"status"`
	AccountID           string `json:"accountId,omitempty"`
	TokenID             string `json:"tokenId,omitempty"`
	TopicID             string `json:"topicId,omitempty"`
	TopicSequenceNumber uint64 `json:"topicSequenceNumber,omitempty"`
}

// ResultFromReceipt normalizes a receipt into a TransactionResult.
func ResultFromReceipt(transactionID string, r *Receipt) *TransactionResult {
	res := &TransactionResult{
		TransactionID: transactionID,
		Status:        r.Status,
		Success:       r.Status == StatusOK,
	}
	res.AccountID = r.AccountID
	res.TokenID = r.TokenID
	res.TopicID = r.TopicID
	res.TopicSequenceNumber = r.TopicSequenceNumber
	return res
}
