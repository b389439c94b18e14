package keyring

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors - key references
var (
	ErrUnknownKeyRef        = errors.New("keyring: unknown key reference")
	ErrMissingSecret        = errors.New("keyring: no secret stored for key reference")
	ErrNoKeyRefForPublicKey = errors.New("keyring: no key reference for public key")
	ErrSignerRefRequired    = errors.New("keyring: signer reference requires a keyRefId or a publicKey")
)

// Sentinel errors - operators and algorithms
var (
	ErrNoOperator           = errors.New("keyring: no operator configured for network")
	ErrUnsupportedAlgorithm = errors.New("keyring: unsupported signature algorithm")
)

// UnsupportedKeyFormatError reports private key material that none of the
// ordered parsers recognized.
type UnsupportedKeyFormatError struct {
	Tried []string
}

// Error implements the error interface.
func (e *UnsupportedKeyFormatError) Error() string {
	return fmt.Sprintf("keyring: unsupported private key format (tried %s)", strings.Join(e.Tried, ", "))
}
