// Package resolver maps human-chosen aliases and typed reference strings to
// concrete entity and key records, scoped per network. It is the only
// sanctioned path from user-typed input to a keyRefId or entityId.
package resolver

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/misiekp/hederactl/internal/store"
)

// Sentinel errors.
var (
	ErrAliasExists      = errors.New("resolver: alias already registered for network")
	ErrInvalidAlias     = errors.New("resolver: alias record requires an alias and a network")
	ErrInvalidAliasType = errors.New("resolver: invalid alias type")
)

// Alias record types.
const (
	TypeAccount  = "account"
	TypeToken    = "token"
	TypeKey      = "key"
	TypeTopic    = "topic"
	TypeContract = "contract"
)

var validTypes = map[string]bool{
	TypeAccount:  true,
	TypeToken:    true,
	TypeKey:      true,
	TypeTopic:    true,
	TypeContract: true,
}

// RefKind classifies a reference string.
type RefKind string

// Recognized reference kinds. An unprefixed string defaults to an alias, so
// every command can accept a raw identifier, a typed reference, or a
// friendly name in the same input slot.
const (
	RefKindKeyRef    RefKind = "keyRef"
	RefKindPublicKey RefKind = "pub"
	RefKindAccount   RefKind = "acc"
	RefKindToken     RefKind = "token"
	RefKindAlias     RefKind = "alias"
)

// Ref is a classified reference string.
type Ref struct {
	Kind  RefKind
	Value string
}

// refPrefixes is checked in order; first match wins.
var refPrefixes = []struct {
	prefix string
	kind   RefKind
}{
	{"keyRef:", RefKindKeyRef},
	{"pub:", RefKindPublicKey},
	{"acc:", RefKindAccount},
	{"token:", RefKindToken},
	{"alias:", RefKindAlias},
}

// ParseRef classifies a reference string by its prefix. Unprefixed strings
// are alias-kind with the whole string as the value.
func ParseRef(ref string) Ref {
	for _, p := range refPrefixes {
		if strings.HasPrefix(ref, p.prefix) {
			return Ref{Kind: p.kind, Value: ref[len(p.prefix):]}
		}
	}
	return Ref{Kind: RefKindAlias, Value: ref}
}

// Resolver owns alias uniqueness enforcement over the store's alias
// namespace.
type Resolver struct {
	store *store.Store
	log   *slog.Logger
}

// New creates a resolver over the given store. A nil logger defaults to
// slog.Default().
func New(st *store.Store, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{store: st, log: log}
}

// Filter narrows List results. Zero fields match everything.
type Filter struct {
	Network string
	Type    string
}

// Register persists a new alias record. Registering a duplicate
// (network, alias) pair is an error, not an overwrite.
func (r *Resolver) Register(rec *store.AliasRecord) error {
	if rec == nil || rec.Alias == "" || rec.Network == "" {
		return ErrInvalidAlias
	}
	if !validTypes[rec.Type] {
		return fmt.Errorf("%w: %q", ErrInvalidAliasType, rec.Type)
	}

	existing, err := r.store.Alias(rec.Network, rec.Alias)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: %s on %s", ErrAliasExists, rec.Alias, rec.Network)
	}

	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = &now
	if err := r.store.SaveAlias(rec); err != nil {
		return err
	}
	r.log.Debug("alias registered",
		slog.String("alias", rec.Alias),
		slog.String("network", rec.Network),
		slog.String("type", rec.Type),
	)
	return nil
}

// Resolve looks up an alias-kind reference on the given network. Non-alias
// reference kinds are not this operation's concern and return nil. When
// expectedType is set and the stored type differs, nil is returned rather
// than a mismatched record. A record whose keyRefId no longer exists is
// returned as-is; staleness is the caller's concern.
func (r *Resolver) Resolve(ref, network, expectedType string) (*store.AliasRecord, error) {
	parsed := ParseRef(ref)
	if parsed.Kind != RefKindAlias {
		return nil, nil
	}
	rec, err := r.store.Alias(network, parsed.Value)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	if expectedType != "" && rec.Type != expectedType {
		return nil, nil
	}
	return rec, nil
}

// List returns all alias records matching the filter.
func (r *Resolver) List(filter Filter) ([]*store.AliasRecord, error) {
	recs, err := r.store.Aliases()
	if err != nil {
		return nil, err
	}
	out := recs[:0]
	for _, rec := range recs {
		if filter.Network != "" && rec.Network != filter.Network {
			continue
		}
		if filter.Type != "" && rec.Type != filter.Type {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// Remove deletes the (network, alias) entry. Removing an absent alias is
// not an error.
func (r *Resolver) Remove(alias, network string) error {
	if err := r.store.RemoveAlias(network, alias); err != nil {
		return err
	}
	r.log.Debug("alias removed",
		slog.String("alias", alias),
		slog.String("network", network),
	)
	return nil
}
