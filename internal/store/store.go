package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/gofrs/flock"
)

// Sentinel errors.
var (
	ErrStorePersist   = errors.New("store: failed to persist")
	ErrStoreCorrupted = errors.New("store: corrupted document")
)

// Store owns the persisted bytes for all namespaces. Every operation
// re-reads the relevant document from disk, so two sequential commands
// against the same directory always observe each other's writes. Cross
// process read-modify-write races are fenced with an advisory file lock.
type Store struct {
	mu   sync.Mutex
	dir  string
	lock *flock.Flock
}

// Open creates or opens a store rooted at dir. The directory is created
// with 0700 permissions if it does not exist.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("store: directory is required")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("store: create directory: %w", err)
	}
	return &Store{
		dir:  dir,
		lock: flock.New(filepath.Join(dir, ".lock")),
	}, nil
}

// Dir returns the storage directory.
func (s *Store) Dir() string {
	return s.dir
}

// Get retrieves a public key record. Absent records return (nil, nil).
func (s *Store) Get(keyRefID string) (*KeyRecord, error) {
	var rec *KeyRecord
	err := s.view(func() error {
		doc, err := s.loadKeys()
		if err != nil {
			return err
		}
		rec = doc.Keys[keyRefID]
		return nil
	})
	return rec, err
}

// Set persists a public key record.
func (s *Store) Set(rec *KeyRecord) error {
	if rec == nil || rec.KeyRefID == "" {
		return errors.New("store: key record requires a keyRefId")
	}
	return s.update(func() error {
		doc, err := s.loadKeys()
		if err != nil {
			return err
		}
		doc.Keys[rec.KeyRefID] = rec
		return s.writeDoc(keysFile, doc)
	})
}

// Remove deletes a public key record. Removing an absent record is a no-op.
func (s *Store) Remove(keyRefID string) error {
	return s.update(func() error {
		doc, err := s.loadKeys()
		if err != nil {
			return err
		}
		if _, ok := doc.Keys[keyRefID]; !ok {
			return nil
		}
		delete(doc.Keys, keyRefID)
		return s.writeDoc(keysFile, doc)
	})
}

// List returns all public key records ordered by keyRefId.
func (s *Store) List() ([]*KeyRecord, error) {
	var out []*KeyRecord
	err := s.view(func() error {
		doc, err := s.loadKeys()
		if err != nil {
			return err
		}
		out = make([]*KeyRecord, 0, len(doc.Keys))
		for _, rec := range doc.Keys {
			out = append(out, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].KeyRefID < out[j].KeyRefID })
	return out, nil
}

// WriteSecret persists private key material in the secret plane.
func (s *Store) WriteSecret(keyRefID string, sec *KeySecret) error {
	if keyRefID == "" || sec == nil {
		return errors.New("store: secret requires a keyRefId")
	}
	return s.update(func() error {
		doc, err := s.loadSecrets()
		if err != nil {
			return err
		}
		doc.Secrets[keyRefID] = sec
		return s.writeDoc(secretsFile, doc)
	})
}

// ReadSecret retrieves private key material. Absent secrets return (nil, nil).
func (s *Store) ReadSecret(keyRefID string) (*KeySecret, error) {
	var sec *KeySecret
	err := s.view(func() error {
		doc, err := s.loadSecrets()
		if err != nil {
			return err
		}
		sec = doc.Secrets[keyRefID]
		return nil
	})
	return sec, err
}

// RemoveSecret deletes private key material. Idempotent.
func (s *Store) RemoveSecret(keyRefID string) error {
	return s.update(func() error {
		doc, err := s.loadSecrets()
		if err != nil {
			return err
		}
		if _, ok := doc.Secrets[keyRefID]; !ok {
			return nil
		}
		delete(doc.Secrets, keyRefID)
		return s.writeDoc(secretsFile, doc)
	})
}

// SetOperator persists the default operator mapping for a network.
func (s *Store) SetOperator(network string, m *OperatorMapping) error {
	if network == "" || m == nil {
		return errors.New("store: operator mapping requires a network")
	}
	return s.update(func() error {
		doc, err := s.loadOperators()
		if err != nil {
			return err
		}
		doc.Operators[network] = m
		return s.writeDoc(operatorsFile, doc)
	})
}

// Operator retrieves the operator mapping for a network. Absent mappings
// return (nil, nil).
func (s *Store) Operator(network string) (*OperatorMapping, error) {
	var m *OperatorMapping
	err := s.view(func() error {
		doc, err := s.loadOperators()
		if err != nil {
			return err
		}
		m = doc.Operators[network]
		return nil
	})
	return m, err
}

// SaveAlias persists an alias record keyed by (network, alias). Uniqueness
// is the resolver's concern; the store overwrites.
func (s *Store) SaveAlias(rec *AliasRecord) error {
	if rec == nil || rec.Alias == "" || rec.Network == "" {
		return errors.New("store: alias record requires an alias and a network")
	}
	return s.update(func() error {
		doc, err := s.loadAliases()
		if err != nil {
			return err
		}
		doc.Aliases[AliasKey(rec.Network, rec.Alias)] = rec
		return s.writeDoc(aliasesFile, doc)
	})
}

// Alias retrieves an alias record. Absent records return (nil, nil).
func (s *Store) Alias(network, alias string) (*AliasRecord, error) {
	var rec *AliasRecord
	err := s.view(func() error {
		doc, err := s.loadAliases()
		if err != nil {
			return err
		}
		rec = doc.Aliases[AliasKey(network, alias)]
		return nil
	})
	return rec, err
}

// Aliases returns all alias records ordered by (network, alias).
func (s *Store) Aliases() ([]*AliasRecord, error) {
	var out []*AliasRecord
	err := s.view(func() error {
		doc, err := s.loadAliases()
		if err != nil {
			return err
		}
		out = make([]*AliasRecord, 0, len(doc.Aliases))
		for _, rec := range doc.Aliases {
			out = append(out, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Network != out[j].Network {
			return out[i].Network < out[j].Network
		}
		return out[i].Alias < out[j].Alias
	})
	return out, nil
}

// RemoveAlias deletes the (network, alias) entry. Idempotent.
func (s *Store) RemoveAlias(network, alias string) error {
	return s.update(func() error {
		doc, err := s.loadAliases()
		if err != nil {
			return err
		}
		key := AliasKey(network, alias)
		if _, ok := doc.Aliases[key]; !ok {
			return nil
		}
		delete(doc.Aliases, key)
		return s.writeDoc(aliasesFile, doc)
	})
}

// view runs fn under the in-process mutex and the shared advisory lock.
func (s *Store) view(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.lock.RLock(); err != nil {
		return fmt.Errorf("store: acquire read lock: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()
	return fn()
}

// update runs fn under the in-process mutex and the exclusive advisory lock,
// fencing the read-modify-write cycle against concurrent CLI invocations.
func (s *Store) update(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("store: acquire lock: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()
	return fn()
}

func (s *Store) loadKeys() (*keysDoc, error) {
	doc := &keysDoc{Version: DefaultStoreVersion, Keys: make(map[string]*KeyRecord)}
	if err := s.readDoc(keysFile, doc); err != nil {
		return nil, err
	}
	if doc.Keys == nil {
		doc.Keys = make(map[string]*KeyRecord)
	}
	return doc, nil
}

func (s *Store) loadSecrets() (*secretsDoc, error) {
	doc := &secretsDoc{Version: DefaultStoreVersion, Secrets: make(map[string]*KeySecret)}
	if err := s.readDoc(secretsFile, doc); err != nil {
		return nil, err
	}
	if doc.Secrets == nil {
		doc.Secrets = make(map[string]*KeySecret)
	}
	return doc, nil
}

func (s *Store) loadOperators() (*operatorsDoc, error) {
	doc := &operatorsDoc{Version: DefaultStoreVersion, Operators: make(map[string]*OperatorMapping)}
	if err := s.readDoc(operatorsFile, doc); err != nil {
		return nil, err
	}
	if doc.Operators == nil {
		doc.Operators = make(map[string]*OperatorMapping)
	}
	return doc, nil
}

func (s *Store) loadAliases() (*aliasesDoc, error) {
	doc := &aliasesDoc{Version: DefaultStoreVersion, Aliases: make(map[string]*AliasRecord)}
	if err := s.readDoc(aliasesFile, doc); err != nil {
		return nil, err
	}
	if doc.Aliases == nil {
		doc.Aliases = make(map[string]*AliasRecord)
	}
	return doc, nil
}

// readDoc reads a namespace document from disk into v. A missing or empty
// file leaves v untouched, so callers start from an empty document.
func (s *Store) readDoc(name string, v interface{}) error {
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("store: open %s: %w", name, err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("store: read %s: %w", name, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrStoreCorrupted, name, err)
	}
	return nil
}

// writeDoc writes a namespace document atomically using the temp file +
// fsync + rename pattern. Documents are created with 0600 permissions.
func (s *Store) writeDoc(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	tmpPath := path + ".tmp"

	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("%w: create temp: %v", ErrStorePersist, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: write: %v", ErrStorePersist, err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: fsync: %v", ErrStorePersist, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: close: %v", ErrStorePersist, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: rename: %v", ErrStorePersist, err)
	}
	return nil
}
