// Package secstore is an encrypted key-value store backed by a single file.
// It persists the payment and transactions state slices across restarts;
// nothing else in the app is persisted through it.
package secstore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// KeySize is the required encryption key length (AES-256).
const KeySize = 32

var (
	ErrInvalidKey = errors.New("encryption key must be 32 bytes")
	ErrCorrupt    = errors.New("store file is corrupt or the key is wrong")
)

// Store is a file-backed key-value store. The whole value map is encrypted
// with AES-256-GCM and rewritten on every mutation; values are small state
// snapshots, so this stays cheap.
type Store struct {
	mu     sync.Mutex
	path   string
	aead   cipher.AEAD
	values map[string]json.RawMessage
}

// Open loads the store at path, creating an empty one if the file does not
// exist yet.
func Open(path string, key []byte) (*Store, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKey
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating gcm: %w", err)
	}

	s := &Store{
		path:   path,
		aead:   aead,
		values: make(map[string]json.RawMessage),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Set stores value under key. value must be JSON-marshalable.
func (s *Store) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding value for %q: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = raw
	return s.flush()
}

// Get decodes the value stored under key into out. It reports false when the
// key is absent.
func (s *Store) Get(key string, out any) (bool, error) {
	s.mu.Lock()
	raw, ok := s.values[key]
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("decoding value for %q: %w", key, err)
	}
	return true, nil
}

// Remove deletes key. Removing an absent key is not an error.
func (s *Store) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.flush()
}

// Clear deletes every key.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[string]json.RawMessage)
	return s.flush()
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading store file: %w", err)
	}

	nonceSize := s.aead.NonceSize()
	if len(data) < nonceSize {
		return ErrCorrupt
	}
	plain, err := s.aead.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return ErrCorrupt
	}
	if err := json.Unmarshal(plain, &s.values); err != nil {
		return ErrCorrupt
	}
	return nil
}

// flush re-encrypts the value map and atomically replaces the store file.
// Caller must hold s.mu.
func (s *Store) flush() error {
	plain, err := json.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("encoding store: %w", err)
	}

	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("generating nonce: %w", err)
	}
	sealed := s.aead.Seal(nonce, nonce, plain, nil)

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}
	if err := os.WriteFile(tmp, sealed, 0o600); err != nil {
		return fmt.Errorf("writing store file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing store file: %w", err)
	}
	return nil
}
