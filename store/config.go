package store

import (
	"os"

	badger "github.com/dgraph-io/badger/v2"
	"gitlab.com/navguard/navguard"
)

var (
	keyBackendAddress = []byte("config:backend_address")
	keyCredential     = []byte("config:credential")
)

// ConfigStore persists the analysis service configuration in badger so it
// survives restarts. Absent keys read back as empty strings, which the
// client treats as unconfigured.
type ConfigStore struct {
	db       *badger.DB
	filepath string
}

// NewConfigStore rooted at filepath
func NewConfigStore(filepath string) *ConfigStore {
	return &ConfigStore{filepath: filepath}
}

// Init opens the store, creating the directory if needed
func (s *ConfigStore) Init() error {
	if err := os.MkdirAll(s.filepath, 0677); err != nil {
		return err
	}
	var err error
	s.db, err = badger.Open(badger.DefaultOptions(s.filepath))
	return err
}

// Get the current configuration; missing values are empty strings
func (s *ConfigStore) Get() (navguard.ServiceConfig, error) {
	cfg := navguard.ServiceConfig{}
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		if cfg.BackendAddress, err = readString(txn, keyBackendAddress); err != nil {
			return err
		}
		cfg.Credential, err = readString(txn, keyCredential)
		return err
	})
	return cfg, err
}

// Set overwrites both values
func (s *ConfigStore) Set(cfg navguard.ServiceConfig) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(keyBackendAddress, []byte(cfg.BackendAddress)); err != nil {
			return err
		}
		return txn.Set(keyCredential, []byte(cfg.Credential))
	})
}

// Clear returns the store to unconfigured
func (s *ConfigStore) Clear() error {
	return s.db.Update(func(txn *badger.Txn) error {
		if err := deleteIgnoreMissing(txn, keyBackendAddress); err != nil {
			return err
		}
		return deleteIgnoreMissing(txn, keyCredential)
	})
}

// Close the underlying db
func (s *ConfigStore) Close() error {
	return s.db.Close()
}

func readString(txn *badger.Txn, key []byte) (string, error) {
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return "", err
	}
	return string(val), nil
}

func deleteIgnoreMissing(txn *badger.Txn, key []byte) error {
	err := txn.Delete(key)
	if err == badger.ErrKeyNotFound {
		return nil
	}
	return err
}
