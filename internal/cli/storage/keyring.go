package storage

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const keyringService = "networth-cli"

// KeyringStorage stores values in the OS keychain/credential manager.
type KeyringStorage struct {
	service string
	account string
}

// NewKeyringStorage scopes keys to account (usually the API base URL), so
// sessions against different servers do not overwrite each other.
func NewKeyringStorage(account string) *KeyringStorage {
	return &KeyringStorage{service: keyringService, account: account}
}

func (k *KeyringStorage) keyFor(key string) string {
	if k.account == "" {
		return key
	}
	return fmt.Sprintf("%s@%s", key, k.account)
}

func (k *KeyringStorage) Get(key string) (string, error) {
	value, err := keyring.Get(k.service, k.keyFor(key))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read from keyring: %w", err)
	}
	return value, nil
}

func (k *KeyringStorage) Set(key, value string) error {
	if err := keyring.Set(k.service, k.keyFor(key), value); err != nil {
		return fmt.Errorf("failed to write to keyring: %w", err)
	}
	return nil
}

func (k *KeyringStorage) Remove(key string) error {
	if err := keyring.Delete(k.service, k.keyFor(key)); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete from keyring: %w", err)
	}
	return nil
}
