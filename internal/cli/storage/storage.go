// Package storage provides the durable key-value backends used to keep the
// session snapshot and the theme preference across runs.
package storage

import "errors"

// Namespaces used by the client stores.
const (
	SessionKey = "auth-storage"
	ThemeKey   = "theme"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("storage: key not found")

// Storage is a string-keyed, string-valued durable store.
type Storage interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
}
