// Package storage implements the durable key-value store that holds
// all account preferences. Values are written through an edit
// transaction and applied atomically on commit.
package storage

import "strconv"

// Store is a durable key-value store with string keys and values.
type Store interface {
	// Get a single value. The bool reports whether the key exists.
	Get(key string) (string, bool, error)

	// Keys lists all stored keys.
	Keys() ([]string, error)

	// IsEmpty reports whether the store holds no entries at all.
	IsEmpty() (bool, error)

	// Edit starts a new buffered edit transaction.
	Edit() *Editor
}

// applier is the write-side a Store provides to its editors.
type applier interface {
	apply(puts map[string]string, removes []string) error
}

// GetString returns the value for key, or fallback if the key is absent.
func GetString(s Store, key, fallback string) (string, error) {
	v, ok, err := s.Get(key)
	if err != nil {
		return fallback, err
	}
	if !ok {
		return fallback, nil
	}
	return v, nil
}

// GetInt returns the value for key parsed as an integer. An absent key
// or an unparseable value yields the fallback.
func GetInt(s Store, key string, fallback int) (int, error) {
	v, ok, err := s.Get(key)
	if err != nil {
		return fallback, err
	}
	if !ok {
		return fallback, nil
	}
	i, convErr := strconv.Atoi(v)
	if convErr != nil {
		return fallback, nil
	}
	return i, nil
}

// GetBool returns the value for key parsed as a boolean. An absent key
// or an unparseable value yields the fallback.
func GetBool(s Store, key string, fallback bool) (bool, error) {
	v, ok, err := s.Get(key)
	if err != nil {
		return fallback, err
	}
	if !ok {
		return fallback, nil
	}
	b, convErr := strconv.ParseBool(v)
	if convErr != nil {
		return fallback, nil
	}
	return b, nil
}
