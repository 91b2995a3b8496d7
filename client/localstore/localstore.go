// Package localstore is the client-side persistence layer: a small JSON
// key-value store on disk, playing the role browser local storage plays for
// the web client.
package localstore

import (
	"encoding/json"
	"os"
	"path/filepath"
)

type Store struct {
	dir string
}

func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// Get decodes the stored value for key into v. A missing key reports false.
// A corrupt stored value is removed and reported as missing rather than
// returned as an error.
func (s *Store) Get(key string, v any) (bool, error) {
	b, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(b, v); err != nil {
		_ = s.Remove(key)
		return false, nil
	}
	return true, nil
}

func (s *Store) Set(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(key), b, 0o644)
}

func (s *Store) Remove(key string) error {
	err := os.Remove(s.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
