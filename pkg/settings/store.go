// Package settings persists user preferences of the light controller.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
)

// Store is a flat key/value preference store. Getters fall back to the
// provided default when the key is absent.
type Store interface {
	Uint8(key string, def uint8) uint8
	PutUint8(key string, v uint8) error
	Bytes(key string, def []byte) []byte
	PutBytes(key string, v []byte) error
}

// MemStore keeps preferences in memory.
type MemStore struct {
	lock   sync.RWMutex
	values map[string]uint8
	bytes  map[string][]byte
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		values: make(map[string]uint8),
		bytes:  make(map[string][]byte),
	}
}

// Uint8 implements Store.
func (s *MemStore) Uint8(key string, def uint8) uint8 {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if v, ok := s.values[key]; ok {
		return v
	}
	return def
}

// PutUint8 implements Store.
func (s *MemStore) PutUint8(key string, v uint8) error {
	s.lock.Lock()
	s.values[key] = v
	s.lock.Unlock()
	return nil
}

// Bytes implements Store.
func (s *MemStore) Bytes(key string, def []byte) []byte {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if v, ok := s.bytes[key]; ok {
		return append([]byte(nil), v...)
	}
	return def
}

// PutBytes implements Store.
func (s *MemStore) PutBytes(key string, v []byte) error {
	s.lock.Lock()
	s.bytes[key] = append([]byte(nil), v...)
	s.lock.Unlock()
	return nil
}

type fileData struct {
	Values map[string]int   `toml:"values"`
	Bytes  map[string][]int `toml:"bytes"`
}

// FileStore keeps preferences in a TOML file, rewritten on every change.
type FileStore struct {
	*MemStore
	path string
}

// OpenFileStore loads preferences from path. A missing file is not an error.
func OpenFileStore(path string) (*FileStore, error) {
	s := &FileStore{MemStore: NewMemStore(), path: path}
	var data fileData
	if _, err := toml.DecodeFile(path, &data); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("load settings %s: %v", path, err)
	}
	for k, v := range data.Values {
		if v < 0 || v > 0xff {
			return nil, fmt.Errorf("load settings %s: %s out of range", path, k)
		}
		s.values[k] = uint8(v)
	}
	for k, v := range data.Bytes {
		b := make([]byte, len(v))
		for n, x := range v {
			b[n] = uint8(x)
		}
		s.bytes[k] = b
	}
	return s, nil
}

// Path returns the file path.
func (s *FileStore) Path() string {
	return s.path
}

// PutUint8 implements Store.
func (s *FileStore) PutUint8(key string, v uint8) error {
	s.MemStore.PutUint8(key, v)
	return s.Save()
}

// PutBytes implements Store.
func (s *FileStore) PutBytes(key string, v []byte) error {
	s.MemStore.PutBytes(key, v)
	return s.Save()
}

// Save writes all preferences to the file.
func (s *FileStore) Save() error {
	data := fileData{Values: make(map[string]int), Bytes: make(map[string][]int)}
	s.lock.RLock()
	for k, v := range s.values {
		data.Values[k] = int(v)
	}
	for k, v := range s.bytes {
		ints := make([]int, len(v))
		for n, x := range v {
			ints[n] = int(x)
		}
		data.Bytes[k] = ints
	}
	s.lock.RUnlock()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".settings-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err = toml.NewEncoder(tmp).Encode(data); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
