package state

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Persisted is a JSON-backed slot holding a single value. Opening the slot
// reads and decodes the current value; every Set writes the value back to the
// same file. An absent or undecodable file falls back to the provided default
// rather than failing, so a corrupt slot heals on the next save.
type Persisted[T any] struct {
	mu    sync.Mutex
	path  string
	value T
}

func Open[T any](path string, fallback T) (*Persisted[T], error) {
	p := &Persisted[T]{path: path, value: fallback}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return nil, err
	}
	var decoded T
	if err := json.Unmarshal(raw, &decoded); err != nil {
		log.Printf("persisted state at %s is not valid JSON, using default: %v", path, err)
		return p, nil
	}
	p.value = decoded
	return p, nil
}

func (p *Persisted[T]) Get() T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value
}

func (p *Persisted[T]) Set(value T) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.value = value
	return p.write()
}

// Update applies fn to the current value and persists the result.
func (p *Persisted[T]) Update(fn func(T) T) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.value = fn(p.value)
	return p.write()
}

func (p *Persisted[T]) write() error {
	raw, err := json.MarshalIndent(p.value, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return err
	}
	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, p.path)
}
