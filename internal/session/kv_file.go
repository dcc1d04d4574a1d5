package session

import (
	"encoding/json"
	"os"
	"sync"
)

// FileKV persists entries as a JSON object in a single file, durable across
// process restarts. A missing or unreadable file is treated as an empty store,
// never as an error: a corrupt session must fail open into the anonymous state.
type FileKV struct {
	mu   sync.Mutex
	path string
}

// NewFileKV constructs a file-backed KV at the given path.
func NewFileKV(path string) *FileKV {
	return &FileKV{path: path}
}

func (kv *FileKV) Get(key string) (string, bool) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	entries := kv.load()
	v, ok := entries[key]
	return v, ok
}

func (kv *FileKV) Set(key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	entries := kv.load()
	entries[key] = value
	return kv.flush(entries)
}

func (kv *FileKV) Delete(key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	entries := kv.load()
	delete(entries, key)
	return kv.flush(entries)
}

func (kv *FileKV) load() map[string]string {
	entries := make(map[string]string)
	raw, err := os.ReadFile(kv.path)
	if err != nil {
		return entries
	}
	if err := json.Unmarshal(raw, &entries); err != nil {
		return make(map[string]string)
	}
	return entries
}

func (kv *FileKV) flush(entries map[string]string) error {
	raw, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(kv.path, raw, 0o600)
}

var _ KV = (*FileKV)(nil)
