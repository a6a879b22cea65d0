// Package snapshot persists a small summary of an extracted PKB to the
// cache directory, keyed by the SHA-256 of the source it was built from,
// so spaq/spaqd can tell at a glance whether a file needs reparsing.
package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/arzin/spaq/pkg/cache"
	"github.com/arzin/spaq/pkg/pkb"
)

// Summary is what gets persisted for a parsed source file. It is not a
// full PKB rebuild shortcut (the PKB holds unexported indexes and is cheap
// to rebuild from a hand-written recursive-descent parser anyway) — it
// exists so callers can report "unchanged since last parse" without
// reading the file twice.
type Summary struct {
	Hash        string    `msgpack:"hash"`
	Procedures  int       `msgpack:"procedures"`
	Statements  int       `msgpack:"statements"`
	Variables   int       `msgpack:"variables"`
	Constants   int       `msgpack:"constants"`
	ExtractedAt time.Time `msgpack:"extracted_at"`
}

// Hash returns the hex-encoded SHA-256 of src, the cache key Summary is
// stored under.
func Hash(src []byte) string {
	sum := sha256.Sum256(src)
	return hex.EncodeToString(sum[:])
}

// Of builds a Summary from an already-extracted PKB.
func Of(hash string, p *pkb.PKB) *Summary {
	return &Summary{
		Hash:        hash,
		Procedures:  len(p.AllProcedures()),
		Statements:  len(p.AllStatements()),
		Variables:   len(p.AllVariables()),
		Constants:   len(p.AllConstants()),
		ExtractedAt: time.Now(),
	}
}

func path(cacheDir, hash string) string {
	return filepath.Join(cacheDir, hash+".snapshot")
}

// Load returns the Summary cached for hash, or (nil, nil) on a cache miss.
func Load(cacheDir, hash string) (*Summary, error) {
	data, err := os.ReadFile(path(cacheDir, hash))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var s Summary
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("snapshot: decode %s: %w", hash, err)
	}
	return &s, nil
}

// Save persists s to the cache directory, creating it if necessary.
func Save(cacheDir string, s *Summary) error {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return fmt.Errorf("snapshot: create cache dir: %w", err)
	}
	data, err := msgpack.Marshal(s)
	if err != nil {
		return fmt.Errorf("snapshot: encode %s: %w", s.Hash, err)
	}
	if err := os.WriteFile(path(cacheDir, s.Hash), data, 0644); err != nil {
		return fmt.Errorf("snapshot: write %s: %w", s.Hash, err)
	}
	return nil
}

// Store fronts the on-disk snapshot files with an in-memory LRU, so a
// long-lived process (spaqd, or a single spaq invocation parsing the same
// content under several names) doesn't round-trip the filesystem for a
// hash it already resolved. Safe for concurrent use: the underlying
// cache.LRUCache holds its own lock.
type Store struct {
	cacheDir string
	mem      *cache.LRUCache
}

// NewStore builds a Store backed by cacheDir, keeping up to maxEntries
// Summaries in memory.
func NewStore(cacheDir string, maxEntries int) *Store {
	return &Store{
		cacheDir: cacheDir,
		mem:      cache.New(cache.Options{MaxSize: maxEntries}),
	}
}

// Load returns the Summary for hash, checking memory before disk.
func (st *Store) Load(hash string) (*Summary, error) {
	if v, ok := st.mem.Get(hash); ok {
		return v.(*Summary), nil
	}
	s, err := Load(st.cacheDir, hash)
	if err != nil || s == nil {
		return s, err
	}
	st.mem.Set(hash, s)
	return s, nil
}

// Save persists s to disk and populates the in-memory cache.
func (st *Store) Save(s *Summary) error {
	if err := Save(st.cacheDir, s); err != nil {
		return err
	}
	st.mem.Set(s.Hash, s)
	return nil
}
