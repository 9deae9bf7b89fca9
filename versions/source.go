// ABOUTME: Read-only version sources implementing diff.Fetcher: an in-memory map and a directory of documents.
// ABOUTME: Every fetch returns a fresh copy so comparisons never share blocks with the source.

package versions

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/2389-research/quire/content"
)

// ErrVersionNotFound indicates no version exists under the requested ID.
var ErrVersionNotFound = errors.New("version not found")

// documentExts are tried in order when resolving an ID inside a Dir.
var documentExts = []string{".yaml", ".yml", ".json"}

// Memory is a map-backed version source. Safe for concurrent use.
type Memory struct {
	mu       sync.RWMutex
	versions map[string]content.Version
}

// NewMemory creates a Memory holding copies of the given versions.
func NewMemory(vs ...content.Version) *Memory {
	m := &Memory{versions: make(map[string]content.Version)}
	for _, v := range vs {
		m.Put(v)
	}
	return m
}

// Put stores a copy of v, replacing any version with the same ID.
func (m *Memory) Put(v content.Version) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.versions[v.ID] = v.Clone()
}

// IDs returns the stored version IDs, sorted.
func (m *Memory) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.versions))
	for id := range m.versions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// FetchVersion returns a copy of the version stored under id.
func (m *Memory) FetchVersion(ctx context.Context, id string) (*content.Version, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	v, ok := m.versions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrVersionNotFound, id)
	}
	c := v.Clone()
	return &c, nil
}

// Dir serves versions from a directory of <id>.yaml, <id>.yml, or <id>.json
// documents. Files are read on every fetch.
type Dir struct {
	Path string
}

// FetchVersion loads the document for id.
func (d Dir) FetchVersion(ctx context.Context, id string) (*content.Version, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return nil, fmt.Errorf("%w: invalid id %q", ErrVersionNotFound, id)
	}

	for _, ext := range documentExts {
		path := filepath.Join(d.Path, id+ext)
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("stat version %s: %w", id, err)
		}
		v, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		if v.ID != id {
			return nil, fmt.Errorf("version file %s declares id %q", path, v.ID)
		}
		return v, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrVersionNotFound, id)
}

// List returns the IDs of all version documents in the directory, sorted.
func (d Dir) List() ([]string, error) {
	entries, err := os.ReadDir(d.Path)
	if err != nil {
		return nil, fmt.Errorf("read versions dir: %w", err)
	}
	seen := make(map[string]bool)
	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := filepath.Ext(name)
		for _, want := range documentExts {
			if ext == want {
				id := strings.TrimSuffix(name, ext)
				if !seen[id] {
					seen[id] = true
					ids = append(ids, id)
				}
				break
			}
		}
	}
	sort.Strings(ids)
	return ids, nil
}
