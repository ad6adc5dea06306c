// Package memory implements an in-memory document vault for tests and
// development defaults.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"landledger/internal/vault/core"
)

type document struct {
	info core.Info
	data []byte
}

// Store implements core.Store backed by process memory.
type Store struct {
	mu   sync.RWMutex
	docs map[string]document
}

var _ core.Store = (*Store)(nil)

// New returns an empty in-memory vault.
func New() *Store { return &Store{docs: make(map[string]document)} }

// Driver implements core.Store.
func (s *Store) Driver() core.Driver { return core.DriverMemory }

// Put implements core.Store, failing when the key is already present.
func (s *Store) Put(_ context.Context, key string, r io.Reader, opts core.PutOptions) (core.Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.docs[key]; exists {
		return core.Info{}, fmt.Errorf("document %s already exists", key)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return core.Info{}, err
	}
	info := core.Info{
		Key:          key,
		Size:         int64(len(b)),
		ContentType:  opts.ContentType,
		Metadata:     cloneMetadata(opts.Metadata),
		LastModified: time.Now().UTC(),
	}
	s.docs[key] = document{info: info, data: b}
	return info, nil
}

// Get implements core.Store.
func (s *Store) Get(_ context.Context, key string) (core.Info, io.ReadCloser, error) {
	s.mu.RLock()
	doc, ok := s.docs[key]
	s.mu.RUnlock()
	if !ok {
		return core.Info{}, nil, fmt.Errorf("document %s not found", key)
	}
	data := make([]byte, len(doc.data))
	copy(data, doc.data)
	info := doc.info
	info.Metadata = cloneMetadata(info.Metadata)
	return info, io.NopCloser(bytes.NewReader(data)), nil
}

// Head implements core.Store.
func (s *Store) Head(_ context.Context, key string) (core.Info, error) {
	s.mu.RLock()
	doc, ok := s.docs[key]
	s.mu.RUnlock()
	if !ok {
		return core.Info{}, fmt.Errorf("document %s not found", key)
	}
	info := doc.info
	info.Metadata = cloneMetadata(info.Metadata)
	return info, nil
}

// Delete implements core.Store, reporting whether the document existed.
func (s *Store) Delete(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.docs[key]
	if ok {
		delete(s.docs, key)
	}
	return ok, nil
}

// List implements core.Store.
func (s *Store) List(_ context.Context, prefix string) ([]core.Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Info, 0, len(s.docs))
	for key, doc := range s.docs {
		if prefix != "" && !strings.HasPrefix(key, prefix) {
			continue
		}
		info := doc.info
		info.Metadata = cloneMetadata(info.Metadata)
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// PresignURL implements core.Store. Memory documents have no address.
func (s *Store) PresignURL(_ context.Context, _ string, _ core.SignedURLOptions) (string, error) {
	return "", core.ErrUnsupported
}

func cloneMetadata(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
