// Package fs implements the document vault on a local directory.
package fs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"landledger/internal/vault/core"
)

// Store implements core.Store using the local filesystem. Keys map to
// relative file paths under the root; a JSON sidecar (key + ".meta") carries
// content type and user metadata. Writes are atomic per document via a temp
// file rename, nothing more.
type Store struct {
	root string
}

var _ core.Store = (*Store)(nil)

// New returns a filesystem-backed vault rooted at path, creating it if
// needed.
func New(root string) (*Store, error) {
	if root == "" {
		root = "./vaultdata"
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, err
	}
	return &Store{root: root}, nil
}

// Driver implements core.Store.
func (s *Store) Driver() core.Driver { return core.DriverFilesystem }

// sanitizeKey rejects keys that would escape the root.
func sanitizeKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("empty key")
	}
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid key contains '..'")
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("invalid absolute key")
	}
	clean := filepath.ToSlash(filepath.Clean(key))
	if strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid key traversal")
	}
	return clean, nil
}

func (s *Store) pathFor(key string) (dataPath, metaPath string, err error) {
	k, err := sanitizeKey(key)
	if err != nil {
		return "", "", err
	}
	dataPath = filepath.Join(s.root, k)
	metaPath = dataPath + ".meta"
	return
}

type sidecar struct {
	ContentType string            `json:"content_type,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	ETag        string            `json:"etag"`
	Size        int64             `json:"size"`
	CreatedAt   time.Time         `json:"created_at"`
}

// Put implements core.Store.
func (s *Store) Put(_ context.Context, key string, r io.Reader, opts core.PutOptions) (core.Info, error) {
	dataPath, metaPath, err := s.pathFor(key)
	if err != nil {
		return core.Info{}, err
	}
	if _, err := os.Stat(dataPath); err == nil {
		return core.Info{}, fmt.Errorf("document %s already exists", key)
	}
	if err := os.MkdirAll(filepath.Dir(dataPath), 0o750); err != nil {
		return core.Info{}, err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dataPath), ".tmp-*")
	if err != nil {
		return core.Info{}, err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	digest := sha256.New()
	size, err := io.Copy(io.MultiWriter(tmp, digest), r)
	if err != nil {
		_ = tmp.Close()
		return core.Info{}, err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return core.Info{}, err
	}
	if err := tmp.Close(); err != nil {
		return core.Info{}, err
	}
	if err := os.Rename(tmp.Name(), dataPath); err != nil {
		return core.Info{}, err
	}

	now := time.Now().UTC()
	meta := sidecar{
		ContentType: opts.ContentType,
		Metadata:    cloneMetadata(opts.Metadata),
		ETag:        hex.EncodeToString(digest.Sum(nil)),
		Size:        size,
		CreatedAt:   now,
	}
	if err := writeSidecar(metaPath, meta); err != nil {
		return core.Info{}, err
	}
	return s.info(key, meta), nil
}

// Get implements core.Store.
func (s *Store) Get(_ context.Context, key string) (core.Info, io.ReadCloser, error) {
	dataPath, metaPath, err := s.pathFor(key)
	if err != nil {
		return core.Info{}, nil, err
	}
	file, err := os.Open(dataPath)
	if err != nil {
		return core.Info{}, nil, err
	}
	meta, err := readSidecar(metaPath)
	if err != nil {
		_ = file.Close()
		return core.Info{}, nil, err
	}
	return s.info(key, meta), file, nil
}

// Head implements core.Store.
func (s *Store) Head(_ context.Context, key string) (core.Info, error) {
	_, metaPath, err := s.pathFor(key)
	if err != nil {
		return core.Info{}, err
	}
	meta, err := readSidecar(metaPath)
	if err != nil {
		return core.Info{}, err
	}
	return s.info(key, meta), nil
}

// Delete implements core.Store.
func (s *Store) Delete(_ context.Context, key string) (bool, error) {
	dataPath, metaPath, err := s.pathFor(key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(dataPath); errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err := os.Remove(dataPath); err != nil {
		return false, err
	}
	_ = os.Remove(metaPath)
	return true, nil
}

// List implements core.Store. It walks the root collecting sidecars and
// filters by prefix.
func (s *Store) List(_ context.Context, prefix string) ([]core.Info, error) {
	var infos []core.Info
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".meta") {
			return nil
		}
		meta, err := readSidecar(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(s.root, strings.TrimSuffix(path, ".meta"))
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if prefix == "" || strings.HasPrefix(key, prefix) {
			infos = append(infos, s.info(key, meta))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}

// PresignURL implements core.Store. Local development convenience only: the
// returned URL carries no authentication.
func (s *Store) PresignURL(_ context.Context, key string, opts core.SignedURLOptions) (string, error) {
	if opts.Method != "" && !strings.EqualFold(opts.Method, "GET") {
		return "", core.ErrUnsupported
	}
	if _, err := s.Head(context.Background(), key); err != nil {
		return "", err
	}
	return s.localURL(key), nil
}

func (s *Store) info(key string, meta sidecar) core.Info {
	return core.Info{
		Key:          key,
		Size:         meta.Size,
		ContentType:  meta.ContentType,
		ETag:         meta.ETag,
		Metadata:     cloneMetadata(meta.Metadata),
		LastModified: meta.CreatedAt,
		URL:          s.localURL(key),
	}
}

func (s *Store) localURL(key string) string {
	return (&url.URL{Scheme: "http", Host: "local.vault", Path: "/" + key}).String()
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

func writeSidecar(path string, meta sidecar) error {
	b, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o640)
}

func readSidecar(path string) (sidecar, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return sidecar{}, err
	}
	var meta sidecar
	if err := json.Unmarshal(b, &meta); err != nil {
		return sidecar{}, err
	}
	return meta, nil
}
