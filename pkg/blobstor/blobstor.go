package blobstor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gosimple/slug"
	"github.com/pkg/errors"
	"github.com/saracen/walker"

	"github.com/hackos/hackd/pkg/lock"
)

// Store is the binary asset collaborator: store a blob, get back a durable
// locator, fetch bytes by locator. Name collisions are the caller's problem
// (callers embed unit id + timestamp in suggested names).
type Store interface {
	Put(data []byte, suggestedName string) (string, error)
	Get(locator string) ([]byte, error)
}

// DiskStore keeps blobs as flat files under a root directory. The locator is
// the sanitized file name.
type DiskStore struct {
	root    string
	writers *lock.KeyLocker
}

func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, errors.Wrapf(err, "creating blob root %s", root)
	}
	return &DiskStore{root: root, writers: lock.NewKeyLocker()}, nil
}

func (s *DiskStore) Root() string {
	return s.root
}

func (s *DiskStore) Put(data []byte, suggestedName string) (string, error) {
	locator := sanitizeName(suggestedName)
	if locator == "" {
		return "", errors.New("empty blob name")
	}

	path := filepath.Join(s.root, locator)
	err := s.writers.WithLock(locator, func() error {
		return os.WriteFile(path, data, 0644)
	})
	if err != nil {
		return "", errors.Wrapf(err, "writing blob %s", locator)
	}

	return locator, nil
}

func (s *DiskStore) Get(locator string) ([]byte, error) {
	if locator != filepath.Base(locator) {
		return nil, errors.Errorf("invalid locator: %s", locator)
	}

	data, err := os.ReadFile(filepath.Join(s.root, locator))
	if err != nil {
		return nil, errors.Wrapf(err, "reading blob %s", locator)
	}

	return data, nil
}

// BlobInfo describes one stored blob for the admin storage inventory.
type BlobInfo struct {
	Locator string    `json:"locator"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// Inventory walks the blob root concurrently and returns every stored blob.
func (s *DiskStore) Inventory() ([]BlobInfo, error) {
	var (
		mu    sync.Mutex
		blobs []BlobInfo
	)

	err := walker.Walk(s.root, func(pathname string, fi os.FileInfo) error {
		if fi.IsDir() {
			return nil
		}
		mu.Lock()
		blobs = append(blobs, BlobInfo{
			Locator: filepath.Base(pathname),
			Size:    fi.Size(),
			ModTime: fi.ModTime(),
		})
		mu.Unlock()
		return nil
	})

	if err != nil {
		return nil, errors.Wrap(err, "walking blob root")
	}

	return blobs, nil
}

// sanitizeName slugs the base name but preserves the extension, so locators
// stay shell- and URL-safe while remaining recognizable.
func sanitizeName(name string) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(filepath.Base(name), ext)
	if base == "" {
		return ""
	}
	return fmt.Sprintf("%s%s", slug.Make(base), ext)
}
