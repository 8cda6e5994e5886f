package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrAssetNotFound reports a logo, signature, background, or font
// reference that the store cannot resolve. Renderers treat it as
// non-fatal: the element is skipped and the rest of the document is
// drawn.
var ErrAssetNotFound = errors.New("render: asset not found")

// AssetStore resolves template asset references to raw bytes. Image
// refs may be PNG, JPEG, GIF, BMP, or WebP; font refs must be TTF.
type AssetStore interface {
	Image(ref string) ([]byte, error)
	Font(ref string) ([]byte, error)
}

// MemoryAssets is an AssetStore backed by in-memory maps. The zero
// value is empty and usable. Safe for concurrent reads after setup.
type MemoryAssets struct {
	mu     sync.RWMutex
	images map[string][]byte
	fonts  map[string][]byte
}

// AddImage registers image bytes under ref.
func (m *MemoryAssets) AddImage(ref string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.images == nil {
		m.images = make(map[string][]byte)
	}
	m.images[ref] = data
}

// AddFont registers TTF bytes under ref.
func (m *MemoryAssets) AddFont(ref string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fonts == nil {
		m.fonts = make(map[string][]byte)
	}
	m.fonts[ref] = data
}

func (m *MemoryAssets) Image(ref string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if data, ok := m.images[ref]; ok {
		return data, nil
	}
	return nil, fmt.Errorf("%w: image %q", ErrAssetNotFound, ref)
}

func (m *MemoryAssets) Font(ref string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if data, ok := m.fonts[ref]; ok {
		return data, nil
	}
	return nil, fmt.Errorf("%w: font %q", ErrAssetNotFound, ref)
}

// DirAssets resolves refs as file names inside a directory. Refs are
// cleaned and may not escape the root.
type DirAssets struct {
	root string
}

// NewDirAssets creates a directory-backed asset store.
func NewDirAssets(dir string) *DirAssets {
	return &DirAssets{root: dir}
}

func (d *DirAssets) read(ref string) ([]byte, error) {
	clean := filepath.Clean("/" + ref)
	data, err := os.ReadFile(filepath.Join(d.root, clean))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrAssetNotFound, ref)
		}
		return nil, err
	}
	return data, nil
}

func (d *DirAssets) Image(ref string) ([]byte, error) { return d.read(ref) }
func (d *DirAssets) Font(ref string) ([]byte, error)  { return d.read(ref) }

// decodeImage decodes asset bytes in any registered format.
func decodeImage(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}
