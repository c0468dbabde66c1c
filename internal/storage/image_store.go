// Package storage keeps uploaded image files in the content directory.
package storage

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Fixed subdirectories of the content directory.
const (
	ProdukDir = "assets/produk"
	TokoDir   = "assets/toko"
)

var ErrInvalidName = errors.New("invalid file name")

// ImageStore writes and removes files inside one directory of fs.
type ImageStore struct {
	fs  afero.Fs
	dir string

	// overridable in tests
	now    func() time.Time
	random func() string
}

func NewImageStore(fs afero.Fs, dir string) *ImageStore {
	return &ImageStore{
		fs:     fs,
		dir:    dir,
		now:    time.Now,
		random: randomSuffix,
	}
}

// NewOsFs roots an OS filesystem at the content directory.
func NewOsFs(root string) afero.Fs {
	return afero.NewBasePathFs(afero.NewOsFs(), root)
}

// Dir returns the directory the store writes into, relative to its fs.
func (s *ImageStore) Dir() string {
	return s.dir
}

// Save writes data under a generated name "<unix>_<random><ext>" and returns
// the name. Uniqueness relies on randomness only, there is no collision check.
func (s *ImageStore) Save(data []byte, ext string) (string, error) {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if strings.ContainsAny(ext, `/\`) {
		return "", ErrInvalidName
	}

	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", s.dir, err)
	}

	name := fmt.Sprintf("%d_%s%s", s.now().Unix(), s.random(), ext)
	if err := afero.WriteFile(s.fs, path.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return name, nil
}

// Remove deletes the named file. A file that is already gone is not an error.
func (s *ImageStore) Remove(name string) error {
	p, err := s.pathOf(name)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}

func (s *ImageStore) Exists(name string) (bool, error) {
	p, err := s.pathOf(name)
	if err != nil {
		return false, err
	}
	return afero.Exists(s.fs, p)
}

func (s *ImageStore) pathOf(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", ErrInvalidName
	}
	return path.Join(s.dir, name), nil
}

// randomSuffix returns 13 random hex chars: the first six bytes of a v4
// uuid plus the low nibble of byte 6, skipping the version nibble.
func randomSuffix() string {
	u := uuid.New()
	return hex.EncodeToString(u[:6]) + fmt.Sprintf("%x", u[6]&0x0f)
}
