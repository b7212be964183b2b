package files

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Storage keeps attachment bytes on local disk, one directory per
// quotation, under uuid file names so original names never touch the
// filesystem.
type Storage struct {
	root string
}

func NewStorage(root string) (*Storage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create files root: %w", err)
	}
	return &Storage{root: root}, nil
}

func (s *Storage) path(quotationID, storedName string) string {
	return filepath.Join(s.root, quotationID, storedName)
}

func (s *Storage) Save(quotationID, storedName string, src io.Reader) (int64, error) {
	dir := filepath.Join(s.root, quotationID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create quotation dir: %w", err)
	}

	dst, err := os.Create(s.path(quotationID, storedName))
	if err != nil {
		return 0, fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	n, err := io.Copy(dst, src)
	if err != nil {
		return 0, fmt.Errorf("write file: %w", err)
	}
	return n, nil
}

func (s *Storage) Open(quotationID, storedName string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(quotationID, storedName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

func (s *Storage) Remove(quotationID, storedName string) error {
	err := os.Remove(s.path(quotationID, storedName))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
