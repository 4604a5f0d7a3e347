package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Kris2339/MEO-PayDay/internal/logging"
	"github.com/Kris2339/MEO-PayDay/internal/models"
)

// DefaultFilePath is the list location used when none is configured.
const DefaultFilePath = "market_products.json"

// FileStore keeps the list in a local JSON file. The revision is the
// SHA-256 of the file contents.
type FileStore struct {
	path   string
	logger logging.Logger
}

// NewFileStore returns a store backed by path.
func NewFileStore(path string, logger logging.Logger) *FileStore {
	if path == "" {
		path = DefaultFilePath
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &FileStore{path: path, logger: logger}
}

// Name implements Store.
func (s *FileStore) Name() string { return BackendFile }

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

// Load implements Store.
func (s *FileStore) Load(ctx context.Context) ([]string, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.WithField(logging.FieldFile, s.path).Debug("Market list file not found, starting empty")
		return []string{}, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("error reading market list file: %w", err)
	}
	items, err := Decode(data)
	if err != nil {
		return nil, "", err
	}
	return items, checksum(data), nil
}

// Save implements Store.
func (s *FileStore) Save(ctx context.Context, items []string, revision string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	current, err := s.currentRevision()
	if err != nil {
		return "", err
	}
	if current != revision {
		return "", ErrRevisionConflict
	}

	data, err := Encode(items)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, models.PermissionDirectory); err != nil {
		return "", fmt.Errorf("error creating directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".market-*.json")
	if err != nil {
		return "", fmt.Errorf("error creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("error writing market list: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("error writing market list: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("error replacing market list file: %w", err)
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldFile, Value: s.path},
		logging.Field{Key: logging.FieldCount, Value: len(items)},
	).Debug("Saved market list")
	return checksum(data), nil
}

func (s *FileStore) currentRevision() (string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("error reading market list file: %w", err)
	}
	return checksum(data), nil
}

func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
