package store

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/example/txanalytics/pkg/transaction"
)

// Format is an on-disk table encoding.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatText  Format = "text"
	FormatArrow Format = "arrow"
)

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".txt", ".tsv":
		return FormatText, nil
	case ".arrow", ".ipc":
		return FormatArrow, nil
	default:
		return "", fmt.Errorf("unsupported file extension %q", filepath.Ext(path))
	}
}

// Metadata describes a saved dataset. Only Arrow snapshots persist it.
type Metadata struct {
	DatasetID string    `json:"dataset_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewMetadata stamps a fresh dataset id.
func NewMetadata(createdAt time.Time) Metadata {
	return Metadata{DatasetID: uuid.NewString(), CreatedAt: createdAt}
}

// Store saves and loads tables on a filesystem.
type Store struct {
	fs     afero.Fs
	logger *zap.Logger
}

// New returns a Store on fs.
func New(fs afero.Fs, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{fs: fs, logger: logger}
}

// NewOS returns a Store on the host filesystem.
func NewOS(logger *zap.Logger) *Store {
	return New(afero.NewOsFs(), logger)
}

// Save writes t to path in the format implied by its extension.
func (s *Store) Save(path string, t *transaction.Table, meta Metadata) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	f, err := s.fs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	switch format {
	case FormatCSV:
		err = WriteDelimited(f, t, ',')
	case FormatText:
		err = WriteDelimited(f, t, '\t')
	case FormatArrow:
		err = WriteArrow(f, t, meta)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}

	s.logger.Debug("saved table",
		zap.String("path", path),
		zap.String("format", string(format)),
		zap.Int("rows", t.Len()),
		zap.String("dataset_id", meta.DatasetID),
	)
	return nil
}

// Load reads a table from path. Delimited files return empty Metadata.
func (s *Store) Load(path string) (*transaction.Table, Metadata, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, Metadata{}, err
	}
	f, err := s.fs.Open(path)
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var (
		t    *transaction.Table
		meta Metadata
	)
	switch format {
	case FormatCSV:
		t, err = ReadDelimited(f, ',')
	case FormatText:
		t, err = ReadDelimited(f, '\t')
	case FormatArrow:
		t, meta, err = ReadArrow(f)
	}
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("failed to load %s: %w", path, err)
	}

	s.logger.Debug("loaded table",
		zap.String("path", path),
		zap.String("format", string(format)),
		zap.Int("rows", t.Len()),
	)
	return t, meta, nil
}
