package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// LocalAssetStore writes images below <publicDir>/customers so they are
// served with the rest of the public assets.
type LocalAssetStore struct {
	dir    string
	logger *slog.Logger
}

var _ Store = (*LocalAssetStore)(nil)

func NewLocalAssetStore(publicDir string, logger *slog.Logger) (*LocalAssetStore, error) {
	if publicDir == "" {
		return nil, errors.New("storage public directory is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LocalAssetStore{
		dir:    filepath.Join(publicDir, assetDir),
		logger: logger.With("component", "LocalAssetStore"),
	}, nil
}

func (s *LocalAssetStore) Save(ctx context.Context, filename string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create asset directory: %w", err)
	}

	name := newAssetName(filename)
	target := filepath.Join(s.dir, name)

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create asset file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(target)
		return "", fmt.Errorf("failed to write asset file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("failed to close asset file: %w", err)
	}

	ref := refFor(name)
	s.logger.DebugContext(ctx, "Stored asset", slog.String("ref", ref), slog.Int("bytes", len(data)))
	return ref, nil
}

// Remove deletes the file behind ref. Missing files are not an error.
func (s *LocalAssetStore) Remove(ctx context.Context, ref string) error {
	name, err := nameFromRef(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove asset: %w", err)
	}
	s.logger.DebugContext(ctx, "Removed asset", slog.String("ref", ref))
	return nil
}

func (s *LocalAssetStore) List(ctx context.Context) ([]Asset, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Asset{}, nil
		}
		return nil, fmt.Errorf("failed to read asset directory: %w", err)
	}

	assets := make([]Asset, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to stat asset: %w", err)
		}
		assets = append(assets, Asset{Ref: refFor(entry.Name()), ModTime: info.ModTime()})
	}
	return assets, nil
}
