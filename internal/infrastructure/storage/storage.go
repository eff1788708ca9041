// Package storage keeps uploaded customer images. Every stored image is
// addressed by a public reference of the form /customers/<uuid><ext>.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"time"

	"invoice-dashboard/internal/config"

	"github.com/google/uuid"
)

const (
	assetDir  = "customers"
	refPrefix = "/" + assetDir + "/"

	maxExtLen = 16
)

const (
	DriverLocal = "local"
	DriverS3    = "s3"
)

// Asset is a stored image as seen by the sweep job.
type Asset struct {
	Ref     string
	ModTime time.Time
}

type Store interface {
	Save(ctx context.Context, filename string, data []byte) (string, error)
	Remove(ctx context.Context, ref string) error
	List(ctx context.Context) ([]Asset, error)
}

// New builds the store selected by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (Store, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", DriverLocal:
		return NewLocalAssetStore(cfg.PublicDir, logger)
	case DriverS3:
		return NewS3AssetStore(ctx, cfg.S3, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// newAssetName returns a fresh file name keeping the extension of the
// uploaded file.
func newAssetName(filename string) string {
	ext := filepath.Ext(path.Base(filepath.ToSlash(filename)))
	if len(ext) > maxExtLen || strings.ContainsAny(ext, `\/: `) {
		ext = ""
	}
	return uuid.NewString() + ext
}

func refFor(name string) string {
	return refPrefix + name
}

// nameFromRef extracts the file name from a reference, rejecting anything that
// is not a direct child of the customers directory.
func nameFromRef(ref string) (string, error) {
	if !strings.HasPrefix(ref, refPrefix) {
		return "", fmt.Errorf("asset reference %q outside %s", ref, refPrefix)
	}
	name := strings.TrimPrefix(ref, refPrefix)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid asset reference %q", ref)
	}
	return name, nil
}
