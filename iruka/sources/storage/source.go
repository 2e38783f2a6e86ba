package storage

import (
	"context"
	"fmt"
	"iruka/iruka/config"
	"iruka/iruka/sources/catalog"
	"iruka/iruka/utils/logging"

	"go.uber.org/zap"
)

// OpenCatalog loads the catalog from cfg.CatalogSource. For the file source
// it also returns a Watcher the caller should start and stop.
func OpenCatalog(ctx context.Context, cfg config.Config) (*catalog.Catalog, *catalog.Watcher, error) {
	switch cfg.CatalogSource {
	case "", "embedded":
		c, err := catalog.Default()
		return c, nil, err
	case "file":
		items, err := catalog.LoadFile(cfg.CatalogPath)
		if err != nil {
			return nil, nil, fmt.Errorf("catalog file %s: %w", cfg.CatalogPath, err)
		}
		c, err := catalog.New(items)
		if err != nil {
			return nil, nil, err
		}
		w, err := catalog.NewWatcher(cfg.CatalogPath, c)
		if err != nil {
			return nil, nil, err
		}
		logging.AppLogger.Info("catalog loaded from file", zap.String("path", cfg.CatalogPath), zap.Int("items", c.Len()))
		return c, w, nil
	case "minio":
		m, err := NewMinIOClient(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("minio connection error: %w", err)
		}
		items, err := m.LoadCatalog(ctx, cfg.CatalogObject)
		if err != nil {
			return nil, nil, err
		}
		c, err := catalog.New(items)
		if err != nil {
			return nil, nil, err
		}
		logging.AppLogger.Info("catalog loaded from minio",
			zap.String("bucket", cfg.MinIOBucket), zap.String("object", cfg.CatalogObject), zap.Int("items", c.Len()))
		return c, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown CATALOG_SOURCE %q", cfg.CatalogSource)
	}
}
