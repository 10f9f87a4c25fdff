package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/jayteemoney/ticket/internal/config"
	"github.com/jayteemoney/ticket/internal/db"
	"github.com/jayteemoney/ticket/internal/migrate"
	"github.com/jayteemoney/ticket/internal/store"
	"github.com/jayteemoney/ticket/internal/upload"
)

// backend is the server-side draft store selected by DRAFT_STORE. Keyed is nil
// for the cookie store, Pruner is nil unless stale drafts need sweeping.
type backend struct {
	Keyed  store.Store
	Pruner store.Pruner
	close  func()
}

func (b *backend) Close() {
	if b.close != nil {
		b.close()
	}
}

func openBackend(ctx context.Context, cfg config.Config, migrateUp bool) (*backend, error) {
	switch cfg.DraftStore {
	case config.StoreCookie:
		return &backend{}, nil

	case config.StoreMemory:
		return &backend{Keyed: store.NewMemory()}, nil

	case config.StorePostgres:
		d, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := d.Ping(ctx); err != nil {
			d.Close()
			return nil, fmt.Errorf("db ping: %w", err)
		}
		if migrateUp {
			applied, err := migrate.Up(ctx, d)
			if err != nil {
				d.Close()
				return nil, err
			}
			for _, f := range applied {
				log.Printf("migrate: applied %s", f)
			}
		}
		pg := store.NewPostgres(d)
		return &backend{Keyed: pg, Pruner: pg, close: d.Close}, nil

	case config.StoreRedis:
		rdb, err := store.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return &backend{
			Keyed: store.NewRedis(rdb, cfg.DraftTTL),
			close: func() { _ = rdb.Close() },
		}, nil
	}
	return nil, fmt.Errorf("unknown draft store %q", cfg.DraftStore)
}

// persister wraps the backend in the cookie layer the web server talks to.
func (b *backend) persister(cfg config.Config) store.Persister {
	if b.Keyed == nil {
		return store.NewCookieStore(cfg.CookieHashKey, cfg.CookieBlockKey, cfg.CookieSecure)
	}
	return store.NewVisitorStore(cfg.CookieHashKey, cfg.CookieBlockKey, b.Keyed, cfg.CookieSecure)
}

func newUploader(ctx context.Context, cfg config.Config) (upload.Uploader, error) {
	switch cfg.UploadProvider {
	case config.ProviderS3:
		s3, err := upload.NewS3(ctx, upload.S3Options{
			Bucket:        cfg.S3Bucket,
			Prefix:        cfg.S3Prefix,
			PublicBaseURL: cfg.S3PublicBaseURL,
			PresignTTL:    cfg.S3PresignTTL,
		})
		if err != nil {
			return nil, err
		}
		return upload.WithTimeout(s3, cfg.UploadTimeout), nil
	default:
		return upload.NewCloudinary(cfg.UploadEndpoint, cfg.UploadPreset, cfg.UploadTimeout), nil
	}
}
