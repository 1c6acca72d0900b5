package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/catalog"
	"github.com/your-org/storefront/internal/infrastructure/objectstore"
	"github.com/your-org/storefront/internal/infrastructure/storage"
	"github.com/your-org/storefront/internal/pkg/logger"
)

const fixture = `{
  "products": [
    {"id": 1, "name": "Air Runner", "brand": "Nike", "category": "Running", "price": 120, "size": ["9"], "colors": ["Red"]},
    {"id": 2, "name": "Court Classic", "brand": "Nike", "category": "Tennis", "price": 80}
  ],
  "brands": [{"id": 1, "name": "Nike"}],
  "categories": [{"id": 1, "name": "Running"}]
}`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o600))

	cfg := config.Defaults()
	cfg.Storage.Backend = "file"
	cfg.Storage.FilePath = filepath.Join(dir, "storage")
	cfg.Catalog.Source = path
	return cfg
}

func TestNew_FileBackendAndCatalog(t *testing.T) {
	ctx := context.Background()
	a, err := NewWithLogger(ctx, testConfig(t), logger.Discard())
	require.NoError(t, err)
	defer a.Close()

	assert.IsType(t, &storage.File{}, a.Storage)
	assert.Nil(t, a.Redis)
	assert.Len(t, a.Catalog.Products(), 2)

	p, err := a.Catalog.Product(1)
	require.NoError(t, err)

	a.OpenCart(ctx).AddToCart(ctx, *p, "", "", 2)

	reopened := a.OpenCart(ctx).State()
	require.Len(t, reopened.Items, 1)
	assert.Equal(t, "19Red", reopened.Items[0].CartItemID)
}

func TestNew_MissingCatalogServesEmpty(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Backend = "memory"
	cfg.Catalog.Source = filepath.Join(t.TempDir(), "absent.json")

	a, err := NewWithLogger(context.Background(), cfg, logger.Discard())
	require.NoError(t, err)
	defer a.Close()

	assert.True(t, a.Catalog.Ready())
	assert.Empty(t, a.Catalog.Products())
}

func TestNew_UnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Backend = "etcd"

	_, err := NewWithLogger(context.Background(), cfg, logger.Discard())
	assert.Error(t, err)
}

func TestCatalogSource(t *testing.T) {
	ctx := context.Background()
	cfg := config.Defaults()

	cfg.Catalog.Source = "./data/catalog.json"
	src, err := CatalogSource(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, catalog.FileSource{Path: "./data/catalog.json"}, src)

	cfg.Catalog.Source = "https://cdn.example.com/catalog.json"
	src, err = CatalogSource(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, catalog.HTTPSource{}, src)

	cfg.Catalog.Source = "s3://fixtures"
	_, err = CatalogSource(ctx, cfg)
	assert.ErrorIs(t, err, objectstore.ErrInvalidURL)
}

func TestRegistry_UsesSessionNamespace(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Storage.Backend = "memory"

	a, err := NewWithLogger(ctx, cfg, logger.Discard())
	require.NoError(t, err)
	defer a.Close()

	p, err := a.Catalog.Product(2)
	require.NoError(t, err)
	a.Registry().Get(ctx, "abc").AddToCart(ctx, *p, "", "", 1)

	mem := a.Storage.(*storage.Memory)
	assert.Equal(t, []string{"session:abc:cart"}, mem.Keys())
}

func TestRegistry_IdleTimeoutFollowsStorageTTL(t *testing.T) {
	tests := []struct {
		name string
		idle time.Duration
		ttl  time.Duration
		want time.Duration
	}{
		{"idle only", 10 * time.Minute, 0, 10 * time.Minute},
		{"shorter ttl wins", 30 * time.Minute, 5 * time.Minute, 5 * time.Minute},
		{"longer ttl ignored", 30 * time.Minute, 24 * time.Hour, 30 * time.Minute},
		{"ttl without idle", 0, time.Hour, time.Hour},
		{"neither", 0, 0, cart.DefaultSessionIdle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Storage.Backend = "memory"
			cfg.Storage.TTL = tt.ttl
			cfg.Cart.SessionIdle = tt.idle

			a, err := NewWithLogger(context.Background(), cfg, logger.Discard())
			require.NoError(t, err)
			defer a.Close()

			assert.Equal(t, tt.want, a.Registry().IdleTimeout())
		})
	}
}
