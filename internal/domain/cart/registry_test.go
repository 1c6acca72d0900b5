package cart

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront/internal/infrastructure/storage"
	"github.com/your-org/storefront/internal/pkg/logger"
)

func TestRegistry_SessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	reg := NewRegistry(mem, DefaultStorageKey, DefaultPricingRules(), 0, logger.Discard())

	reg.Get(ctx, "alice").AddToCart(ctx, runner(), "9", "Red", 2)
	reg.Get(ctx, "bob").AddToCart(ctx, bottle(), "", "", 1)

	assert.Same(t, reg.Get(ctx, "alice"), reg.Get(ctx, "alice"))
	assert.Equal(t, 2, reg.Len())

	alice := reg.Get(ctx, "alice").State()
	require.Len(t, alice.Items, 1)
	assert.Equal(t, "19Red", alice.Items[0].CartItemID)

	assert.ElementsMatch(t, []string{"session:alice:cart", "session:bob:cart"}, mem.Keys())
}

func TestRegistry_ReloadsAfterForget(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	reg := NewRegistry(mem, DefaultStorageKey, DefaultPricingRules(), 0, logger.Discard())

	first := reg.Get(ctx, "alice")
	first.AddToCart(ctx, runner(), "9", "Red", 3)

	reg.Forget("alice")
	assert.Equal(t, 0, reg.Len())

	second := reg.Get(ctx, "alice")
	assert.NotSame(t, first, second)
	require.Len(t, second.State().Items, 1)
	assert.Equal(t, 3, second.State().Items[0].Quantity)
}

func TestRegistry_EvictsIdleSessions(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	reg := NewRegistry(mem, DefaultStorageKey, DefaultPricingRules(), time.Hour, logger.Discard())

	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return clock }

	first := reg.Get(ctx, "alice")
	first.AddToCart(ctx, runner(), "9", "Red", 2)
	for i := 0; i < 50; i++ {
		reg.Get(ctx, fmt.Sprintf("visitor-%d", i))
	}
	assert.Equal(t, 51, reg.Len())

	// alice keeps browsing, the visitors never come back
	clock = clock.Add(40 * time.Minute)
	reg.Get(ctx, "alice")
	clock = clock.Add(40 * time.Minute)

	bob := reg.Get(ctx, "bob")
	assert.Equal(t, 2, reg.Len())
	assert.Same(t, first, reg.Get(ctx, "alice"))
	assert.Empty(t, bob.State().Items)

	clock = clock.Add(2 * time.Hour)
	reg.Get(ctx, "carol")
	assert.Equal(t, 1, reg.Len())

	// the evicted cart comes back from storage
	second := reg.Get(ctx, "alice")
	assert.NotSame(t, first, second)
	require.Len(t, second.State().Items, 1)
	assert.Equal(t, 2, second.State().Items[0].Quantity)
}
