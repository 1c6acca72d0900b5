package cart

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront/internal/infrastructure/storage"
	"github.com/your-org/storefront/internal/pkg/logger"
)

type brokenStorage struct {
	err error
}

func (b brokenStorage) Get(context.Context, string) ([]byte, error) { return nil, b.err }
func (b brokenStorage) Set(context.Context, string, []byte) error   { return b.err }
func (b brokenStorage) Delete(context.Context, string) error        { return b.err }

func TestPersistence_RoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	rules := DefaultPricingRules()

	s := Open(ctx, mem, DefaultStorageKey, rules, logger.Discard())
	p := runner()
	s.AddToCart(ctx, p, "9", "Red", 2)
	s.AddToCart(ctx, p, "10", "Blue", 1)
	s.AddToCart(ctx, bottle(), "", "", 3)
	s.UpdateQuantity(ctx, "110Blue", 4)
	want := s.State().Items

	reopened := Open(ctx, mem, DefaultStorageKey, rules, logger.Discard())
	if diff := cmp.Diff(want, reopened.State().Items); diff != "" {
		t.Fatalf("reloaded cart differs (-want +got):\n%s", diff)
	}
}

func TestPersistence_StoresItemsArrayUnderKey(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()

	s := Open(ctx, mem, DefaultStorageKey, DefaultPricingRules(), logger.Discard())
	s.AddToCart(ctx, runner(), "9", "Red", 1)

	raw, err := mem.Get(ctx, "cart")
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "19Red", decoded[0]["cartItemId"])
	assert.Equal(t, float64(1), decoded[0]["quantity"])
	assert.Equal(t, "9", decoded[0]["selectedSize"])
}

func TestPersistence_ClearErasesKey(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()

	s := Open(ctx, mem, DefaultStorageKey, DefaultPricingRules(), logger.Discard())
	s.AddToCart(ctx, runner(), "9", "Red", 1)
	s.ClearCart(ctx)

	_, err := mem.Get(ctx, DefaultStorageKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPersistence_VisibilityIsNotWritten(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()

	s := Open(ctx, mem, DefaultStorageKey, DefaultPricingRules(), logger.Discard())
	s.Toggle(ctx)
	s.Open(ctx)

	assert.Empty(t, mem.Keys())
}

func TestPersistence_UnknownUpdateStillSaves(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()

	s := Open(ctx, mem, DefaultStorageKey, DefaultPricingRules(), logger.Discard())
	s.UpdateQuantity(ctx, "ghost", 2)

	raw, err := mem.Get(ctx, DefaultStorageKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestPersistence_LoadDegradesToEmpty(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		storage storage.Storage
		warns   int
	}{
		{"missing", storage.NewMemory(), 0},
		{"malformed", withValue(t, "{not json"), 1},
		{"wrong shape", withValue(t, `{"items": []}`), 1},
		{"unreadable", brokenStorage{err: errors.New("disk on fire")}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, hook := test.NewNullLogger()

			st := NewPersister(tt.storage, DefaultStorageKey, log).Load(ctx)
			assert.NotNil(t, st.Items)
			assert.Empty(t, st.Items)

			warns := 0
			for _, e := range hook.AllEntries() {
				if e.Level == logrus.WarnLevel {
					warns++
				}
			}
			assert.Equal(t, tt.warns, warns)
		})
	}
}

func TestPersistence_LoadSanitizes(t *testing.T) {
	ctx := context.Background()
	stored := []LineItem{
		line("a", 10, 2),
		line("a", 10, 5),
		line("b", 5, 0),
		{CartItemID: "c", Price: 1, Quantity: 40, MaxQuantity: 10, TotalPrice: 40, InStock: true},
		{CartItemID: "d", Price: 2.5, Quantity: 3, MaxQuantity: 0, TotalPrice: 99, InStock: true},
	}
	raw, err := json.Marshal(stored)
	require.NoError(t, err)

	mem := storage.NewMemory()
	require.NoError(t, mem.Set(ctx, DefaultStorageKey, raw))

	st := NewPersister(mem, DefaultStorageKey, logger.Discard()).Load(ctx)
	require.Len(t, st.Items, 3)
	assert.Equal(t, "a", st.Items[0].CartItemID)
	assert.Equal(t, 2, st.Items[0].Quantity)
	assert.Equal(t, 20.0, st.Items[0].TotalPrice)

	// clamped lines are repriced from the clamped quantity
	assert.Equal(t, 10, st.Items[1].Quantity)
	assert.Equal(t, 10.0, st.Items[1].TotalPrice)
	assert.True(t, st.Items[1].InStock)

	// a line without a stock bound is bounded by what was stored
	assert.Equal(t, 3, st.Items[2].Quantity)
	assert.Equal(t, 3, st.Items[2].MaxQuantity)
	assert.Equal(t, 7.5, st.Items[2].TotalPrice)
	assert.Equal(t, 3, SetQuantity(st.Items, "d", 50)[2].Quantity)

	summary := ComputeSummary(st.Items, DefaultPricingRules())
	assert.Equal(t, 15, summary.ItemCount)
	assertAmount(t, "37.50", summary.Subtotal)
}

func TestPersistence_WriteFailureIsLoggedNotSurfaced(t *testing.T) {
	ctx := context.Background()
	log, hook := test.NewNullLogger()

	s := Open(ctx, brokenStorage{err: errors.New("quota exceeded")}, DefaultStorageKey, DefaultPricingRules(), log)

	st := s.AddToCart(ctx, runner(), "9", "Red", 2)
	require.Len(t, st.Items, 1)
	assert.Equal(t, 2, s.State().Items[0].Quantity)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "Failed to persist cart", entry.Message)

	s.ClearCart(ctx)
	assert.Equal(t, "Failed to erase persisted cart", hook.LastEntry().Message)
	assert.Empty(t, s.State().Items)
}

func withValue(t *testing.T, raw string) storage.Storage {
	t.Helper()
	mem := storage.NewMemory()
	require.NoError(t, mem.Set(context.Background(), DefaultStorageKey, []byte(raw)))
	return mem
}
