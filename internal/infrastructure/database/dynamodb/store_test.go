package dynamodb

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/infrastructure/storage"
)

type fakeTable struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue
	err   error
}

func newFakeTable() *fakeTable {
	return &fakeTable{items: make(map[string]map[string]types.AttributeValue)}
}

func pk(key map[string]types.AttributeValue) string {
	return key[attrKey].(*types.AttributeValueMemberS).Value
}

func (f *fakeTable) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.GetItemOutput{Item: f.items[pk(in.Key)]}, nil
}

func (f *fakeTable) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.items[pk(in.Item)] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeTable) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	delete(f.items, pk(in.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

func TestStore_StorageContract(t *testing.T) {
	ctx := context.Background()
	table := newFakeTable()
	s := NewStore(table, "storefront", 0)

	_, err := s.Get(ctx, "cart")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.Set(ctx, "cart", []byte(`[]`)))
	got, err := s.Get(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))
	assert.NotContains(t, table.items["cart"], attrExpiresAt)

	require.NoError(t, s.Delete(ctx, "cart"))
	_, err = s.Get(ctx, "cart")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_WritesExpiry(t *testing.T) {
	ctx := context.Background()
	table := newFakeTable()
	s := NewStore(table, "storefront", time.Hour)
	s.now = func() time.Time { return time.Unix(1_700_000_000, 0) }

	require.NoError(t, s.Set(ctx, "session:x:cart", []byte(`[]`)))

	expires := table.items["session:x:cart"][attrExpiresAt].(*types.AttributeValueMemberN)
	assert.Equal(t, "1700003600", expires.Value)
}

func TestStore_WrapsClientErrors(t *testing.T) {
	ctx := context.Background()
	table := newFakeTable()
	table.err = errors.New("throttled")
	s := NewStore(table, "storefront", 0)

	_, err := s.Get(ctx, "cart")
	require.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorContains(t, s.Set(ctx, "cart", nil), "throttled")
	assert.ErrorContains(t, s.Delete(ctx, "cart"), "throttled")
}

func TestStore_RejectsNonStringValue(t *testing.T) {
	ctx := context.Background()
	table := newFakeTable()
	table.items["cart"] = map[string]types.AttributeValue{
		attrKey:   &types.AttributeValueMemberS{Value: "cart"},
		attrValue: &types.AttributeValueMemberN{Value: "1"},
	}
	s := NewStore(table, "storefront", 0)

	_, err := s.Get(ctx, "cart")
	assert.Error(t, err)
}
