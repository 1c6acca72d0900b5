// internal/infrastructure/database/dynamodb/store.go
package dynamodb

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/infrastructure/storage"
)

const (
	attrKey       = "pk"
	attrValue     = "value"
	attrUpdatedAt = "updated_at"
	attrExpiresAt = "expires_at"
)

// API is the subset of the DynamoDB client the store needs
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// Store keeps one item per key in a table whose partition key is "pk"
type Store struct {
	client API
	table  string
	ttl    time.Duration
	now    func() time.Time
}

// NewConnection builds a DynamoDB client from the default AWS credential chain
func NewConnection(ctx context.Context, cfg *config.Config) (*Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.AWS.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.AWS.Endpoint)
		}
	})

	return NewStore(client, cfg.AWS.DynamoDBTable, cfg.Storage.TTL), nil
}

// NewStore wraps a client. A positive ttl writes an expires_at attribute for DynamoDB TTL.
func NewStore(client API, table string, ttl time.Duration) *Store {
	return &Store{
		client: client,
		table:  table,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            s.key(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb get %q: %w", key, err)
	}
	if len(out.Item) == 0 {
		return nil, storage.ErrNotFound
	}

	value, ok := out.Item[attrValue].(*types.AttributeValueMemberS)
	if !ok {
		return nil, fmt.Errorf("dynamodb get %q: attribute %q is not a string", key, attrValue)
	}
	return []byte(value.Value), nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	now := s.now().UTC()
	item := map[string]types.AttributeValue{
		attrKey:       &types.AttributeValueMemberS{Value: key},
		attrValue:     &types.AttributeValueMemberS{Value: string(value)},
		attrUpdatedAt: &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
	}
	if s.ttl > 0 {
		item[attrExpiresAt] = &types.AttributeValueMemberN{Value: strconv.FormatInt(now.Add(s.ttl).Unix(), 10)}
	}

	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("dynamodb put %q: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       s.key(key),
	})
	if err != nil {
		return fmt.Errorf("dynamodb delete %q: %w", key, err)
	}
	return nil
}

func (s *Store) key(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrKey: &types.AttributeValueMemberS{Value: key},
	}
}
