package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/smithy-go"

	"github.com/pokecards/storefront/internal/aws"
)

// snapshotItem is the shape persisted in the snapshots DynamoDB table:
// one item per collection, holding the whole serialized collection.
type snapshotItem struct {
	Collection string    `dynamodbav:"collection"` // PK
	Payload    string    `dynamodbav:"payload"`
	Version    int64     `dynamodbav:"version"`
	UpdatedAt  time.Time `dynamodbav:"updated_at"`
}

// DynamoStore keeps every collection snapshot as a single versioned
// item. Save is a conditional put against the version observed by the
// last Load, so two processes sharing the table cannot silently lose
// each other's writes.
type DynamoStore struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time

	mu   sync.Mutex
	seen map[string]int64 // collection -> last loaded version
}

// NewDynamoStore returns a substrate backed by tableName.
func NewDynamoStore(client aws.DynamoDBAPI, tableName string) *DynamoStore {
	return &DynamoStore{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
		seen:      map[string]int64{},
	}
}

func (d *DynamoStore) Load(ctx context.Context, collection string, v any) (bool, error) {
	key, err := attributevalue.MarshalMap(struct {
		Collection string `dynamodbav:"collection"`
	}{Collection: collection})
	if err != nil {
		return false, fmt.Errorf("marshal key: %w", err)
	}
	out, err := d.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &d.tableName,
		Key:       key,
	})
	if err != nil {
		return false, fmt.Errorf("get %s snapshot: %w", collection, err)
	}
	if len(out.Item) == 0 {
		d.remember(collection, 0)
		return false, nil
	}
	var item snapshotItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return false, fmt.Errorf("unmarshal %s snapshot item: %w", collection, err)
	}
	d.remember(collection, item.Version)
	if err := json.Unmarshal([]byte(item.Payload), v); err != nil {
		log.Printf("storage: corrupt %s snapshot, treating as empty: %v", collection, err)
		return false, nil
	}
	return true, nil
}

func (d *DynamoStore) Save(ctx context.Context, collection string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s snapshot: %w", collection, err)
	}
	seen := d.lastSeen(collection)
	item, err := attributevalue.MarshalMap(snapshotItem{
		Collection: collection,
		Payload:    string(payload),
		Version:    seen + 1,
		UpdatedAt:  d.nowFunc(),
	})
	if err != nil {
		return fmt.Errorf("marshal %s snapshot item: %w", collection, err)
	}

	expected, err := attributevalue.MarshalMap(struct {
		Seen int64 `dynamodbav:":seen"`
	}{Seen: seen})
	if err != nil {
		return fmt.Errorf("marshal expected version: %w", err)
	}

	input := &dyn.PutItemInput{
		TableName:                 &d.tableName,
		Item:                      item,
		ConditionExpression:       awsString("attribute_not_exists(#c) OR version = :seen"),
		ExpressionAttributeNames:  map[string]string{"#c": "collection"},
		ExpressionAttributeValues: expected,
	}

	_, err = d.client.PutItem(ctx, input)
	if err != nil {
		// detect conditional check failure -> concurrent writer won
		var sc smithy.APIError
		if errors.As(err, &sc) && sc.ErrorCode() == "ConditionalCheckFailedException" {
			return fmt.Errorf("save %s snapshot: %w", collection, ErrVersionConflict)
		}
		return fmt.Errorf("put %s snapshot: %w", collection, err)
	}
	d.remember(collection, seen+1)
	return nil
}

func (d *DynamoStore) remember(collection string, version int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen[collection] = version
}

func (d *DynamoStore) lastSeen(collection string) int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seen[collection]
}

func awsString(s string) *string { return &s }
