package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

// Store is the DynamoDB implementation of Gateway.
type Store struct {
	client   Client
	config   Config
	registry *Registry
	now      func() time.Time
}

var _ Gateway = (*Store)(nil)

// New creates a new Store instance.
func New(client Client, cfg Config, registry *Registry) *Store {
	cfg.validate()
	if registry == nil {
		registry = NewRegistry()
	}
	return &Store{
		client:   client,
		config:   cfg,
		registry: registry,
		now:      time.Now,
	}
}

// Config returns the effective configuration.
func (s *Store) Config() Config {
	return s.config
}

// Registry returns the schema registry.
func (s *Store) Registry() *Registry {
	return s.registry
}

// Put writes a full record, overwriting any record with the same key.
func (s *Store) Put(ctx context.Context, record Record) (Record, error) {
	rec, err := s.registry.Prepare(record)
	if err != nil {
		return Record{}, err
	}
	ts := Timestamp(s.now())
	rec.CreatedAt = ts
	rec.UpdatedAt = ts

	item, err := attributevalue.MarshalMap(rec.Item())
	if err != nil {
		return Record{}, fmt.Errorf("marshal record: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.config.TableName),
		Item:      item,
	})
	if err != nil {
		return Record{}, wrapError("put", err)
	}
	return rec, nil
}

// Get retrieves a record by key, returning ErrNotFound if missing.
func (s *Store) Get(ctx context.Context, key Key) (Record, error) {
	k, err := marshalKey(key)
	if err != nil {
		return Record{}, err
	}

	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.config.TableName),
		Key:       k,
	})
	if err != nil {
		return Record{}, wrapError("get", err)
	}
	if len(result.Item) == 0 {
		return Record{}, &NotFoundError{Key: key}
	}
	return unmarshalRecord(result.Item)
}

// Update sets the given fields on an existing record.
// Fields named more than once take the last value.
func (s *Store) Update(ctx context.Context, key Key, fields []Field) (Record, error) {
	if err := CheckFields(fields); err != nil {
		return Record{}, err
	}
	k, err := marshalKey(key)
	if err != nil {
		return Record{}, err
	}

	values := make(map[string]string, len(fields))
	var order []string
	for _, f := range fields {
		if _, seen := values[f.Name]; !seen {
			order = append(order, f.Name)
		}
		values[f.Name] = f.Value
	}

	update := expression.Set(expression.Name(AttrUpdatedAt), expression.Value(Timestamp(s.now())))
	for _, name := range order {
		update = update.Set(expression.Name(name), expression.Value(values[name]))
	}
	cond := expression.AttributeExists(expression.Name(AttrResourceID)).
		And(expression.AttributeExists(expression.Name(AttrSubResourceID)))

	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
	if err != nil {
		return Record{}, fmt.Errorf("build update expression: %w", err)
	}

	result, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.config.TableName),
		Key:                       k,
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return Record{}, &NotFoundError{Key: key}
		}
		return Record{}, wrapError("update", err)
	}
	return unmarshalRecord(result.Attributes)
}

// Delete removes an existing record.
func (s *Store) Delete(ctx context.Context, key Key) (Key, error) {
	k, err := marshalKey(key)
	if err != nil {
		return Key{}, err
	}

	expr, err := expression.NewBuilder().
		WithCondition(expression.AttributeExists(expression.Name(AttrResourceID))).
		Build()
	if err != nil {
		return Key{}, fmt.Errorf("build condition expression: %w", err)
	}

	_, err = s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                aws.String(s.config.TableName),
		Key:                      k,
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return Key{}, &NotFoundError{Key: key}
		}
		return Key{}, wrapError("delete", err)
	}
	return key, nil
}

// Query fetches one page of records matching an equality chain.
func (s *Store) Query(ctx context.Context, conds []Condition, page Pagination) (Page, error) {
	index, err := Target(conds)
	if err != nil {
		return Page{}, err
	}

	keyCond := expression.Key(conds[0].Name).Equal(expression.Value(conds[0].Value))
	if len(conds) == 2 {
		keyCond = keyCond.And(expression.Key(conds[1].Name).Equal(expression.Value(conds[1].Value)))
	}
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return Page{}, fmt.Errorf("build key condition: %w", err)
	}

	limit := page.Limit
	if limit < 1 {
		limit = s.config.PageSize
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(s.config.TableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(limit),
		ScanIndexForward:          aws.Bool(!page.Descending),
	}
	if name := s.config.indexName(index); name != "" {
		input.IndexName = aws.String(name)
	}
	if page.Next != "" {
		start, err := DecodeToken(page.Next)
		if err != nil {
			return Page{}, err
		}
		input.ExclusiveStartKey, err = attributevalue.MarshalMap(start)
		if err != nil {
			return Page{}, fmt.Errorf("marshal start key: %w", err)
		}
	}

	result, err := s.client.Query(ctx, input)
	if err != nil {
		return Page{}, wrapError("query", err)
	}

	out := Page{Records: make([]Record, 0, len(result.Items))}
	for _, raw := range result.Items {
		rec, err := unmarshalRecord(raw)
		if err != nil {
			return Page{}, err
		}
		out.Records = append(out.Records, rec)
	}

	if len(result.LastEvaluatedKey) > 0 {
		var last map[string]string
		if err := attributevalue.UnmarshalMap(result.LastEvaluatedKey, &last); err != nil {
			return Page{}, fmt.Errorf("unmarshal last evaluated key: %w", err)
		}
		if out.Next, err = EncodeToken(last); err != nil {
			return Page{}, err
		}
	}
	return out, nil
}

func marshalKey(key Key) (map[string]types.AttributeValue, error) {
	if key.ResourceID == "" || key.SubResourceID == "" {
		return nil, fmt.Errorf("%w: empty key attribute", ErrInvalidKey)
	}
	k, err := attributevalue.MarshalMap(key)
	if err != nil {
		return nil, fmt.Errorf("marshal key: %w", err)
	}
	return k, nil
}

func unmarshalRecord(raw map[string]types.AttributeValue) (Record, error) {
	var item map[string]string
	if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
		return Record{}, fmt.Errorf("unmarshal record: %w", err)
	}
	return RecordFromItem(item), nil
}

// wrapError annotates SDK failures with the operation and service error code.
func wrapError(op string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("shelf: dynamodb %s failed (%s): %w", op, apiErr.ErrorCode(), err)
	}
	return fmt.Errorf("shelf: dynamodb %s failed: %w", op, err)
}
