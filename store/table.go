package store

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// CreateTable provisions the table and both secondary indexes.
// It returns ErrTableExists when the table is already there.
func (s *Store) CreateTable(ctx context.Context) error {
	attr := func(name string) types.AttributeDefinition {
		return types.AttributeDefinition{AttributeName: aws.String(name), AttributeType: types.ScalarAttributeTypeS}
	}
	key := func(hash, rng string) []types.KeySchemaElement {
		return []types.KeySchemaElement{
			{AttributeName: aws.String(hash), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String(rng), KeyType: types.KeyTypeRange},
		}
	}
	all := &types.Projection{ProjectionType: types.ProjectionTypeAll}

	_, err := s.client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName:   aws.String(s.config.TableName),
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			attr(AttrResourceID),
			attr(AttrSubResourceID),
			attr(AttrType),
			attr(AttrStatus),
		},
		KeySchema: key(AttrResourceID, AttrSubResourceID),
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			{
				IndexName:  aws.String(s.config.TypeIndexName),
				KeySchema:  key(AttrType, AttrSubResourceID),
				Projection: all,
			},
			{
				IndexName:  aws.String(s.config.StatusIndexName),
				KeySchema:  key(AttrType, AttrStatus),
				Projection: all,
			},
		},
	})
	if err != nil {
		var inUse *types.ResourceInUseException
		if errors.As(err, &inUse) {
			return ErrTableExists
		}
		return wrapError("create table", err)
	}
	return nil
}

// DestroyTable deletes the table.
// It returns ErrTableNotFound when there is nothing to delete.
func (s *Store) DestroyTable(ctx context.Context) error {
	_, err := s.client.DeleteTable(ctx, &dynamodb.DeleteTableInput{
		TableName: aws.String(s.config.TableName),
	})
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return ErrTableNotFound
		}
		return wrapError("delete table", err)
	}
	return nil
}
