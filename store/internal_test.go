package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/smithy-go"
)

// --- Config ---

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		in   Config
		want Config
	}{
		{"zero value", Config{}, DefaultConfig()},
		{
			name: "keeps explicit names",
			in:   Config{TableName: "t", TypeIndexName: "byType", StatusIndexName: "byStatus", PageSize: 10},
			want: Config{TableName: "t", TypeIndexName: "byType", StatusIndexName: "byStatus", PageSize: 10},
		},
		{
			name: "status index does not inherit type index name",
			in:   Config{TypeIndexName: "byType"},
			want: Config{TableName: DefaultTableName, TypeIndexName: "byType", StatusIndexName: DefaultStatusIndexName, PageSize: DefaultPageSize},
		},
		{
			name: "negative page size",
			in:   Config{PageSize: -1},
			want: DefaultConfig(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.in
			cfg.validate()
			if cfg != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, cfg)
			}
		})
	}
}

func TestConfig_IndexName(t *testing.T) {
	cfg := DefaultConfig()

	if got := cfg.indexName(PrimaryIndex); got != "" {
		t.Errorf("expected no index name for the table, got %q", got)
	}
	if got := cfg.indexName(TypeIndex); got != "GSI1" {
		t.Errorf("expected GSI1, got %q", got)
	}
	if got := cfg.indexName(StatusIndex); got != "GSI2" {
		t.Errorf("expected GSI2, got %q", got)
	}
}

// --- wrapError ---

func TestWrapError_APIError(t *testing.T) {
	apiErr := &smithy.GenericAPIError{Code: "ProvisionedThroughputExceededException", Message: "slow down"}
	err := wrapError("query", apiErr)

	if !errors.Is(err, apiErr) {
		t.Errorf("expected wrapped error to match original")
	}
	want := "shelf: dynamodb query failed (ProvisionedThroughputExceededException): api error ProvisionedThroughputExceededException: slow down"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestWrapError_Plain(t *testing.T) {
	err := wrapError("get", errors.New("connection refused"))
	if err.Error() != "shelf: dynamodb get failed: connection refused" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

// --- Timestamps ---

type recordingClient struct {
	Client
	put *dynamodb.PutItemInput
}

func (c *recordingClient) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	c.put = in
	return &dynamodb.PutItemOutput{}, nil
}

func TestStore_Put_StampsClock(t *testing.T) {
	schema := Schema{Type: "User", ResourceType: "User", SubResourceType: "User", Attributes: []string{"name"}}
	client := &recordingClient{}
	s := New(client, DefaultConfig(), NewRegistry(schema))
	s.now = func() time.Time { return time.Date(1975, 2, 15, 10, 10, 0, 0, time.UTC) }

	rec, err := s.Put(context.Background(), Record{Key: schema.Key("u1", "u1"), Type: "User"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if rec.CreatedAt != "1975-02-15T10:10:00.000Z" {
		t.Errorf("expected createdAt 1975-02-15T10:10:00.000Z, got %q", rec.CreatedAt)
	}
	if rec.UpdatedAt != rec.CreatedAt {
		t.Errorf("expected updatedAt to equal createdAt on put")
	}
	if client.put == nil {
		t.Fatal("expected PutItem to be called")
	}
}
