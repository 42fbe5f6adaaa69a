package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacentio/shelf/internal/keys"
	"github.com/jacentio/shelf/store"
)

var rentalSchema = store.Schema{
	Type:            "Rental",
	ResourceType:    "Book",
	SubResourceType: "User",
	Attributes:      []string{"comment"},
	StatusIndexed:   true,
}

func TestSchema_Key(t *testing.T) {
	tests := []struct {
		name    string
		schema  store.Schema
		res     string
		sub     string
		wantRes string
		wantSub string
	}{
		{"self keyed", authorSchema, "a1", "a1", "Author#a1", "Author#a1"},
		{"child of author", bookSchema, "b1", "a1", "Book#b1", "Author#a1"},
		{"book and user pair", rentalSchema, "b1", "u1", "Book#b1", "User#u1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := tt.schema.Key(tt.res, tt.sub)
			assert.Equal(t, tt.wantRes, k.ResourceID)
			assert.Equal(t, tt.wantSub, k.SubResourceID)

			res, sub, err := tt.schema.Decode(k)
			require.NoError(t, err)
			assert.Equal(t, tt.res, res)
			assert.Equal(t, tt.sub, sub)
		})
	}
}

func TestSchema_Decode_RoundTripIDs(t *testing.T) {
	for i := 0; i < 50; i++ {
		b, u := keys.NewID(), keys.NewID()
		res, sub, err := rentalSchema.Decode(rentalSchema.Key(b, u))
		require.NoError(t, err)
		assert.Equal(t, b, res)
		assert.Equal(t, u, sub)
	}
}

func TestSchema_Decode_Mismatch(t *testing.T) {
	_, _, err := rentalSchema.Decode(bookSchema.Key("b1", "a1"))
	assert.ErrorIs(t, err, store.ErrInvalidKey)

	_, _, err = rentalSchema.Decode(store.Key{ResourceID: "Book", SubResourceID: "User#u1"})
	assert.ErrorIs(t, err, keys.ErrMalformed)
}

func TestSchema_QueryKeys(t *testing.T) {
	assert.Equal(t, "Author#a1", bookSchema.SortKey("a1"))
	assert.Equal(t, "Book#b1", rentalSchema.PartitionKey("b1"))
}

func TestRegistry_Lookup(t *testing.T) {
	r := store.NewRegistry(authorSchema, bookSchema)

	s, ok := r.Lookup("Book")
	require.True(t, ok)
	assert.Equal(t, "Author", s.SubResourceType)

	_, ok = r.Lookup("Magazine")
	assert.False(t, ok)

	assert.Len(t, r.Schemas(), 2)
}

func TestRegistry_Register_Replaces(t *testing.T) {
	r := store.NewRegistry(bookSchema)

	updated := bookSchema
	updated.Attributes = []string{"title"}
	r.Register(updated)

	require.Len(t, r.Schemas(), 1)
	s, _ := r.Lookup("Book")
	assert.Equal(t, []string{"title"}, s.Attributes)
}

func TestRegistry_Prepare(t *testing.T) {
	r := store.NewRegistry(authorSchema, bookSchema)

	in := bookRecord()
	out, err := r.Prepare(in)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"title": "Dune", "isbn": "978-0441013593"}, out.Attributes)
	assert.Equal(t, "AVAILABLE", out.Status)
	assert.Contains(t, in.Attributes, "bogus", "input record is not modified")
}
