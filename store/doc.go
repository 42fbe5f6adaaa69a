// Package store provides a single-table DynamoDB data access layer.
//
// Every entity lives in one table keyed by (resourceId, subResourceId). Both
// key attributes are composite "Type#id" strings, which lets related records
// share a partition: a book and its rentals are all stored under "Book#<id>".
//
// # Indexes
//
// Two global secondary indexes serve list queries:
//
//   - the type index, keyed by (type, subResourceId), lists all records of a
//     type or those sharing a sub-resource (e.g. the books of one author)
//   - the status index, keyed by (type, status), lists records in a status.
//     It is sparse: records without a status are not projected into it.
//
// Queries are expressed as equality chains built with [ByType],
// [ByTypeAndSortKey], [ByTypeAndStatus] and [ByResource]; [Target] picks the
// index that can serve a chain.
//
// # Schemas
//
// A [Schema] declares the key layout and attribute whitelist of one type.
// Register schemas in a [Registry] and pass it to [New]:
//
//	reg := store.NewRegistry(store.Schema{
//	    Type:            "Book",
//	    ResourceType:    "Book",
//	    SubResourceType: "Author",
//	    Attributes:      []string{"title", "isbn"},
//	    StatusIndexed:   true,
//	})
//	s := store.New(client, store.DefaultConfig(), reg)
//
// # Pagination
//
// Query returns at most [Pagination].Limit records and an opaque continuation
// token in [Page].Next. Pass the token back to fetch the following page.
//
// # Errors
//
// The package defines domain-specific errors:
//
//   - [ErrNotFound] - record doesn't exist ([NotFoundError] carries the key)
//   - [ErrNoFieldsToUpdate] - update called without fields
//   - [ErrReservedField] - update touched a key, type or timestamp attribute
//   - [ErrUnknownType] - record type has no registered schema
//   - [ErrInvalidKey] - key does not match the schema layout
//   - [ErrInvalidQuery] - condition chain no index can serve
//   - [ErrInvalidToken] - malformed continuation token
//   - [ErrTableExists], [ErrTableNotFound] - table provisioning
package store
