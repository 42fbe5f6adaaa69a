package store

import "fmt"

// Operator is the comparison in a query condition. Only equality is supported.
type Operator string

// OpEqual is the only supported operator.
const OpEqual Operator = "="

// Condition is one (attribute, operator, value) triple of an equality chain.
type Condition struct {
	Name     string
	Operator Operator
	Value    string
}

// Index selects where a query runs.
type Index int

const (
	// PrimaryIndex is the table itself, keyed by (resourceId, subResourceId).
	PrimaryIndex Index = iota

	// TypeIndex is keyed by (type, subResourceId).
	TypeIndex

	// StatusIndex is keyed by (type, status).
	StatusIndex
)

// String returns the index name used in logs.
func (i Index) String() string {
	switch i {
	case PrimaryIndex:
		return "primary"
	case TypeIndex:
		return "type"
	case StatusIndex:
		return "status"
	default:
		return fmt.Sprintf("Index(%d)", int(i))
	}
}

// KeyAttributes returns the partition and sort attribute names of the index.
func (i Index) KeyAttributes() (partition, sort string) {
	switch i {
	case TypeIndex:
		return AttrType, AttrSubResourceID
	case StatusIndex:
		return AttrType, AttrStatus
	default:
		return AttrResourceID, AttrSubResourceID
	}
}

func eq(name, value string) Condition {
	return Condition{Name: name, Operator: OpEqual, Value: value}
}

// ByType matches every record of a type.
func ByType(entityType string) []Condition {
	return []Condition{eq(AttrType, entityType)}
}

// ByTypeAndSortKey matches records of a type sharing a sort key.
// An empty sort key degrades to ByType.
func ByTypeAndSortKey(entityType, sortKey string) []Condition {
	if sortKey == "" {
		return ByType(entityType)
	}
	return []Condition{eq(AttrType, entityType), eq(AttrSubResourceID, sortKey)}
}

// ByTypeAndStatus matches records of a type in a status.
// An empty status degrades to ByType.
func ByTypeAndStatus(entityType, status string) []Condition {
	if status == "" {
		return ByType(entityType)
	}
	return []Condition{eq(AttrType, entityType), eq(AttrStatus, status)}
}

// ByResource matches every record co-located under one partition key.
func ByResource(resourceID string) []Condition {
	return []Condition{eq(AttrResourceID, resourceID)}
}

// Target resolves the index a condition chain runs against.
func Target(conds []Condition) (Index, error) {
	if len(conds) == 0 || len(conds) > 2 {
		return 0, fmt.Errorf("%w: expected 1 or 2 conditions, got %d", ErrInvalidQuery, len(conds))
	}
	for _, c := range conds {
		if c.Operator != OpEqual {
			return 0, fmt.Errorf("%w: unsupported operator %q", ErrInvalidQuery, c.Operator)
		}
		if c.Value == "" {
			return 0, fmt.Errorf("%w: empty value for %s", ErrInvalidQuery, c.Name)
		}
	}

	switch conds[0].Name {
	case AttrType:
		if len(conds) == 1 {
			return TypeIndex, nil
		}
		switch conds[1].Name {
		case AttrSubResourceID:
			return TypeIndex, nil
		case AttrStatus:
			return StatusIndex, nil
		}
	case AttrResourceID:
		if len(conds) == 1 || conds[1].Name == AttrSubResourceID {
			return PrimaryIndex, nil
		}
	}
	return 0, fmt.Errorf("%w: no index for %v", ErrInvalidQuery, conds)
}
