package store

// Default table layout used for local development.
const (
	DefaultTableName       = "library-system-database"
	DefaultTypeIndexName   = "GSI1"
	DefaultStatusIndexName = "GSI2"
	DefaultPageSize        = 100
)

// Config holds configuration for the Store.
type Config struct {
	// TableName is the single table holding every entity.
	// Default: "library-system-database"
	TableName string

	// TypeIndexName is the GSI keyed by (type, subResourceId).
	// Default: "GSI1"
	TypeIndexName string

	// StatusIndexName is the GSI keyed by (type, status).
	// Default: "GSI2"
	StatusIndexName string

	// PageSize is the query limit used when a request does not set one.
	// Default: 100
	PageSize int32
}

// DefaultConfig returns the local development layout.
func DefaultConfig() Config {
	return Config{
		TableName:       DefaultTableName,
		TypeIndexName:   DefaultTypeIndexName,
		StatusIndexName: DefaultStatusIndexName,
		PageSize:        DefaultPageSize,
	}
}

// validate fills unset values with defaults.
func (c *Config) validate() {
	if c.TableName == "" {
		c.TableName = DefaultTableName
	}
	if c.TypeIndexName == "" {
		c.TypeIndexName = DefaultTypeIndexName
	}
	if c.StatusIndexName == "" {
		c.StatusIndexName = DefaultStatusIndexName
	}
	if c.PageSize < 1 {
		c.PageSize = DefaultPageSize
	}
}

// indexName maps an Index to its configured name. The primary table has none.
func (c Config) indexName(i Index) string {
	switch i {
	case TypeIndex:
		return c.TypeIndexName
	case StatusIndex:
		return c.StatusIndexName
	default:
		return ""
	}
}
