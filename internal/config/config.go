// Package config loads runtime settings from a .env file, an optional YAML
// file and the process environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jacentio/shelf/store"
)

// Backends.
const (
	BackendDynamoDB = "dynamodb"
	BackendMemory   = "memory"
)

// Local DynamoDB defaults, used when no table name is configured.
const (
	LocalEndpoint        = "http://127.0.0.1:8000"
	LocalRegion          = "local"
	LocalAccessKeyID     = "local"
	LocalSecretAccessKey = "local"
)

// Operation sets served by the dispatcher.
const (
	OperationsAll      = "all"
	OperationsCommands = "commands"
	OperationsQueries  = "queries"
)

// ErrNotRemote is returned by RequireRemote when no table is configured.
var ErrNotRemote = errors.New("config: DYNAMODB_TABLE_NAME is not set")

// Config holds the runtime settings of every shelf binary.
type Config struct {
	Backend    string         `yaml:"backend"`
	HTTPAddr   string         `yaml:"httpAddr"`
	Operations string         `yaml:"operations"`
	Log        LogConfig      `yaml:"log"`
	DynamoDB   DynamoDBConfig `yaml:"dynamodb"`

	// Local is set when no table name was configured and the
	// DynamoDB Local defaults apply.
	Local bool `yaml:"-"`
}

// LogConfig selects the zap level and encoding.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DynamoDBConfig locates the table, its indexes and the endpoint serving them.
type DynamoDBConfig struct {
	TableName       string `yaml:"tableName"`
	TypeIndexName   string `yaml:"typeIndexName"`
	StatusIndexName string `yaml:"statusIndexName"`
	PageSize        int32  `yaml:"pageSize"`
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"accessKeyId"`
	SecretAccessKey string `yaml:"secretAccessKey"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Backend:    BackendDynamoDB,
		HTTPAddr:   ":8080",
		Operations: OperationsAll,
		Log:        LogConfig{Level: "info", Format: "json"},
	}
}

// Load reads .env (when present), the YAML file named by SHELF_CONFIG
// (when set) and then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load .env: %w", err)
	}

	cfg := Default()
	if path := os.Getenv("SHELF_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.loadEnv(); err != nil {
		return Config{}, err
	}
	cfg.applyLocal()
	return cfg, cfg.validate()
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() error {
	setString(&c.Backend, "SHELF_BACKEND")
	setString(&c.HTTPAddr, "SHELF_HTTP_ADDR")
	setString(&c.Operations, "SHELF_OPERATIONS")
	setString(&c.Log.Level, "SHELF_LOG_LEVEL")
	setString(&c.Log.Format, "SHELF_LOG_FORMAT")

	d := &c.DynamoDB
	setString(&d.TableName, "DYNAMODB_TABLE_NAME")
	setString(&d.TypeIndexName, "DYNAMODB_ENTITY_TYPE_INDEX_NAME", "DYNAMODB_GSI1_NAME")
	setString(&d.StatusIndexName, "DYNAMODB_STATUS_INDEX_NAME", "DYNAMODB_GSI2_NAME")
	setString(&d.Endpoint, "DYNAMODB_ENDPOINT")
	setString(&d.Region, "AWS_REGION")

	if v := os.Getenv("DYNAMODB_PAGE_SIZE"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil || n < 1 {
			return fmt.Errorf("config: invalid DYNAMODB_PAGE_SIZE %q", v)
		}
		d.PageSize = int32(n)
	}
	return nil
}

// setString assigns the last non-empty variable among names.
func setString(dst *string, names ...string) {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
}

func (c *Config) applyLocal() {
	if c.DynamoDB.TableName != "" {
		return
	}
	c.Local = true
	d := &c.DynamoDB
	if d.Endpoint == "" {
		d.Endpoint = LocalEndpoint
	}
	if d.Region == "" {
		d.Region = LocalRegion
	}
	if d.AccessKeyID == "" {
		d.AccessKeyID = LocalAccessKeyID
		d.SecretAccessKey = LocalSecretAccessKey
	}
}

func (c Config) validate() error {
	switch c.Backend {
	case BackendDynamoDB, BackendMemory:
	default:
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}
	switch c.Operations {
	case OperationsAll, OperationsCommands, OperationsQueries:
	default:
		return fmt.Errorf("config: unknown operations %q", c.Operations)
	}
	if strings.TrimSpace(c.HTTPAddr) == "" {
		return errors.New("config: empty http address")
	}
	return nil
}

// RequireRemote fails unless a table name was configured explicitly.
// Serverless functions call it at startup.
func (c Config) RequireRemote() error {
	if c.Local {
		return ErrNotRemote
	}
	return nil
}

// Store returns the table layout. Unset names take the store defaults.
func (c Config) Store() store.Config {
	return store.Config{
		TableName:       c.DynamoDB.TableName,
		TypeIndexName:   c.DynamoDB.TypeIndexName,
		StatusIndexName: c.DynamoDB.StatusIndexName,
		PageSize:        c.DynamoDB.PageSize,
	}
}

// Client returns the DynamoDB client options.
func (c Config) Client() store.ClientOptions {
	return store.ClientOptions{
		Region:          c.DynamoDB.Region,
		Endpoint:        c.DynamoDB.Endpoint,
		AccessKeyID:     c.DynamoDB.AccessKeyID,
		SecretAccessKey: c.DynamoDB.SecretAccessKey,
	}
}
