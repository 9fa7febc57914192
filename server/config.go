package server

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/dekarrin/mathscript/session/dao"
	"github.com/dekarrin/mathscript/session/dao/inmem"
	"github.com/dekarrin/mathscript/session/dao/sqlite"
)

// DBType is the type of a Database connection.
type DBType string

func (dbt DBType) String() string {
	return string(dbt)
}

const (
	DatabaseNone     DBType = "none"
	DatabaseSQLite   DBType = "sqlite"
	DatabaseInMemory DBType = "inmem"
)

// ParseDBType parses a string found in a config file into a DBType.
func ParseDBType(s string) (DBType, error) {
	switch strings.ToLower(s) {
	case DatabaseSQLite.String():
		return DatabaseSQLite, nil
	case DatabaseInMemory.String():
		return DatabaseInMemory, nil
	default:
		return DatabaseNone, fmt.Errorf("DB type not one of 'sqlite' or 'inmem': %q", s)
	}
}

// Database contains configuration settings for connecting to a persistence
// layer.
type Database struct {
	Type DBType `toml:"type"`

	// DataDir is the path on disk to a directory to use to store data in.
	// Only applicable for DatabaseSQLite.
	DataDir string `toml:"data_dir"`
}

// Connect performs all logic needed to connect to the configured DB and
// initialize the session store for use.
func (db Database) Connect() (dao.Store, error) {
	switch db.Type {
	case DatabaseInMemory:
		return inmem.NewDatastore(), nil
	case DatabaseSQLite:
		if err := os.MkdirAll(db.DataDir, 0770); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		store, err := sqlite.NewDatastore(db.DataDir)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown database type: %q", db.Type.String())
	}
}

// Config is the full set of settings a mashd server needs, loaded from a
// TOML file on disk via LoadConfig.
type Config struct {
	Listen    string `toml:"listen"`
	JWTSecret string `toml:"jwt_secret"`

	// APIKeyHash is a bcrypt hash of the shared secret clients present to
	// POST /tokens to obtain a bearer token. There is no per-user database
	// in this server, so a single shared credential stands in for the
	// teacher's username/password login.
	APIKeyHash string `toml:"api_key_hash"`

	DefaultUnits []string `toml:"default_units"`
	DB           Database `toml:"db"`
}

// LoadConfig reads and parses a TOML config file from path.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}
	if cfg.Listen == "" {
		cfg.Listen = ":8080"
	}
	if cfg.DB.Type == "" {
		cfg.DB.Type = DatabaseInMemory
	}
	return cfg, nil
}
