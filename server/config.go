package server

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/dekarrin/fsmc/server/dao"
	"github.com/dekarrin/fsmc/server/dao/inmem"
	"github.com/dekarrin/fsmc/server/dao/sqlite"
	"github.com/dekarrin/fsmc/server/fsms"
	"golang.org/x/crypto/bcrypt"
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

const (
	MaxSecretSize = 64
	MinSecretSize = 32
)

// ParseDBType parses the engine part of a connection string. Case is ignored.
func ParseDBType(s string) (DBType, error) {
	switch DBType(strings.ToLower(s)) {
	case DatabaseSQLite:
		return DatabaseSQLite, nil
	case DatabaseInMemory:
		return DatabaseInMemory, nil
	default:
		return DatabaseNone, fmt.Errorf("DB type not one of 'sqlite' or 'inmem': %q", s)
	}
}

// Database says which persistence layer the server stores users and automata
// in and how to reach it.
type Database struct {
	// Type is the engine. It also decides which other fields are used.
	Type DBType

	// DataDir is the directory SQLite keeps its database file in. It is only
	// used by DatabaseSQLite.
	DataDir string
}

// Connect opens the configured store, creating whatever it needs on disk.
func (db Database) Connect() (dao.Store, error) {
	if err := db.Validate(); err != nil {
		return nil, err
	}

	switch db.Type {
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
		return inmem.NewDatastore(), nil
	}
}

// Validate returns an error if db has an unknown type or is missing a field
// its type needs.
func (db Database) Validate() error {
	switch db.Type {
	case DatabaseInMemory:
		return nil
	case DatabaseSQLite:
		if db.DataDir == "" {
			return fmt.Errorf("DataDir not set to path")
		}
		return nil
	case DatabaseNone, "":
		return fmt.Errorf("'none' DB is not valid")
	default:
		return fmt.Errorf("unknown database type: %q", db.Type.String())
	}
}

// ParseDBConnString parses a connection string of the form "engine:params", or
// just "engine" when the engine takes no params. "sqlite:/data" stores data in
// files under /data, and "inmem" keeps everything in memory.
func ParseDBConnString(s string) (Database, error) {
	engine, params, _ := strings.Cut(s, ":")
	params = strings.TrimSpace(params)

	dbType, err := ParseDBType(strings.TrimSpace(engine))
	if err != nil {
		if strings.EqualFold(strings.TrimSpace(engine), DatabaseNone.String()) {
			return Database{}, fmt.Errorf("cannot specify DB engine 'none' (perhaps you wanted 'inmem'?)")
		}
		return Database{}, fmt.Errorf("unsupported DB engine: %w", err)
	}

	db := Database{Type: dbType}
	switch dbType {
	case DatabaseInMemory:
		if params != "" {
			return Database{}, fmt.Errorf("unsupported param(s) for in-memory DB engine: %s", params)
		}
	case DatabaseSQLite:
		if params == "" {
			return Database{}, fmt.Errorf("sqlite DB engine requires path to data directory after ':'")
		}
		db.DataDir = params
	}

	return db, nil
}

// Config holds everything that can be set to change how an FSMServer runs.
type Config struct {

	// TokenSecret is the secret used for signing tokens. If not provided, a
	// default key is used.
	TokenSecret []byte

	// DB is where users and automata are kept. If not set, an in-memory store
	// is used.
	DB Database

	// UnauthDelayMillis is how long to wait, in milliseconds, before sending
	// an HTTP-401, HTTP-403, or HTTP-500. It slows down naive clients that are
	// guessing credentials. If not set it defaults to 1000. Any negative
	// number turns the delay off.
	UnauthDelayMillis int

	// HashCost is the bcrypt cost used when storing passwords. If not set it
	// defaults to fsms.DefaultHashCost.
	HashCost int
}

// UnauthDelay gives UnauthDelayMillis as a time.Duration. It is zero when the
// delay is turned off.
func (cfg Config) UnauthDelay() time.Duration {
	if cfg.UnauthDelayMillis < 1 {
		return 0
	}
	return time.Millisecond * time.Duration(cfg.UnauthDelayMillis)
}

// FillDefaults returns a copy of cfg with every unset field set to its
// default.
func (cfg Config) FillDefaults() Config {
	filled := cfg

	if filled.TokenSecret == nil {
		filled.TokenSecret = []byte("DEFAULT_TOKEN_SECRET-DO_NOT_USE_IN_PROD!")
	}
	if filled.DB.Type == DatabaseNone || filled.DB.Type == "" {
		filled.DB = Database{Type: DatabaseInMemory}
	}
	if filled.UnauthDelayMillis == 0 {
		filled.UnauthDelayMillis = 1000
	}
	if filled.HashCost == 0 {
		filled.HashCost = fsms.DefaultHashCost
	}

	return filled
}

// Validate returns an error if any field of cfg is invalid. Unset fields count
// as invalid; call it on the result of FillDefaults if defaults are wanted.
func (cfg Config) Validate() error {
	if len(cfg.TokenSecret) < MinSecretSize {
		return fmt.Errorf("token secret: must be at least %d bytes, but is %d", MinSecretSize, len(cfg.TokenSecret))
	}
	if len(cfg.TokenSecret) > MaxSecretSize {
		return fmt.Errorf("token secret: must be no more than %d bytes, but is %d", MaxSecretSize, len(cfg.TokenSecret))
	}
	if err := cfg.DB.Validate(); err != nil {
		return fmt.Errorf("db: %w", err)
	}
	if cfg.HashCost < bcrypt.MinCost || cfg.HashCost > bcrypt.MaxCost {
		return fmt.Errorf("hash cost: must be between %d and %d, but is %d", bcrypt.MinCost, bcrypt.MaxCost, cfg.HashCost)
	}

	return nil
}

// FileConfig is the contents of a server config file. Every field is
// optional.
type FileConfig struct {
	Listen            string `toml:"listen"`
	TokenSecret       string `toml:"token_secret"`
	Database          string `toml:"database"`
	UnauthDelayMillis int    `toml:"unauth_delay_ms"`
	HashCost          int    `toml:"hash_cost"`
}

// LoadConfigFile reads a TOML server config file such as:
//
//	listen = ":8080"
//	token_secret = "some long secret"
//	database = "sqlite:/var/lib/fsmc"
//	unauth_delay_ms = 500
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig

	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return fc, fmt.Errorf("%s: %w", path, err)
	}

	if undec := md.Undecoded(); len(undec) > 0 {
		return fc, fmt.Errorf("%s: unknown key %q", path, undec[0].String())
	}

	return fc, nil
}

// Config converts fc into a Config. The listen address is not part of it.
func (fc FileConfig) Config() (Config, error) {
	cfg := Config{
		UnauthDelayMillis: fc.UnauthDelayMillis,
		HashCost:          fc.HashCost,
	}

	if fc.TokenSecret != "" {
		cfg.TokenSecret = []byte(fc.TokenSecret)
	}

	if fc.Database != "" {
		db, err := ParseDBConnString(fc.Database)
		if err != nil {
			return cfg, fmt.Errorf("database: %w", err)
		}
		cfg.DB = db
	}

	return cfg, nil
}
