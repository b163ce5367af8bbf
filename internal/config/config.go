package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/crazycube/graveyard-api/internal/domain"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration.
// The database is optional: an empty host disables the scan checkpoint store.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// ChainConfig holds RPC configuration for the single EVM chain the API reads
type ChainConfig struct {
	RPCURL               string        `mapstructure:"rpc_url"`
	ChainID              uint64        `mapstructure:"chain_id"`
	StartBlock           uint64        `mapstructure:"start_block"`
	BlockHeadTTL         time.Duration `mapstructure:"block_head_ttl"`
	BlockHeadStaleWindow time.Duration `mapstructure:"block_head_stale_window"`
}

// ContractsConfig holds the deployed contract addresses
type ContractsConfig struct {
	Reader    string `mapstructure:"reader"`
	Game      string `mapstructure:"game"`
	Multicall string `mapstructure:"multicall"`
}

// ScanConfig tunes enumeration, log scanning and multicall batching
type ScanConfig struct {
	ChunkSize            uint64 `mapstructure:"chunk_size"`
	WindowPageSize       uint64 `mapstructure:"window_page_size"`
	MaxPages             int    `mapstructure:"max_pages"`
	MulticallBatchSize   int    `mapstructure:"multicall_batch_size"`
	MulticallConcurrency int    `mapstructure:"multicall_concurrency"`
}

// CacheConfig holds response cache configuration
type CacheConfig struct {
	TTL        time.Duration `mapstructure:"ttl"`
	MaxEntries int           `mapstructure:"max_entries"`
}

// RPCConfig holds outgoing RPC throttling and retry configuration
type RPCConfig struct {
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	MaxConcurrency    int           `mapstructure:"max_concurrency"`
	MaxQueueSize      int           `mapstructure:"max_queue_size"`
	MaxRetryElapsed   time.Duration `mapstructure:"max_retry_elapsed"`
	CallTimeout       time.Duration `mapstructure:"call_timeout"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds
}

// AuthConfig holds authentication configuration for admin endpoints
type AuthConfig struct {
	JWTPublicKey string   `mapstructure:"jwt_public_key"`
	APIKeys      []string `mapstructure:"api_keys"`
}

// GraveyardConfig holds everything needed to build the aggregation service.
// Both the API server and the operator CLI load it.
type GraveyardConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig  `mapstructure:"database"`
	Chain      ChainConfig     `mapstructure:"chain"`
	Contracts  ContractsConfig `mapstructure:"contracts"`
	Scan       ScanConfig      `mapstructure:"scan"`
	Cache      CacheConfig     `mapstructure:"cache"`
	RPC        RPCConfig       `mapstructure:"rpc"`
}

// APIConfig holds configuration for the API server
type APIConfig struct {
	GraveyardConfig `mapstructure:",squash"`
	Server          ServerConfig `mapstructure:"server"`
	Auth            AuthConfig   `mapstructure:"auth"`
}

// LoadAPIConfig loads configuration for the API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	setGraveyardDefaults(v)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 60)
	v.SetDefault("server.idle_timeout", 120)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var config APIConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadCLIConfig loads configuration for graveyardctl
func LoadCLIConfig(configFile string, envPath string) (*GraveyardConfig, error) {
	v := configureViper("graveyardctl", configFile, envPath)

	setGraveyardDefaults(v)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var config GraveyardConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the fields the aggregation service cannot run without
func (c *GraveyardConfig) Validate() error {
	if c.Chain.RPCURL == "" {
		return errors.New("chain.rpc_url is required")
	}
	if !common.IsHexAddress(c.Contracts.Reader) {
		return fmt.Errorf("contracts.reader is not a valid address: %q", c.Contracts.Reader)
	}
	if !common.IsHexAddress(c.Contracts.Game) {
		return fmt.Errorf("contracts.game is not a valid address: %q", c.Contracts.Game)
	}
	if !common.IsHexAddress(c.Contracts.Multicall) {
		return fmt.Errorf("contracts.multicall is not a valid address: %q", c.Contracts.Multicall)
	}
	if c.Scan.ChunkSize == 0 {
		return errors.New("scan.chunk_size must be positive")
	}
	if c.Scan.WindowPageSize == 0 {
		return errors.New("scan.window_page_size must be positive")
	}
	if c.Scan.MaxPages <= 0 {
		return errors.New("scan.max_pages must be positive")
	}
	if c.Scan.MulticallBatchSize <= 0 {
		return errors.New("scan.multicall_batch_size must be positive")
	}
	if c.Scan.MulticallConcurrency <= 0 {
		return errors.New("scan.multicall_concurrency must be positive")
	}
	if c.Cache.TTL <= 0 {
		return errors.New("cache.ttl must be positive")
	}
	if c.Cache.MaxEntries <= 0 {
		return errors.New("cache.max_entries must be positive")
	}
	if c.RPC.RequestsPerSecond <= 0 {
		return errors.New("rpc.requests_per_second must be positive")
	}
	return nil
}

// DatabaseEnabled reports whether the scan checkpoint store is configured
func (c *GraveyardConfig) DatabaseEnabled() bool {
	return c.Database.Host != ""
}

// setGraveyardDefaults sets defaults shared by every binary
func setGraveyardDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.conn_max_idle_time", "10m")
	v.SetDefault("chain.rpc_url", "https://testnet-rpc.monad.xyz")
	v.SetDefault("chain.chain_id", domain.CHAIN_ID_MONAD_TESTNET)
	v.SetDefault("chain.start_block", 0)
	v.SetDefault("chain.block_head_ttl", "2s")
	v.SetDefault("chain.block_head_stale_window", "30s")
	v.SetDefault("contracts.multicall", domain.DEFAULT_MULTICALL3_ADDRESS)
	v.SetDefault("scan.chunk_size", 5000)
	v.SetDefault("scan.window_page_size", 200)
	v.SetDefault("scan.max_pages", 500)
	v.SetDefault("scan.multicall_batch_size", 150)
	v.SetDefault("scan.multicall_concurrency", 4)
	v.SetDefault("cache.ttl", "60s")
	v.SetDefault("cache.max_entries", 10000)
	v.SetDefault("rpc.requests_per_second", 20)
	v.SetDefault("rpc.burst", 10)
	v.SetDefault("rpc.max_concurrency", 8)
	v.SetDefault("rpc.max_queue_size", 1024)
	v.SetDefault("rpc.max_retry_elapsed", "20s")
	v.SetDefault("rpc.call_timeout", "15s")
}

// readConfig reads the config file, falling back to environment variables when none exists
func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	loadEnv(envPath, service)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		v.AddConfigPath("config/")
	}

	v.SetEnvPrefix("CRAZYCUBE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvKeys(v)

	return v
}

// bindEnvKeys binds every known key so that Unmarshal sees env-only values
func bindEnvKeys(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		// Database
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// Chain
		"chain.rpc_url",
		"chain.chain_id",
		"chain.start_block",
		"chain.block_head_ttl",
		"chain.block_head_stale_window",
		// Contracts
		"contracts.reader",
		"contracts.game",
		"contracts.multicall",
		// Scan
		"scan.chunk_size",
		"scan.window_page_size",
		"scan.max_pages",
		"scan.multicall_batch_size",
		"scan.multicall_concurrency",
		// Cache
		"cache.ttl",
		"cache.max_entries",
		// RPC
		"rpc.requests_per_second",
		"rpc.burst",
		"rpc.max_concurrency",
		"rpc.max_queue_size",
		"rpc.max_retry_elapsed",
		"rpc.call_timeout",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		// Auth
		"auth.jwt_public_key",
		"auth.api_keys",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		_ = godotenv.Overload(filepath.Join(envPath, envFile))
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
