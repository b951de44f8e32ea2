package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/feral-file/marketplace-indexer/internal/domain"
)

const serviceName = "indexer"

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`     // Maximum number of open connections to the database
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`     // Maximum number of idle connections in the pool
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`  // Maximum amount of time a connection may be reused (e.g., "5m", "1h")
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"` // Maximum amount of time a connection may be idle (e.g., "10m", "30m")
}

// CheckpointBackend selects where stream checkpoints are persisted
type CheckpointBackend string

const (
	CheckpointBackendPostgres CheckpointBackend = "postgres"
	CheckpointBackendRedis    CheckpointBackend = "redis"
)

// CheckpointConfig holds checkpoint store configuration
type CheckpointConfig struct {
	Backend   CheckpointBackend `mapstructure:"backend"`
	KeyPrefix string            `mapstructure:"key_prefix"` // redis only
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// NATSConfig holds NATS JetStream configuration
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	StreamName     string        `mapstructure:"stream_name"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
}

// MetricsConfig holds prometheus exporter configuration
type MetricsConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
}

// OrchestratorConfig holds stream scheduling configuration
type OrchestratorConfig struct {
	ConfirmationMargin   uint64        `mapstructure:"confirmation_margin"`
	PollInterval         time.Duration `mapstructure:"poll_interval"`
	MaxBlockRange        uint64        `mapstructure:"max_block_range"`
	WindowSize           uint64        `mapstructure:"window_size"`
	RestartBackoff       time.Duration `mapstructure:"restart_backoff"`
	DiscoveryInterval    time.Duration `mapstructure:"discovery_interval"`
	BlockHeadTTL         time.Duration `mapstructure:"block_head_ttl"`
	BlockHeadStaleWindow time.Duration `mapstructure:"block_head_stale_window"`
	RequestTimeout       time.Duration `mapstructure:"request_timeout"`
}

// FabricConfig holds the factory contract address per token standard
type FabricConfig struct {
	ERC721  string `mapstructure:"erc721"`
	ERC1155 string `mapstructure:"erc1155"`
}

// NetworkConfig holds the configuration of one chain
type NetworkConfig struct {
	Name               string             `mapstructure:"name"`
	Family             domain.ChainFamily `mapstructure:"family"`
	ChainID            uint64             `mapstructure:"chain_id"`
	RPCURL             string             `mapstructure:"rpc_url"`
	APIURL             string             `mapstructure:"api_url"`
	APIKey             string             `mapstructure:"api_key"`
	RequestsPerSecond  float64            `mapstructure:"requests_per_second"`
	ConfirmationMargin uint64             `mapstructure:"confirmation_margin"` // overrides orchestrator.confirmation_margin when > 0
	ExchangeAddress    string             `mapstructure:"exchange_address"`
	Fabric             FabricConfig       `mapstructure:"fabric"`
	FeeLimit           int64              `mapstructure:"fee_limit"`
}

// IndexerConfig holds configuration for the indexer process
type IndexerConfig struct {
	BaseConfig   `mapstructure:",squash"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Checkpoint   CheckpointConfig   `mapstructure:"checkpoint"`
	Redis        RedisConfig        `mapstructure:"redis"`
	NATS         NATSConfig         `mapstructure:"nats"`
	Metrics      MetricsConfig      `mapstructure:"metrics"`
	Orchestrator OrchestratorConfig `mapstructure:"orchestrator"`
	Networks     []NetworkConfig    `mapstructure:"networks"`
}

// LoadIndexerConfig loads configuration for the indexer
func LoadIndexerConfig(configFile string, envPath string) (*IndexerConfig, error) {
	v := configureViper(serviceName, configFile, envPath)

	// Set defaults
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("checkpoint.backend", string(CheckpointBackendPostgres))
	v.SetDefault("checkpoint.key_prefix", "marketplace-indexer:")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.stream_name", "MARKETPLACE_EVENTS")
	v.SetDefault("nats.connection_name", "marketplace-indexer")
	v.SetDefault("orchestrator.confirmation_margin", 3)
	v.SetDefault("orchestrator.poll_interval", "15s")
	v.SetDefault("orchestrator.max_block_range", domain.DEFAULT_MAX_BLOCK_RANGE)
	v.SetDefault("orchestrator.window_size", domain.DEFAULT_WINDOW_SIZE)
	v.SetDefault("orchestrator.restart_backoff", "10s")
	v.SetDefault("orchestrator.discovery_interval", "1m")
	v.SetDefault("orchestrator.block_head_ttl", "5s")
	v.SetDefault("orchestrator.block_head_stale_window", "1m")
	v.SetDefault("orchestrator.request_timeout", "30s")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config IndexerConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate checks the configuration for values the indexer cannot run with
func (c *IndexerConfig) Validate() error {
	switch c.Checkpoint.Backend {
	case CheckpointBackendPostgres:
	case CheckpointBackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("checkpoint backend redis requires redis.addr")
		}
	default:
		return fmt.Errorf("unknown checkpoint backend: %s", c.Checkpoint.Backend)
	}

	if c.Orchestrator.WindowSize == 0 || c.Orchestrator.WindowSize > c.Orchestrator.MaxBlockRange {
		return fmt.Errorf("orchestrator.window_size must be in (0, max_block_range]")
	}

	seen := make(map[string]struct{}, len(c.Networks))
	for i, n := range c.Networks {
		if n.Name == "" {
			return fmt.Errorf("networks[%d]: name is required", i)
		}
		if _, ok := seen[n.Name]; ok {
			return fmt.Errorf("networks[%d]: duplicate network %s", i, n.Name)
		}
		seen[n.Name] = struct{}{}

		switch n.Family {
		case domain.ChainFamilyEVM:
			if n.RPCURL == "" {
				return fmt.Errorf("network %s: rpc_url is required", n.Name)
			}
		case domain.ChainFamilyTron:
			if n.APIURL == "" {
				return fmt.Errorf("network %s: api_url is required", n.Name)
			}
		default:
			return fmt.Errorf("network %s: %w: %s", n.Name, domain.ErrUnsupportedChainFamily, n.Family)
		}
	}

	return nil
}

// Domain converts the network configuration into a domain network
// Contract addresses are normalized to the family's canonical form
func (n NetworkConfig) Domain(defaultMargin uint64) (domain.Network, error) {
	network := domain.Network{
		Name:               n.Name,
		Family:             n.Family,
		ChainID:            n.ChainID,
		RPCURL:             n.RPCURL,
		APIURL:             strings.TrimRight(n.APIURL, "/"),
		APIKey:             n.APIKey,
		RequestsPerSecond:  n.RequestsPerSecond,
		ConfirmationMargin: defaultMargin,
		FabricAddresses:    make(map[domain.ContractType]string),
		FeeLimit:           n.FeeLimit,
	}
	if n.ConfirmationMargin > 0 {
		network.ConfirmationMargin = n.ConfirmationMargin
	}

	if n.ExchangeAddress != "" {
		addr, err := domain.NormalizeAddress(n.Family, n.ExchangeAddress)
		if err != nil {
			return domain.Network{}, fmt.Errorf("network %s: exchange_address: %w", n.Name, err)
		}
		network.ExchangeAddress = addr
	}

	fabrics := map[domain.ContractType]string{
		domain.ContractTypeFabric721:  n.Fabric.ERC721,
		domain.ContractTypeFabric1155: n.Fabric.ERC1155,
	}
	for contractType, address := range fabrics {
		if address == "" {
			continue
		}
		addr, err := domain.NormalizeAddress(n.Family, address)
		if err != nil {
			return domain.Network{}, fmt.Errorf("network %s: fabric %s: %w", n.Name, contractType, err)
		}
		network.FabricAddresses[contractType] = addr
	}

	return network, nil
}

// DomainNetworks converts every configured network
func (c *IndexerConfig) DomainNetworks() ([]domain.Network, error) {
	networks := make([]domain.Network, 0, len(c.Networks))
	for _, n := range c.Networks {
		network, err := n.Domain(c.Orchestrator.ConfirmationMargin)
		if err != nil {
			return nil, err
		}
		networks = append(networks, network)
	}
	return networks, nil
}

func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
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

	v.SetEnvPrefix("MARKETPLACE_INDEXER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all scalar environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
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
		// Checkpoint
		"checkpoint.backend",
		"checkpoint.key_prefix",
		// Redis
		"redis.addr",
		"redis.password",
		"redis.db",
		// NATS
		"nats.url",
		"nats.stream_name",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		// Metrics
		"metrics.listen_addr",
		// Orchestrator
		"orchestrator.confirmation_margin",
		"orchestrator.poll_interval",
		"orchestrator.max_block_range",
		"orchestrator.window_size",
		"orchestrator.restart_backoff",
		"orchestrator.discovery_interval",
		"orchestrator.block_head_ttl",
		"orchestrator.block_head_stale_window",
		"orchestrator.request_timeout",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Shared base first, then local, then optional per-service local
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		_ = godotenv.Overload(filepath.Join(envPath, envFile)) // later files override earlier ones
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
