package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"meltyfi/database"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// NATS configuration
	NATSServers string // NATS server addresses (comma-separated)

	// Lottery configuration
	RoyaltyPercent int64 // Percentage of every WonkaBar sale routed to the treasury
	LimitPercent   int64 // Max percentage of a lottery's supply one holder may own
	MaxSupplyCap   int64 // Upper bound on maxSupply at lottery creation
	ChocoChipRate  int64 // ChocoChips minted per unit of currency moved

	// Addresses
	TreasuryAddress string // Fixed royalty recipient
	VaultAddress    string // Address the engine holds escrowed prizes under

	// Automation
	ScanInterval time.Duration // How often the expiry worker scans

	// Environment
	Environment string // "development" or "production"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			// In test environment, use a default test config instead of panicking
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		// Database
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		// NATS
		NATSServers: getEnvWithDefault("NATS_SERVERS", "nats://nats:4222"),

		// Lottery settings with defaults
		RoyaltyPercent: 5,
		LimitPercent:   25,
		MaxSupplyCap:   10000,
		ChocoChipRate:  1,
		ScanInterval:   time.Minute,

		TreasuryAddress: os.Getenv("TREASURY_ADDRESS"),
		VaultAddress:    os.Getenv("VAULT_ADDRESS"),

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if royalty := os.Getenv("ROYALTY_PERCENT"); royalty != "" {
		if parsed, err := strconv.ParseInt(royalty, 10, 64); err == nil {
			config.RoyaltyPercent = parsed
		}
	}
	if limit := os.Getenv("LIMIT_PERCENT"); limit != "" {
		if parsed, err := strconv.ParseInt(limit, 10, 64); err == nil {
			config.LimitPercent = parsed
		}
	}
	if supplyCap := os.Getenv("MAX_SUPPLY_CAP"); supplyCap != "" {
		if parsed, err := strconv.ParseInt(supplyCap, 10, 64); err == nil {
			config.MaxSupplyCap = parsed
		}
	}
	if rate := os.Getenv("CHOCO_CHIP_RATE"); rate != "" {
		if parsed, err := strconv.ParseInt(rate, 10, 64); err == nil {
			config.ChocoChipRate = parsed
		}
	}
	if interval := os.Getenv("SCAN_INTERVAL"); interval != "" {
		if parsed, err := time.ParseDuration(interval); err == nil {
			config.ScanInterval = parsed
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.TreasuryAddress == "" {
			return nil, fmt.Errorf("TREASURY_ADDRESS is required")
		}
		if config.VaultAddress == "" {
			return nil, fmt.Errorf("VAULT_ADDRESS is required")
		}
		if config.RoyaltyPercent < 0 || config.RoyaltyPercent > 100 {
			return nil, fmt.Errorf("ROYALTY_PERCENT must be between 0 and 100")
		}
		if config.LimitPercent <= 0 || config.LimitPercent > 100 {
			return nil, fmt.Errorf("LIMIT_PERCENT must be between 1 and 100")
		}
		// If DatabaseName is provided, ensure it's not empty
		if config.DatabaseName != "" && strings.TrimSpace(config.DatabaseName) == "" {
			return nil, fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
	}

	return config, nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:     "test",
		RoyaltyPercent:  5,
		LimitPercent:    25,
		MaxSupplyCap:    10000,
		ChocoChipRate:   1,
		TreasuryAddress: "treasury-test",
		VaultAddress:    "vault-test",
		ScanInterval:    time.Minute,
	}
}
