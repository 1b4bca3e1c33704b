package config

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Auth     AuthConfig     `json:"auth"`
	Rates    RatesConfig    `json:"rates"`
	Market   MarketConfig   `json:"market"`
}

// ServerConfig contains server related configurations
type ServerConfig struct {
	Port int `json:"port"`
}

// DatabaseConfig contains database related configurations
type DatabaseConfig struct {
	Driver   string `json:"driver"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// AuthConfig contains authentication related configurations
type AuthConfig struct {
	JWTSecret           string `json:"jwt_secret"`
	AccessTokenExpires  int    `json:"access_token_expires"`  // in minutes
	RefreshTokenExpires int    `json:"refresh_token_expires"` // in minutes
	LoginRatePerMinute  int    `json:"login_rate_per_minute"`
}

// RatesConfig contains exchange rate client configurations
type RatesConfig struct {
	APIURL   string `json:"api_url"`
	CacheTTL int    `json:"cache_ttl"` // in seconds
}

// MarketConfig contains marketplace business limits
type MarketConfig struct {
	MaxRoyaltyPercent string `json:"max_royalty_percent"`
	MaxOfferAmount    string `json:"max_offer_amount"`
}

// Load loads the configuration from file and environment
func Load() (*Config, error) {
	// .env is optional; real environment takes precedence
	_ = godotenv.Load()

	// Default config
	cfg := &Config{
		Server: ServerConfig{
			Port: 8080,
		},
		Database: DatabaseConfig{
			Driver: "postgres",
			Host:   "localhost",
			Port:   5432,
			Name:   "mintora",
		},
		Auth: AuthConfig{
			AccessTokenExpires:  15,
			RefreshTokenExpires: 60 * 24 * 7,
			LoginRatePerMinute:  5,
		},
		Rates: RatesConfig{
			APIURL:   "https://api.coinbase.com/v2/exchange-rates?currency=ETH",
			CacheTTL: 60,
		},
		Market: MarketConfig{
			MaxRoyaltyPercent: "10",
			MaxOfferAmount:    "1000000",
		},
	}

	// Look for config file
	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = filepath.Join("configs", "config.json")
	}

	// Try to load config from file
	if _, err := os.Stat(configFile); err == nil {
		file, err := os.Open(configFile)
		if err != nil {
			return nil, err
		}
		defer file.Close()

		if err := json.NewDecoder(file).Decode(cfg); err != nil {
			return nil, err
		}
	}

	// Override with environment variables if present
	if port := os.Getenv("SERVER_PORT"); port != "" {
		var serverPort int
		if _, err := fmt.Sscanf(port, "%d", &serverPort); err == nil {
			cfg.Server.Port = serverPort
		}
	}

	if dbHost := os.Getenv("DB_HOST"); dbHost != "" {
		cfg.Database.Host = dbHost
	}
	if dbPort := os.Getenv("DB_PORT"); dbPort != "" {
		var databasePort int
		if _, err := fmt.Sscanf(dbPort, "%d", &databasePort); err == nil {
			cfg.Database.Port = databasePort
		}
	}
	if dbUser := os.Getenv("DB_USER"); dbUser != "" {
		cfg.Database.User = dbUser
	}
	if dbPass := os.Getenv("DB_PASSWORD"); dbPass != "" {
		cfg.Database.Password = dbPass
	}
	if dbName := os.Getenv("DB_NAME"); dbName != "" {
		cfg.Database.Name = dbName
	}

	if accessExpires := os.Getenv("JWT_ACCESS_TOKEN_EXPIRES_MINUTES"); accessExpires != "" {
		var minutes int
		if _, err := fmt.Sscanf(accessExpires, "%d", &minutes); err == nil {
			cfg.Auth.AccessTokenExpires = minutes
		}
	}
	if refreshExpires := os.Getenv("JWT_REFRESH_TOKEN_EXPIRES_MINUTES"); refreshExpires != "" {
		var minutes int
		if _, err := fmt.Sscanf(refreshExpires, "%d", &minutes); err == nil {
			cfg.Auth.RefreshTokenExpires = minutes
		}
	}

	if ratesURL := os.Getenv("RATES_API_URL"); ratesURL != "" {
		cfg.Rates.APIURL = ratesURL
	}

	if jwtSecret := os.Getenv("JWT_SECRET"); jwtSecret != "" {
		cfg.Auth.JWTSecret = jwtSecret
	} else if cfg.Auth.JWTSecret == "" {
		// Generate a random JWT secret if not provided
		randomBytes := make([]byte, 32)
		if _, err := rand.Read(randomBytes); err != nil {
			return nil, err
		}
		cfg.Auth.JWTSecret = base64.StdEncoding.EncodeToString(randomBytes)
	}

	return cfg, nil
}
