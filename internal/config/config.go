package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// StoreMongo は MongoDB をストアとして使う。
	StoreMongo = "mongo"
	// StoreMemory はプロセス内のストアを使う。再起動でデータは消える。
	StoreMemory = "memory"
)

// JWTConfig defines the signing secret and claims expected on bearer tokens.
type JWTConfig struct {
	Secret   []byte
	Issuer   string
	Audience string
	TTL      time.Duration
}

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr            string
	StoreDriver     string
	MongoURI        string
	MongoDatabase   string
	PollCollection  string
	VoteCollection  string
	UserCollection  string
	Timeout         time.Duration
	UseTransactions bool
	ServerLog       *log.Logger
	JWT             JWTConfig
	AllowedOrigins  []string
	BcryptCost      int
}

var defaults = map[string]any{
	"HTTP_ADDR":              ":8080",
	"STORE_DRIVER":           StoreMongo,
	"MONGO_URI":              "mongodb://mongo:27017",
	"MONGO_DB":               "pollbox",
	"POLL_COLLECTION":        "polls",
	"VOTE_COLLECTION":        "postedPolls",
	"USER_COLLECTION":        "users",
	"MONGO_CONNECT_TIMEOUT":  "10s",
	"MONGO_USE_TRANSACTIONS": false,
	"AUTH_JWT_ISSUER":        "pollbox-auth",
	"AUTH_JWT_AUDIENCE":      "",
	"AUTH_JWT_SECRET":        "",
	"AUTH_TOKEN_TTL":         "24h",
	"API_ALLOWED_ORIGINS":    "*",
	"BCRYPT_COST":            10,
}

// Load は環境変数から Config を組み立てる。未設定のキーは既定値で埋め、
// AUTH_JWT_SECRET の欠落や解釈できない値はエラーとして返す。
func Load() (Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	timeout, err := parseDuration(v, "MONGO_CONNECT_TIMEOUT")
	if err != nil {
		return Config{}, err
	}
	ttl, err := parseDuration(v, "AUTH_TOKEN_TTL")
	if err != nil {
		return Config{}, err
	}

	secret := strings.TrimSpace(v.GetString("AUTH_JWT_SECRET"))
	if secret == "" {
		return Config{}, errors.New("AUTH_JWT_SECRET must be configured")
	}

	driver := strings.ToLower(strings.TrimSpace(v.GetString("STORE_DRIVER")))
	if driver != StoreMongo && driver != StoreMemory {
		return Config{}, fmt.Errorf("unsupported STORE_DRIVER %q", driver)
	}

	cfg := Config{
		Addr:            strings.TrimSpace(v.GetString("HTTP_ADDR")),
		StoreDriver:     driver,
		MongoURI:        strings.TrimSpace(v.GetString("MONGO_URI")),
		MongoDatabase:   strings.TrimSpace(v.GetString("MONGO_DB")),
		PollCollection:  strings.TrimSpace(v.GetString("POLL_COLLECTION")),
		VoteCollection:  strings.TrimSpace(v.GetString("VOTE_COLLECTION")),
		UserCollection:  strings.TrimSpace(v.GetString("USER_COLLECTION")),
		Timeout:         timeout,
		UseTransactions: v.GetBool("MONGO_USE_TRANSACTIONS"),
		ServerLog:       log.New(os.Stdout, "[pollbox-api] ", log.LstdFlags|log.Lshortfile),
		JWT: JWTConfig{
			Secret:   []byte(secret),
			Issuer:   strings.TrimSpace(v.GetString("AUTH_JWT_ISSUER")),
			Audience: strings.TrimSpace(v.GetString("AUTH_JWT_AUDIENCE")),
			TTL:      ttl,
		},
		AllowedOrigins: parseList(v.GetString("API_ALLOWED_ORIGINS"), []string{"*"}),
		BcryptCost:     v.GetInt("BCRYPT_COST"),
	}

	cfg.ServerLog.Printf("loaded config: addr=%q store=%q db=%q transactions=%t", cfg.Addr, cfg.StoreDriver, cfg.MongoDatabase, cfg.UseTransactions)

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return parsed, nil
}

func parseList(raw string, fallback []string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
