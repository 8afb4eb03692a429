// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Related item policies.
const (
	RelatedSameCategory   = "same-category"
	RelatedGlobalFallback = "global-fallback"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Data    DataConfig
	Server  ServerConfig
	Auth    AuthConfig
	Catalog CatalogConfig
	Ratings RatingsConfig
	Scripts ScriptsConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DataConfig holds storage configuration. The SQLite database, search
// index, and token key all live under BasePath.
type DataConfig struct {
	BasePath string
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Name         string
	Port         string        // Server port (default: 8080)
	MDNSEnabled  bool          // Advertise the server via mDNS (default: true)
	CORSOrigins  []string      // Allowed CORS origins (default: *)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
}

// AuthConfig holds admin authentication configuration.
type AuthConfig struct {
	// PASETO v4 symmetric key for admin session tokens (32 bytes)
	SessionTokenKey []byte
	// Admin session lifetime (default: 12h)
	SessionDuration time.Duration
	// Bootstrap credentials for the initial admin account.
	// Password is only used when no admin user exists yet.
	AdminUsername string
	AdminPassword string
}

// CatalogConfig holds browsing and suggestion behavior.
type CatalogConfig struct {
	// RelatedPolicy selects how related items are chosen when an item
	// has categories: "same-category" or "global-fallback".
	RelatedPolicy string
	// RelatedLimit is the maximum number of related items returned (default: 4)
	RelatedLimit int
	// SuggestLimit is the maximum number of search suggestions (default: 5)
	SuggestLimit int
	// SuggestMinChars is the minimum query length for suggestions (default: 2)
	SuggestMinChars int
	// SuggestDebounce is the quiet period before a suggestion query fires (default: 300ms)
	SuggestDebounce time.Duration
}

// RatingsConfig holds rating submission limits.
type RatingsConfig struct {
	// SubmitPerMinute limits rating submissions per client IP (default: 10)
	SubmitPerMinute int
	// SubmitBurst is the burst allowance on top of the rate (default: 5)
	SubmitBurst int
}

// ScriptsConfig holds operator script execution configuration.
type ScriptsConfig struct {
	// Enabled allows disabling item script execution entirely (default: true)
	Enabled bool
	// MaxLength is the maximum script source length in bytes (default: 65536)
	MaxLength int
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	// Define command-line flags.
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := flag.String("data-path", "", "Base path for data storage")
	serverName := flag.String("server-name", "", "Name for the server")

	// Server flags
	serverPort := flag.String("port", "", "Server port (default: 8080)")
	mdnsEnabled := flag.String("mdns", "", "Advertise the server via mDNS (default: true)")
	corsOrigins := flag.String("cors-origins", "", "Comma-separated allowed CORS origins (default: *)")
	readTimeout := flag.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flag.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := flag.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")

	// Auth flags
	sessionDuration := flag.String("session-duration", "", "Admin session lifetime (e.g., 12h)")
	adminUsername := flag.String("admin-username", "", "Bootstrap admin username (default: admin)")

	// Catalog flags
	relatedPolicy := flag.String("related-policy", "", "Related item policy (same-category, global-fallback)")
	relatedLimit := flag.String("related-limit", "", "Max related items returned (default: 4)")
	suggestLimit := flag.String("suggest-limit", "", "Max search suggestions (default: 5)")
	suggestMinChars := flag.String("suggest-min-chars", "", "Min query length for suggestions (default: 2)")
	suggestDebounce := flag.String("suggest-debounce", "", "Suggestion debounce interval (default: 300ms)")

	// Scripts flags
	scriptsEnabled := flag.String("scripts-enabled", "", "Enable item script execution (default: true)")

	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	// Build config with proper precedence.
	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Data: DataConfig{
			BasePath: getConfigValue(*dataPath, "DATA_PATH", ""),
		},
		Server: ServerConfig{
			Name:        getConfigValue(*serverName, "SERVER_NAME", "Up4Down Server"),
			Port:        getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			MDNSEnabled: getBoolConfigValue(*mdnsEnabled, "SERVER_MDNS", true),
			CORSOrigins: splitList(getConfigValue(*corsOrigins, "CORS_ORIGINS", "*")),
		},
		Auth: AuthConfig{
			SessionTokenKey: nil, // Set by auth.LoadOrGenerateKey in main
			AdminUsername:   getConfigValue(*adminUsername, "ADMIN_USERNAME", "admin"),
			AdminPassword:   getConfigValue("", "ADMIN_PASSWORD", ""),
		},
		Catalog: CatalogConfig{
			RelatedPolicy:   getConfigValue(*relatedPolicy, "RELATED_POLICY", RelatedSameCategory),
			RelatedLimit:    getIntConfigValue(*relatedLimit, "RELATED_LIMIT", 4),
			SuggestLimit:    getIntConfigValue(*suggestLimit, "SUGGEST_LIMIT", 5),
			SuggestMinChars: getIntConfigValue(*suggestMinChars, "SUGGEST_MIN_CHARS", 2),
		},
		Ratings: RatingsConfig{
			SubmitPerMinute: getIntConfigValue("", "RATING_SUBMIT_PER_MINUTE", 10),
			SubmitBurst:     getIntConfigValue("", "RATING_SUBMIT_BURST", 5),
		},
		Scripts: ScriptsConfig{
			Enabled:   getBoolConfigValue(*scriptsEnabled, "SCRIPTS_ENABLED", true),
			MaxLength: getIntConfigValue("", "SCRIPT_MAX_LENGTH", 65536),
		},
	}

	// Parse durations.
	sessionDurationStr := getConfigValue(*sessionDuration, "SESSION_DURATION", "12h")
	sessionDur, err := time.ParseDuration(sessionDurationStr)
	if err != nil {
		return nil, fmt.Errorf("invalid session duration %q: %w", sessionDurationStr, err)
	}
	cfg.Auth.SessionDuration = sessionDur

	debounceStr := getConfigValue(*suggestDebounce, "SUGGEST_DEBOUNCE", "300ms")
	debounce, err := time.ParseDuration(debounceStr)
	if err != nil {
		return nil, fmt.Errorf("invalid suggest debounce %q: %w", debounceStr, err)
	}
	cfg.Catalog.SuggestDebounce = debounce

	// Parse server timeouts.
	readTimeoutStr := getConfigValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s")
	readTimeoutDuration, err := time.ParseDuration(readTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid read timeout %q: %w", readTimeoutStr, err)
	}
	cfg.Server.ReadTimeout = readTimeoutDuration

	writeTimeoutStr := getConfigValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s")
	writeTimeoutDuration, err := time.ParseDuration(writeTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid write timeout %q: %w", writeTimeoutStr, err)
	}
	cfg.Server.WriteTimeout = writeTimeoutDuration

	idleTimeoutStr := getConfigValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s")
	idleTimeoutDuration, err := time.ParseDuration(idleTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid idle timeout %q: %w", idleTimeoutStr, err)
	}
	cfg.Server.IdleTimeout = idleTimeoutDuration

	// Expand and validate data path.
	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	// Validate configuration.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Data.BasePath == "" {
		return errors.New("data base path cannot be empty after expansion")
	}

	if c.Catalog.RelatedPolicy != RelatedSameCategory && c.Catalog.RelatedPolicy != RelatedGlobalFallback {
		return fmt.Errorf("invalid related policy: %s (must be %s or %s)",
			c.Catalog.RelatedPolicy, RelatedSameCategory, RelatedGlobalFallback)
	}

	if c.Catalog.RelatedLimit < 1 {
		return fmt.Errorf("related limit must be at least 1, got %d", c.Catalog.RelatedLimit)
	}
	if c.Catalog.SuggestLimit < 1 {
		return fmt.Errorf("suggest limit must be at least 1, got %d", c.Catalog.SuggestLimit)
	}
	if c.Catalog.SuggestMinChars < 1 {
		return fmt.Errorf("suggest min chars must be at least 1, got %d", c.Catalog.SuggestMinChars)
	}

	return nil
}

// DatabasePath returns the SQLite database file path.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Data.BasePath, "catalog.db")
}

// SearchIndexPath returns the search index directory path.
func (c *Config) SearchIndexPath() string {
	return filepath.Join(c.Data.BasePath, "search.bleve")
}

// TokenKeyPath returns the session token key file path.
func (c *Config) TokenKeyPath() string {
	return filepath.Join(c.Data.BasePath, "token.key")
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataPath expands ~ and makes the path absolute.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "Up4Down", "data")

	expanded, err := expandPath(c.Data.BasePath, defaultPath)
	if err != nil {
		return err
	}
	c.Data.BasePath = expanded
	return nil
}

// splitList splits a comma-separated value into trimmed entries.
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=value.
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present.
		value = strings.Trim(value, `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
