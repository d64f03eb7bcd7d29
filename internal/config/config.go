package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/anime-shed/sobel-inspector-go/internal/sobel"
)

// Supported output encodings
var outputFormats = map[string]bool{"png": true, "jpeg": true, "bmp": true, "tiff": true}

type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	ImageFetchTimeout  time.Duration
	MaxRequestBodySize int64

	// Edge filter
	Threads       int
	MaxPixels     int
	EdgeThreshold int
	OutputFormat  string

	// Locations accepted from API clients
	AllowLocalPaths bool
	AllowedHosts    []string

	// Azure blob storage; empty disables azblob:// locations
	AzureAccountName string
	AzureAccountKey  string
}

func (c *Config) ServerAddress() string {
	// Trim any whitespace from host and port
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// AzureEnabled reports whether blob storage credentials were supplied
func (c *Config) AzureEnabled() bool {
	return c.AzureAccountName != "" && c.AzureAccountKey != ""
}

func LoadFromEnv() (*Config, error) {
	// Set defaults
	cfg := &Config{
		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		Port:               getEnvOrDefault("PORT", "8080"),
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		ImageFetchTimeout:  parseDurationOrDefault("IMAGE_FETCH_TIMEOUT", 15*time.Second),
		MaxRequestBodySize: parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 20*1024*1024), // 20MB
		Threads:            int(parseIntOrDefault("SOBEL_THREADS", sobel.DefaultThreads)),
		MaxPixels:          int(parseIntOrDefault("SOBEL_MAX_PIXELS", sobel.DefaultMaxPixels)),
		EdgeThreshold:      int(parseIntOrDefault("EDGE_THRESHOLD", 64)),
		OutputFormat:       strings.ToLower(getEnvOrDefault("OUTPUT_FORMAT", "png")),
		AllowLocalPaths:    parseBoolOrDefault("ALLOW_LOCAL_PATHS", false),
		AllowedHosts:       splitList(os.Getenv("ALLOWED_HOSTS")),
		AzureAccountName:   strings.TrimSpace(os.Getenv("AZURE_STORAGE_ACCOUNT")),
		AzureAccountKey:    strings.TrimSpace(os.Getenv("AZURE_STORAGE_KEY")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges; LoadFromEnv calls it before returning
func (c *Config) Validate() error {
	// Validate port is numeric and in range
	p, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid PORT: %q", c.Port)
	}
	if c.MaxRequestBodySize <= 0 {
		return fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", c.MaxRequestBodySize)
	}
	if c.RequestTimeout <= 0 || c.ImageFetchTimeout <= 0 {
		return fmt.Errorf("timeouts must be > 0 (got request=%s, fetch=%s)",
			c.RequestTimeout, c.ImageFetchTimeout)
	}
	if c.MaxPixels <= 0 {
		return fmt.Errorf("SOBEL_MAX_PIXELS must be > 0 (got %d)", c.MaxPixels)
	}
	if c.EdgeThreshold < 0 || c.EdgeThreshold > 255 {
		return fmt.Errorf("EDGE_THRESHOLD must be within 0..255 (got %d)", c.EdgeThreshold)
	}
	if !outputFormats[c.OutputFormat] {
		return fmt.Errorf("unsupported OUTPUT_FORMAT: %q", c.OutputFormat)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}

// splitList parses a comma separated list, dropping empty entries
func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
