package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/atlassian-mcp/internal/common"
)

// Config represents the application configuration.
type Config struct {
	Server    ServerConfig         `toml:"server"`
	Atlassian AtlassianConfig      `toml:"atlassian"`
	Client    ClientConfig         `toml:"client"`
	Logging   common.LoggingConfig `toml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
	Name string `toml:"name"` // reported by GET /health
}

// AtlassianConfig holds the upstream base URL and basic-auth identity.
type AtlassianConfig struct {
	URL      string `toml:"url"`
	Email    string `toml:"email"`
	APIToken string `toml:"api_token"`
	Timeout  string `toml:"timeout"`
}

// GetTimeout parses the upstream request timeout, falling back to 30s.
func (c *AtlassianConfig) GetTimeout() time.Duration {
	return parseDuration(c.Timeout, 30*time.Second)
}

// ClientConfig holds settings for the protocol client used by the demo binary.
type ClientConfig struct {
	ServerURL     string `toml:"server_url"`
	HealthTimeout string `toml:"health_timeout"`
	ListTimeout   string `toml:"list_timeout"`
	InvokeTimeout string `toml:"invoke_timeout"`
}

// GetHealthTimeout parses the health check timeout, falling back to 5s.
func (c *ClientConfig) GetHealthTimeout() time.Duration {
	return parseDuration(c.HealthTimeout, 5*time.Second)
}

// GetListTimeout parses the tool listing timeout, falling back to 10s.
func (c *ClientConfig) GetListTimeout() time.Duration {
	return parseDuration(c.ListTimeout, 10*time.Second)
}

// GetInvokeTimeout parses the invocation timeout, falling back to 30s.
func (c *ClientConfig) GetInvokeTimeout() time.Duration {
	return parseDuration(c.InvokeTimeout, 30*time.Second)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// LoadFromFiles loads configuration with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)
	config.Atlassian.URL = strings.TrimRight(config.Atlassian.URL, "/")
	config.Client.ServerURL = strings.TrimRight(config.Client.ServerURL, "/")

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("ATLASSIAN_URL"); v != "" {
		config.Atlassian.URL = v
	}
	if v := os.Getenv("ATLASSIAN_EMAIL"); v != "" {
		config.Atlassian.Email = v
	}
	if v := os.Getenv("ATLASSIAN_API_TOKEN"); v != "" {
		config.Atlassian.APIToken = v
	}
	if port := os.Getenv("MCP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("MCP_HOST"); host != "" {
		config.Server.Host = host
	}
	if v := os.Getenv("MCP_SERVER_URL"); v != "" {
		config.Client.ServerURL = v
	}
	if level := os.Getenv("MCP_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate returns a list of problems with the server configuration.
// An empty list means the configuration is usable.
func (c *Config) Validate() []string {
	var issues []string

	if c.Atlassian.URL == "" {
		issues = append(issues, "atlassian.url is required (ATLASSIAN_URL)")
	} else if u, err := url.Parse(c.Atlassian.URL); err != nil || u.Scheme == "" || u.Host == "" {
		issues = append(issues, fmt.Sprintf("atlassian.url %q is not an absolute URL", c.Atlassian.URL))
	}
	if c.Atlassian.Email == "" {
		issues = append(issues, "atlassian.email is required (ATLASSIAN_EMAIL)")
	}
	if c.Atlassian.APIToken == "" {
		issues = append(issues, "atlassian.api_token is required (ATLASSIAN_API_TOKEN)")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		issues = append(issues, fmt.Sprintf("server.port %d is out of range", c.Server.Port))
	}

	return issues
}

// Address returns the host:port the server listens on.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
