package config

import "github.com/bobmcallan/atlassian-mcp/internal/common"

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8000,
			Host: "localhost",
			Name: "atlassian-mcp",
		},
		Atlassian: AtlassianConfig{
			Timeout: "30s",
		},
		Client: ClientConfig{
			ServerURL:     "http://localhost:8000",
			HealthTimeout: "5s",
			ListTimeout:   "10s",
			InvokeTimeout: "30s",
		},
		Logging: common.LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console"},
			FilePath:   "logs/atlassian-mcp.log",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}
