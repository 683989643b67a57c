// Package config provides centralized configuration for the Azure DevOps MCP
// server. Everything is resolved from environment variables through viper;
// secrets are read once and handed to callers as values, never logged.
package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"

	"github.com/azdevtools/mcp-azure-devops/pkg/azure"
)

// Config holds the complete configuration for the server.
type Config struct {
	// Azure DevOps connection settings.
	Azure struct {
		Organization        string
		OrganizationURL     string
		PersonalAccessToken string
		Project             string
		Repository          string
		Team                string
	}

	// Server settings.
	Server struct {
		RequestTimeout time.Duration
	}
}

var (
	once   sync.Once
	config *Config
)

// Load initializes and returns the process-wide configuration.
func Load() *Config {
	once.Do(func() {
		config = load(viper.New())
	})
	return config
}

// load reads configuration from the given viper instance. Split out so tests
// can run against a fresh instance instead of the process singleton.
func load(v *viper.Viper) *Config {
	v.SetDefault("request.timeout", azure.DefaultTimeout)
	v.AutomaticEnv()

	cfg := &Config{}

	cfg.Azure.Organization = v.GetString("AZURE_DEVOPS_ORG")
	cfg.Azure.OrganizationURL = v.GetString("AZURE_DEVOPS_ORGANIZATION_URL")
	if cfg.Azure.OrganizationURL == "" && cfg.Azure.Organization != "" {
		cfg.Azure.OrganizationURL = "https://dev.azure.com/" + cfg.Azure.Organization
	}

	cfg.Azure.PersonalAccessToken = v.GetString("AZDO_PAT")
	if cfg.Azure.PersonalAccessToken == "" {
		cfg.Azure.PersonalAccessToken = v.GetString("AZURE_DEVOPS_PAT")
	}

	cfg.Azure.Project = v.GetString("AZURE_DEVOPS_PROJECT")
	cfg.Azure.Repository = v.GetString("AZURE_DEVOPS_REPOSITORY")
	cfg.Azure.Team = v.GetString("AZURE_DEVOPS_TEAM")

	cfg.Server.RequestTimeout = v.GetDuration("request.timeout")
	if timeout := v.GetString("AZURE_DEVOPS_REQUEST_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Server.RequestTimeout = d
		}
	}

	return cfg
}

// Validate reports which required settings are missing.
func (c *Config) Validate() error {
	var missing []string

	if c.Azure.OrganizationURL == "" {
		missing = append(missing, "AZURE_DEVOPS_ORG or AZURE_DEVOPS_ORGANIZATION_URL")
	}
	if c.Azure.PersonalAccessToken == "" {
		missing = append(missing, "AZDO_PAT")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Credentials resolves the connection credentials, failing fast when the
// organization URL or token is absent. No network access happens here.
func (c *Config) Credentials() (azure.Credentials, error) {
	if c.Azure.OrganizationURL == "" {
		return azure.Credentials{}, azure.NewConfigurationError(
			"organization URL not set: export AZURE_DEVOPS_ORG or AZURE_DEVOPS_ORGANIZATION_URL")
	}
	if c.Azure.PersonalAccessToken == "" {
		return azure.Credentials{}, azure.NewConfigurationError(
			"personal access token not set: export AZDO_PAT")
	}

	org := c.Azure.Organization
	if org == "" {
		org = strings.TrimPrefix(c.Azure.OrganizationURL, "https://dev.azure.com/")
		org = strings.Trim(org, "/")
	}

	return azure.Credentials{
		Organization: org,
		BaseURL:      strings.TrimRight(c.Azure.OrganizationURL, "/"),
		Token:        c.Azure.PersonalAccessToken,
	}, nil
}
