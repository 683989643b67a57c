package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azdevtools/mcp-azure-devops/pkg/azure"
)

func TestLoadDerivesOrganizationURL(t *testing.T) {
	v := viper.New()
	v.Set("AZURE_DEVOPS_ORG", "myorg")
	v.Set("AZDO_PAT", "secret")

	cfg := load(v)
	assert.Equal(t, "https://dev.azure.com/myorg", cfg.Azure.OrganizationURL)
	assert.NoError(t, cfg.Validate())
}

func TestLoadExplicitURLWins(t *testing.T) {
	v := viper.New()
	v.Set("AZURE_DEVOPS_ORG", "myorg")
	v.Set("AZURE_DEVOPS_ORGANIZATION_URL", "https://devops.example.com/myorg")
	v.Set("AZDO_PAT", "secret")

	cfg := load(v)
	assert.Equal(t, "https://devops.example.com/myorg", cfg.Azure.OrganizationURL)
}

func TestLoadTokenFallback(t *testing.T) {
	v := viper.New()
	v.Set("AZURE_DEVOPS_PAT", "legacy-secret")

	cfg := load(v)
	assert.Equal(t, "legacy-secret", cfg.Azure.PersonalAccessToken)

	v.Set("AZDO_PAT", "primary-secret")
	cfg = load(v)
	assert.Equal(t, "primary-secret", cfg.Azure.PersonalAccessToken)
}

func TestLoadDefaults(t *testing.T) {
	cfg := load(viper.New())
	assert.Equal(t, azure.DefaultTimeout, cfg.Server.RequestTimeout)
}

func TestLoadRequestTimeoutOverride(t *testing.T) {
	v := viper.New()
	v.Set("AZURE_DEVOPS_REQUEST_TIMEOUT", "90s")
	cfg := load(v)
	assert.Equal(t, 90*time.Second, cfg.Server.RequestTimeout)

	// A malformed duration falls back to the default.
	v = viper.New()
	v.Set("AZURE_DEVOPS_REQUEST_TIMEOUT", "soon")
	cfg = load(v)
	assert.Equal(t, azure.DefaultTimeout, cfg.Server.RequestTimeout)
}

func TestValidateReportsMissing(t *testing.T) {
	cfg := load(viper.New())
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AZURE_DEVOPS_ORG")
	assert.Contains(t, err.Error(), "AZDO_PAT")
}

func TestCredentials(t *testing.T) {
	v := viper.New()
	v.Set("AZURE_DEVOPS_ORG", "myorg")
	v.Set("AZDO_PAT", "secret")
	v.Set("AZURE_DEVOPS_PROJECT", "Platform")

	cfg := load(v)
	creds, err := cfg.Credentials()
	require.NoError(t, err)
	assert.Equal(t, "myorg", creds.Organization)
	assert.Equal(t, "https://dev.azure.com/myorg", creds.BaseURL)
	assert.Equal(t, "secret", creds.Token)
}

func TestCredentialsOrganizationFromURL(t *testing.T) {
	v := viper.New()
	v.Set("AZURE_DEVOPS_ORGANIZATION_URL", "https://dev.azure.com/otherorg/")
	v.Set("AZDO_PAT", "secret")

	cfg := load(v)
	creds, err := cfg.Credentials()
	require.NoError(t, err)
	assert.Equal(t, "otherorg", creds.Organization)
	assert.Equal(t, "https://dev.azure.com/otherorg", creds.BaseURL)
}

func TestCredentialsMissing(t *testing.T) {
	cfg := load(viper.New())
	_, err := cfg.Credentials()
	assert.Equal(t, azure.KindConfiguration, azure.KindOf(err))

	v := viper.New()
	v.Set("AZURE_DEVOPS_ORG", "myorg")
	_, err = load(v).Credentials()
	assert.Equal(t, azure.KindConfiguration, azure.KindOf(err))
}
