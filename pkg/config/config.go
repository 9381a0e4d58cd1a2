package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-envconfig"
)

// Config carries everything one analysis run needs. Built by the CLI from
// flags, environment, and the config file, then validated before any
// network call.
type Config struct {
	BearerToken string
	ProjectUUID string
	StartDate   string // DD-MM-YYYY, passed to the API verbatim
	EndDate     string // DD-MM-YYYY
	OutputDir   string

	// BillingBaseURL and NexusBaseURL default to the production endpoints
	// when empty. Tests point them at local servers.
	BillingBaseURL string
	NexusBaseURL   string
}

// envCredentials is the slice of configuration read from the process
// environment.
type envCredentials struct {
	BearerToken string `env:"WENI_BEARER_TOKEN"`
	ProjectUUID string `env:"WENI_PROJECT_UUID"`
}

// FileConfig is the shape of ~/.weni-analyzer/config.json, the lowest
// rung of the credential fallback chain.
type FileConfig struct {
	BearerToken string `json:"bearer_token"`
	ProjectUUID string `json:"project_uuid"`
}

// GetFileConfig reads the credentials config file. A missing file is not
// an error; it yields an empty config.
func GetFileConfig() (*FileConfig, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &FileConfig{}, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var fc FileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &fc, nil
}

// SaveFileConfig writes the credentials config file with owner-only
// permissions.
func SaveFileConfig(fc *FileConfig) error {
	if err := ValidateToken(fc.BearerToken); err != nil {
		return err
	}
	if err := ValidateProjectUUID(fc.ProjectUUID); err != nil {
		return err
	}

	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// ResolveCredentials applies the credential fallback chain:
// flag value > environment variable > config file. Empty results are
// allowed here; Validate is where missing credentials become errors.
func ResolveCredentials(ctx context.Context, flagToken, flagProjectUUID string) (token, projectUUID string, err error) {
	token = flagToken
	projectUUID = flagProjectUUID

	if token == "" || projectUUID == "" {
		var env envCredentials
		if err := envconfig.Process(ctx, &env); err != nil {
			return "", "", fmt.Errorf("failed to read environment: %w", err)
		}
		if token == "" {
			token = env.BearerToken
		}
		if projectUUID == "" {
			projectUUID = env.ProjectUUID
		}
	}

	if token == "" || projectUUID == "" {
		fc, err := GetFileConfig()
		if err != nil {
			return "", "", err
		}
		if token == "" {
			token = fc.BearerToken
		}
		if projectUUID == "" {
			projectUUID = fc.ProjectUUID
		}
	}

	return token, projectUUID, nil
}

// ValidateDate checks that a date string is well-formed DD-MM-YYYY.
func ValidateDate(date string) error {
	if _, err := time.Parse(DateFormat, date); err != nil {
		return fmt.Errorf("invalid date %q: must be DD-MM-YYYY (e.g. 15-05-2025)", date)
	}
	return nil
}

// ValidateToken checks basic bearer-token sanity. Empty is allowed here
// (not configured); callers gate on presence separately.
func ValidateToken(token string) error {
	if token == "" {
		return nil
	}
	if len(token) < MinTokenLength {
		return fmt.Errorf("bearer token too short (minimum %d characters)", MinTokenLength)
	}
	if strings.ContainsAny(token, " \t\n\r") {
		return fmt.Errorf("bearer token contains whitespace characters")
	}
	return nil
}

// MaskToken renders a bearer token for display, keeping just the first
// and last few characters. Tokens too short to mask meaningfully come
// back fully hidden.
func MaskToken(token string) string {
	const head, tail = 8, 4
	if token == "" {
		return "(empty)"
	}
	if len(token) < head+tail {
		return "***"
	}
	return token[:head] + "..." + token[len(token)-tail:]
}

// ValidateProjectUUID checks that the project identifier is a UUID.
// Empty is allowed here (not configured).
func ValidateProjectUUID(projectUUID string) error {
	if projectUUID == "" {
		return nil
	}
	if _, err := uuid.Parse(projectUUID); err != nil {
		return fmt.Errorf("invalid project UUID %q: %w", projectUUID, err)
	}
	return nil
}

// Validate checks the full run configuration. Called before the pipeline
// touches the network.
func (c *Config) Validate() error {
	if c.BearerToken == "" {
		return fmt.Errorf("bearer token is required: pass --token, set %s, or run 'conversation-analyzer configure'", BearerTokenEnv)
	}
	if err := ValidateToken(c.BearerToken); err != nil {
		return err
	}

	if c.ProjectUUID == "" {
		return fmt.Errorf("project UUID is required: pass --project-uuid, set %s, or run 'conversation-analyzer configure'", ProjectUUIDEnv)
	}
	if err := ValidateProjectUUID(c.ProjectUUID); err != nil {
		return err
	}

	if err := ValidateDate(c.StartDate); err != nil {
		return fmt.Errorf("invalid start date: %w", err)
	}
	if err := ValidateDate(c.EndDate); err != nil {
		return fmt.Errorf("invalid end date: %w", err)
	}

	start, _ := time.Parse(DateFormat, c.StartDate)
	end, _ := time.Parse(DateFormat, c.EndDate)
	if end.Before(start) {
		return fmt.Errorf("end date %s is before start date %s", c.EndDate, c.StartDate)
	}

	if c.OutputDir == "" {
		return fmt.Errorf("output directory must not be empty")
	}

	return nil
}
