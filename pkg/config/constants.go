package config

import "time"

// Application constants - centralized configuration values used across packages

// === Network ===

const (
	// DefaultHTTPTimeout bounds each individual API request
	DefaultHTTPTimeout = 30 * time.Second

	// MaxFetchRetries is the number of additional attempts after a failed
	// request before the fetcher gives up on it
	MaxFetchRetries = 3

	// DefaultRetryDelay spaces retry attempts for endpoints that carry no
	// inter-request delay of their own
	DefaultRetryDelay = 500 * time.Millisecond
)

// Inter-request delays. The two endpoints have different cost profiles,
// so each call site carries its own delay.
const (
	// ConversationPageDelay is the minimum gap between conversation-list
	// page requests
	ConversationPageDelay = 500 * time.Millisecond

	// TraceFetchDelay is the minimum gap between trace requests
	TraceFetchDelay = 200 * time.Millisecond
)

// === API endpoints ===

const (
	// DefaultBillingBaseURL hosts the conversation-listing API
	DefaultBillingBaseURL = "https://billing.weni.ai"

	// DefaultNexusBaseURL hosts the message and trace APIs
	DefaultNexusBaseURL = "https://nexus.weni.ai"
)

// === Dates ===

const (
	// DateFormat is the CLI/API date layout (DD-MM-YYYY)
	DateFormat = "02-01-2006"

	// FileTimestampFormat suffixes every output file of one run
	FileTimestampFormat = "20060102_150405"
)

// === Validation ===

const (
	// MinTokenLength catches truncated or corrupted bearer tokens
	MinTokenLength = 16
)

// === File paths ===

const (
	// AnalyzerDir is the analyzer state directory under the home directory
	AnalyzerDir = ".weni-analyzer"

	// ConfigFileName is the credentials config file name
	ConfigFileName = "config.json"
)

// === Environment variables ===

const (
	// BearerTokenEnv supplies the API token when --token is omitted
	BearerTokenEnv = "WENI_BEARER_TOKEN"

	// ProjectUUIDEnv supplies the project when --project-uuid is omitted
	ProjectUUIDEnv = "WENI_PROJECT_UUID"
)
