package infra

import (
	"os"
	"strconv"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv  string
	Port    string
	DataDir string

	// DatabaseURL is optional; when empty the generation history is not persisted.
	DatabaseURL string

	RunningHubAPIKey   string
	RunningHubBaseURL  string
	RunningHubWorkflow string
	WorkflowConfigPath string
	// InsecureSkipTLS disables certificate verification on RunningHub calls.
	// The upstream endpoint serves a certificate that does not validate; this
	// is a known security gap, not a recommendation.
	InsecureSkipTLS bool

	DashScopeAPIKey  string
	DashScopeBaseURL string
	TranslationModel string

	PollInterval time.Duration
	PollAttempts int
	CallTimeout  time.Duration

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:  getEnv("APP_ENV", "development"),
		Port:    getEnv("PORT", "8080"),
		DataDir: getEnv("OUTPUT_DIR", "generated_images"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		RunningHubAPIKey:   os.Getenv("RUNNINGHUB_API_KEY"),
		RunningHubBaseURL:  getEnv("RUNNINGHUB_BASE_URL", "https://www.runninghub.cn"),
		RunningHubWorkflow: os.Getenv("RUNNINGHUB_WORKFLOW_ID"),
		WorkflowConfigPath: getEnv("WORKFLOW_CONFIG_PATH", "workflows.json"),
		InsecureSkipTLS:    getEnvBool("RUNNINGHUB_INSECURE_TLS", true),

		DashScopeAPIKey:  os.Getenv("DASHSCOPE_API_KEY"),
		DashScopeBaseURL: getEnv("DASHSCOPE_BASE_URL", "https://dashscope.aliyuncs.com/api/v1"),
		TranslationModel: getEnv("TRANSLATION_MODEL", "qwen-max"),

		PollInterval: time.Second * time.Duration(getEnvInt("POLL_INTERVAL_SECONDS", 5)),
		PollAttempts: getEnvInt("POLL_MAX_ATTEMPTS", 60),
		CallTimeout:  time.Second * time.Duration(getEnvInt("REMOTE_CALL_TIMEOUT_SECONDS", 30)),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	return cfg, nil
}

// HasRemoteCredentials reports whether the remote generation path is usable.
func (c *Config) HasRemoteCredentials() bool {
	return c != nil && c.RunningHubAPIKey != "" && c.RunningHubWorkflow != ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
