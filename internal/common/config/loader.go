// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configs/config.yaml, merges configs/config.<APP_ENVIRONMENT>.yaml
// on top, then applies environment overrides and defaults.
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // environment file is optional

	return finish(v, env)
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v, os.Getenv("APP_ENVIRONMENT"))
}

func finish(v *viper.Viper, env string) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.App.Environment == "" {
		cfg.App.Environment = env
	}

	overrideEmptyConfig(&cfg)
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads the first .env found walking from the working directory
// up to the module root.
func loadEnvFile() string {
	possiblePaths := []string{".env", "../.env", "../../.env"}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// expandEnvVars replaces ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			v.Set(key, os.ExpandEnv(strVal))
		}
	}
}

// overrideEmptyConfig fills still-empty settings from the flat environment
// names the service has always been deployed with.
func overrideEmptyConfig(cfg *Config) {
	overrides := []struct {
		env    string
		target *string
	}{
		{"INTAKE_STORAGE_CONNECTION_STRING", &cfg.Storage.ConnectionString},
		{"TABLE_NAME", &cfg.Storage.TableName},
		{"STORAGE_DRIVER", &cfg.Storage.Driver},
		{"DATABASE_URL", &cfg.Storage.Postgres.DSN},
		{"REDIS_ADDRESS", &cfg.Storage.Redis.Address},
		{"REDIS_PASSWORD", &cfg.Storage.Redis.Password},
		{"ELASTICSEARCH_URL", &cfg.Storage.Elasticsearch.URL},
		{"TRELLO_KEY", &cfg.Notifications.Trello.Key},
		{"TRELLO_TOKEN", &cfg.Notifications.Trello.Token},
		{"TRELLO_LIST_ID", &cfg.Notifications.Trello.ListID},
		{"INTAKE_WEBHOOK_URL", &cfg.Notifications.Webhook.URL},
		{"NOTIFY_EMAIL_FROM", &cfg.Notifications.Email.From},
		{"NOTIFY_SNS_TOPIC_ARN", &cfg.Notifications.SMS.TopicARN},
		{"ZEEBE_ADDRESS", &cfg.Notifications.Workflow.GatewayAddress},
		{"INTAKE_PROCESS_ID", &cfg.Notifications.Workflow.ProcessID},
		{"LOG_LEVEL", &cfg.Logging.Level},
	}
	for _, o := range overrides {
		if *o.target != "" {
			continue
		}
		if val := os.Getenv(o.env); val != "" {
			*o.target = val
		}
	}

	if len(cfg.Notifications.Email.To) == 0 {
		if val := os.Getenv("NOTIFY_EMAIL_TO"); val != "" {
			for _, addr := range strings.Split(val, ",") {
				if addr = strings.TrimSpace(addr); addr != "" {
					cfg.Notifications.Email.To = append(cfg.Notifications.Email.To, addr)
				}
			}
		}
	}

	if cfg.Server.Address == "" {
		if port := os.Getenv("PORT"); port != "" {
			cfg.Server.Address = ":" + port
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "intake-api"
	}

	// Server defaults
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.Route == "" {
		cfg.Server.Route = "/api/intake"
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"*"}
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30000
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = 1 << 20
	}

	// Storage defaults
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = DriverAzureTable
	}
	if cfg.Storage.TableName == "" {
		cfg.Storage.TableName = "intakeRequests"
	}
	if cfg.Storage.Timeout == 0 {
		cfg.Storage.Timeout = 10000
	}
	if cfg.Storage.Postgres.Port == 0 {
		cfg.Storage.Postgres.Port = 5432
	}
	if cfg.Storage.Postgres.MaxConnections == 0 {
		cfg.Storage.Postgres.MaxConnections = 10
	}
	if cfg.Storage.Postgres.MaxIdle == 0 {
		cfg.Storage.Postgres.MaxIdle = 2
	}
	if cfg.Storage.Postgres.SSLMode == "" {
		cfg.Storage.Postgres.SSLMode = "disable"
	}

	// Notification defaults
	if cfg.Notifications.Trello.BaseURL == "" {
		cfg.Notifications.Trello.BaseURL = "https://api.trello.com/1"
	}
	if cfg.Notifications.Trello.Timeout == 0 {
		cfg.Notifications.Trello.Timeout = 10000
	}
	if cfg.Notifications.Webhook.Timeout == 0 {
		cfg.Notifications.Webhook.Timeout = 10000
	}
	if cfg.Notifications.Workflow.Timeout == 0 {
		cfg.Notifications.Workflow.Timeout = 10000
	}
	if cfg.Notifications.Email.Region == "" {
		cfg.Notifications.Email.Region = os.Getenv("AWS_REGION")
	}
	if cfg.Notifications.SMS.Region == "" {
		cfg.Notifications.SMS.Region = cfg.Notifications.Email.Region
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
