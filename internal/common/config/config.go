// internal/common/config/config.go
package config

import (
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Storage drivers understood by the record store factory.
const (
	DriverAzureTable    = "aztable"
	DriverPostgres      = "postgres"
	DriverRedis         = "redis"
	DriverElasticsearch = "elasticsearch"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Server        ServerConfig       `mapstructure:"server"`
	Storage       StorageConfig      `mapstructure:"storage"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Logging       LoggingConfig      `mapstructure:"logging"`
	Metrics       MetricsConfig      `mapstructure:"metrics"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string   `mapstructure:"address"`
	Route           string   `mapstructure:"route"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	ReadTimeout     int      `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int      `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int      `mapstructure:"shutdown_timeout"` // milliseconds
	MaxBodyBytes    int64    `mapstructure:"max_body_bytes"`
}

// StorageConfig selects and configures the durable table holding intake records.
// A backend without its credential is reported as not configured at request time.
type StorageConfig struct {
	Driver           string              `mapstructure:"driver"`
	TableName        string              `mapstructure:"table_name"`
	ConnectionString string              `mapstructure:"connection_string"`
	Timeout          int                 `mapstructure:"timeout"` // milliseconds
	Postgres         PostgresConfig      `mapstructure:"postgres"`
	Redis            RedisConfig         `mapstructure:"redis"`
	Elasticsearch    ElasticsearchConfig `mapstructure:"elasticsearch"`
}

type PostgresConfig struct {
	DSN            string `mapstructure:"dsn"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	if p.DSN != "" {
		return p.DSN
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

func (p PostgresConfig) IsConfigured() bool {
	return p.DSN != "" || p.Host != ""
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	URL       string   `mapstructure:"url"` // Single URL shortcut
}

// GetAddresses merges the single URL with the address list.
func (e ElasticsearchConfig) GetAddresses() []string {
	if len(e.Addresses) > 0 {
		return e.Addresses
	}
	if e.URL != "" {
		return []string{e.URL}
	}
	return nil
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// --- Notification targets ---

// NotificationConfig holds every fanout target. Each one is optional and is
// skipped when its credentials or endpoint are empty.
type NotificationConfig struct {
	Trello   TrelloConfig   `mapstructure:"trello"`
	Webhook  WebhookConfig  `mapstructure:"webhook"`
	Email    EmailConfig    `mapstructure:"email"`
	SMS      SMSConfig      `mapstructure:"sms"`
	Workflow WorkflowConfig `mapstructure:"workflow"`
}

type TrelloConfig struct {
	Key     string `mapstructure:"key"`
	Token   string `mapstructure:"token"`
	ListID  string `mapstructure:"list_id"`
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

type WebhookConfig struct {
	URL     string `mapstructure:"url"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

type EmailConfig struct {
	Region string   `mapstructure:"region"`
	From   string   `mapstructure:"from"`
	To     []string `mapstructure:"to"`
}

type SMSConfig struct {
	Region   string `mapstructure:"region"`
	TopicARN string `mapstructure:"topic_arn"`
}

type WorkflowConfig struct {
	GatewayAddress string `mapstructure:"gateway_address"`
	ProcessID      string `mapstructure:"process_id"`
	Plaintext      bool   `mapstructure:"plaintext"`
	Timeout        int    `mapstructure:"timeout"` // milliseconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// --- Validation ---

var routePattern = regexp.MustCompile(`^/[A-Za-z0-9/_\-]*$`)

// Validation errors name the YAML keys operators actually edit.
func init() {
	validation.ErrorTag = "mapstructure"
}

func (c Config) Validate() error {
	return validation.Errors{
		"server":                 c.Server.Validate(),
		"storage":                c.Storage.Validate(),
		"notifications.webhook":  c.Notifications.Webhook.Validate(),
		"notifications.trello":   c.Notifications.Trello.Validate(),
		"notifications.email":    c.Notifications.Email.Validate(),
		"notifications.workflow": c.Notifications.Workflow.Validate(),
		"logging":                c.Logging.Validate(),
	}.Filter()
}

func (s ServerConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Address, validation.Required),
		validation.Field(&s.Route, validation.Required, validation.Match(routePattern)),
		validation.Field(&s.MaxBodyBytes, validation.Min(int64(1))),
		validation.Field(&s.ReadTimeout, validation.Min(0)),
		validation.Field(&s.WriteTimeout, validation.Min(0)),
	)
}

func (s StorageConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Driver, validation.Required,
			validation.In(DriverAzureTable, DriverPostgres, DriverRedis, DriverElasticsearch)),
		validation.Field(&s.TableName, validation.Required, validation.Length(3, 63)),
		validation.Field(&s.Timeout, validation.Min(0)),
	)
}

func (w WebhookConfig) Validate() error {
	return validation.ValidateStruct(&w,
		validation.Field(&w.URL, is.URL),
		validation.Field(&w.Timeout, validation.Min(0)),
	)
}

func (t TrelloConfig) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.BaseURL, is.URL),
		validation.Field(&t.Timeout, validation.Min(0)),
	)
}

func (e EmailConfig) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.From, is.EmailFormat),
		validation.Field(&e.To, validation.Each(is.EmailFormat)),
	)
}

func (w WorkflowConfig) Validate() error {
	return validation.ValidateStruct(&w,
		validation.Field(&w.ProcessID, validation.When(w.GatewayAddress != "", validation.Required)),
		validation.Field(&w.Timeout, validation.Min(0)),
	)
}

func (l LoggingConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.In("debug", "info", "warn", "error")),
		validation.Field(&l.Format, validation.In("json", "console")),
	)
}
