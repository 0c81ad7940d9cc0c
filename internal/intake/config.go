package intake

import (
	"fmt"
	"time"
)

const DefaultSuccessMessage = "Request stored. Next step is notification."

type Config struct {
	MaxBodyBytes         int64         `mapstructure:"max_body_bytes"`
	StoreTimeout         time.Duration `mapstructure:"store_timeout"`
	SuccessMessage       string        `mapstructure:"success_message"`
	IncludeNotifications bool          `mapstructure:"include_notifications"`
}

func DefaultConfig() *Config {
	return &Config{
		MaxBodyBytes:         1 << 20,
		StoreTimeout:         10 * time.Second,
		SuccessMessage:       DefaultSuccessMessage,
		IncludeNotifications: true,
	}
}

func (c *Config) Validate() error {
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive")
	}
	if c.StoreTimeout <= 0 {
		return fmt.Errorf("store_timeout must be positive")
	}
	if c.SuccessMessage == "" {
		return fmt.Errorf("success_message is required")
	}
	return nil
}
