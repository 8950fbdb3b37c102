package server

import (
	"github.com/kbukum/mdpsolve/util"
	"github.com/kbukum/mdpsolve/validation"
)

// Config holds HTTP server configuration.
type Config struct {
	Host            string `yaml:"host" mapstructure:"host"`
	Port            int    `yaml:"port" mapstructure:"port"`
	ReadTimeout     int    `yaml:"read_timeout" mapstructure:"read_timeout"`         // seconds
	WriteTimeout    int    `yaml:"write_timeout" mapstructure:"write_timeout"`       // seconds
	IdleTimeout     int    `yaml:"idle_timeout" mapstructure:"idle_timeout"`         // seconds
	ShutdownTimeout int    `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"` // seconds
	MaxBodySize     string `yaml:"max_body_size" mapstructure:"max_body_size"`       // e.g. "10MB"
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 15
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 60
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 5
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "10MB"
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	_, sizeErr := util.ParseSize(c.MaxBodySize)
	return validation.New().
		Range("port", c.Port, 0, 65535).
		Min("read_timeout", c.ReadTimeout, 0).
		Min("write_timeout", c.WriteTimeout, 0).
		Min("idle_timeout", c.IdleTimeout, 0).
		Min("shutdown_timeout", c.ShutdownTimeout, 0).
		Custom(sizeErr == nil, "max_body_size", "must be a size such as 512KB or 10MB").
		Err()
}

// bodyLimit returns MaxBodySize in bytes.
func (c *Config) bodyLimit() int64 {
	return util.ParseSizeOr(c.MaxBodySize, 10<<20)
}
