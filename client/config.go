package client

import (
	"time"

	"i4.energy/across/plantnode/transport"
)

// Config holds the settings of a Client. Build it with NewConfigBuilder.
type Config struct {
	dialer        transport.Dialer
	atTimeout     time.Duration
	initTimeout   time.Duration
	stabilization time.Duration
}

func (c *Config) validate() error {
	if c.dialer == nil {
		return ErrNoDialer
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.atTimeout == 0 {
		c.atTimeout = 5 * time.Second
	}
	if c.initTimeout == 0 {
		c.initTimeout = 10 * time.Second
	}
	if c.stabilization == 0 {
		c.stabilization = time.Second
	}
}

// ConfigBuilder assembles a Config.
type ConfigBuilder struct {
	config Config
}

func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{}
}

// WithDialer sets how the connection to the node is opened. Required.
func (b *ConfigBuilder) WithDialer(d transport.Dialer) *ConfigBuilder {
	b.config.dialer = d
	return b
}

// WithATTimeout sets how long a command may take when the caller's context
// has no deadline.
func (b *ConfigBuilder) WithATTimeout(d time.Duration) *ConfigBuilder {
	b.config.atTimeout = d
	return b
}

// WithInitTimeout bounds the liveness check done by New.
func (b *ConfigBuilder) WithInitTimeout(d time.Duration) *ConfigBuilder {
	b.config.initTimeout = d
	return b
}

// WithStabilization sets the sensor settle time configured on the node. It
// is added to the timeout of every command that samples the sensor.
func (b *ConfigBuilder) WithStabilization(d time.Duration) *ConfigBuilder {
	b.config.stabilization = d
	return b
}

func (b *ConfigBuilder) Build() (Config, error) {
	if err := b.config.validate(); err != nil {
		return Config{}, err
	}
	b.config.setDefaults()
	return b.config, nil
}
