// Package config provides YAML-based configuration for the game server
// and its companion commands.
package config

import (
	"fmt"
	"time"
)

// Config is the full server configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Record   RecordConfig   `yaml:"record"`
	Spectate SpectateConfig `yaml:"spectate"`
	SSH      SSHConfig      `yaml:"ssh"`
	Storage  StorageConfig  `yaml:"storage"`
}

// ServerConfig tunes the control listener and the game loop.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// TimeoutSeconds bounds each frame/command exchange; 0 blocks forever.
	TimeoutSeconds int `yaml:"timeout_seconds"`
	// TickRate is how many frames per second the session sends.
	TickRate int `yaml:"tick_rate"`
}

// Addr returns the host:port the control listener binds.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Timeout returns the exchange deadline as a duration.
func (s ServerConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// RecordConfig tunes session recording. An empty dir disables it.
type RecordConfig struct {
	Dir string `yaml:"dir"`
	// Rate is the sampling rate in snapshots per second.
	Rate int `yaml:"rate"`
}

// SpectateConfig tunes the HTTP/websocket spectator service.
type SpectateConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// SSHConfig tunes the SSH replay browser.
type SSHConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	HostKey string `yaml:"host_key"`
}

// StorageConfig points at the results database.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// Validate rejects values the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server port %d outside 1..65535", c.Server.Port)
	}
	if c.Server.TickRate < 1 || c.Server.TickRate > 240 {
		return fmt.Errorf("config: tick rate %d outside 1..240", c.Server.TickRate)
	}
	if c.Server.TimeoutSeconds < 0 {
		return fmt.Errorf("config: timeout %d is negative", c.Server.TimeoutSeconds)
	}
	if c.Record.Rate < 0 || c.Record.Rate > 240 {
		return fmt.Errorf("config: record rate %d outside 0..240", c.Record.Rate)
	}
	if c.Spectate.Enabled && c.Spectate.Addr == "" {
		return fmt.Errorf("config: spectate enabled without an address")
	}
	if c.SSH.Enabled && c.SSH.Addr == "" {
		return fmt.Errorf("config: ssh enabled without an address")
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("config: storage path is empty")
	}
	return nil
}
