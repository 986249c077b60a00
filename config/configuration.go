package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// ServerConfiguration contains the http server settings
type ServerConfiguration struct {
	Port    int
	Address string
}

// DatabaseConfiguration contains the settings required to connect to a database
type DatabaseConfiguration struct {
	Type string
	DSN  string `json:"-"`
}

// SessionConfiguration configures the session token collaborator
// which resolves inbound credentials to user identities
type SessionConfiguration struct {
	SigningKey     string        `mapstructure:"signing-key"      json:"-"`
	SigningKeyFile string        `mapstructure:"signing-key-file"`
	Issuer         string        `mapstructure:"iss"`
	Expiry         time.Duration `mapstructure:"exp"`
	CodeExpiry     time.Duration `mapstructure:"code-expiry"`
}

// TokenConfiguration holds the access token issuance policy
type TokenConfiguration struct {
	DefaultExpiry time.Duration `mapstructure:"default-expiry"`
	MaxExpiry     time.Duration `mapstructure:"max-expiry"`
}

// PolicyConfiguration configures the installation ledger behaviour
type PolicyConfiguration struct {
	// ReinstallReactivatesRevoked controls whether a fresh install call
	// may bring a revoked installation back to active. The platform
	// treats re-installation as explicit re-consent, so this defaults
	// to true; stricter deployments can turn it off.
	ReinstallReactivatesRevoked bool `mapstructure:"reinstall-reactivates-revoked"`
}

// MetricsConfiguration toggles the prometheus endpoint
type MetricsConfiguration struct {
	Enable bool
}

// Configuration habours the entire service configuration
type Configuration struct {
	Server   *ServerConfiguration   `mapstructure:"server"`
	Database *DatabaseConfiguration `mapstructure:"database"`
	Session  *SessionConfiguration  `mapstructure:"session"`
	Token    *TokenConfiguration    `mapstructure:"token"`
	Policy   *PolicyConfiguration   `mapstructure:"policy"`
	Metrics  *MetricsConfiguration  `mapstructure:"metrics"`
}

// Validate does some basic validation of the config file and tries to be helpful on missconfiguration
func (c *Configuration) Validate() error {
	if c.Database == nil {
		return errors.New("no database configuration found")
	}
	switch c.Database.Type {
	case "sqlite", "pg", "mysql":
	default:
		return fmt.Errorf(
			"unknown database.type %q, possible values: sqlite, pg, mysql",
			c.Database.Type,
		)
	}
	if c.Server == nil {
		return errors.New("no server configuration found")
	}
	if c.Session == nil {
		return errors.New("no session configuration found")
	}
	if c.Session.SigningKey == "" && c.Session.SigningKeyFile == "" {
		return errors.New(
			"you need to define either session.signing-key or session.signing-key-file",
		)
	}
	if c.Token == nil {
		return errors.New("no token configuration found")
	}
	if c.Token.DefaultExpiry <= 0 {
		return errors.New("token.default-expiry needs to be positive")
	}
	if c.Token.MaxExpiry < c.Token.DefaultExpiry {
		return errors.New("token.max-expiry may not be lower than token.default-expiry")
	}
	return nil
}

// DebugMode returns true if the debug mode variable is set
func (*Configuration) DebugMode() bool {
	if r := os.Getenv("RCAB_DEBUG_MODE"); r == "true" {
		return true
	}
	return false
}
