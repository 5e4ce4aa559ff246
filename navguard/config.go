package navguard

import (
	"crypto/md5"
	"encoding/hex"
)

// ServiceConfig is the remote analysis service configuration. Empty strings
// mean unconfigured.
type ServiceConfig struct {
	BackendAddress string
	Credential     string
}

// Configured reports whether both values are present
func (c ServiceConfig) Configured() bool {
	return c.BackendAddress != "" && c.Credential != ""
}

// Fingerprint summarizes the current configuration so a change can be
// detected between analysis calls. A changed fingerprint purges the
// decision cache and clears the auth-invalid flag.
func (c ServiceConfig) Fingerprint() string {
	h := md5.New()
	h.Write([]byte(c.BackendAddress))
	h.Write([]byte{0})
	h.Write([]byte(c.Credential))
	return hex.EncodeToString(h.Sum(nil))
}

// ConfigStore reads and writes the service configuration
type ConfigStore interface {
	Get() (ServiceConfig, error)
	Set(cfg ServiceConfig) error
	Clear() error
}

// GuardConfig configures a guard run. Decoded from TOML by the CLI.
type GuardConfig struct {
	DataPath     string
	StartURL     string
	ChromePath   string
	DebugHost    string
	DebugPort    string
	TrustedHosts []string // never checked, always allowed
	BlockedHosts []string // never checked, always suppressed
}
