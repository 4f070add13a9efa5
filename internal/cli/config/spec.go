package config

import (
	"fmt"
	"sort"
)

// Defaults for a new profile.
const (
	DefaultServer   = "http://localhost:8080"
	DefaultEndpoint = "/api"
	DefaultVersion  = "v1"
	DefaultOutput   = "table"
	DefaultProfile  = "default"
)

// CLIConfig is the configuration for restgate-cli.
type CLIConfig struct {
	DefaultOutput string `koanf:"default_output" yaml:"default_output"`

	// Current names the profile used when --profile is not given.
	Current string `koanf:"current" yaml:"current"`

	Profiles map[string]Profile `koanf:"profiles" yaml:"profiles"`
}

// Profile stores the details of one server.
type Profile struct {
	Server   string `koanf:"server" yaml:"server" json:"server"`
	Endpoint string `koanf:"endpoint" yaml:"endpoint" json:"endpoint"`
	Version  string `koanf:"version" yaml:"version" json:"version"`

	// Email and PublicKey are remembered from the last login.
	Email     string `koanf:"email" yaml:"email,omitempty" json:"email,omitempty"`
	PublicKey string `koanf:"public_key" yaml:"public_key,omitempty" json:"public_key,omitempty" table:"wide"`

	// Token is the session token issued by the login resource.
	Token string `koanf:"token" yaml:"token,omitempty" json:"-" table:"-"`

	CAFile   string `koanf:"ca_file" yaml:"ca_file,omitempty" json:"ca_file,omitempty" table:"wide"`
	Insecure bool   `koanf:"insecure" yaml:"insecure,omitempty" json:"insecure,omitempty" table:"wide"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		DefaultOutput: DefaultOutput,
		Current:       DefaultProfile,
		Profiles:      make(map[string]Profile),
	}
}

// DefaultProfileSettings returns a profile pointing at a local server.
func DefaultProfileSettings() Profile {
	return Profile{
		Server:   DefaultServer,
		Endpoint: DefaultEndpoint,
		Version:  DefaultVersion,
	}
}

// Profile returns the named profile with defaults filled in. An empty
// name selects the current profile. Unknown names return the defaults and
// false.
func (c *CLIConfig) Profile(name string) (Profile, bool) {
	if name == "" {
		name = c.Current
	}
	p, ok := c.Profiles[name]
	d := DefaultProfileSettings()
	if p.Server == "" {
		p.Server = d.Server
	}
	if p.Endpoint == "" {
		p.Endpoint = d.Endpoint
	}
	if p.Version == "" {
		p.Version = d.Version
	}
	return p, ok
}

// SetProfile stores p under name.
func (c *CLIConfig) SetProfile(name string, p Profile) {
	if c.Profiles == nil {
		c.Profiles = make(map[string]Profile)
	}
	c.Profiles[name] = p
}

// Use makes name the current profile.
func (c *CLIConfig) Use(name string) error {
	if _, ok := c.Profiles[name]; !ok {
		return fmt.Errorf("profile %q not found", name)
	}
	c.Current = name
	return nil
}

// Remove deletes a profile. Removing the current profile resets Current.
func (c *CLIConfig) Remove(name string) error {
	if _, ok := c.Profiles[name]; !ok {
		return fmt.Errorf("profile %q not found", name)
	}
	delete(c.Profiles, name)
	if c.Current == name {
		c.Current = DefaultProfile
	}
	return nil
}

// Names returns the profile names in sorted order.
func (c *CLIConfig) Names() []string {
	names := make([]string, 0, len(c.Profiles))
	for n := range c.Profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
