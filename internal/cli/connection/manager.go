package connection

import (
	"github.com/yndnr/restgate-go/internal/cli/config"
)

// Overrides are command line values that take precedence over the saved
// profile. Empty fields keep the profile value.
type Overrides struct {
	Server    string
	Endpoint  string
	Version   string
	Token     string
	PublicKey string
	CAFile    string
	Insecure  bool
}

// Manager resolves profiles from the CLI configuration file.
type Manager struct {
	path    string
	cfg     *config.CLIConfig
	profile string
}

// NewManager loads the configuration at path. profile selects a saved
// profile; empty means the current one.
func NewManager(path, profile string) (*Manager, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return &Manager{path: path, cfg: cfg, profile: profile}, nil
}

// Config returns the loaded configuration.
func (m *Manager) Config() *config.CLIConfig {
	return m.cfg
}

// ProfileName returns the name of the active profile.
func (m *Manager) ProfileName() string {
	if m.profile != "" {
		return m.profile
	}
	return m.cfg.Current
}

// Current returns the active profile with o applied.
func (m *Manager) Current(o Overrides) config.Profile {
	p, _ := m.cfg.Profile(m.ProfileName())
	if o.Server != "" {
		p.Server = o.Server
	}
	if o.Endpoint != "" {
		p.Endpoint = o.Endpoint
	}
	if o.Version != "" {
		p.Version = o.Version
	}
	if o.Token != "" {
		p.Token = o.Token
	}
	if o.PublicKey != "" {
		p.PublicKey = o.PublicKey
	}
	if o.CAFile != "" {
		p.CAFile = o.CAFile
	}
	if o.Insecure {
		p.Insecure = true
	}
	return p
}

// Client builds an HTTP client for the active profile.
func (m *Manager) Client(o Overrides) (*HTTPClient, error) {
	p := m.Current(o)
	return NewHTTPClient(Options{
		Server:    p.Server,
		Endpoint:  p.Endpoint,
		Version:   p.Version,
		Token:     p.Token,
		PublicKey: p.PublicKey,
		CAFile:    p.CAFile,
		Insecure:  p.Insecure,
	})
}

// Connect saves p as the active profile.
func (m *Manager) Connect(p config.Profile) error {
	name := m.ProfileName()
	m.cfg.SetProfile(name, p)
	m.cfg.Current = name
	return m.Save()
}

// SaveLogin stores the login details on the active profile.
func (m *Manager) SaveLogin(p config.Profile, email, token string) error {
	p.Email = email
	p.Token = token
	m.cfg.SetProfile(m.ProfileName(), p)
	return m.Save()
}

// Logout clears the token of the active profile.
func (m *Manager) Logout() (bool, error) {
	name := m.ProfileName()
	p, ok := m.cfg.Profiles[name]
	if !ok || p.Token == "" {
		return false, nil
	}
	p.Token = ""
	m.cfg.SetProfile(name, p)
	return true, m.Save()
}

// Save writes the configuration back to disk.
func (m *Manager) Save() error {
	return config.Save(m.cfg, m.path)
}
