package connection

import (
	"fmt"
	"sort"

	"github.com/seqlab/sigcap-go/internal/cli/config"
)

// Manager tracks named remote server profiles, persisted through the
// CLI config file.
type Manager struct {
	cfg  *config.CLIConfig
	path string
}

// NewManager loads profiles from the given config path. An empty path
// uses the default location.
func NewManager(path string) (*Manager, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return &Manager{cfg: cfg, path: path}, nil
}

// Add saves a remote profile under the given name. The first remote
// added becomes current.
func (m *Manager) Add(name string, remote config.RemoteConfig) error {
	if name == "" {
		return fmt.Errorf("remote name required")
	}
	if remote.Server == "" {
		return fmt.Errorf("remote server address required")
	}
	m.cfg.Remotes[name] = remote
	if m.cfg.CurrentRemote == "" {
		m.cfg.CurrentRemote = name
	}
	return config.Save(m.cfg, m.path)
}

// Remove deletes a remote profile. Removing the current remote clears
// the selection.
func (m *Manager) Remove(name string) error {
	if _, ok := m.cfg.Remotes[name]; !ok {
		return fmt.Errorf("unknown remote %q", name)
	}
	delete(m.cfg.Remotes, name)
	if m.cfg.CurrentRemote == name {
		m.cfg.CurrentRemote = ""
	}
	return config.Save(m.cfg, m.path)
}

// Use selects the named remote as current.
func (m *Manager) Use(name string) error {
	if _, ok := m.cfg.Remotes[name]; !ok {
		return fmt.Errorf("unknown remote %q", name)
	}
	m.cfg.CurrentRemote = name
	return config.Save(m.cfg, m.path)
}

// Current returns the active remote profile. Without any saved remote
// the default server address is returned.
func (m *Manager) Current() (string, config.RemoteConfig) {
	if remote, ok := m.cfg.Remotes[m.cfg.CurrentRemote]; ok {
		return m.cfg.CurrentRemote, remote
	}
	return "", config.RemoteConfig{Server: config.DefaultServer}
}

// Names returns all profile names, sorted.
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.cfg.Remotes))
	for name := range m.cfg.Remotes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns one remote profile by name.
func (m *Manager) Get(name string) (config.RemoteConfig, bool) {
	remote, ok := m.cfg.Remotes[name]
	return remote, ok
}

// CurrentName returns the name of the active remote, or empty.
func (m *Manager) CurrentName() string {
	return m.cfg.CurrentRemote
}

// Client builds an HTTP client for the active remote, honoring a
// custom CA when the profile carries one.
func (m *Manager) Client() (*HTTPClient, error) {
	_, remote := m.Current()
	if remote.CACert != "" {
		return NewHTTPClientWithCA(remote.Server, remote.CACert)
	}
	return NewHTTPClient(remote.Server), nil
}
