package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-hclog"

	"github.com/mcpmon/mcpmon/internal/perms"
)

// Init creates the base skeleton configuration file for an mcpmon project.
func (d *DefaultLoader) Init(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	content := `# Managed servers monitored by mcpmon.
#
# [[servers]]
# name = "example"
# description = "Example managed server"
# command = "sleep"
# args = ["999"]
`

	if err := os.WriteFile(path, []byte(content), perms.RegularFile); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

// Load reads and validates the configuration file at path.
// Missing or malformed files are errors here; callers that should degrade to an
// empty server set should use LoadOrEmpty.
func (d *DefaultLoader) Load(path string) (Modifier, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: path cannot be empty", ErrConfigLoadFailed)
	}

	_, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: config file cannot be found, run: 'mcpmon init'", ErrConfigLoadFailed)
		}
		return nil, fmt.Errorf("%w: failed to stat config file (%s): %w", ErrConfigLoadFailed, path, err)
	}

	var cfg *Config
	_, err = toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode config from file (%s): %w", ErrConfigLoadFailed, path, err)
	}
	if cfg == nil {
		return nil, fmt.Errorf("%w: config file is empty (%s)", ErrConfigLoadFailed, path)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%w: failed to validate existing config (%s): %w", ErrConfigLoadFailed, path, err)
	}

	// Update the path that loaded this file to track it.
	cfg.configFilePath = path

	return cfg, nil
}

// LoadOrEmpty loads the configuration file, degrading to an empty server set on
// read or parse failure. The daemon must keep running with no managed servers
// rather than failing startup over a broken config.
func LoadOrEmpty(logger hclog.Logger, loader Loader, path string) *Config {
	mod, err := loader.Load(path)
	if err != nil {
		logger.Warn("Configuration unavailable, continuing with empty server set", "path", path, "error", err)
		return &Config{configFilePath: path}
	}

	cfg, ok := mod.(*Config)
	if !ok {
		cfg = &Config{Servers: mod.ListServers(), configFilePath: path}
	}

	return cfg
}

// AddServer attempts to persist a new managed server to the configuration file.
func (c *Config) AddServer(entry ServerEntry) error {
	if strings.TrimSpace(entry.Name) == "" {
		return NewErrInvalidValue("name", entry.Name)
	}
	if strings.TrimSpace(entry.Command) == "" {
		return NewErrInvalidValue("command", entry.Command)
	}

	previous := c.Servers
	c.Servers = append(slices.Clone(c.Servers), entry)

	if err := c.validate(); err != nil {
		c.Servers = previous
		return err
	}

	if err := c.saveConfig(); err != nil {
		c.Servers = previous
		return fmt.Errorf("failed to save updated config: %w", err)
	}

	return nil
}

// RemoveServer removes a server entry by name from the configuration file.
func (c *Config) RemoveServer(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("server name cannot be empty")
	}

	filtered := make([]ServerEntry, 0, len(c.Servers))
	for _, s := range c.Servers {
		if s.Name != name {
			filtered = append(filtered, s)
		}
	}

	if len(filtered) == len(c.Servers) {
		return fmt.Errorf("server '%s' not found in config", name)
	}

	c.Servers = filtered

	if err := c.validate(); err != nil {
		return err
	}

	if err := c.saveConfig(); err != nil {
		return fmt.Errorf("failed to save updated config: %w", err)
	}

	return nil
}

// ListServers returns a copy of the currently configured server entries.
// This provides read-only access to the internal configuration without exposing
// direct mutation of the underlying slice.
func (c *Config) ListServers() []ServerEntry {
	return slices.Clone(c.Servers)
}

// SaveConfig saves the current configuration to the config file.
func (c *Config) SaveConfig() error {
	return c.saveConfig()
}

func (c *Config) saveConfig() error {
	if c.configFilePath == "" {
		return fmt.Errorf("config file path not present")
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(c.configFilePath, data, perms.RegularFile)
}
