package config

import (
	"strings"

	"github.com/mcpmon/mcpmon/internal/domain"
)

var (
	_ Provider = (*DefaultLoader)(nil)
	_ Modifier = (*Config)(nil)
)

type Loader interface {
	Load(path string) (Modifier, error)
}

type Initializer interface {
	Init(path string) error
}

type Provider interface {
	Initializer
	Loader
}

type Modifier interface {
	AddServer(entry ServerEntry) error
	RemoveServer(name string) error
	ListServers() []ServerEntry
}

type DefaultLoader struct{}

// Config represents the .mcpmon.toml file structure.
type Config struct {
	Servers        []ServerEntry `toml:"servers"`
	configFilePath string        `toml:"-"`
}

// ServerEntry represents the launch specification for a single managed server.
type ServerEntry struct {
	// Name is the unique name referenced by the user and the query surfaces.
	// e.g. 'github-server'
	Name string `json:"name" toml:"name" yaml:"name"`

	// Description is free text shown alongside the server's status.
	Description string `json:"description" toml:"description" yaml:"description"`

	// Command is the executable path or name used to launch the server.
	// e.g. 'npx'
	Command string `json:"command" toml:"command" yaml:"command"`

	// Args are the ordered command line arguments passed to Command.
	Args []string `json:"args,omitempty" toml:"args,omitempty" yaml:"args,omitempty"`
}

// Spec converts the entry into the immutable domain representation used by the
// health engine.
func (e ServerEntry) Spec() domain.ServerSpec {
	return domain.ServerSpec{
		Name:        strings.TrimSpace(e.Name),
		Description: e.Description,
		Command:     strings.TrimSpace(e.Command),
		Args:        append([]string(nil), e.Args...),
	}
}

// Specs converts all configured entries into domain specs.
func (c *Config) Specs() []domain.ServerSpec {
	specs := make([]domain.ServerSpec, 0, len(c.Servers))
	for _, e := range c.Servers {
		specs = append(specs, e.Spec())
	}
	return specs
}
