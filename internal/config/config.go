// Package config provides configuration loading and management.
package config

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/modresolve/pkg/errors"
	"github.com/matzehuels/modresolve/pkg/maven"
)

// Defaults.
const (
	DefaultHost        = "repo1.maven.org"
	DefaultPort        = 80
	DefaultContentRoot = "/maven2"
	DefaultOutput      = "."
)

// Repository is one configured Maven-layout repository.
type Repository struct {
	// Name labels the repository in logs and output. Optional.
	Name string `mapstructure:"name" toml:"name,omitempty"`

	// Host is the repository host name.
	Host string `mapstructure:"host" toml:"host"`

	// Port is the repository port. Default: 80.
	Port int `mapstructure:"port" toml:"port,omitempty"`

	// ContentRoot is the path under which the group/artifact/version
	// hierarchy lives, e.g. "/maven2".
	ContentRoot string `mapstructure:"contentRoot" toml:"contentRoot,omitempty"`
}

// Location converts the repository to a maven.RepositoryLocation.
func (r Repository) Location() maven.RepositoryLocation {
	return maven.RepositoryLocation{Host: r.Host, Port: r.Port, ContentRoot: r.ContentRoot}
}

// Config represents the modresolve configuration.
// Loaded from ~/.config/modresolve/config.toml, overridden by MODRESOLVE_* env vars.
type Config struct {
	// Repositories are tried in order; a module missing from one is looked
	// up in the next.
	// Env: MODRESOLVE_REPOSITORY (comma-separated host:port/root specs)
	Repositories []Repository `mapstructure:"repositories"`

	// Timeout bounds each repository request.
	// Env: MODRESOLVE_TIMEOUT, Default: 30s
	Timeout time.Duration `mapstructure:"timeout"`

	// MaxMetadataSize bounds the snapshot metadata document in bytes.
	// Env: MODRESOLVE_MAX_METADATA_SIZE, Default: 1 MiB
	MaxMetadataSize int64 `mapstructure:"maxMetadataSize"`

	// Output is the directory artifacts are downloaded into.
	// Env: MODRESOLVE_OUTPUT, Default: "."
	Output string `mapstructure:"output"`
}

// DefaultConfig returns a Config with all default values populated.
// Used by `modresolve config init` to generate the initial config file.
func DefaultConfig() *Config {
	return &Config{
		Repositories: []Repository{{
			Name:        "central",
			Host:        DefaultHost,
			Port:        DefaultPort,
			ContentRoot: DefaultContentRoot,
		}},
		Timeout:         maven.DefaultRequestTimeout,
		MaxMetadataSize: maven.DefaultMaxMetadataSize,
		Output:          DefaultOutput,
	}
}

// WithDefaults returns a copy of c with unset fields filled from DefaultConfig.
func (c *Config) WithDefaults() *Config {
	d := DefaultConfig()
	out := *c
	if len(out.Repositories) == 0 {
		out.Repositories = d.Repositories
	} else {
		repos := make([]Repository, len(out.Repositories))
		for i, r := range out.Repositories {
			if r.Port == 0 {
				r.Port = DefaultPort
			}
			repos[i] = r
		}
		out.Repositories = repos
	}
	if out.Timeout <= 0 {
		out.Timeout = d.Timeout
	}
	if out.MaxMetadataSize <= 0 {
		out.MaxMetadataSize = d.MaxMetadataSize
	}
	if out.Output == "" {
		out.Output = d.Output
	}
	return &out
}

// Validate checks every repository location.
func (c *Config) Validate() error {
	if len(c.Repositories) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "no repositories configured")
	}
	for i, r := range c.Repositories {
		if err := r.Location().Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "repository %d (%s)", i+1, r.Host)
		}
	}
	return nil
}

// fileConfig is the on-disk shape written by Encode.
type fileConfig struct {
	Timeout         string       `toml:"timeout"`
	MaxMetadataSize int64        `toml:"maxMetadataSize"`
	Output          string       `toml:"output"`
	Repositories    []Repository `toml:"repositories"`
}

// Encode writes c as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(fileConfig{
		Timeout:         c.Timeout.String(),
		MaxMetadataSize: c.MaxMetadataSize,
		Output:          c.Output,
		Repositories:    c.Repositories,
	})
}

// ParseRepository parses a "host[:port][/content/root]" spec.
// The port defaults to 80 and the content root to empty.
func ParseRepository(spec string) (Repository, error) {
	s := strings.TrimSpace(spec)
	s = strings.TrimPrefix(s, "http://")

	var r Repository
	hostPort := s
	if i := strings.IndexByte(s, '/'); i >= 0 {
		hostPort = s[:i]
		r.ContentRoot = strings.TrimRight(s[i:], "/")
	}

	r.Host = hostPort
	r.Port = DefaultPort
	if i := strings.LastIndexByte(hostPort, ':'); i >= 0 {
		port, err := strconv.Atoi(hostPort[i+1:])
		if err != nil {
			return Repository{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid port in repository %q", spec)
		}
		r.Host = hostPort[:i]
		r.Port = port
	}

	if err := r.Location().Validate(); err != nil {
		return Repository{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid repository %q", spec)
	}
	return r, nil
}

// ParseRepositories parses a comma-separated list of repository specs.
func ParseRepositories(specs string) ([]Repository, error) {
	var repos []Repository
	for _, spec := range strings.Split(specs, ",") {
		if strings.TrimSpace(spec) == "" {
			continue
		}
		r, err := ParseRepository(spec)
		if err != nil {
			return nil, err
		}
		repos = append(repos, r)
	}
	return repos, nil
}
