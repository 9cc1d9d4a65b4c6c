// Package config loads and validates the depot configuration file.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/scidepot/depot/errors"
)

const component = "config"

// Privileges are administrative capabilities granted to an account. They are
// configuration-sourced, keyed by account email, and merged onto account
// records at read time. The mutation path never writes them.
type Privileges struct {
	MayAdminister   bool `yaml:"may_administer"`
	MayImpersonate  bool `yaml:"may_impersonate"`
	MayReview       bool `yaml:"may_review"`
	MayReviewQuotas bool `yaml:"may_review_quotas"`
}

// Config is the complete depot configuration.
type Config struct {
	// Endpoint is the SPARQL endpoint URL queries are POSTed to.
	Endpoint string `yaml:"endpoint"`

	// StateGraph is the named graph all queries and mutations are
	// confined to.
	StateGraph string `yaml:"state_graph"`

	// BaseNamespace overrides the IRI base for rows, columns and types.
	BaseNamespace string `yaml:"base_namespace,omitempty"`

	// CacheRoot is the filesystem root for the query-result cache. Empty
	// disables persistent caching.
	CacheRoot string `yaml:"cache_root,omitempty"`

	// MetricsListen is the address the Prometheus endpoint binds to.
	MetricsListen string `yaml:"metrics_listen,omitempty"`

	// SecondaryWorker marks a process that shares an already-initialized
	// store; it skips state loading at startup.
	SecondaryWorker bool `yaml:"secondary_worker,omitempty"`

	// Privileges grants capabilities per account email.
	Privileges map[string]Privileges `yaml:"privileges,omitempty"`
}

// envPrefix is the prefix for environment overrides, e.g. DEPOT_ENDPOINT.
const envPrefix = "DEPOT"

// Load reads a YAML configuration file, applies environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapFatal(err, component, "Load",
			fmt.Sprintf("reading %s failed", path))
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.WrapInvalid(err, component, "Load",
			fmt.Sprintf("parsing %s failed", path))
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		StateGraph:    "https://depot.scidepot.org/state",
		MetricsListen: "localhost:9403",
	}
}

func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv(envPrefix + "_ENDPOINT"); val != "" {
		cfg.Endpoint = val
	}
	if val := os.Getenv(envPrefix + "_STATE_GRAPH"); val != "" {
		cfg.StateGraph = val
	}
	if val := os.Getenv(envPrefix + "_CACHE_ROOT"); val != "" {
		cfg.CacheRoot = val
	}
	if val := os.Getenv(envPrefix + "_METRICS_LISTEN"); val != "" {
		cfg.MetricsListen = val
	}
}

// Validate checks that the configuration can support a running process.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return errors.WrapFatal(errors.ErrMissingConfig, component, "Validate",
			"endpoint is required")
	}
	parsed, err := url.Parse(c.Endpoint)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return errors.WrapInvalid(errors.ErrInvalidConfig, component, "Validate",
			fmt.Sprintf("endpoint %q is not an http(s) URL", c.Endpoint))
	}

	if c.StateGraph == "" {
		return errors.WrapFatal(errors.ErrMissingConfig, component, "Validate",
			"state_graph is required")
	}

	if c.BaseNamespace != "" && strings.ContainsAny(c.BaseNamespace, " \t\n") {
		return errors.WrapInvalid(errors.ErrInvalidConfig, component, "Validate",
			fmt.Sprintf("base_namespace %q contains whitespace", c.BaseNamespace))
	}

	for email := range c.Privileges {
		if !strings.Contains(email, "@") {
			return errors.WrapInvalid(errors.ErrInvalidConfig, component, "Validate",
				fmt.Sprintf("privilege grant key %q is not an email address", email))
		}
	}

	return nil
}

// PrivilegesFor returns the grants for an account email, or the zero value
// when none are configured.
func (c *Config) PrivilegesFor(email string) Privileges {
	return c.Privileges[email]
}
