/*
Package config holds the application configuration of the page builder.

Configuration values are layered: built-in defaults, then an optional YAML
file, then environment variables prefixed with `UXB_` (UXB_SERVER_ADDR sets
server.addr). Conf implements schuko.Configuration, so it can be handed to
the tracing setup directly. Trace levels are configured under key
`tracelevel`, one entry per tracer:

    tracelevel:
      root: Info
      uxb:
        selection: Debug

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/npillmayer/schuko"
)

// EnvPrefix is the prefix of environment variables overriding
// configuration values.
const EnvPrefix = "UXB_"

// Defaults are the built-in configuration values.
var Defaults = map[string]interface{}{
	"tracing.adapter":  "go",
	"tracelevel.root":  "Info",
	"server.addr":      ":8080",
	"store.url":        "template.html",
	"registry.catalog": "",
	"editor.hidedelay": "500ms",
	"editor.strategy":  "patch",
	"editor.sanitize":  false,
	"sessions.idle":    "30m",
	"sessions.reap":    "@every 1m",
	"sessions.max":     100,
	"sessions.queue":   64,
}

// Conf is a layered configuration on top of koanf.
type Conf struct {
	mu   sync.RWMutex
	k    *koanf.Koanf
	path string // YAML file, if any
}

// New creates an empty configuration. Call InitDefaults to load the
// built-in defaults.
func New() *Conf {
	return &Conf{k: koanf.New(".")}
}

// Koanf returns the underlying koanf instance.
func (c *Conf) Koanf() *koanf.Koanf {
	return c.k
}

// InitDefaults loads the built-in defaults.
func (c *Conf) InitDefaults() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.k.Load(confmap.Provider(Defaults, "."), nil); err != nil {
		panic(fmt.Sprintf("loading configuration defaults: %v", err))
	}
}

// LoadFile loads a YAML configuration file on top of the values loaded so
// far. The path is remembered for Reload.
func (c *Conf) LoadFile(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("loading configuration %s: %w", path, err)
	}
	c.path = path
	return nil
}

// LoadEnv loads environment overrides.
func (c *Conf) LoadEnv() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.k.Load(env.Provider(EnvPrefix, ".", envKey), nil)
}

func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
}

// Reload rebuilds the configuration from defaults, the configuration file
// and the environment.
func (c *Conf) Reload() error {
	fresh := New()
	fresh.InitDefaults()
	if c.Path() != "" {
		if err := fresh.LoadFile(c.Path()); err != nil {
			return err
		}
	}
	if err := fresh.LoadEnv(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.k = fresh.k
	return nil
}

// Path returns the path of the configuration file, if any.
func (c *Conf) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.path
}

// Set overrides a configuration value.
func (c *Conf) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.k.Load(confmap.Provider(map[string]interface{}{
		key: value,
	}, "."), nil)
}

// IsSet is a predicate wether a configuration key is present.
func (c *Conf) IsSet(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.k.Exists(key)
}

// GetString returns a configuration property as a string.
func (c *Conf) GetString(key string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.k.String(key)
}

// GetInt returns a configuration property as an integer.
func (c *Conf) GetInt(key string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.k.Int(key)
}

// GetBool returns a configuration property as a boolean value.
func (c *Conf) GetBool(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.k.Bool(key)
}

// GetDuration returns a configuration property as a duration. Values may
// be given as duration strings ("500ms") or as integer nanoseconds.
func (c *Conf) GetDuration(key string) time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.k.Duration(key)
}

// TraceLevels returns the configured trace levels, keyed by tracer name.
func (c *Conf) TraceLevels() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	levels := make(map[string]string)
	for key, v := range c.k.Cut("tracelevel").All() {
		levels[key] = fmt.Sprint(v)
	}
	return levels
}

// IsInteractive is a predicate: are we running in interactive mode?
//
// Deprecated: A custom configuration key should be used instead.
func (c *Conf) IsInteractive() bool {
	return false
}

var _ schuko.Configuration = &Conf{}
