package configuration

import (
	"errors"
	"fmt"
	"io/ioutil"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/cimnine/netbox-sync/cache"
	"github.com/cimnine/netbox-sync/fetcher"
	"github.com/cimnine/netbox-sync/netbox"
)

const DefaultPath = "/etc/netbox-sync.conf.yaml"

const (
	EnvURL   = "NETBOX_URL"
	EnvToken = "NETBOX_TOKEN"
)

type Configuration struct {
	Netbox netbox.NetboxConfig
	Cache  cache.CacheConfig
	Sync   SyncConfig
	Log    LogConfig
}

// SyncConfig tunes how a run talks to NetBox. Zero values mean "default",
// except RetryAttempts where zero means retrying forever.
type SyncConfig struct {
	PageSize          int           `yaml:"page_size"`
	Throttle          time.Duration `yaml:"throttle"`
	RetryBackoff      time.Duration `yaml:"retry_backoff"`
	RetryAttempts     uint64        `yaml:"retry_attempts"`
	ResolveReferences bool          `yaml:"resolve_references"`
	OutputDir         string        `yaml:"output_dir"`
}

type LogConfig struct {
	Level  string
	Format string
	Path   string
}

// Default returns the configuration used when no file is present.
func Default() Configuration {
	var conf Configuration
	conf.ApplyDefaults()
	return conf
}

func ReadConfig(filename string) (conf Configuration, err error) {
	rawFile, err := ioutil.ReadFile(filename)
	if err != nil {
		return conf, fmt.Errorf("can't read config file: %w", err)
	}

	err = yaml.UnmarshalStrict(rawFile, &conf)
	if err != nil {
		return conf, fmt.Errorf("can't parse config file %s: %w", filename, err)
	}

	conf.ApplyDefaults()
	return conf, nil
}

// ApplyDefaults fills every unset field.
func (c *Configuration) ApplyDefaults() {
	if c.Netbox.Timeout <= 0 {
		c.Netbox.Timeout = netbox.DefaultTimeout
	}

	if c.Cache.Prefix == "" {
		c.Cache.Prefix = cache.DefaultPrefix
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = cache.DefaultTTL
	}

	if c.Sync.PageSize <= 0 {
		c.Sync.PageSize = fetcher.DefaultPageSize
	}
	if c.Sync.Throttle <= 0 {
		c.Sync.Throttle = fetcher.DefaultThrottle
	}
	if c.Sync.RetryBackoff <= 0 {
		c.Sync.RetryBackoff = fetcher.DefaultBackoff
	}
	if c.Sync.OutputDir == "" {
		c.Sync.OutputDir = "."
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// ApplyEnv overrides the NetBox URL and token from the environment.
func (c *Configuration) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvURL); ok && v != "" {
		c.Netbox.API.URL = v
	}
	if v, ok := lookup(EnvToken); ok && v != "" {
		c.Netbox.API.Token = netbox.Secret(v)
	}
}

// RetryPolicy is the fetch retry policy the sync section describes.
func (c *Configuration) RetryPolicy() fetcher.RetryPolicy {
	return fetcher.RetryPolicy{
		Backoff:     c.Sync.RetryBackoff,
		MaxAttempts: c.Sync.RetryAttempts,
	}
}

func (c *Configuration) Validate() error {
	var errs []error
	if c.Netbox.API.URL == "" {
		errs = append(errs, errors.New("netbox.api.url is required"))
	}
	if c.Netbox.API.Token == "" {
		errs = append(errs, errors.New("netbox.api.token is required"))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, not %q", c.Log.Format))
	}
	return errors.Join(errs...)
}
