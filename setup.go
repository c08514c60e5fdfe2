package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	uuid "github.com/satori/go.uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cimnine/netbox-sync/cache"
	redisCache "github.com/cimnine/netbox-sync/cache/redis"
	"github.com/cimnine/netbox-sync/configuration"
	"github.com/cimnine/netbox-sync/fetcher"
	"github.com/cimnine/netbox-sync/metrics"
	"github.com/cimnine/netbox-sync/netbox"
	"github.com/cimnine/netbox-sync/resolver"
	"github.com/cimnine/netbox-sync/util"
)

type options struct {
	configFile  string
	url         string
	token       string
	logLevel    string
	metricsFile string

	retryAttempts int
	redisHost     string
	redisPort     int

	limit    int
	resource string
	output   string

	importDir string
}

// runEnv is everything a command needs once configuration is resolved.
type runEnv struct {
	conf    configuration.Configuration
	log     *log.Logger
	client  *netbox.Client
	runID   string
	closers []io.Closer
}

func setup(cmd *cobra.Command, opts *options) (*runEnv, error) {
	conf, err := loadConfig(cmd.Flags().Changed, opts)
	if err != nil {
		return nil, err
	}

	env := &runEnv{
		conf:   conf,
		client: netbox.NewClient(&conf.Netbox),
		runID:  uuid.NewV4().String(),
	}

	env.log, err = setupLogging(conf.Log, env)
	if err != nil {
		return nil, err
	}

	env.log.WithFields(log.Fields{
		"config": opts.configFile,
		"netbox": conf.Netbox.API.URL,
		"run_id": env.runID,
	}).Debug("Configuration resolved")

	if v, err := env.client.Status(cmd.Context()); err != nil {
		env.log.WithError(err).Warn("Can't read the NetBox status, carrying on")
	} else {
		env.log.Infof("Connected to NetBox %s", v)
	}

	return env, nil
}

// loadConfig resolves the configuration. Flags win over the environment,
// the environment wins over the config file. A missing config file is only
// an error if --config was given explicitly.
func loadConfig(changed func(string) bool, opts *options) (configuration.Configuration, error) {
	conf, err := configuration.ReadConfig(opts.configFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) || changed("config") {
			return conf, err
		}
		conf = configuration.Default()
	}

	conf.ApplyEnv(os.LookupEnv)

	if changed("url") {
		conf.Netbox.API.URL = opts.url
	}
	if changed("token") {
		conf.Netbox.API.Token = netbox.Secret(opts.token)
	}
	if changed("limit") && opts.limit > 0 {
		conf.Sync.PageSize = opts.limit
	}
	if changed("output") {
		conf.Sync.OutputDir = opts.output
	}
	if changed("retry-attempts") {
		conf.Sync.RetryAttempts = util.SafeConvertToUint64(opts.retryAttempts)
	}
	if changed("redis-host") {
		conf.Cache.Redis.Host = opts.redisHost
	}
	if changed("redis-port") {
		conf.Cache.Redis.Port = util.SafeConvertToUint16(opts.redisPort)
	}
	conf.Log.Level = util.FirstNonEmpty(opts.logLevel, conf.Log.Level)

	if err := conf.Validate(); err != nil {
		return conf, fmt.Errorf("invalid configuration: %w", err)
	}
	return conf, nil
}

// setupLogging configures the standard logrus logger, which the packages
// without an injected logger also write to.
func setupLogging(config configuration.LogConfig, env *runEnv) (*log.Logger, error) {
	logger := log.StandardLogger()

	level, err := log.ParseLevel(config.Level)
	if err != nil {
		return nil, err
	}
	logger.SetLevel(level)

	if config.Format == "json" {
		logger.SetFormatter(&log.JSONFormatter{})
	} else {
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	if config.Path != "" {
		f, err := os.OpenFile(config.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("can't open log file: %w", err)
		}
		logger.SetOutput(f)
		env.closers = append(env.closers, f)
	}

	return logger, nil
}

// references builds the reference resolver for opt-in enrichment. Resolved
// objects are kept in Redis if one is configured, in memory otherwise.
func (e *runEnv) references() fetcher.ReferenceResolver {
	if !e.conf.Sync.ResolveReferences {
		return nil
	}

	var cacher resolver.Cacher = cache.NewMemory()
	if e.conf.Cache.UseRedis() {
		client := redisCache.NewClient(&e.conf.Cache.Redis)
		e.closers = append(e.closers, client)

		if err := client.Ping().Err(); err != nil {
			e.log.WithError(err).Warn("Can't reach Redis, keeping references in memory")
		} else {
			cacher = redisCache.Cache{
				Client: client,
				Prefix: e.conf.Cache.Prefix,
				RunID:  e.runID,
				TTL:    e.conf.Cache.TTL,
			}
		}
	}

	return resolver.CachingResolver{
		Source: resolver.Netbox{Client: e.client},
		Cache:  cacher,
		Log:    e.log,
	}
}

func (e *runEnv) writeMetrics(path string) {
	if path == "" {
		return
	}
	if err := metrics.WriteTextfile(path); err != nil {
		e.log.WithError(err).Errorf("Can't write metrics to %s", path)
	}
}

func (e *runEnv) Close() {
	for _, c := range e.closers {
		c.Close() //nolint:errcheck
	}
}
