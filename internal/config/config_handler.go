package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const EnvPrefix = "PHIL"

type ConfigHandler struct {
	mainViper   *viper.Viper
	secretViper *viper.Viper
	lock        *sync.Mutex
}

func (c *ConfigHandler) HandleChanges(callback func(Config, error)) {
	c.mainViper.OnConfigChange(func(e fsnotify.Event) {
		slog.Info("CONFIG", "message", "main config file changed", "path", e.Name)
		callback(c.Config())
	})
	c.secretViper.OnConfigChange(func(e fsnotify.Event) {
		slog.Info("CONFIG", "message", "secret config file changed", "path", e.Name)
		callback(c.Config())
	})
}

// Creates a configuration handler that reads the configuration files, merges them and can watch
// them for changes. The secret file overwrites anything in the regular file and environment
// variables (PHIL_ followed by the upper-cased key path, e.g. PHIL_API_BASEURL) overwrite both.
// Neither file is required: the defaults describe a local development backend.
func NewConfigHandler() *ConfigHandler {
	main := viper.New()
	main.SetConfigType("yaml")
	main.SetConfigName("config")
	secret := viper.New()
	secret.SetConfigType("yaml")
	secret.SetConfigName("secret_config")
	// Viper will look through the list of paths and use the first one where there is a file
	// so the path specified in the env variable will always take precedence over the rest
	configPaths := []string{}
	configPathEnv := os.Getenv("CONFIG_LOCATION")
	if configPathEnv != "" {
		configPaths = append(configPaths, configPathEnv)
	}
	if home, err := os.UserHomeDir(); err == nil {
		configPaths = append(configPaths, filepath.Join(home, ".config", "phil"))
	}
	configPaths = append(configPaths, "/etc/phil", ".")
	for _, path := range configPaths {
		main.AddConfigPath(path)
		secret.AddConfigPath(path)
	}
	setDefaults(main)
	return &ConfigHandler{secretViper: secret, mainViper: main, lock: &sync.Mutex{}}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("runningEnvironment", string(Production))
	v.SetDefault("debugMode", false)
	v.SetDefault("api.baseURL", "http://localhost:8000")
	v.SetDefault("api.requestTimeout", DefaultRequestTimeout)
	v.SetDefault("api.listTimeout", DefaultListTimeout)
	v.SetDefault("api.rateLimits.enabled", false)
	v.SetDefault("api.rateLimits.rate", 10.0)
	v.SetDefault("api.rateLimits.burst", 20)
	v.SetDefault("sessions.backend", SessionBackendFile)
	v.SetDefault("sessions.key", DefaultSessionKey)
	v.SetDefault("sessions.filePath", defaultSessionFilePath())
	v.SetDefault("sessions.cookieName", DefaultSessionKey)
	v.SetDefault("sessions.consoleURL", "http://localhost:3000")
	v.SetDefault("sessions.refreshLeadTime", DefaultRefreshLeadTime)
	v.SetDefault("sessions.refreshInterval", DefaultRefreshInterval)
	v.SetDefault("sessions.maxLifetime", DefaultMaxLifetime)
	v.SetDefault("sessions.tokenEncryption.enabled", false)
	v.SetDefault("sessions.tokenEncryption.secretKey", "")
	v.SetDefault("redis.type", DBTypeRedis)
	v.SetDefault("redis.addresses", []string{"localhost:6379"})
	v.SetDefault("redis.isSentinel", false)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.masterName", "")
	v.SetDefault("redis.dbIndex", 0)
	v.SetDefault("monitoring.sentry.enabled", false)
	v.SetDefault("monitoring.sentry.dsn", "")
	v.SetDefault("monitoring.sentry.environment", "")
	v.SetDefault("monitoring.sentry.sampleRate", 0.0)
	v.SetDefault("monitoring.prometheus.enabled", false)
	v.SetDefault("monitoring.prometheus.port", 8765)
}

func defaultSessionFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".phil-session.yaml"
	}
	return filepath.Join(home, ".config", "phil", "session.yaml")
}

func readOptional(v *viper.Viper, name string) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		slog.Debug("CONFIG", "message", fmt.Sprintf("could not find any %s files", name))
		return nil
	}
	return err
}

func decodeHooks() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
			parseStringAsURL(),
		),
	)
}

func (c *ConfigHandler) merge() error {
	var cm map[string]any
	err := c.secretViper.Unmarshal(&cm, decodeHooks())
	if err != nil {
		return err
	}
	return c.mainViper.MergeConfigMap(cm)
}

func (c *ConfigHandler) getConfig() (Config, error) {
	var output Config
	err := readOptional(c.mainViper, "config")
	if err != nil {
		return Config{}, err
	}
	err = readOptional(c.secretViper, "secret config")
	if err != nil {
		return Config{}, err
	}
	// the env variables will overwrite stuff in the secret config if set
	for _, key := range c.mainViper.AllKeys() {
		envKey := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		err := c.secretViper.BindEnv(key, envKey)
		if err != nil {
			return Config{}, fmt.Errorf("cannot bind env variable %s: %w", envKey, err)
		}
	}
	// here the secret config (with any env variables merged) will overwrite anything from the non-secret configuration
	err = c.merge()
	if err != nil {
		return Config{}, err
	}
	err = c.mainViper.Unmarshal(&output, decodeHooks())
	if err != nil {
		return Config{}, err
	}
	err = output.Validate()
	if err != nil {
		return Config{}, err
	}
	return output, nil
}

func (c *ConfigHandler) Config() (Config, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.getConfig()
}

func (c *ConfigHandler) Watch() {
	c.mainViper.WatchConfig()
	c.secretViper.WatchConfig()
}

func parseStringAsURL() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (interface{}, error) {
		// Check that the data is string
		if f.Kind() != reflect.String {
			return data, nil
		}

		// Check that the target type is our custom type
		if t != reflect.TypeOf(url.URL{}) {
			return data, nil
		}

		// Return the parsed value
		dataStr, ok := data.(string)
		if !ok {
			return nil, fmt.Errorf("cannot cast URL value to string")
		}
		if dataStr == "" {
			return nil, fmt.Errorf("empty values are not allowed for URLs")
		}
		url, err := url.Parse(dataStr)
		if err != nil {
			return nil, err
		}
		return url, nil
	}
}
