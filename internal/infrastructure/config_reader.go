package infrastructure

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/krispingal/iscs/internal/domain"
	"github.com/spf13/viper"
)

// LoadConfig reads the registry description at path. The format follows the
// file extension (json, yaml, toml). A file without a "services" section is
// read in the flat ips.json layout:
//
//	{"user": ["h1", "h2"], "user_port": 8000, ...}
//
// Every failure is returned as a *domain.ConfigError.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("routing.matchMode", MatchModeExact)
	v.SetDefault("rateLimiter.type", RateLimiterNone)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NewConfigError(path, "config file not found: %w", err)
		}
		return nil, domain.NewConfigError(path, "unable to parse config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, domain.NewConfigError(path, "failed to unmarshal config: %w", err)
	}

	if !v.IsSet("services") {
		services, err := readFlatServices(v)
		if err != nil {
			return nil, &domain.ConfigError{Source: path, Err: err}
		}
		config.Services = services
	}

	if err := config.Validate(); err != nil {
		return nil, &domain.ConfigError{Source: path, Err: err}
	}
	return &config, nil
}

// sections that may sit next to the flat service lists
var reservedKeys = map[string]bool{
	"routing":     true,
	"ratelimiter": true,
}

func readFlatServices(v *viper.Viper) (map[string]Service, error) {
	services := make(map[string]Service)
	for key, value := range v.AllSettings() {
		if reservedKeys[key] || strings.HasSuffix(key, "_port") {
			continue
		}
		if _, ok := value.([]interface{}); !ok {
			return nil, fmt.Errorf("unexpected key %q: expected a list of hosts", key)
		}
		portKey := key + "_port"
		if !v.IsSet(portKey) {
			return nil, fmt.Errorf("service %q: missing %q", key, portKey)
		}
		services[key] = Service{
			Hosts: v.GetStringSlice(key),
			Port:  v.GetInt(portKey),
		}
	}
	return services, nil
}
