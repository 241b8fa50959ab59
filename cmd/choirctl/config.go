package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	envPrefix      = "CHOIR"
	configFileName = "config"
	configFileType = "yaml"

	cfgKeyAPIURL    = "api_url"
	cfgKeyAccessKey = "access_key"
)

// ErrMissingConfig is returned when the API URL or access key is not set.
var ErrMissingConfig = errors.New("missing configuration")

type config struct {
	APIURL    string
	AccessKey string
}

// loadConfig reads CHOIR_* environment variables and an optional config.yaml.
// The environment wins over the file. A missing file is not an error.
func loadConfig(path string) (config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv(cfgKeyAPIURL)
	_ = v.BindEnv(cfgKeyAccessKey)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".choirctl"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := config{
		APIURL:    strings.TrimSpace(v.GetString(cfgKeyAPIURL)),
		AccessKey: strings.TrimSpace(v.GetString(cfgKeyAccessKey)),
	}

	var missing []string
	if cfg.APIURL == "" {
		missing = append(missing, envPrefix+"_API_URL")
	}
	if cfg.AccessKey == "" {
		missing = append(missing, envPrefix+"_ACCESS_KEY")
	}
	if len(missing) > 0 {
		return config{}, fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}
	return cfg, nil
}
