// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Classification struct {
		Policy string `mapstructure:"policy" yaml:"policy"`
	} `mapstructure:"classification" yaml:"classification"`

	Output struct {
		File   string `mapstructure:"file" yaml:"file"`
		Format string `mapstructure:"format" yaml:"format"`
		Sheet  string `mapstructure:"sheet" yaml:"sheet"`
	} `mapstructure:"output" yaml:"output"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Report struct {
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"report" yaml:"report"`

	Store struct {
		Backend string `mapstructure:"backend" yaml:"backend"`
		File    struct {
			Path string `mapstructure:"path" yaml:"path"`
		} `mapstructure:"file" yaml:"file"`
		GitHub struct {
			Token   string `mapstructure:"token" yaml:"-"` // Never serialize the token
			Repo    string `mapstructure:"repo" yaml:"repo"`
			Path    string `mapstructure:"path" yaml:"path"`
			Branch  string `mapstructure:"branch" yaml:"branch"`
			BaseURL string `mapstructure:"base_url" yaml:"base_url"`
		} `mapstructure:"github" yaml:"github"`
		GCS struct {
			Bucket   string `mapstructure:"bucket" yaml:"bucket"`
			Object   string `mapstructure:"object" yaml:"object"`
			Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
		} `mapstructure:"gcs" yaml:"gcs"`
	} `mapstructure:"store" yaml:"store"`

	Server struct {
		Addr           string   `mapstructure:"addr" yaml:"addr"`
		MaxUploadMB    int      `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
		TrustedProxies []string `mapstructure:"trusted_proxies" yaml:"trusted_proxies"`
	} `mapstructure:"server" yaml:"server"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	return InitializeConfigFromFile("")
}

// InitializeConfigFromFile loads configuration, reading configFile instead of
// searching the standard locations when it is non-empty.
func InitializeConfigFromFile(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.meo-settle")
		v.AddConfigPath(".meo-settle")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix("MEO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless given explicitly)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if configFile != "" {
				return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
			}
			fmt.Fprintf(os.Stderr, "Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// 5. GitHub credentials also come from the unprefixed variables
	if err := v.BindEnv("store.github.token", "MEO_STORE_GITHUB_TOKEN", "GITHUB_TOKEN"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to bind GITHUB_TOKEN environment variable: %v\n", err)
	}
	if err := v.BindEnv("store.github.repo", "MEO_STORE_GITHUB_REPO", "GITHUB_REPO"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to bind GITHUB_REPO environment variable: %v\n", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("classification.policy", "override")

	v.SetDefault("output.file", "최종분류결과.xlsx")
	v.SetDefault("output.format", "xlsx")
	v.SetDefault("output.sheet", "최종분류")

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("report.format", "text")

	v.SetDefault("store.backend", "file")
	v.SetDefault("store.file.path", "market_products.json")
	v.SetDefault("store.github.token", "")
	v.SetDefault("store.github.repo", "")
	v.SetDefault("store.github.path", "market_products.json")
	v.SetDefault("store.github.branch", "main")
	v.SetDefault("store.github.base_url", "")
	v.SetDefault("store.gcs.bucket", "")
	v.SetDefault("store.gcs.object", "market_products.json")
	v.SetDefault("store.gcs.endpoint", "")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.max_upload_mb", 32)
	v.SetDefault("server.trusted_proxies", []string{})
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if err := oneOf("classification.policy", config.Classification.Policy, "override", "first-match"); err != nil {
		return err
	}
	if err := oneOf("output.format", config.Output.Format, "xlsx", "csv"); err != nil {
		return err
	}
	if err := oneOf("report.format", config.Report.Format, "text", "json", "yaml"); err != nil {
		return err
	}
	if err := oneOf("store.backend", config.Store.Backend, "memory", "file", "github", "gcs"); err != nil {
		return err
	}

	if d := config.CSV.Delimiter; len([]rune(d)) != 1 && d != `\t` {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", d)
	}

	if config.Store.Backend == "gcs" && config.Store.GCS.Bucket == "" {
		return fmt.Errorf("store.gcs.bucket is required when store.backend is gcs")
	}
	if repo := config.Store.GitHub.Repo; repo != "" && !strings.Contains(repo, "/") {
		return fmt.Errorf("store.github.repo must be owner/name, got: %s", repo)
	}

	if config.Server.MaxUploadMB < 1 || config.Server.MaxUploadMB > 1024 {
		return fmt.Errorf("server.max_upload_mb must be between 1 and 1024, got: %d", config.Server.MaxUploadMB)
	}

	return nil
}

func oneOf(key, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("invalid %s: %s (must be one of %s)", key, value, strings.Join(allowed, ", "))
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
