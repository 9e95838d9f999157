package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configFileName = "config.yaml"
	dirMode        = 0700
	fileMode       = 0600

	portDefault           = 8080
	timeoutSecondsDefault = 30

	// Public FMCSA QCMobile API root.
	qcMobileBaseURLDefault = "https://mobile.fmcsa.dot.gov/qc/services"
	// SAFERWeb wrapper API root.
	saferBaseURLDefault = "https://saferwebapi.com"
)

// Config holds everything the service needs at runtime. API keys are
// never written to the config file; they come from the environment or
// the OS keychain (see the auth command).
type Config struct {
	Port            int    `yaml:"port"`
	QCMobileBaseURL string `yaml:"qcmobileBaseUrl"`
	SaferBaseURL    string `yaml:"saferBaseUrl"`
	TimeoutSeconds  int    `yaml:"timeoutSeconds"`

	WebKey string `yaml:"-"`
	APIKey string `yaml:"-"`
}

// Timeout returns the per-call upstream timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func defaultConfig() *Config {
	return &Config{
		Port:            portDefault,
		QCMobileBaseURL: qcMobileBaseURLDefault,
		SaferBaseURL:    saferBaseURLDefault,
		TimeoutSeconds:  timeoutSecondsDefault,
	}
}

// Load reads the config file from dirPath (creating a default one on
// first run), then applies environment overrides. A .env file in the
// working directory is honored when present.
func Load(dirPath string) (*Config, error) {
	// Missing .env is the normal case, not an error.
	_ = godotenv.Load()

	c, err := readOrCreate(dirPath)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT value %q: %w", v, err)
		}
		c.Port = p
	}
	if v := os.Getenv("QCMOBILE_BASE_URL"); v != "" {
		c.QCMobileBaseURL = v
	}
	if v := os.Getenv("SAFER_BASE_URL"); v != "" {
		c.SaferBaseURL = v
	}
	if v := os.Getenv("HTTP_TIMEOUT_SECONDS"); v != "" {
		s, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid HTTP_TIMEOUT_SECONDS value %q: %w", v, err)
		}
		c.TimeoutSeconds = s
	}
	c.WebKey = os.Getenv("FMCSA_WEBKEY")
	c.APIKey = os.Getenv("SAFER_API_KEY")

	return c, nil
}

func readOrCreate(dirPath string) (*Config, error) {
	if dirPath == "" {
		return defaultConfig(), nil
	}

	if _, err := os.Stat(dirPath); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(dirPath, dirMode); err != nil {
			return nil, fmt.Errorf("creating config dir %s: %w", dirPath, err)
		}
	}

	path := filepath.Join(dirPath, configFileName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := save(path, defaultConfig()); err != nil {
			return nil, fmt.Errorf("creating default config: %w", err)
		}
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	c := defaultConfig()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("unmarshalling config file %s: %w", path, err)
	}
	return c, nil
}

func save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	return os.WriteFile(path, b, fileMode)
}
