package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	urfave "github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/freightguard/carriervet/pkg/config"
	"github.com/freightguard/carriervet/pkg/fmcsa"
	"github.com/freightguard/carriervet/pkg/logging"
)

const (
	dirMode      = 0700
	appConfigKey = "app-config"

	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	version = "v0.0.1-default"
	commit  = ""
	date    = ""

	outputFormat = formatJSON

	debugFlag = &urfave.BoolFlag{
		Name:  "debug",
		Usage: "Prints verbose logs (optional, default: false)",
	}

	formatFlag = &urfave.StringFlag{
		Name:  "format",
		Usage: "Output format [json, yaml]",
		Value: formatJSON,
	}
)

// Execute creates and runs the CLI application.
func Execute() {
	logging.SetDefaultCLILogger(false)

	app := newApp()
	if err := app.Run(os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

type appConfig struct {
	Conf   *config.Config
	Client *fmcsa.Client
	Debug  bool
}

func getConfig(c *urfave.Context) *appConfig {
	return c.App.Metadata[appConfigKey].(*appConfig)
}

func newApp() *urfave.App {
	return &urfave.App{
		Name:                 "carriervet",
		Version:              fmt.Sprintf("%s (%s - %s)", version, commit, date),
		Compiled:             time.Now(),
		EnableBashCompletion: true,
		HideHelpCommand:      true,
		Usage:                "Vet motor carriers against FMCSA data with a deterministic risk score",
		Flags: []urfave.Flag{
			debugFlag,
			formatFlag,
		},
		Commands: []*urfave.Command{
			authCmd,
			checkCmd,
			serverCmd,
		},
		Before: func(c *urfave.Context) error {
			if c.Bool(debugFlag.Name) {
				logging.SetDefaultCLILogger(true)
			}

			f := c.String(formatFlag.Name)
			if f == formatYAML || f == "yml" {
				outputFormat = formatYAML
			}

			cfg, err := config.Load(getHomeDir())
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			// The environment wins; the OS keychain backs it up.
			if cfg.WebKey == "" {
				if k, err := getStoredKey(keyringWebKeyUser); err == nil {
					cfg.WebKey = k
				}
			}
			if cfg.APIKey == "" {
				if k, err := getStoredKey(keyringAPIKeyUser); err == nil {
					cfg.APIKey = k
				}
			}
			if cfg.WebKey == "" {
				slog.Warn("no FMCSA web key configured, snapshot calls will fail (run: carriervet auth)")
			}

			c.App.Metadata[appConfigKey] = &appConfig{
				Conf:  cfg,
				Debug: c.Bool(debugFlag.Name),
				Client: fmcsa.NewClient(fmcsa.Options{
					QCMobileBaseURL: cfg.QCMobileBaseURL,
					SaferBaseURL:    cfg.SaferBaseURL,
					WebKey:          cfg.WebKey,
					APIKey:          cfg.APIKey,
					Timeout:         cfg.Timeout(),
				}),
			}
			return nil
		},
	}
}

func getHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		slog.Debug("error getting home dir, using current dir instead", "error", err)
		return "."
	}

	dirPath := filepath.Join(home, ".carriervet")
	if _, err := os.Stat(dirPath); errors.Is(err, os.ErrNotExist) {
		if err := os.Mkdir(dirPath, dirMode); err != nil {
			slog.Debug("error creating dir", "path", dirPath, "error", err)
			return home
		}
	}
	return dirPath
}

func encode(v any) error {
	if outputFormat == formatYAML {
		return yaml.NewEncoder(os.Stdout).Encode(v)
	}
	e := json.NewEncoder(os.Stdout)
	e.SetIndent("", "  ")
	return e.Encode(v)
}
