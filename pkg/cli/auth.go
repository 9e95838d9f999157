package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	urfave "github.com/urfave/cli/v2"
	"github.com/zalando/go-keyring"
)

const (
	keyringService    = "carriervet"
	keyringWebKeyUser = "fmcsa_webkey"
	keyringAPIKeyUser = "safer_api_key"
)

var (
	webKeyFlag = &urfave.StringFlag{
		Name:  "webkey",
		Usage: "FMCSA QCMobile web key (https://mobile.fmcsa.dot.gov/QCDevsite)",
	}

	saferKeyFlag = &urfave.StringFlag{
		Name:  "api-key",
		Usage: "SAFERWeb wrapper API key",
	}

	authCmd = &urfave.Command{
		Name:            "auth",
		HideHelpCommand: true,
		Usage:           "Store provider API keys in the OS keychain",
		Action:          cmdSaveKeys,
		Flags: []urfave.Flag{
			webKeyFlag,
			saferKeyFlag,
		},
	}
)

func cmdSaveKeys(c *urfave.Context) error {
	webKey := c.String(webKeyFlag.Name)
	apiKey := c.String(saferKeyFlag.Name)
	if webKey == "" && apiKey == "" {
		return urfave.ShowSubcommandHelp(c)
	}

	if webKey != "" {
		if err := saveKey(keyringWebKeyUser, webKey); err != nil {
			return fmt.Errorf("saving web key: %w", err)
		}
	}
	if apiKey != "" {
		if err := saveKey(keyringAPIKeyUser, apiKey); err != nil {
			return fmt.Errorf("saving API key: %w", err)
		}
	}

	fmt.Println("Keys saved to OS keychain")
	return nil
}

func saveKey(user, value string) error {
	if err := keyring.Set(keyringService, user, value); err != nil {
		slog.Warn("keychain unavailable, falling back to file", "error", err)
		return saveKeyFile(user, value)
	}

	// Clean up legacy file if it exists
	os.Remove(keyFilePath(user))

	return nil
}

func getStoredKey(user string) (string, error) {
	// Try keychain first
	value, err := keyring.Get(keyringService, user)
	if err == nil && value != "" {
		return value, nil
	}

	// Fall back to file
	value, err = getKeyFile(user)
	if err != nil {
		return "", err
	}

	// Migrate to keychain
	if migrateErr := keyring.Set(keyringService, user, value); migrateErr == nil {
		slog.Info("migrated key from file to OS keychain", "key", user)
		os.Remove(keyFilePath(user))
	}

	return value, nil
}

func keyFilePath(user string) string {
	return filepath.Join(getHomeDir(), user)
}

func saveKeyFile(user, value string) error {
	return os.WriteFile(keyFilePath(user), []byte(value), 0600)
}

func getKeyFile(user string) (string, error) {
	b, err := os.ReadFile(keyFilePath(user))
	if err != nil {
		return "", fmt.Errorf("reading key file %s: %w", keyFilePath(user), err)
	}
	return string(b), nil
}
