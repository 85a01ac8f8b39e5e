// Package config resolves the API token and optional on-disk defaults
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/99designs/keyring"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// KeyringService is the service name tokens are stored under in the OS
// keyring
const KeyringService = "notion-exporter"

const keyringKey = "token"

// DefaultOutputDir is where exports land unless overridden
const DefaultOutputDir = "notion"

// DefaultMaxRows bounds database table exports unless overridden
const DefaultMaxRows = 100

// validTokenPrefixes are the known shapes of integration secrets
var validTokenPrefixes = []string{"secret_", "ntn_"}

var (
	// ErrTokenNotFound explains every supported way to provide a token
	ErrTokenNotFound = errors.New(`Notion API token not found!

Please set your token using one of these methods:

1. Store it in the system keyring:
   notion-exporter auth login

2. Environment variable:
   export NOTION_TOKEN='your_token_here'

3. Create ~/.ssh/secret.env with:
   NOTION_TOKEN=your_token_here

To get a token:
1. Go to https://www.notion.com/my-integrations
2. Create a new integration
3. Copy the 'Internal Integration Secret'
4. Share your pages with the integration`)

	// ErrTokenInvalid flags tokens that fail the basic format check
	ErrTokenInvalid = errors.New(`The Notion token appears to be invalid.
Tokens should start with 'secret_' or 'ntn_' and be quite long.
Please check your token and try again.`)
)

// Config carries the settings of one run, assembled by the CLI from flags,
// the config file and the environment
type Config struct {
	Token            string
	OutputDir        string
	PageID           string
	DryRun           bool
	Verbose          bool
	IncludeDatabases bool
	MaxDepth         int
	MaxRows          int
}

// File holds defaults read from the optional config file
type File struct {
	OutputDir        string `yaml:"output"`
	MaxDepth         int    `yaml:"max_depth"`
	MaxRows          int    `yaml:"max_rows"`
	IncludeDatabases bool   `yaml:"include_databases"`
	Verbose          bool   `yaml:"verbose"`
}

// LoadFile reads ~/.config/notion-exporter/config.yaml. A missing file
// yields zero values, not an error.
func LoadFile() (*File, error) {
	return loadFile(defaultConfigPath())
}

func loadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &File{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &f, nil
}

// Token resolves the API token. Precedence: the explicit value, the
// NOTION_TOKEN environment variable, the OS keyring, then NOTION_TOKEN in
// ~/.ssh/secret.env.
func Token(explicit string) (string, error) {
	return resolveToken(explicit, keyringToken, secretFilePath())
}

func resolveToken(explicit string, fromKeyring func() (string, error), secretFile string) (string, error) {
	if explicit != "" {
		return validated(explicit)
	}
	if token := os.Getenv("NOTION_TOKEN"); token != "" {
		return validated(token)
	}
	if token, err := fromKeyring(); err == nil && token != "" {
		return validated(token)
	}
	if token := fileToken(secretFile); token != "" {
		return validated(token)
	}
	return "", ErrTokenNotFound
}

// Validate reports whether a token looks like a real integration secret
func Validate(token string) bool {
	if len(token) < 20 {
		return false
	}
	for _, prefix := range validTokenPrefixes {
		if strings.HasPrefix(token, prefix) {
			return true
		}
	}
	return false
}

func validated(token string) (string, error) {
	if !Validate(token) {
		return "", ErrTokenInvalid
	}
	return token, nil
}

// StoreToken saves the token in the system keyring
func StoreToken(token string) error {
	if !Validate(token) {
		return ErrTokenInvalid
	}

	ring, err := openKeyring()
	if err != nil {
		return fmt.Errorf("failed to open keyring: %w", err)
	}
	if err := ring.Set(keyring.Item{Key: keyringKey, Data: []byte(token)}); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

// DeleteToken removes the token from the system keyring. Deleting a token
// that was never stored is not an error.
func DeleteToken() error {
	ring, err := openKeyring()
	if err != nil {
		return fmt.Errorf("failed to open keyring: %w", err)
	}
	if err := ring.Remove(keyringKey); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	return nil
}

// HasStoredToken reports whether the keyring holds a token
func HasStoredToken() bool {
	token, err := keyringToken()
	return err == nil && token != ""
}

// StoredToken returns the token held in the system keyring
func StoredToken() (string, error) {
	return keyringToken()
}

func keyringToken() (string, error) {
	ring, err := openKeyring()
	if err != nil {
		return "", err
	}
	item, err := ring.Get(keyringKey)
	if err != nil {
		return "", err
	}
	return string(item.Data), nil
}

func openKeyring() (keyring.Keyring, error) {
	return keyring.Open(keyring.Config{ServiceName: KeyringService})
}

func fileToken(path string) string {
	if path == "" {
		return ""
	}
	env, err := godotenv.Read(path)
	if err != nil {
		return ""
	}
	return env["NOTION_TOKEN"]
}

func secretFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ssh", "secret.env")
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "notion-exporter", "config.yaml")
}
