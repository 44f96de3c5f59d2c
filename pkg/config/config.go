// Package config loads and validates the hamal configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/invopop/jsonschema"

	_ "embed"
)

//go:generate go run ../../internal/schemagen/main.go -o config.v1beta1.json

var (
	//go:embed config.yaml
	defaultConfigYAML []byte

	//go:embed config.v1beta1.json
	schemaJSON []byte

	// ValidAPIVersions contains the accepted apiVersion values.
	ValidAPIVersions = []string{
		"hamal.macropower.dev/v1beta1",
	}
	// ValidKinds contains the accepted kind values.
	ValidKinds = []string{
		"Configuration",
	}

	// DefaultValidator validates configuration against the JSON schema.
	DefaultValidator = MustNewValidator("/config.v1beta1.json", schemaJSON)

	ErrMissingCredentials = errors.New("missing credentials")
	ErrInvalidTimeout     = errors.New("invalid timeout")
)

// Config is the top-level hamal configuration.
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type Config struct {
	// Auth holds the HamAlert account credentials.
	Auth *Auth `json:"auth" jsonschema:"title=Authentication"`
	// Server holds optional HamAlert endpoint settings.
	Server *Server `json:"server,omitempty" jsonschema:"title=Server"`
	// APIVersion specifies the API version for this configuration.
	APIVersion string `json:"apiVersion" jsonschema:"title=API Version"`
	// Kind defines the type of configuration.
	Kind string `json:"kind" jsonschema:"title=Kind"`
}

// Auth holds HamAlert account credentials.
type Auth struct {
	// Username is the HamAlert account name, usually a callsign.
	Username string `json:"username" jsonschema:"title=Username"`
	// Password is the HamAlert account password.
	Password string `json:"password" jsonschema:"title=Password"`
}

// Server holds HamAlert endpoint settings.
type Server struct {
	// BaseURL overrides the hosted HamAlert endpoint.
	BaseURL string `json:"baseURL,omitempty" jsonschema:"title=Base URL,format=uri"`
	// Timeout is the per-request timeout, as a Go duration string.
	Timeout string `json:"timeout,omitempty" jsonschema:"title=Timeout,example=30s"`
}

// NewConfig creates a [Config] with default values.
func NewConfig() *Config {
	c := &Config{
		APIVersion: "hamal.macropower.dev/v1beta1",
		Kind:       "Configuration",
	}
	c.EnsureDefaults()

	return c
}

// EnsureDefaults initializes nil fields to their default values.
func (c *Config) EnsureDefaults() {
	if c.Auth == nil {
		c.Auth = &Auth{}
	}

	if c.Server == nil {
		c.Server = &Server{}
	}
}

// Validate checks requirements that the schema cannot express.
func (c *Config) Validate() error {
	if c.Auth == nil || c.Auth.Username == "" || c.Auth.Password == "" {
		return fmt.Errorf("%w: set auth.username and auth.password in the config file", ErrMissingCredentials)
	}

	if c.Server != nil && c.Server.Timeout != "" {
		_, err := time.ParseDuration(c.Server.Timeout)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidTimeout, err)
		}
	}

	return nil
}

// RequestTimeout returns the configured per-request timeout, or zero when
// unset. Call [Config.Validate] first; an unparsable value reads as zero.
func (c *Config) RequestTimeout() time.Duration {
	if c.Server == nil || c.Server.Timeout == "" {
		return 0
	}

	d, err := time.ParseDuration(c.Server.Timeout)
	if err != nil {
		return 0
	}

	return d
}

func (c Config) JSONSchemaExtend(jss *jsonschema.Schema) {
	apiVersion, ok := jss.Properties.Get("apiVersion")
	if !ok {
		panic("apiVersion property not found in schema")
	}

	for _, version := range ValidAPIVersions {
		apiVersion.OneOf = append(apiVersion.OneOf, &jsonschema.Schema{
			Type:  "string",
			Const: version,
			Title: "API Version",
		})
	}

	_, _ = jss.Properties.Set("apiVersion", apiVersion)

	kind, ok := jss.Properties.Get("kind")
	if !ok {
		panic("kind property not found in schema")
	}

	for _, kindValue := range ValidKinds {
		kind.OneOf = append(kind.OneOf, &jsonschema.Schema{
			Type:  "string",
			Const: kindValue,
			Title: "Kind",
		})
	}

	_, _ = jss.Properties.Set("kind", kind)
}

// Loader loads and validates configuration files.
type Loader struct {
	cv   *Validator
	data []byte
}

// NewLoaderFromBytes creates a [Loader] from byte data.
func NewLoaderFromBytes(data []byte) *Loader {
	return &Loader{
		cv:   DefaultValidator,
		data: data,
	}
}

// NewLoaderFromFile creates a [Loader] from a file path.
func NewLoaderFromFile(path string) (*Loader, error) {
	data, err := readConfig(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	return NewLoaderFromBytes(data), nil
}

// Validate validates the configuration data against the JSON schema without
// loading it into a [Config].
func (l *Loader) Validate() error {
	var anyConfig any

	err := yaml.NewDecoder(bytes.NewReader(l.data)).Decode(&anyConfig)
	if err != nil {
		return fmt.Errorf("decode config: %w", err)
	}

	err = l.cv.Validate(anyConfig)
	if err != nil {
		return err
	}

	return nil
}

// Load parses and returns the [Config].
func (l *Loader) Load() (*Config, error) {
	c := &Config{}

	err := yaml.NewDecoder(bytes.NewReader(l.data)).Decode(c)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	c.EnsureDefaults()

	err = c.Validate()
	if err != nil {
		return nil, err
	}

	return c, nil
}

// WriteDefaultConfig writes the embedded default config.yaml and its JSON
// schema to the specified path.
func WriteDefaultConfig(path string, force bool) error {
	configExists := false

	pathInfo, err := os.Stat(path)
	if pathInfo != nil {
		switch {
		case err == nil && pathInfo.Mode().IsRegular():
			configExists = true
		case pathInfo.IsDir():
			return fmt.Errorf("%s: path is a directory", path)
		default:
			return fmt.Errorf("%s: unknown file state", path)
		}
	}

	err = os.MkdirAll(filepath.Dir(path), 0o700)
	if err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	if configExists && force {
		backupFile := fmt.Sprintf("%s.%d.old", filepath.Base(path), time.Now().UnixNano())
		backupPath := filepath.Join(filepath.Dir(path), backupFile)
		slog.Info("backing up existing config file", slog.String("path", backupPath))

		err = os.Rename(path, backupPath)
		if err != nil {
			return fmt.Errorf("rename existing config file to backup: %w", err)
		}

		configExists = false
	}

	if !configExists {
		slog.Info("write default configuration", slog.String("path", path))

		err = os.WriteFile(path, defaultConfigYAML, 0o600)
		if err != nil {
			return fmt.Errorf("write config file: %w", err)
		}
	} else {
		slog.Debug("configuration file already exists, skipping write", slog.String("path", path))
	}

	schemaPath := filepath.Join(filepath.Dir(path), "config.v1beta1.json")

	err = os.WriteFile(schemaPath, schemaJSON, 0o600)
	if err != nil {
		return fmt.Errorf("write schema file: %w", err)
	}

	return nil
}

func readConfig(path string) ([]byte, error) {
	pathInfo, err := os.Stat(path)
	if pathInfo != nil {
		if err == nil && pathInfo.IsDir() {
			return nil, fmt.Errorf("%s: path is a directory", path)
		}
		if err == nil && !pathInfo.Mode().IsRegular() {
			return nil, fmt.Errorf("%s: unknown file state", path)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: Potential file inclusion via variable.
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}
