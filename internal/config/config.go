// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

// Package config loads the command line tool's startup configuration.
//
// The file is TOML, at ~/.oxicrypt.toml unless overridden.  A missing file
// is not an error.  Environment variables override the file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"gitlab.com/yawning/oxicrypt.git"
	"gitlab.com/yawning/oxicrypt.git/digest"
)

// Environment variables that override the file.
const (
	EnvAESBackend    = "OXICRYPT_AES_BACKEND"
	EnvDigestBackend = "OXICRYPT_DIGEST_BACKEND"
	EnvAlgorithm     = "OXICRYPT_ALGORITHM"
)

// FileName is the default configuration file name, under the home directory.
const FileName = ".oxicrypt.toml"

// Config is the tool configuration.
type Config struct {
	Backends BackendsConfig `toml:"backends"`
	Digest   DigestConfig   `toml:"digest"`
}

// BackendsConfig selects the process default backends.  Empty or "auto"
// means the fastest backend the CPU supports.
type BackendsConfig struct {
	AES    string `toml:"aes"`
	Digest string `toml:"digest"`
}

// DigestConfig holds digest and hmac command defaults.
type DigestConfig struct {
	Algorithm string `toml:"algorithm"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Backends: BackendsConfig{
			AES:    oxicrypt.Auto.String(),
			Digest: oxicrypt.Auto.String(),
		},
		Digest: DigestConfig{
			Algorithm: digest.SHA256.String(),
		},
	}
}

// DefaultPath returns the default configuration file path.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, FileName), nil
}

// Load reads the configuration from path, or from DefaultPath if path is
// empty, then applies the environment overrides and validates the result.
// Only an explicitly requested path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		err := LoadTOML(cfg, path)
		switch {
		case err == nil:
		case !explicit && errors.Is(err, os.ErrNotExist):
		default:
			return nil, err
		}
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// LoadTOML decodes the TOML file at path over cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file %s: %w", path, err)
	}
	return nil
}

// ApplyEnvOverrides applies the OXICRYPT_* environment variables.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv(EnvAESBackend); v != "" {
		c.Backends.AES = v
	}
	if v := os.Getenv(EnvDigestBackend); v != "" {
		c.Backends.Digest = v
	}
	if v := os.Getenv(EnvAlgorithm); v != "" {
		c.Digest.Algorithm = v
	}
}

// Validate checks that every name parses.  Availability on the running CPU
// is checked by oxicrypt.Configure.
func (c *Config) Validate() error {
	if _, err := c.Defaults(); err != nil {
		return err
	}
	if _, err := c.Algorithm(); err != nil {
		return err
	}
	return nil
}

// Defaults returns the process defaults described by the configuration.
func (c *Config) Defaults() (oxicrypt.Defaults, error) {
	var (
		d   oxicrypt.Defaults
		err error
	)
	if d.AES, err = oxicrypt.ParseBackend(c.Backends.AES); err != nil {
		return d, fmt.Errorf("backends.aes: %w", err)
	}
	if d.Digest, err = oxicrypt.ParseBackend(c.Backends.Digest); err != nil {
		return d, fmt.Errorf("backends.digest: %w", err)
	}
	return d, nil
}

// Algorithm returns the default digest algorithm.
func (c *Config) Algorithm() (digest.Algorithm, error) {
	alg, err := digest.ParseAlgorithm(c.Digest.Algorithm)
	if err != nil {
		return 0, fmt.Errorf("digest.algorithm: %w", err)
	}
	return alg, nil
}

// Encode writes the configuration as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
