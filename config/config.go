// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

// Package config loads and validates signer settings: which network extended
// keys are encoded for, the log level, and whether signatures are ground to
// low-R. Settings live in a plain "key = value" file.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bitfsorg/libtxsign-go/tx"
	"github.com/bitfsorg/libtxsign-go/wallet"
)

const (
	// DefaultDirName is the name of the data directory under the user's
	// home directory.
	DefaultDirName = ".txsign"

	// ConfigFileName is the name of the config file inside the data
	// directory.
	ConfigFileName = "config"
)

// Config holds the signer settings.
type Config struct {
	// Network is "mainnet", "testnet" or "regtest".
	Network string

	// LogLevel is any btclog level name.
	LogLevel string

	// GrindR enables low-R signature grinding.
	GrindR bool
}

// DefaultConfig returns the settings used when no file is present.
func DefaultConfig() Config {
	return Config{
		Network:  wallet.MainNet.Name,
		LogLevel: "info",
		GrindR:   true,
	}
}

// DefaultDataDir returns ~/.txsign, or .txsign in the working directory if
// the home directory cannot be determined.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultDirName
	}
	return filepath.Join(home, DefaultDirName)
}

// ConfigPath returns the config file path inside dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, ConfigFileName)
}

// LoadConfig reads the config file at path. Keys missing from the file keep
// their default values; unknown keys are ignored.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return cfg, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := parseKeyValue(line)
		if !ok {
			return cfg, fmt.Errorf("%w: line %d: %q", ErrInvalidConfigLine, lineNum, line)
		}

		switch key {
		case "network":
			cfg.Network = value
		case "loglevel":
			cfg.LogLevel = value
		case "grindr":
			grind, err := strconv.ParseBool(value)
			if err != nil {
				return cfg, fmt.Errorf("%w: line %d: grindr: %w",
					ErrInvalidConfigLine, lineNum, err)
			}
			cfg.GrindR = grind
		}
	}
	if err := scanner.Err(); err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes cfg to path, creating parent directories as needed.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("# Transaction signer configuration\n")
	b.WriteString("\n")
	fmt.Fprintf(&b, "network = %s\n", cfg.Network)
	fmt.Fprintf(&b, "loglevel = %s\n", cfg.LogLevel)
	fmt.Fprintf(&b, "grindr = %t\n", cfg.GrindR)

	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// WalletNetwork returns the wallet network named by cfg.Network.
func (cfg Config) WalletNetwork() (*wallet.Network, error) {
	network, err := wallet.GetNetwork(cfg.Network)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidNetwork, err)
	}
	return network, nil
}

// SignOptions returns the tx.Sign options selected by cfg.
func (cfg Config) SignOptions() []tx.SignOption {
	return []tx.SignOption{tx.WithGrindR(cfg.GrindR)}
}

// parseKeyValue splits "key = value" on the first '='. The key is
// lowercased.
func parseKeyValue(line string) (string, string, bool) {
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return "", "", false
	}
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return "", "", false
	}
	return key, strings.TrimSpace(value), true
}
