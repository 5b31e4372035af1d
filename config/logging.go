// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"io"

	"github.com/btcsuite/btclog"

	"github.com/bitfsorg/libtxsign-go/tx"
	"github.com/bitfsorg/libtxsign-go/wallet"
)

// SubLoggers maps each library subsystem code to its logger.
type SubLoggers map[string]btclog.Logger

// NewLogger creates a btclog backend writing to w and one logger per library
// subsystem at cfg.LogLevel, then installs them with each package's
// UseLogger. Call it once at startup.
func NewLogger(cfg Config, w io.Writer) (SubLoggers, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	backend := btclog.NewBackend(w)
	loggers := SubLoggers{
		tx.Subsystem:     backend.Logger(tx.Subsystem),
		wallet.Subsystem: backend.Logger(wallet.Subsystem),
	}
	if err := loggers.SetLevel(cfg.LogLevel); err != nil {
		return nil, err
	}

	tx.UseLogger(loggers[tx.Subsystem])
	wallet.UseLogger(loggers[wallet.Subsystem])

	return loggers, nil
}

// SetLevel sets every subsystem logger to level.
func (s SubLoggers) SetLevel(level string) error {
	lvl, ok := btclog.LevelFromString(level)
	if !ok {
		return ErrInvalidLogLevel
	}
	for _, logger := range s {
		logger.SetLevel(lvl)
	}
	return nil
}
