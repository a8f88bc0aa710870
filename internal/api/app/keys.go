package app

import (
	"fmt"
	"log/slog"

	"github.com/prometheusfi/prometheus/pkg/jwtx"
)

// InitKeys loads the access token signing key.
//
// With SigningKeyFile set, the key is read from disk and generated on first
// start, so tokens survive restarts. Without it the key lives in memory and
// every restart logs all users out.
func InitKeys(cfg Config, logger *slog.Logger) (*jwtx.KeyManager, error) {
	opts := jwtx.KeyManagerOptions{
		Issuer:   cfg.Issuer,
		Audience: []string{cfg.Audience},
	}

	if cfg.SigningKeyFile == "" {
		km, err := jwtx.NewEphemeralKeyManager(opts)
		if err != nil {
			return nil, fmt.Errorf("failed to generate ephemeral signing key: %w", err)
		}
		logger.Warn("using an ephemeral signing key, tokens will not survive a restart")
		return km, nil
	}

	km, err := jwtx.LoadOrGenerateKeyManager(cfg.SigningKeyFile, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load signing key: %w", err)
	}
	logger.Info("signing key loaded", "path", cfg.SigningKeyFile, "issuer", cfg.Issuer)
	return km, nil
}
