// Package logging builds the ectologger.Logger used across corpmatch from
// config.Config's LogLevel/PrettyLogs settings.
package logging

import (
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Ramsey-B/corpmatch/config"
)

// New builds an ectologger.Logger backed by zap, honoring cfg.LogLevel and
// cfg.PrettyLogs (console encoder vs. JSON production encoder).
func New(cfg *config.Config) (ectologger.Logger, error) {
	var zapCfg zap.Config
	if cfg.PrettyLogs {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logging: parse log level %q: %w", cfg.LogLevel, err)
	}
	zapCfg.Level.SetLevel(level)

	zapLogger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build zap logger: %w", err)
	}
	zap.ReplaceGlobals(zapLogger)

	return zapadapter.NewZapEctoLogger(zapLogger, nil), nil
}
