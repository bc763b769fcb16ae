package logger

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/codon-quiz-bot/internal/config"
)

// New builds a JSON production logger for the production env and a
// human-readable development logger otherwise.
func New(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}

	return zap.NewDevelopment()
}

// NewFile builds a logger that writes only to path. The terminal UI owns
// stdout and stderr, so an empty path yields a no-op logger.
func NewFile(cfg *config.Config, path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}

	zcfg := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.OutputPaths = []string{path}
	zcfg.ErrorOutputPaths = []string{path}

	lg, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build file logger: %w", err)
	}
	return lg, nil
}
