package config

import "go.uber.org/zap"

func NewLogger(cfg Config) (*zap.Logger, error) {
	if cfg.Production() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
