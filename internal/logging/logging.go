package logging

import "go.uber.org/zap"

// New は環境に応じたzapロガーを返す（dev: consoleで人間向け、prod: JSON）
func New(env string) (*zap.Logger, error) {
	if env == "prod" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
