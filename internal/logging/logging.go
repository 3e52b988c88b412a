// Package logging constructs the process-wide zap logger. Full error
// details are logged here and only generic messages reach API clients.
package logging

import "go.uber.org/zap"

// New returns a production JSON logger, or a human-readable development
// logger when env is "dev".
func New(env string) (*zap.Logger, error) {
	if env == "dev" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
