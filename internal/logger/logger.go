package logger

import (
	"go.uber.org/zap"
)

// NewNamed builds a zap logger for the given environment and names it after
// the service. Production gets JSON output, everything else the development
// console encoder.
func NewNamed(env, service string) (*zap.Logger, error) {
	var (
		log *zap.Logger
		err error
	)
	if env == "production" {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	return log.Named(service), nil
}
